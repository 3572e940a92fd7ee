// Package auth guards the admin API with one shared password. A successful
// login yields a token that is accepted as a cookie or a bearer header, so
// both the browser UI and scripted clients can drive draws.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	CookieName = "luckydraw_session"
	// SessionIdle is how long a token stays valid after its last use
	SessionIdle = 12 * time.Hour
)

// Words for generated admin passwords
var drawWords = []string{
	"lucky", "ticket", "wheel", "spin", "prize",
	"ladder", "clover", "jackpot", "token", "raffle",
	"winner", "draw", "coin", "star", "bingo",
	"dice", "charm", "bonus", "gold", "rung",
}

type session struct {
	expires time.Time
}

// Auth holds the admin password and live sessions
type Auth struct {
	password []byte
	mu       sync.Mutex
	sessions map[string]session
	now      func() time.Time
}

// New creates an Auth for password. An empty password locks the admin API.
func New(password string) *Auth {
	return &Auth{
		password: []byte(password),
		sessions: make(map[string]session),
		now:      time.Now,
	}
}

// GeneratePassword returns three random words joined by dashes
func GeneratePassword() string {
	words := make([]string, 3)
	for i := range words {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(drawWords))))
		if err != nil {
			panic(err)
		}
		words[i] = drawWords[n.Int64()]
	}
	return strings.Join(words, "-")
}

// Login checks password and opens a session. Expired sessions are swept on
// every successful login.
func (a *Auth) Login(password string) (token string, expires time.Time, ok bool) {
	if len(a.password) == 0 || subtle.ConstantTimeCompare([]byte(password), a.password) != 1 {
		return "", time.Time{}, false
	}

	token = rand.Text()
	now := a.now()
	expires = now.Add(SessionIdle)

	a.mu.Lock()
	defer a.mu.Unlock()
	for t, s := range a.sessions {
		if !now.Before(s.expires) {
			delete(a.sessions, t)
		}
	}
	a.sessions[token] = session{expires: expires}
	return token, expires, true
}

// Logout ends the session for token
func (a *Auth) Logout(token string) {
	a.mu.Lock()
	delete(a.sessions, token)
	a.mu.Unlock()
}

// ValidateSession reports whether token is live and, if so, pushes its
// expiry out by another idle period
func (a *Auth) ValidateSession(token string) bool {
	if token == "" {
		return false
	}
	now := a.now()

	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.sessions[token]
	if !ok {
		return false
	}
	if !now.Before(s.expires) {
		delete(a.sessions, token)
		return false
	}
	a.sessions[token] = session{expires: now.Add(SessionIdle)}
	return true
}

// SessionCount returns the number of stored sessions, expired ones included
func (a *Auth) SessionCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.sessions)
}

// TokenFromRequest returns the session token carried by r: the session cookie
// if present, else an "Authorization: Bearer" header.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if found && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}

// Authenticated reports whether r carries a live session
func (a *Auth) Authenticated(r *http.Request) bool {
	return a.ValidateSession(TokenFromRequest(r))
}

// RequireAuthAPI rejects requests without a live session with a JSON 401
func (a *Auth) RequireAuthAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Authenticated(r) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("WWW-Authenticate", `Bearer realm="luckydraw"`)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"code":"UNAUTHORIZED","error":"Unauthorized - please log in"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SetSessionCookie stores token in the session cookie
func SetSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie removes the session cookie
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
