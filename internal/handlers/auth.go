package handlers

import (
	"net/http"

	"github.com/abrezinsky/luckydraw/internal/auth"
)

// handleLogin exchanges the admin password for a session. The token is set as
// a cookie and also returned in the body.
func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	token, expires, ok := h.Auth.Login(req.Password)
	if !ok {
		respondError(w, Unauthorized("Invalid password"))
		return
	}

	auth.SetSessionCookie(w, token, expires)
	respondOK(w, LoginResponse{Token: token, ExpiresAt: expires})
}

// handleLogout ends the caller's session, whichever way it was sent
func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := auth.TokenFromRequest(r); token != "" {
		h.Auth.Logout(token)
	}

	auth.ClearSessionCookie(w)
	respondSuccess(w, "Logged out")
}

func (h *Handlers) handleSession(w http.ResponseWriter, r *http.Request) {
	respondOK(w, SessionResponse{Authenticated: h.Auth.Authenticated(r)})
}
