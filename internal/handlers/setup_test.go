package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/abrezinsky/luckydraw/internal/auth"
	"github.com/abrezinsky/luckydraw/internal/engine"
	"github.com/abrezinsky/luckydraw/internal/handlers"
	"github.com/abrezinsky/luckydraw/internal/logger"
	"github.com/abrezinsky/luckydraw/internal/repository"
	"github.com/abrezinsky/luckydraw/internal/repository/mock"
	"github.com/abrezinsky/luckydraw/internal/services"
	"github.com/abrezinsky/luckydraw/internal/testutil"
)

type testSetup struct {
	repo       *repository.Repository
	handlers   *handlers.Handlers
	games      *services.GameService
	router     chi.Router
	authCookie *http.Cookie
}

func newServices(repo repository.FullRepository) (handlers.Services, *services.GameService) {
	log := logger.Discard()
	rng := engine.NewRandomSource(1)
	settings := services.NewSettingsService(log, repo)
	games := services.NewGameService(log, repo, rng, nil)
	return handlers.Services{
		Programs:     services.NewProgramService(log, repo, rng),
		Participants: services.NewParticipantService(log, repo),
		Games:        games,
		Settings:     settings,
		Share:        services.NewShareService(log, repo, settings),
	}, games
}

func setupWith(t *testing.T, realRepo *repository.Repository, repo repository.FullRepository) *testSetup {
	t.Helper()

	svc, games := newServices(repo)
	h := handlers.NewForTesting(svc)

	// Login to get a session cookie for authenticated requests
	token, _, ok := h.Auth.Login("test-password")
	if !ok {
		t.Fatal("login with the test password failed")
	}

	return &testSetup{
		repo:       realRepo,
		handlers:   h,
		games:      games,
		router:     h.Router(),
		authCookie: &http.Cookie{Name: auth.CookieName, Value: token},
	}
}

func newTestSetup(t *testing.T) *testSetup {
	t.Helper()
	repo := testutil.NewTestRepository(t)
	return setupWith(t, repo, repo)
}

func newTestSetupWithMockRepo(t *testing.T) (*testSetup, *mock.Repository) {
	t.Helper()
	realRepo := testutil.NewTestRepository(t)
	mockRepo := mock.NewRepository(realRepo)
	return setupWith(t, realRepo, mockRepo), mockRepo
}

// do sends a request through the router. A non-nil body is JSON encoded unless
// it is already a []byte.
func (ts *testSetup) do(method, path string, body interface{}, authed bool) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(b)
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.AddCookie(ts.authCookie)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func serve(h http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(target); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func expectCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	expectStatus(t, rec, status)
	var apiErr map[string]string
	decodeBody(t, rec, &apiErr)
	if apiErr["code"] != code {
		t.Errorf("expected code %s, got %v", code, apiErr)
	}
}
