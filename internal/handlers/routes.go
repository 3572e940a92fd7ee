package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", h.handleHealth)

	if h.Hub != nil {
		r.Get("/ws", h.Hub.ServeWs)
	}
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics)
	}

	// Auth (public)
	r.Post("/api/login", h.handleLogin)
	r.Post("/api/logout", h.handleLogout)
	r.Get("/api/session", h.handleSession)

	// Programs (public, read only)
	r.Get("/api/programs", h.handleListPrograms)
	r.Get("/api/programs/{id}", h.handleGetProgram)
	r.Get("/api/programs/{id}/participants", h.handleListParticipants)
	r.Get("/api/programs/{id}/exclusions", h.handleListExclusions)
	r.Get("/api/programs/{id}/history", h.handleGetHistory)
	r.Get("/api/programs/{id}/labels", h.handleGetLabels)
	r.Get("/api/programs/{id}/ladder", h.handleGetLadder)
	r.Get("/api/programs/{id}/game", h.handleGetGame)
	r.Get("/api/programs/{id}/share", h.handleGetShareURL)
	r.Get("/api/programs/{id}/qr", h.handleGetQRImage)

	// Admin API (protected)
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireAuthAPI)

		// Programs
		r.Post("/api/programs", h.handleCreateProgram)
		r.Post("/api/programs/import", h.handleImportProgram)
		r.Put("/api/programs/{id}", h.handleRenameProgram)
		r.Delete("/api/programs/{id}", h.handleDeleteProgram)
		r.Post("/api/programs/{id}/reset", h.handleResetProgram)
		r.Put("/api/programs/{id}/settings", h.handleUpdateProgramSettings)
		r.Get("/api/programs/{id}/export", h.handleExportProgram)
		r.Put("/api/programs/{id}/labels", h.handleSetLabels)
		r.Delete("/api/programs/{id}/history", h.handleClearHistory)

		// Participants & exclusions
		r.Post("/api/programs/{id}/participants", h.handleAddParticipants)
		r.Put("/api/programs/{id}/participants/{participantID}", h.handleUpdateParticipant)
		r.Delete("/api/programs/{id}/participants/{participantID}", h.handleRemoveParticipant)
		r.Post("/api/programs/{id}/exclusions", h.handleAddExclusion)
		r.Delete("/api/programs/{id}/exclusions/{name}", h.handleRemoveExclusion)

		// Games
		r.Post("/api/programs/{id}/draw", h.handleDraw)
		r.Post("/api/programs/{id}/spin", h.handleSpin)
		r.Post("/api/programs/{id}/ladder", h.handleBuildLadder)
		r.Post("/api/programs/{id}/ladder/trace", h.handleTraceLadder)
		r.Post("/api/programs/{id}/skip", h.handleSkip)

		// Settings & stats
		r.Get("/api/settings", h.handleGetSettings)
		r.Put("/api/settings", h.handleUpdateSettings)
		r.Get("/api/stats", h.handleGetStats)
	})

	// Front end build, when one is configured
	if h.staticServer != nil {
		r.Handle("/*", h.staticServer)
	}

	return r
}
