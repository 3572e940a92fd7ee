package handlers

import (
	"io/fs"
	"net/http"

	"github.com/abrezinsky/luckydraw/internal/auth"
	"github.com/abrezinsky/luckydraw/internal/services"
	"github.com/abrezinsky/luckydraw/internal/websocket"
)

// NewStaticServer creates a static file server from an fs.FS
func NewStaticServer(staticFS fs.FS) http.Handler {
	return http.FileServer(http.FS(staticFS))
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Programs     services.ProgramServicer
	Participants services.ParticipantServicer
	Games        services.GameServicer
	Settings     services.SettingsServicer
	Share        services.ShareServicer
	Auth         *auth.Auth
	Hub          *websocket.Hub
	Metrics      http.Handler // nil disables /metrics
	Log          HTTPLogger
	staticServer http.Handler
}

// HTTPLogger is an interface for loggers that support HTTP logging control
type HTTPLogger interface {
	IsHTTPLoggingEnabled() bool
}

// Services groups the service layer the handlers call into
type Services struct {
	Programs     services.ProgramServicer
	Participants services.ParticipantServicer
	Games        services.GameServicer
	Settings     services.SettingsServicer
	Share        services.ShareServicer
}

// New creates a new Handlers instance with all dependencies. A nil staticFS
// serves no front end.
func New(
	svc Services,
	staticFS fs.FS,
	adminAuth *auth.Auth,
	hub *websocket.Hub,
	metrics http.Handler,
	log HTTPLogger,
) *Handlers {
	h := &Handlers{
		Programs:     svc.Programs,
		Participants: svc.Participants,
		Games:        svc.Games,
		Settings:     svc.Settings,
		Share:        svc.Share,
		Auth:         adminAuth,
		Hub:          hub,
		Metrics:      metrics,
		Log:          log,
	}
	if staticFS != nil {
		h.staticServer = NewStaticServer(staticFS)
	}
	return h
}

// NoopHTTPLogger is a test logger that always returns false for HTTP logging
type NoopHTTPLogger struct{}

func (NoopHTTPLogger) IsHTTPLoggingEnabled() bool { return false }

// NewForTesting creates a Handlers instance with a known admin password
// ("test-password") and no hub, metrics or front end
func NewForTesting(svc Services) *Handlers {
	return New(svc, nil, auth.New("test-password"), nil, nil, NoopHTTPLogger{})
}
