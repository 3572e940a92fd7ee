package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/luckydraw/internal/auth"
	"github.com/abrezinsky/luckydraw/internal/config"
	"github.com/abrezinsky/luckydraw/internal/engine"
	"github.com/abrezinsky/luckydraw/internal/handlers"
	"github.com/abrezinsky/luckydraw/internal/logger"
	"github.com/abrezinsky/luckydraw/internal/metrics"
	"github.com/abrezinsky/luckydraw/internal/repository"
	"github.com/abrezinsky/luckydraw/internal/services"
	"github.com/abrezinsky/luckydraw/internal/websocket"
)

// App holds all application dependencies
type App struct {
	log        logger.Logger
	cfg        config.Config
	handlers   *handlers.Handlers
	repo       *repository.Repository
	settings   *services.SettingsService
	games      *services.GameService
	cancelLoop context.CancelFunc

	mu     sync.Mutex
	server *http.Server
	closed bool
}

// New opens the database and wires services, hub and handlers. The animation
// loop starts immediately and runs until Close.
func New(log logger.Logger, cfg config.Config, adminAuth *auth.Auth) (*App, error) {
	repo, err := repository.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	var staticFS fs.FS
	if cfg.StaticDir != "" {
		info, err := os.Stat(cfg.StaticDir)
		if err != nil || !info.IsDir() {
			repo.Close()
			return nil, fmt.Errorf("static dir %q is not a directory", cfg.StaticDir)
		}
		staticFS = os.DirFS(cfg.StaticDir)
	}

	var rng engine.RandomSource
	if cfg.Seed != 0 {
		rng = engine.NewRandomSource(cfg.Seed)
	} else {
		rng = engine.NewSeededSource()
	}

	var recorder metrics.Recorder = metrics.Nop{}
	var metricsHandler http.Handler
	if cfg.Metrics {
		m := metrics.New(nil)
		recorder = m
		metricsHandler = m.Handler()
	}

	// Initialize services
	settingsService := services.NewSettingsService(log, repo)
	programService := services.NewProgramService(log, repo, rng)
	participantService := services.NewParticipantService(log, repo)
	gameService := services.NewGameService(log, repo, rng, recorder)
	shareService := services.NewShareService(log, repo, settingsService)

	// The hub both fans out game events and drives the game clock
	hub := websocket.New(log, gameService)
	programService.SetBroadcaster(hub)
	participantService.SetBroadcaster(hub)
	gameService.SetBroadcaster(hub)

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	go hub.RunAnimations(ctx, cfg.Tick)

	h := handlers.New(handlers.Services{
		Programs:     programService,
		Participants: participantService,
		Games:        gameService,
		Settings:     settingsService,
		Share:        shareService,
	}, staticFS, adminAuth, hub, metricsHandler, log)

	return &App{
		log:        log,
		cfg:        cfg,
		handlers:   h,
		repo:       repo,
		settings:   settingsService,
		games:      gameService,
		cancelLoop: cancel,
	}, nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Close cancels the background loops and shuts the server down before
// closing the database
func (a *App) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	server := a.server
	a.mu.Unlock()

	if a.cancelLoop != nil {
		a.cancelLoop()
	}
	if server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			a.log.Warn("Server shutdown", "error", err)
		}
	}
	if err := a.repo.Close(); err != nil {
		a.log.Warn("Closing database", "error", err)
	}
}

// Run starts the HTTP server and blocks until it stops. A clean shutdown
// through Close returns nil.
func (a *App) Run(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return a.Serve(ln)
}

// Serve runs the HTTP server on an existing listener
func (a *App) Serve(ln net.Listener) error {
	port := ln.Addr().(*net.TCPAddr).Port
	baseURL := fmt.Sprintf("http://%s:%d", getPreferredIP(realNetworkProvider{}), port)
	a.setDefaultBaseURL(baseURL)

	server := &http.Server{
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ln.Close()
	}
	a.server = server
	a.mu.Unlock()

	a.log.Info("Server starting", "url", baseURL)
	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// setDefaultBaseURL stores baseURL as the share link base unless one is
// configured already. A localhost base is replaced since phones scanning the
// QR code cannot reach it.
func (a *App) setDefaultBaseURL(baseURL string) {
	ctx := context.Background()
	existing, err := a.settings.GetBaseURL(ctx)
	if err != nil {
		a.log.Warn("Failed to read base_url", "error", err)
		return
	}

	if existing != "" && !isLocalURL(existing) {
		return
	}
	if err := a.settings.SetBaseURL(ctx, baseURL); err != nil {
		a.log.Warn("Failed to set default base_url", "error", err)
		return
	}
	a.log.Info("Default base URL set", "url", baseURL)
}

func isLocalURL(u string) bool {
	return strings.Contains(u, "://localhost") || strings.Contains(u, "://127.")
}

// networkInterface wraps net.Interface for testing
type networkInterface interface {
	Flags() net.Flags
	Addrs() ([]net.Addr, error)
}

type realInterface struct {
	iface net.Interface
}

func (r realInterface) Flags() net.Flags {
	return r.iface.Flags
}

func (r realInterface) Addrs() ([]net.Addr, error) {
	return r.iface.Addrs()
}

// networkProvider lists network interfaces
type networkProvider interface {
	Interfaces() ([]networkInterface, error)
}

type realNetworkProvider struct{}

func (realNetworkProvider) Interfaces() ([]networkInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	result := make([]networkInterface, len(ifaces))
	for i, iface := range ifaces {
		result[i] = realInterface{iface: iface}
	}
	return result, nil
}

// getPreferredIP returns the IPv4 address other devices on the LAN are most
// likely to reach: the first private address of an up, non-loopback
// interface, else the first public one, else "localhost".
func getPreferredIP(provider networkProvider) string {
	ifaces, err := provider.Interfaces()
	if err != nil {
		return "localhost"
	}

	var fallback net.IP
	for _, iface := range ifaces {
		flags := iface.Flags()
		if flags&net.FlagUp == 0 || flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			ip := addrIP(addr).To4()
			if ip == nil || ip.IsLoopback() || ip.IsLinkLocalUnicast() {
				continue
			}
			if ip.IsPrivate() {
				return ip.String()
			}
			if fallback == nil {
				fallback = ip
			}
		}
	}

	if fallback != nil {
		return fallback.String()
	}
	return "localhost"
}

func addrIP(addr net.Addr) net.IP {
	switch v := addr.(type) {
	case *net.IPNet:
		return v.IP
	case *net.IPAddr:
		return v.IP
	}
	return nil
}
