package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/abrezinsky/luckydraw/internal/app"
	"github.com/abrezinsky/luckydraw/internal/auth"
	"github.com/abrezinsky/luckydraw/internal/config"
	"github.com/abrezinsky/luckydraw/internal/engine"
	"github.com/abrezinsky/luckydraw/internal/logger"
)

var (
	version = "dev"
)

const usageText = `LuckyDraw - ladder and wheel prize draws

Usage:
  luckydraw [options]

Options:
%s
Every option can also be set through the environment as LUCKYDRAW_<NAME>,
for example LUCKYDRAW_PORT=8080 or LUCKYDRAW_ADMIN_PASSWORD=secret.

Keyboard Shortcuts (when enabled):
  a              Open admin page in browser
  h              Toggle HTTP request logging
  l              Cycle log level (debug → info → warn → error)
  q              Quit server
  ?              Show keyboard help

Examples:
  luckydraw                          # Run on port 8081 with luckydraw.db
  luckydraw -port 8080               # Run on port 8080
  luckydraw -db /data/draws.db       # Use custom database path
  luckydraw -static ./ui/dist        # Serve a front end build at /
  luckydraw -logjson -nokeyboard     # Run under a process supervisor

`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "luckydraw: %v\n", err)
		os.Exit(1)
	}
}

// parseConfig layers command-line flags over the environment
func parseConfig(args []string, stderr io.Writer) (config.Config, bool, error) {
	cfg, err := config.ParseEnv()
	if err != nil {
		return config.Config{}, false, err
	}

	fs := flag.NewFlagSet("luckydraw", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg.RegisterFlags(fs)
	showVersion := fs.Bool("version", false, "Show version and exit")
	fs.Usage = func() {
		var opts strings.Builder
		fs.SetOutput(&opts)
		fs.PrintDefaults()
		fs.SetOutput(stderr)
		fmt.Fprintf(stderr, usageText, opts.String())
	}

	if err := fs.Parse(args); err != nil {
		return config.Config{}, false, err
	}
	if *showVersion {
		return cfg, true, nil
	}
	return cfg, false, cfg.Validate()
}

func run(args []string, stdout io.Writer) error {
	cfg, showVersion, err := parseConfig(args, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	if showVersion {
		fmt.Fprintf(stdout, "luckydraw %s\n", version)
		return nil
	}

	interactive := !cfg.NoKeyboard && stdinIsTerminal()
	out := stdout
	if interactive {
		out = crlfWriter{w: stdout}
	}

	showBanner(stdout, cfg.NoAnimate, engine.NewSeededSource())

	appLog := logger.NewWithOptions(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		JSON:   cfg.LogJSON,
		Writer: out,
	})

	// Setup admin authentication
	password := cfg.AdminPassword
	if password == "" {
		password = auth.GeneratePassword()
	}
	adminAuth := auth.New(password)

	a, err := app.New(appLog, cfg, adminAuth)
	if err != nil {
		return fmt.Errorf("initialize application: %w", err)
	}
	defer a.Close()

	appLog.Info("Admin password", "password", password)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.Run(cfg.Addr())
	}()

	if interactive {
		keys := newShortcuts(fmt.Sprintf("http://localhost:%d/", cfg.Port), appLog, out, stop)
		restore, err := listenForKeyboard(keys)
		defer restore()
		if err != nil {
			appLog.Warn("Keyboard shortcuts unavailable", "error", err)
		} else {
			printKeyboardHelp(out)
		}
	} else if !cfg.NoKeyboard {
		appLog.Debug("Stdin is not a terminal, keyboard shortcuts disabled")
	}

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		appLog.Info("Shutting down")
		a.Close()
		return <-serverErr
	}
}
