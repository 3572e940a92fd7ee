package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/abrezinsky/luckydraw/internal/browser"
	"github.com/abrezinsky/luckydraw/internal/logger"
)

// shortcuts dispatches single key presses from the console
type shortcuts struct {
	adminURL string
	log      logger.Logger
	out      io.Writer
	open     func(string) error
	quit     func()
}

func newShortcuts(adminURL string, log logger.Logger, out io.Writer, quit func()) *shortcuts {
	return &shortcuts{
		adminURL: adminURL,
		log:      log,
		out:      out,
		open:     browser.Open,
		quit:     quit,
	}
}

// handle runs the action bound to key. It returns false once the key asked
// the server to stop.
func (s *shortcuts) handle(key byte) bool {
	switch strings.ToLower(string(key)) {
	case "a":
		fmt.Fprintf(s.out, "%sOpening admin page in browser...%s\n", cyan, reset)
		if err := s.open(s.adminURL); err != nil {
			fmt.Fprintf(s.out, "%sError opening browser: %v%s\n", red, err, reset)
		}
	case "h":
		if s.log.IsHTTPLoggingEnabled() {
			s.log.DisableHTTPLogging()
			fmt.Fprintf(s.out, "%sHTTP logging disabled%s\n", yellow, reset)
		} else {
			s.log.EnableHTTPLogging()
			fmt.Fprintf(s.out, "%sHTTP logging enabled%s\n", green, reset)
		}
	case "l":
		next := logger.NextLevel(s.log.GetLevel())
		s.log.SetLevel(next)
		fmt.Fprintf(s.out, "%sLog level: %s%s%s\n", green, yellow, strings.ToLower(next.String()), reset)
	case "q", "\x03":
		fmt.Fprintf(s.out, "%sShutting down server...%s\n", yellow, reset)
		s.quit()
		return false
	case "?":
		printKeyboardHelp(s.out)
	}
	return true
}

// printKeyboardHelp displays all available keyboard shortcuts
func printKeyboardHelp(w io.Writer) {
	fmt.Fprintf(w, "\n%s%s  Keyboard shortcuts:%s\n", bold, green, reset)
	fmt.Fprintf(w, "    %sa%s      - Open admin page in browser\n", cyan, reset)
	fmt.Fprintf(w, "    %sh%s      - Toggle HTTP request logging\n", cyan, reset)
	fmt.Fprintf(w, "    %sl%s      - Cycle log level (debug → info → warn → error)\n", cyan, reset)
	fmt.Fprintf(w, "    %sq%s      - Quit server\n", cyan, reset)
	fmt.Fprintf(w, "    %s?%s      - Show this help\n\n", cyan, reset)
}

// crlfWriter turns \n into \r\n, since raw mode disables output processing
type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}

// stdinIsTerminal reports whether key presses can be read from stdin
func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// listenForKeyboard puts stdin in raw mode and feeds key presses to s until
// a quit key arrives or stdin closes. The returned func restores the terminal
// and is safe to call more than once.
func listenForKeyboard(s *shortcuts) (restore func(), err error) {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return func() {}, err
	}

	var once sync.Once
	restore = func() {
		once.Do(func() { term.Restore(fd, oldState) })
	}

	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				return
			}
			if n == 0 {
				continue
			}
			if !s.handle(buf[0]) {
				return
			}
		}
	}()
	return restore, nil
}
