package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/abrezinsky/luckydraw/internal/engine"
)

// ANSI escape codes
const (
	reset  = "\033[0m"
	yellow = "\033[33m"
	red    = "\033[31m"
	green  = "\033[32m"
	cyan   = "\033[36m"
	bold   = "\033[1m"
)

const bannerWidth = 44

var logo = []string{
	"",
	"        L  U  C  K  Y     D  R  A  W",
	"       ladder and wheel draws",
	"",
}

var bannerNames = []string{"ANN", "BOB", "CYD", "DEE"}

// showBanner prints the logo, followed by a small freshly generated ladder
// unless logoOnly is set
func showBanner(w io.Writer, logoOnly bool, rng engine.RandomSource) {
	border := strings.Repeat("═", bannerWidth+4)
	fmt.Fprintf(w, "\n  %s╔%s╗%s\n", cyan, border, reset)
	for _, line := range logo {
		fmt.Fprintf(w, "  %s║%s%-*s%s║%s\n", cyan, yellow, bannerWidth+4, line, cyan, reset)
	}
	fmt.Fprintf(w, "  %s╚%s╝%s\n", cyan, border, reset)

	if logoOnly {
		fmt.Fprintln(w)
		return
	}

	topo := engine.GenerateLadder(len(bannerNames), 6, rng)
	for _, line := range renderLadder(topo, bannerNames) {
		fmt.Fprintf(w, "      %s\n", line)
	}
	fmt.Fprintln(w)
}

// renderLadder draws topo as text: names on top, one line per row, and the
// name that lands on each track at the bottom. Tracks are four columns apart.
func renderLadder(topo engine.Topology, names []string) []string {
	const gap = 4
	width := (topo.Tracks-1)*gap + 1
	if topo.Tracks < 1 {
		return nil
	}

	var lines []string
	header := make([]byte, width+gap)
	for i := range header {
		header[i] = ' '
	}
	for t := 0; t < topo.Tracks && t < len(names); t++ {
		copy(header[t*gap:], names[t])
	}
	lines = append(lines, strings.TrimRight(string(header), " "))

	byRow := make(map[int][]engine.Rung)
	for _, r := range topo.Rungs {
		byRow[r.Row] = append(byRow[r.Row], r)
	}

	for row := 0; row < topo.Rows; row++ {
		line := []rune(strings.Repeat(" ", width))
		for t := 0; t < topo.Tracks; t++ {
			line[t*gap] = '│'
		}
		for _, r := range byRow[row] {
			lo, _ := r.Tracks()
			fill := '─'
			if r.Kind == engine.Diagonal {
				fill = '╲'
				if r.Dir < 0 {
					fill = '╱'
				}
			}
			for c := lo*gap + 1; c < (lo+1)*gap; c++ {
				line[c] = fill
			}
		}
		lines = append(lines, string(line))
	}

	footer := make([]byte, width+gap)
	for i := range footer {
		footer[i] = ' '
	}
	for _, p := range engine.ResolvePaths(topo) {
		if p.StartTrack < len(names) {
			copy(footer[p.EndTrack*gap:], names[p.StartTrack])
		}
	}
	lines = append(lines, strings.TrimRight(string(footer), " "))
	return lines
}
