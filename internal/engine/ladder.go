package engine

import "fmt"

// DefaultLadderRows is the row count used by the ladder game.
const DefaultLadderRows = 25

// Rung placement thresholds on a single uniform draw.
const (
	horizontalThreshold = 0.55
	diagonalThreshold   = 0.25
)

// RungKind distinguishes straight and slanted rungs.
type RungKind int

const (
	Horizontal RungKind = iota
	Diagonal
)

func (k RungKind) String() string {
	switch k {
	case Horizontal:
		return "horizontal"
	case Diagonal:
		return "diagonal"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name in JSON and YAML.
func (k RungKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *RungKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "horizontal":
		*k = Horizontal
	case "diagonal":
		*k = Diagonal
	default:
		return fmt.Errorf("unknown rung kind %q", text)
	}
	return nil
}

// Rung swaps two adjacent tracks at a row.
//
// A horizontal rung anchored at Track joins Track and Track+1. A diagonal
// rung joins Track and Track+Dir; Dir is +1 or -1 and is zero for
// horizontal rungs.
type Rung struct {
	Row   int      `json:"row"`
	Track int      `json:"track"`
	Kind  RungKind `json:"kind"`
	Dir   int      `json:"dir,omitempty"`
}

// Tracks returns the two tracks the rung joins, lowest first.
func (r Rung) Tracks() (int, int) {
	if r.Kind == Diagonal && r.Dir < 0 {
		return r.Track - 1, r.Track
	}
	return r.Track, r.Track + 1
}

// Topology is the full rung set of one ladder.
type Topology struct {
	Tracks int    `json:"tracks"`
	Rows   int    `json:"rows"`
	Rungs  []Rung `json:"rungs"`
}

// Validate reports a rung that leaves the ladder or shares a track with
// another rung in the same row.
func (t Topology) Validate() error {
	used := make(map[[2]int]Rung)
	for _, r := range t.Rungs {
		lo, hi := r.Tracks()
		if lo < 0 || hi >= t.Tracks {
			return fmt.Errorf("rung %+v outside tracks 0..%d", r, t.Tracks-1)
		}
		if r.Row < 1 || r.Row > t.Rows {
			return fmt.Errorf("rung %+v outside rows 1..%d", r, t.Rows)
		}
		for _, tr := range []int{lo, hi} {
			key := [2]int{r.Row, tr}
			if other, ok := used[key]; ok {
				return fmt.Errorf("rungs %+v and %+v share track %d", other, r, tr)
			}
			used[key] = r
		}
	}
	return nil
}

// rowPlan tracks placements within one row.
type rowPlan struct {
	byAnchor map[int]Rung
	taken    []bool
}

func newRowPlan(tracks int) *rowPlan {
	return &rowPlan{byAnchor: make(map[int]Rung), taken: make([]bool, tracks)}
}

// conflicts rejects a rung next to an existing anchor (which covers diagonals
// sloping into the gap) or touching a track already joined in this row.
func (p *rowPlan) conflicts(r Rung) bool {
	if _, ok := p.byAnchor[r.Track-1]; ok {
		return true
	}
	if _, ok := p.byAnchor[r.Track+1]; ok {
		return true
	}
	lo, hi := r.Tracks()
	return p.taken[lo] || p.taken[hi]
}

func (p *rowPlan) place(r Rung) {
	lo, hi := r.Tracks()
	p.byAnchor[r.Track] = r
	p.taken[lo] = true
	p.taken[hi] = true
}

// GenerateLadder builds a random topology for trackCount tracks.
//
// Rungs go on rows 1..rows-1 so the last row always descends straight into
// the outcome labels. Each row visits the gaps in a fresh random order.
// Fewer than two tracks or rows yields an empty topology.
func GenerateLadder(trackCount, rows int, rng RandomSource) Topology {
	topo := Topology{Tracks: trackCount, Rows: rows}
	if trackCount < 2 || rows < 1 {
		return topo
	}

	gaps := make([]int, trackCount-1)
	for row := 1; row < rows; row++ {
		for i := range gaps {
			gaps[i] = i
		}
		shuffleInts(rng, gaps)

		plan := newRowPlan(trackCount)
		for _, c := range gaps {
			u := rng.Float64()
			var r Rung
			switch {
			case u > horizontalThreshold:
				r = Rung{Row: row, Track: c, Kind: Horizontal}
			case u > diagonalThreshold:
				dir := -1
				if rng.Float64() > 0.5 {
					dir = 1
				}
				if c+dir < 0 || c+dir > trackCount-1 {
					continue
				}
				r = Rung{Row: row, Track: c, Kind: Diagonal, Dir: dir}
			default:
				continue
			}
			if plan.conflicts(r) {
				continue
			}
			plan.place(r)
			topo.Rungs = append(topo.Rungs, r)
		}
	}
	return topo
}
