package engine

import "math"

// SegmentKind labels a path segment for the renderer.
type SegmentKind string

const (
	SegmentVertical   SegmentKind = "vertical"
	SegmentHorizontal SegmentKind = "horizontal"
	SegmentDiagonal   SegmentKind = "diagonal"
)

// Point is a grid coordinate on the ladder.
type Point struct {
	Track float64 `json:"track"`
	Row   float64 `json:"row"`
}

// PathSegment is one straight move of a participant's path.
type PathSegment struct {
	From   Point       `json:"from"`
	To     Point       `json:"to"`
	Length float64     `json:"length"`
	Kind   SegmentKind `json:"kind"`
}

// ParticipantPath is the route from a start track to its end track.
type ParticipantPath struct {
	StartTrack  int           `json:"start_track"`
	EndTrack    int           `json:"end_track"`
	Segments    []PathSegment `json:"segments"`
	TotalLength float64       `json:"total_length"`
}

type rungKey struct{ row, track int }

// ResolvePaths traces every start track through the topology.
//
// The result is deterministic for a given topology, and because every rung
// swaps exactly two tracks the end tracks form a permutation of the starts.
func ResolvePaths(topo Topology) []ParticipantPath {
	if topo.Tracks <= 0 {
		return nil
	}
	rungs := make(map[rungKey]Rung, len(topo.Rungs))
	for _, r := range topo.Rungs {
		rungs[rungKey{r.Row, r.Track}] = r
	}

	paths := make([]ParticipantPath, topo.Tracks)
	for start := 0; start < topo.Tracks; start++ {
		paths[start] = tracePath(rungs, start, topo.Rows)
	}
	return paths
}

func tracePath(rungs map[rungKey]Rung, start, rows int) ParticipantPath {
	p := ParticipantPath{StartTrack: start}
	t := start
	for row := 1; row <= rows; row++ {
		next, ok := diagonalMove(rungs, row, t)
		if ok {
			p.add(PathSegment{
				From:   Point{float64(t), float64(row - 1)},
				To:     Point{float64(next), float64(row)},
				Length: math.Sqrt2,
				Kind:   SegmentDiagonal,
			})
			t = next
			continue
		}

		p.add(PathSegment{
			From:   Point{float64(t), float64(row - 1)},
			To:     Point{float64(t), float64(row)},
			Length: 1,
			Kind:   SegmentVertical,
		})
		if r, ok := rungs[rungKey{row, t}]; ok && r.Kind == Horizontal {
			next = t + 1
		} else if r, ok := rungs[rungKey{row, t - 1}]; ok && r.Kind == Horizontal {
			next = t - 1
		} else {
			continue
		}
		p.add(PathSegment{
			From:   Point{float64(t), float64(row)},
			To:     Point{float64(next), float64(row)},
			Length: 1,
			Kind:   SegmentHorizontal,
		})
		t = next
	}
	p.EndTrack = t
	return p
}

// diagonalMove checks, in order: a diagonal anchored at t, then a diagonal
// anchored on either neighbour that slopes into t.
func diagonalMove(rungs map[rungKey]Rung, row, t int) (int, bool) {
	if r, ok := rungs[rungKey{row, t}]; ok && r.Kind == Diagonal {
		return t + r.Dir, true
	}
	if r, ok := rungs[rungKey{row, t - 1}]; ok && r.Kind == Diagonal && r.Dir == 1 {
		return t - 1, true
	}
	if r, ok := rungs[rungKey{row, t + 1}]; ok && r.Kind == Diagonal && r.Dir == -1 {
		return t + 1, true
	}
	return t, false
}

func (p *ParticipantPath) add(s PathSegment) {
	p.Segments = append(p.Segments, s)
	p.TotalLength += s.Length
}

// PositionAt returns the point reached after progress length units.
// Progress at or beyond TotalLength yields the final point.
func (p ParticipantPath) PositionAt(progress float64) Point {
	if len(p.Segments) == 0 {
		return Point{Track: float64(p.StartTrack)}
	}
	if progress <= 0 {
		return p.Segments[0].From
	}
	for _, s := range p.Segments {
		if progress < s.Length {
			ratio := progress / s.Length
			return Point{
				Track: s.From.Track + (s.To.Track-s.From.Track)*ratio,
				Row:   s.From.Row + (s.To.Row-s.From.Row)*ratio,
			}
		}
		progress -= s.Length
	}
	return p.Segments[len(p.Segments)-1].To
}

// EndTracks maps each start track to its end track.
func EndTracks(paths []ParticipantPath) []int {
	out := make([]int, len(paths))
	for i, p := range paths {
		out[i] = p.EndTrack
	}
	return out
}
