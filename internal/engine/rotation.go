package engine

const (
	// DefaultFullTurns is how many whole turns a spin adds before landing.
	DefaultFullTurns = 10
	// PointerAngle is where the fixed pointer sits on the wheel, in degrees.
	PointerAngle = 270.0
)

// WheelSegment is the angular slice owned by one entry.
type WheelSegment struct {
	Start float64 `json:"start"`
	Width float64 `json:"width"`
}

// Center returns the segment's middle angle.
func (s WheelSegment) Center() float64 {
	return s.Start + s.Width/2
}

// WheelSegments lays entries around the wheel in their given order, each
// sized by its weight share.
func WheelSegments(entries []Entry) []WheelSegment {
	shares := Probabilities(entries)
	out := make([]WheelSegment, len(entries))
	start := 0.0
	for i, p := range shares {
		out[i] = WheelSegment{Start: start, Width: p * 360}
		start += out[i].Width
	}
	return out
}

// NextRotation returns the cumulative angle that spins the wheel fullTurns
// times past current and leaves the pointer on the winner's segment center.
// An out-of-range winningIndex returns current unchanged.
func NextRotation(current float64, entries []Entry, winningIndex int, fullTurns float64) float64 {
	if winningIndex < 0 || winningIndex >= len(entries) {
		return current
	}
	center := WheelSegments(entries)[winningIndex].Center()
	return current + fullTurns*360 + (PointerAngle - center)
}
