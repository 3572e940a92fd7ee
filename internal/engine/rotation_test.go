package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWheelSegments(t *testing.T) {
	segs := WheelSegments(abc())
	assert.Equal(t, []WheelSegment{
		{Start: 0, Width: 90},
		{Start: 90, Width: 90},
		{Start: 180, Width: 180},
	}, segs)
	assert.Equal(t, 270.0, segs[2].Center())
}

func TestNextRotation_LandsOnSegmentCenter(t *testing.T) {
	tests := []struct {
		name    string
		current float64
		index   int
		want    float64
	}{
		{"first segment", 0, 0, 3600 + 270 - 45},
		{"second segment", 0, 1, 3600 + 270 - 135},
		{"third segment", 0, 2, 3600},
		{"continues from previous spin", 3825, 2, 7425},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextRotation(tt.current, abc(), tt.index, DefaultFullTurns)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestNextRotation_AlwaysAdvances(t *testing.T) {
	entries := make([]Entry, 7)
	for i := range entries {
		entries[i] = Entry{ID: string(rune('a' + i)), Weight: i*3 + 1}
	}
	const turns = 10.0
	rotation := 0.0
	rng := NewRandomSource(17)
	for i := 0; i < 500; i++ {
		idx := intn(rng, len(entries))
		next := NextRotation(rotation, entries, idx, turns)
		assert.GreaterOrEqual(t, next-rotation, turns*360-360)
		assert.Greater(t, next, rotation)
		rotation = next
	}
}

func TestNextRotation_InvalidIndex(t *testing.T) {
	assert.Equal(t, 42.0, NextRotation(42, abc(), 3, DefaultFullTurns))
	assert.Equal(t, 42.0, NextRotation(42, abc(), -1, DefaultFullTurns))
	assert.Equal(t, 42.0, NextRotation(42, nil, 0, DefaultFullTurns))
}
