package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnimator_RunsToSettled(t *testing.T) {
	a := NewAnimator()
	assert.Equal(t, StateIdle, a.State())

	require.NoError(t, a.Start(0, 10, time.Second))
	assert.Equal(t, StateAnimating, a.State())

	f := a.Tick(250 * time.Millisecond)
	assert.Equal(t, StateAnimating, f.State)
	assert.InDelta(t, 2.5, f.Progress, 1e-9)
	assert.False(t, f.Settled)

	settledCount := 0
	for i := 0; i < 10; i++ {
		if a.Tick(250 * time.Millisecond).Settled {
			settledCount++
		}
	}
	assert.Equal(t, 1, settledCount)
	assert.Equal(t, StateSettled, a.State())
	assert.Equal(t, 10.0, a.Tick(time.Second).Progress)
}

func TestAnimator_RejectsStartWhileAnimating(t *testing.T) {
	a := NewAnimator()
	require.NoError(t, a.Start(0, 1, time.Second))
	assert.ErrorIs(t, a.Start(0, 1, time.Second), ErrAnimating)

	a.Skip()
	a.Tick(0)
	assert.NoError(t, a.Start(1, 2, time.Second), "settled animator can restart")
}

func TestAnimator_SkipCommitsOnNextTick(t *testing.T) {
	a := NewAnimator()
	require.NoError(t, a.Start(0, 30, time.Hour))
	a.Skip()
	assert.Equal(t, StateAnimating, a.State(), "skip is only a request")

	f := a.Tick(0)
	assert.True(t, f.Settled)
	assert.Equal(t, 30.0, f.Progress)
}

func TestAnimator_ZeroDurationSettlesOnFirstTick(t *testing.T) {
	a := NewAnimator()
	require.NoError(t, a.Start(5, 6, 0))
	f := a.Tick(0)
	assert.True(t, f.Settled)
	assert.Equal(t, 6.0, f.Progress)
}

func TestAnimator_SkipWhenIdleIsIgnored(t *testing.T) {
	a := NewAnimator()
	a.Skip()
	f := a.Tick(time.Second)
	assert.Equal(t, StateIdle, f.State)
	assert.False(t, f.Settled)
}

func TestAnimationState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "animating", StateAnimating.String())
	assert.Equal(t, "settled", StateSettled.String())
	assert.Equal(t, "unknown", AnimationState(9).String())
}

func TestAnimationState_UnmarshalText(t *testing.T) {
	var s AnimationState
	require.NoError(t, s.UnmarshalText([]byte("settled")))
	assert.Equal(t, StateSettled, s)
	assert.Error(t, s.UnmarshalText([]byte("spinning")))
}
