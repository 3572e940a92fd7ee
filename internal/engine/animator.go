package engine

import (
	"errors"
	"fmt"
	"time"
)

// AnimationState is the lifecycle of one animated allocation.
type AnimationState int

const (
	StateIdle AnimationState = iota
	StateAnimating
	StateSettled
)

func (s AnimationState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAnimating:
		return "animating"
	case StateSettled:
		return "settled"
	default:
		return "unknown"
	}
}

func (s AnimationState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *AnimationState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle":
		*s = StateIdle
	case "animating":
		*s = StateAnimating
	case "settled":
		*s = StateSettled
	default:
		return fmt.Errorf("unknown animation state %q", text)
	}
	return nil
}

// ErrAnimating is returned when Start is called mid-animation.
var ErrAnimating = errors.New("animation already in progress")

// Frame is the animator's state after a tick.
type Frame struct {
	State    AnimationState `json:"state"`
	Progress float64        `json:"progress"`
	Target   float64        `json:"target"`
	// Settled is true only on the tick that committed Animating -> Settled.
	Settled bool `json:"settled"`
}

// Animator moves a value from a start to a target over a duration, one
// scheduling tick at a time.
//
// State only changes inside Tick. Tick never calls back into the owner; a
// caller that needs a completion notice reads Frame.Settled after Tick
// returns and sends it from there.
type Animator struct {
	state    AnimationState
	from     float64
	to       float64
	duration time.Duration
	elapsed  time.Duration
	skip     bool
}

// NewAnimator returns an idle animator.
func NewAnimator() *Animator {
	return &Animator{}
}

// Start begins animating from -> to over duration.
func (a *Animator) Start(from, to float64, duration time.Duration) error {
	if a.state == StateAnimating {
		return ErrAnimating
	}
	if duration < 0 {
		duration = 0
	}
	a.state = StateAnimating
	a.from = from
	a.to = to
	a.duration = duration
	a.elapsed = 0
	a.skip = false
	return nil
}

// Skip asks the next Tick to jump to the target.
func (a *Animator) Skip() {
	if a.state == StateAnimating {
		a.skip = true
	}
}

// State returns the current state.
func (a *Animator) State() AnimationState {
	return a.state
}

// Tick advances the animation by dt.
func (a *Animator) Tick(dt time.Duration) Frame {
	if a.state != StateAnimating {
		return a.frame(false)
	}
	a.elapsed += dt
	if a.skip || a.elapsed >= a.duration {
		a.elapsed = a.duration
		a.skip = false
		a.state = StateSettled
		return a.frame(true)
	}
	return a.frame(false)
}

func (a *Animator) progress() float64 {
	switch a.state {
	case StateIdle:
		return a.from
	case StateSettled:
		return a.to
	}
	if a.duration <= 0 {
		return a.to
	}
	ratio := float64(a.elapsed) / float64(a.duration)
	return a.from + (a.to-a.from)*ratio
}

func (a *Animator) frame(settled bool) Frame {
	return Frame{State: a.state, Progress: a.progress(), Target: a.to, Settled: settled}
}
