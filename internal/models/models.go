package models

import "time"

// Game names used in history, metrics and websocket payloads
const (
	GameDraw     = "draw"
	GameRoulette = "roulette"
	GameLadder   = "ladder"
)

// Spin speeds for the roulette
const (
	SpinFast   = "fast"
	SpinNormal = "normal"
	SpinSlow   = "slow"
)

// DrawSettings controls the weighted draw
type DrawSettings struct {
	DrawCount      int  `json:"draw_count" yaml:"draw_count"`
	AllowDuplicate bool `json:"allow_duplicate" yaml:"allow_duplicate"`
}

// RouletteSettings controls the wheel spin
type RouletteSettings struct {
	SpinSpeed    string  `json:"spin_speed" yaml:"spin_speed"`
	SpinDuration float64 `json:"spin_duration" yaml:"-"` // seconds, derived from SpinSpeed
}

// ProgramConfig holds the per-program behavior switches
type ProgramConfig struct {
	RemoveAfterDraw bool `json:"remove_after_draw" yaml:"remove_after_draw"`
	SkipAnimation   bool `json:"skip_animation" yaml:"skip_animation"`
	ShowProbability bool `json:"show_probability" yaml:"show_probability"`
	KeepHistory     bool `json:"keep_history" yaml:"keep_history"`
}

// Program is a named participant set with its game settings
type Program struct {
	ID           int              `json:"id"`
	Name         string           `json:"name"`
	ThumbnailURL string           `json:"thumbnail_url"`
	Draw         DrawSettings     `json:"draw_settings"`
	Roulette     RouletteSettings `json:"roulette_settings"`
	Config       ProgramConfig    `json:"config"`
	CreatedAt    time.Time        `json:"created_at"`
}

// Participant is one weighted entry of a program
type Participant struct {
	ID          string   `json:"id"`
	ProgramID   int      `json:"program_id"`
	Name        string   `json:"name"`
	Weight      int      `json:"weight"`
	Position    int      `json:"position"`
	Probability *float64 `json:"probability,omitempty"`
}

// HistoryEntry records one settled result
type HistoryEntry struct {
	ID        int       `json:"id"`
	ProgramID int       `json:"program_id"`
	Game      string    `json:"game"`
	Name      string    `json:"name"`
	DrawnAt   time.Time `json:"drawn_at"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
