package handlers

import (
	"time"

	"github.com/abrezinsky/luckydraw/internal/models"
	"github.com/abrezinsky/luckydraw/internal/services"
)

// HealthResponse reports that the server is up
type HealthResponse struct {
	Status  string `json:"status"`
	Clients int    `json:"clients"`
	Games   int    `json:"games"`
}

// LoginResponse carries the session token for clients that send it as a
// bearer header instead of the cookie
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionResponse reports whether the caller holds an admin session
type SessionResponse struct {
	Authenticated bool `json:"authenticated"`
}

// ProgramResponse is a program with its participant count
type ProgramResponse struct {
	models.Program
	ParticipantCount int `json:"participant_count"`
}

// ParticipantsAddedResponse lists the participants created by one request
type ParticipantsAddedResponse struct {
	Added []models.Participant `json:"added"`
}

// LabelsResponse carries a program's ladder outcome labels
type LabelsResponse struct {
	Labels []string `json:"labels"`
}

// GameResponse is the game state of a program: the running game if any,
// plus the wheel's current rotation
type GameResponse struct {
	ProgramID int                  `json:"program_id"`
	Active    bool                 `json:"active"`
	Rotation  float64              `json:"rotation"`
	Status    *services.GameStatus `json:"status,omitempty"`
}

// ShareResponse carries the public link to a program
type ShareResponse struct {
	URL string `json:"url"`
}

// SettingsResponse represents the application settings
type SettingsResponse struct {
	BaseURL string            `json:"base_url"`
	Values  map[string]string `json:"values"`
}
