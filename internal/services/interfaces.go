package services

import (
	"context"
	"time"

	"github.com/abrezinsky/luckydraw/internal/models"
)

// ProgramServicer defines the interface for program operations
type ProgramServicer interface {
	ListPrograms(ctx context.Context) ([]models.Program, error)
	GetProgram(ctx context.Context, id int) (*models.Program, error)
	CreateProgram(ctx context.Context, name string) (*models.Program, error)
	RenameProgram(ctx context.Context, id int, name string) error
	DeleteProgram(ctx context.Context, id int) error
	ResetProgram(ctx context.Context, id int) error
	UpdateSettings(ctx context.Context, id int, u SettingsUpdate) (*models.Program, error)
	LadderLabels(ctx context.Context, id int) ([]string, error)
	SetLadderLabels(ctx context.Context, id int, labels []string) ([]string, error)
	History(ctx context.Context, id int) ([]models.HistoryEntry, error)
	ClearHistory(ctx context.Context, id int) error
	Export(ctx context.Context, id int) ([]byte, error)
	Import(ctx context.Context, data []byte) (*models.Program, error)
	Stats(ctx context.Context) (map[string]interface{}, error)
	SetBroadcaster(b Broadcaster)
}

// ParticipantServicer defines the interface for participant and exclusion operations
type ParticipantServicer interface {
	ListParticipants(ctx context.Context, programID int) ([]models.Participant, error)
	AddParticipant(ctx context.Context, programID int, name string) (*models.Participant, error)
	AddParticipants(ctx context.Context, programID int, text string) ([]models.Participant, error)
	UpdateWeight(ctx context.Context, programID int, participantID string, weight int) error
	RemoveParticipant(ctx context.Context, programID int, participantID string) error
	ListExclusions(ctx context.Context, programID int) ([]string, error)
	AddExclusion(ctx context.Context, programID int, name string) error
	RemoveExclusion(ctx context.Context, programID int, name string) error
	SetBroadcaster(b Broadcaster)
}

// GameServicer defines the interface for running games
type GameServicer interface {
	Draw(ctx context.Context, programID int) (*DrawResult, error)
	Spin(ctx context.Context, programID int) (*SpinResult, error)
	Rotation(programID int) float64
	BuildLadder(ctx context.Context, programID int) (*LadderView, error)
	Ladder(ctx context.Context, programID int) (*LadderView, error)
	TraceLadder(ctx context.Context, programID, track int) (*TraceResult, error)
	Skip(programID int) error
	Step(ctx context.Context, dt time.Duration)
	Status(programID int) (*GameStatus, bool)
	ActiveGames() []GameStatus
	Forget(programID int)
	SetBroadcaster(b Broadcaster)
}

// SettingsServicer defines the interface for settings operations
type SettingsServicer interface {
	GetBaseURL(ctx context.Context) (string, error)
	SetBaseURL(ctx context.Context, baseURL string) error
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	AllSettings(ctx context.Context) (map[string]string, error)
	UpdateSettings(ctx context.Context, settings Settings) error
}

// ShareServicer defines the interface for share links and QR codes
type ShareServicer interface {
	ProgramURL(ctx context.Context, programID int) (string, error)
	ProgramQR(ctx context.Context, programID, size int) ([]byte, error)
}

// Ensure concrete types implement interfaces
var (
	_ ProgramServicer     = (*ProgramService)(nil)
	_ ParticipantServicer = (*ParticipantService)(nil)
	_ GameServicer        = (*GameService)(nil)
	_ SettingsServicer    = (*SettingsService)(nil)
	_ ShareServicer       = (*ShareService)(nil)
)
