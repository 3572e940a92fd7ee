package repository

import (
	"context"

	"github.com/abrezinsky/luckydraw/internal/models"
)

// ProgramRepository defines program data operations
type ProgramRepository interface {
	ListPrograms(ctx context.Context) ([]models.Program, error)
	GetProgram(ctx context.Context, id int) (*models.Program, error)
	CreateProgram(ctx context.Context, p models.Program) (int64, error)
	UpdateProgramName(ctx context.Context, id int, name string) error
	UpdateProgramSettings(ctx context.Context, id int, draw models.DrawSettings, roulette models.RouletteSettings, config models.ProgramConfig) error
	DeleteProgram(ctx context.Context, id int) error
	ImportProgram(ctx context.Context, p models.Program, participants []models.Participant, exclusions, labels []string) (int64, error)
}

// ParticipantRepository defines participant and exclusion data operations
type ParticipantRepository interface {
	ListParticipants(ctx context.Context, programID int) ([]models.Participant, error)
	AddParticipant(ctx context.Context, programID int, name string, weight int) (models.Participant, error)
	UpdateParticipantWeight(ctx context.Context, programID int, id string, weight int) error
	RemoveParticipant(ctx context.Context, programID int, id string) error
	RemoveParticipants(ctx context.Context, programID int, ids []string) error
	ClearParticipants(ctx context.Context, programID int) error
	ListExclusions(ctx context.Context, programID int) ([]string, error)
	AddExclusion(ctx context.Context, programID int, name string) error
	RemoveExclusion(ctx context.Context, programID int, name string) error
	ClearExclusions(ctx context.Context, programID int) error
}

// LadderRepository defines ladder label data operations
type LadderRepository interface {
	ListLadderLabels(ctx context.Context, programID int) ([]string, error)
	SetLadderLabels(ctx context.Context, programID int, labels []string) error
}

// HistoryRepository defines history data operations
type HistoryRepository interface {
	ListHistory(ctx context.Context, programID int) ([]models.HistoryEntry, error)
	AddHistory(ctx context.Context, programID int, game string, names []string) error
	ClearHistory(ctx context.Context, programID int) error
}

// SettingsRepository defines settings data operations
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	ListSettings(ctx context.Context) (map[string]string, error)
	GetStats(ctx context.Context) (map[string]interface{}, error)
}

// FullRepository combines all repository interfaces
// Use this when a service needs access to multiple domains
type FullRepository interface {
	ProgramRepository
	ParticipantRepository
	LadderRepository
	HistoryRepository
	SettingsRepository
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
