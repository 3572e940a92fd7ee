package mock

import (
	"context"

	"github.com/abrezinsky/luckydraw/internal/models"
	"github.com/abrezinsky/luckydraw/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.ListParticipantsError = errors.New("database error")
//	svc := services.NewGameService(log, mockRepo, rng, metrics.Nop{})
//	_, err := svc.Draw(ctx, programID)
//	// err now wraps the injected error
type Repository struct {
	repository.FullRepository

	// ===== Program Errors =====
	ListProgramsError          error
	GetProgramError            error
	CreateProgramError         error
	UpdateProgramNameError     error
	UpdateProgramSettingsError error
	DeleteProgramError         error
	ImportProgramError         error

	// ===== Participant Errors =====
	ListParticipantsError        error
	AddParticipantError          error
	UpdateParticipantWeightError error
	RemoveParticipantError       error
	RemoveParticipantsError      error
	ClearParticipantsError       error
	ListExclusionsError          error
	AddExclusionError            error
	RemoveExclusionError         error
	ClearExclusionsError         error

	// ===== Ladder Errors =====
	ListLadderLabelsError error
	SetLadderLabelsError  error

	// ===== History Errors =====
	ListHistoryError  error
	AddHistoryError   error
	ClearHistoryError error

	// ===== Settings Errors =====
	GetSettingError   error
	SetSettingError   error
	ListSettingsError error
	GetStatsError     error
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{
		FullRepository: real,
	}
}

// ===== Program Methods =====

func (m *Repository) ListPrograms(ctx context.Context) ([]models.Program, error) {
	if m.ListProgramsError != nil {
		return nil, m.ListProgramsError
	}
	return m.FullRepository.ListPrograms(ctx)
}

func (m *Repository) GetProgram(ctx context.Context, id int) (*models.Program, error) {
	if m.GetProgramError != nil {
		return nil, m.GetProgramError
	}
	return m.FullRepository.GetProgram(ctx, id)
}

func (m *Repository) CreateProgram(ctx context.Context, p models.Program) (int64, error) {
	if m.CreateProgramError != nil {
		return 0, m.CreateProgramError
	}
	return m.FullRepository.CreateProgram(ctx, p)
}

func (m *Repository) UpdateProgramName(ctx context.Context, id int, name string) error {
	if m.UpdateProgramNameError != nil {
		return m.UpdateProgramNameError
	}
	return m.FullRepository.UpdateProgramName(ctx, id, name)
}

func (m *Repository) UpdateProgramSettings(ctx context.Context, id int, draw models.DrawSettings, roulette models.RouletteSettings, config models.ProgramConfig) error {
	if m.UpdateProgramSettingsError != nil {
		return m.UpdateProgramSettingsError
	}
	return m.FullRepository.UpdateProgramSettings(ctx, id, draw, roulette, config)
}

func (m *Repository) DeleteProgram(ctx context.Context, id int) error {
	if m.DeleteProgramError != nil {
		return m.DeleteProgramError
	}
	return m.FullRepository.DeleteProgram(ctx, id)
}

func (m *Repository) ImportProgram(ctx context.Context, p models.Program, participants []models.Participant, exclusions, labels []string) (int64, error) {
	if m.ImportProgramError != nil {
		return 0, m.ImportProgramError
	}
	return m.FullRepository.ImportProgram(ctx, p, participants, exclusions, labels)
}

// ===== Participant Methods =====

func (m *Repository) ListParticipants(ctx context.Context, programID int) ([]models.Participant, error) {
	if m.ListParticipantsError != nil {
		return nil, m.ListParticipantsError
	}
	return m.FullRepository.ListParticipants(ctx, programID)
}

func (m *Repository) AddParticipant(ctx context.Context, programID int, name string, weight int) (models.Participant, error) {
	if m.AddParticipantError != nil {
		return models.Participant{}, m.AddParticipantError
	}
	return m.FullRepository.AddParticipant(ctx, programID, name, weight)
}

func (m *Repository) UpdateParticipantWeight(ctx context.Context, programID int, id string, weight int) error {
	if m.UpdateParticipantWeightError != nil {
		return m.UpdateParticipantWeightError
	}
	return m.FullRepository.UpdateParticipantWeight(ctx, programID, id, weight)
}

func (m *Repository) RemoveParticipant(ctx context.Context, programID int, id string) error {
	if m.RemoveParticipantError != nil {
		return m.RemoveParticipantError
	}
	return m.FullRepository.RemoveParticipant(ctx, programID, id)
}

func (m *Repository) RemoveParticipants(ctx context.Context, programID int, ids []string) error {
	if m.RemoveParticipantsError != nil {
		return m.RemoveParticipantsError
	}
	return m.FullRepository.RemoveParticipants(ctx, programID, ids)
}

func (m *Repository) ClearParticipants(ctx context.Context, programID int) error {
	if m.ClearParticipantsError != nil {
		return m.ClearParticipantsError
	}
	return m.FullRepository.ClearParticipants(ctx, programID)
}

func (m *Repository) ListExclusions(ctx context.Context, programID int) ([]string, error) {
	if m.ListExclusionsError != nil {
		return nil, m.ListExclusionsError
	}
	return m.FullRepository.ListExclusions(ctx, programID)
}

func (m *Repository) AddExclusion(ctx context.Context, programID int, name string) error {
	if m.AddExclusionError != nil {
		return m.AddExclusionError
	}
	return m.FullRepository.AddExclusion(ctx, programID, name)
}

func (m *Repository) RemoveExclusion(ctx context.Context, programID int, name string) error {
	if m.RemoveExclusionError != nil {
		return m.RemoveExclusionError
	}
	return m.FullRepository.RemoveExclusion(ctx, programID, name)
}

func (m *Repository) ClearExclusions(ctx context.Context, programID int) error {
	if m.ClearExclusionsError != nil {
		return m.ClearExclusionsError
	}
	return m.FullRepository.ClearExclusions(ctx, programID)
}

// ===== Ladder Methods =====

func (m *Repository) ListLadderLabels(ctx context.Context, programID int) ([]string, error) {
	if m.ListLadderLabelsError != nil {
		return nil, m.ListLadderLabelsError
	}
	return m.FullRepository.ListLadderLabels(ctx, programID)
}

func (m *Repository) SetLadderLabels(ctx context.Context, programID int, labels []string) error {
	if m.SetLadderLabelsError != nil {
		return m.SetLadderLabelsError
	}
	return m.FullRepository.SetLadderLabels(ctx, programID, labels)
}

// ===== History Methods =====

func (m *Repository) ListHistory(ctx context.Context, programID int) ([]models.HistoryEntry, error) {
	if m.ListHistoryError != nil {
		return nil, m.ListHistoryError
	}
	return m.FullRepository.ListHistory(ctx, programID)
}

func (m *Repository) AddHistory(ctx context.Context, programID int, game string, names []string) error {
	if m.AddHistoryError != nil {
		return m.AddHistoryError
	}
	return m.FullRepository.AddHistory(ctx, programID, game, names)
}

func (m *Repository) ClearHistory(ctx context.Context, programID int) error {
	if m.ClearHistoryError != nil {
		return m.ClearHistoryError
	}
	return m.FullRepository.ClearHistory(ctx, programID)
}

// ===== Settings Methods =====

func (m *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	if m.GetSettingError != nil {
		return "", m.GetSettingError
	}
	return m.FullRepository.GetSetting(ctx, key)
}

func (m *Repository) SetSetting(ctx context.Context, key, value string) error {
	if m.SetSettingError != nil {
		return m.SetSettingError
	}
	return m.FullRepository.SetSetting(ctx, key, value)
}

func (m *Repository) ListSettings(ctx context.Context) (map[string]string, error) {
	if m.ListSettingsError != nil {
		return nil, m.ListSettingsError
	}
	return m.FullRepository.ListSettings(ctx)
}

func (m *Repository) GetStats(ctx context.Context) (map[string]interface{}, error) {
	if m.GetStatsError != nil {
		return nil, m.GetStatsError
	}
	return m.FullRepository.GetStats(ctx)
}

var _ repository.FullRepository = (*Repository)(nil)
