package services

import (
	"context"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/abrezinsky/luckydraw/internal/engine"
	"github.com/abrezinsky/luckydraw/internal/logger"
	"github.com/abrezinsky/luckydraw/internal/models"
	"github.com/abrezinsky/luckydraw/internal/repository"
)

// DefaultProgramName is used when a program is created or renamed with a blank name
const DefaultProgramName = "새로운 프로그램"

// Thumbnails is the pool a new program's thumbnail is picked from
var Thumbnails = []string{
	"https://i.pinimg.com/736x/e0/4d/57/e04d5753cf4baa18baa04f38ff2842ce.jpg",
	"https://i.pinimg.com/236x/18/e8/73/18e873f982ada7f275ecac2003421121.jpg",
}

// Broadcaster defines the interface for broadcasting messages to clients
type Broadcaster interface {
	BroadcastMessage(msgType string, payload interface{})
}

// ProgramService handles program-related business logic
type ProgramService struct {
	log         logger.Logger
	repo        repository.FullRepository
	rng         engine.RandomSource
	broadcaster Broadcaster
}

// NewProgramService creates a new ProgramService
func NewProgramService(log logger.Logger, repo repository.FullRepository, rng engine.RandomSource) *ProgramService {
	return &ProgramService{log: log, repo: repo, rng: rng}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *ProgramService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

func (s *ProgramService) notify(programID int) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastMessage(MsgProgramUpdated, map[string]interface{}{"program_id": programID})
	}
}

// ListPrograms returns all programs
func (s *ProgramService) ListPrograms(ctx context.Context) ([]models.Program, error) {
	programs, err := s.repo.ListPrograms(ctx)
	if err != nil {
		return nil, err
	}
	for i := range programs {
		withSpinDuration(&programs[i])
	}
	return programs, nil
}

// GetProgram returns one program
func (s *ProgramService) GetProgram(ctx context.Context, id int) (*models.Program, error) {
	return requireProgram(ctx, s.repo, id)
}

// CreateProgram creates a program with default settings and a random thumbnail
func (s *ProgramService) CreateProgram(ctx context.Context, name string) (*models.Program, error) {
	name = normalizeName(name)
	if name == "" {
		name = DefaultProgramName
	}

	p := models.Program{
		Name:         name,
		ThumbnailURL: s.pickThumbnail(),
		Draw:         models.DrawSettings{DrawCount: 1},
		Roulette:     models.RouletteSettings{SpinSpeed: models.SpinNormal},
		Config:       DefaultConfig(),
	}
	id, err := s.repo.CreateProgram(ctx, p)
	if err != nil {
		return nil, err
	}
	s.log.Info("Program created", "program_id", id, "name", name)
	return requireProgram(ctx, s.repo, int(id))
}

func (s *ProgramService) pickThumbnail() string {
	i := int(s.rng.Float64() * float64(len(Thumbnails)))
	if i >= len(Thumbnails) {
		i = len(Thumbnails) - 1
	}
	return Thumbnails[i]
}

// DefaultConfig is the config a new program starts with
func DefaultConfig() models.ProgramConfig {
	return models.ProgramConfig{
		RemoveAfterDraw: false,
		SkipAnimation:   false,
		ShowProbability: true,
		KeepHistory:     true,
	}
}

// RenameProgram changes a program's name; a blank name resets it to the default
func (s *ProgramService) RenameProgram(ctx context.Context, id int, name string) error {
	name = normalizeName(name)
	if name == "" {
		name = DefaultProgramName
	}
	if err := s.repo.UpdateProgramName(ctx, id, name); err != nil {
		if err == repository.ErrNotFound {
			return programNotFound(id)
		}
		return err
	}
	s.notify(id)
	return nil
}

// DeleteProgram removes a program with its participants, labels and history
func (s *ProgramService) DeleteProgram(ctx context.Context, id int) error {
	if err := s.repo.DeleteProgram(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return programNotFound(id)
		}
		return err
	}
	s.log.Info("Program deleted", "program_id", id)
	s.notify(id)
	return nil
}

// ResetProgram clears a program's participants and exclusions
func (s *ProgramService) ResetProgram(ctx context.Context, id int) error {
	if _, err := requireProgram(ctx, s.repo, id); err != nil {
		return err
	}
	if err := s.repo.ClearParticipants(ctx, id); err != nil {
		return err
	}
	if err := s.repo.ClearExclusions(ctx, id); err != nil {
		return err
	}
	s.notify(id)
	return nil
}

// SettingsUpdate is a partial update of a program's settings; nil fields are left unchanged
type SettingsUpdate struct {
	DrawCount       *int
	AllowDuplicate  *bool
	SpinSpeed       *string
	RemoveAfterDraw *bool
	SkipAnimation   *bool
	ShowProbability *bool
	KeepHistory     *bool
}

// UpdateSettings applies a partial settings update. The draw count is capped at the
// number of participants when the program has any.
func (s *ProgramService) UpdateSettings(ctx context.Context, id int, u SettingsUpdate) (*models.Program, error) {
	p, err := requireProgram(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}

	if u.DrawCount != nil {
		count := *u.DrawCount
		if count < 1 {
			return nil, ErrInvalidDrawCount
		}
		participants, err := s.repo.ListParticipants(ctx, id)
		if err != nil {
			return nil, err
		}
		if n := len(participants); n > 0 && count > n {
			count = n
		}
		p.Draw.DrawCount = count
	}
	if u.AllowDuplicate != nil {
		p.Draw.AllowDuplicate = *u.AllowDuplicate
	}
	if u.SpinSpeed != nil {
		if _, ok := spinDurations[*u.SpinSpeed]; !ok {
			return nil, ErrInvalidSpinSpeed
		}
		p.Roulette.SpinSpeed = *u.SpinSpeed
	}
	if u.RemoveAfterDraw != nil {
		p.Config.RemoveAfterDraw = *u.RemoveAfterDraw
	}
	if u.SkipAnimation != nil {
		p.Config.SkipAnimation = *u.SkipAnimation
	}
	if u.ShowProbability != nil {
		p.Config.ShowProbability = *u.ShowProbability
	}
	if u.KeepHistory != nil {
		p.Config.KeepHistory = *u.KeepHistory
	}

	if err := s.repo.UpdateProgramSettings(ctx, id, p.Draw, p.Roulette, p.Config); err != nil {
		return nil, err
	}
	withSpinDuration(p)
	s.notify(id)
	return p, nil
}

// LadderLabels returns the configured ladder outcome labels
func (s *ProgramService) LadderLabels(ctx context.Context, id int) ([]string, error) {
	if _, err := requireProgram(ctx, s.repo, id); err != nil {
		return nil, err
	}
	return s.repo.ListLadderLabels(ctx, id)
}

// SetLadderLabels replaces the ladder outcome labels; labels are trimmed and blanks dropped
func (s *ProgramService) SetLadderLabels(ctx context.Context, id int, labels []string) ([]string, error) {
	if _, err := requireProgram(ctx, s.repo, id); err != nil {
		return nil, err
	}
	clean := cleanLabels(labels)
	if err := s.repo.SetLadderLabels(ctx, id, clean); err != nil {
		return nil, err
	}
	s.notify(id)
	return clean, nil
}

func cleanLabels(labels []string) []string {
	clean := make([]string, 0, len(labels))
	for _, l := range labels {
		if l = normalizeName(l); l != "" {
			clean = append(clean, l)
		}
	}
	return clean
}

// History returns a program's settled results, newest first
func (s *ProgramService) History(ctx context.Context, id int) ([]models.HistoryEntry, error) {
	if _, err := requireProgram(ctx, s.repo, id); err != nil {
		return nil, err
	}
	return s.repo.ListHistory(ctx, id)
}

// ClearHistory deletes a program's history
func (s *ProgramService) ClearHistory(ctx context.Context, id int) error {
	if _, err := requireProgram(ctx, s.repo, id); err != nil {
		return err
	}
	if err := s.repo.ClearHistory(ctx, id); err != nil {
		return err
	}
	s.notify(id)
	return nil
}

// ProgramDocument is the portable YAML form of a program
type ProgramDocument struct {
	Name         string                  `yaml:"name"`
	Draw         models.DrawSettings     `yaml:"draw"`
	Roulette     models.RouletteSettings `yaml:"roulette"`
	Config       models.ProgramConfig    `yaml:"config"`
	Participants []DocumentParticipant   `yaml:"participants"`
	Exclusions   []string                `yaml:"exclusions,omitempty"`
	LadderLabels []string                `yaml:"ladder_labels,omitempty"`
}

// DocumentParticipant is one participant in a ProgramDocument
type DocumentParticipant struct {
	Name   string `yaml:"name"`
	Weight int    `yaml:"weight"`
}

// Export renders a program with its participants, exclusions and labels as YAML
func (s *ProgramService) Export(ctx context.Context, id int) ([]byte, error) {
	p, err := requireProgram(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	participants, err := s.repo.ListParticipants(ctx, id)
	if err != nil {
		return nil, err
	}
	exclusions, err := s.repo.ListExclusions(ctx, id)
	if err != nil {
		return nil, err
	}
	labels, err := s.repo.ListLadderLabels(ctx, id)
	if err != nil {
		return nil, err
	}

	doc := ProgramDocument{
		Name:         p.Name,
		Draw:         p.Draw,
		Roulette:     p.Roulette,
		Config:       p.Config,
		Participants: make([]DocumentParticipant, len(participants)),
		Exclusions:   exclusions,
		LadderLabels: labels,
	}
	for i, part := range participants {
		doc.Participants[i] = DocumentParticipant{Name: part.Name, Weight: part.Weight}
	}
	return yaml.Marshal(doc)
}

// Import creates a new program from a YAML document produced by Export
func (s *ProgramService) Import(ctx context.Context, data []byte) (*models.Program, error) {
	doc := ProgramDocument{
		Draw:     models.DrawSettings{DrawCount: 1},
		Roulette: models.RouletteSettings{SpinSpeed: models.SpinNormal},
		Config:   DefaultConfig(),
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ImportError{Reason: err.Error()}
	}

	p := models.Program{
		Name:         normalizeName(doc.Name),
		ThumbnailURL: s.pickThumbnail(),
		Draw:         doc.Draw,
		Roulette:     doc.Roulette,
		Config:       doc.Config,
	}
	if p.Name == "" {
		p.Name = DefaultProgramName
	}
	if p.Roulette.SpinSpeed == "" {
		p.Roulette.SpinSpeed = models.SpinNormal
	}
	if _, ok := spinDurations[p.Roulette.SpinSpeed]; !ok {
		return nil, &ImportError{Reason: "unknown spin speed " + p.Roulette.SpinSpeed}
	}
	if p.Draw.DrawCount < 1 {
		p.Draw.DrawCount = 1
	}

	participants := make([]models.Participant, 0, len(doc.Participants))
	for _, dp := range doc.Participants {
		name := normalizeName(dp.Name)
		if name == "" {
			return nil, &ImportError{Reason: "participant with empty name"}
		}
		weight := dp.Weight
		if weight == 0 {
			weight = 1
		}
		if weight < 1 {
			return nil, &ImportError{Reason: "participant " + name + " has a negative weight"}
		}
		if weight > engine.MaxWeight {
			return nil, &ImportError{Reason: "participant " + name + " has a weight above " + strconv.Itoa(engine.MaxWeight)}
		}
		participants = append(participants, models.Participant{Name: name, Weight: weight})
	}
	exclusions := make([]string, 0, len(doc.Exclusions))
	for _, e := range doc.Exclusions {
		if e = normalizeName(e); e != "" {
			exclusions = append(exclusions, e)
		}
	}

	id, err := s.repo.ImportProgram(ctx, p, participants, exclusions, cleanLabels(doc.LadderLabels))
	if err != nil {
		return nil, err
	}
	s.log.Info("Program imported", "program_id", id, "participants", len(participants))
	return requireProgram(ctx, s.repo, int(id))
}

// Stats returns overall counts
func (s *ProgramService) Stats(ctx context.Context) (map[string]interface{}, error) {
	return s.repo.GetStats(ctx)
}
