package services

import (
	"context"

	"github.com/abrezinsky/luckydraw/internal/engine"
	"github.com/abrezinsky/luckydraw/internal/logger"
	"github.com/abrezinsky/luckydraw/internal/models"
	"github.com/abrezinsky/luckydraw/internal/repository"
)

// ParticipantService handles participants and exclusions of a program
type ParticipantService struct {
	log         logger.Logger
	repo        repository.FullRepository
	broadcaster Broadcaster
}

// NewParticipantService creates a new ParticipantService
func NewParticipantService(log logger.Logger, repo repository.FullRepository) *ParticipantService {
	return &ParticipantService{log: log, repo: repo}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *ParticipantService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

func (s *ParticipantService) notify(programID int) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastMessage(MsgProgramUpdated, map[string]interface{}{"program_id": programID})
	}
}

// ListParticipants returns a program's participants in order. When the program shows
// probabilities, each eligible participant carries its share of the eligible weight and
// excluded participants carry zero.
func (s *ParticipantService) ListParticipants(ctx context.Context, programID int) ([]models.Participant, error) {
	p, err := requireProgram(ctx, s.repo, programID)
	if err != nil {
		return nil, err
	}
	participants, err := s.repo.ListParticipants(ctx, programID)
	if err != nil {
		return nil, err
	}
	if !p.Config.ShowProbability {
		return participants, nil
	}

	exclusions, err := s.repo.ListExclusions(ctx, programID)
	if err != nil {
		return nil, err
	}
	pool := eligible(participants, exclusions)
	probs := engine.Probabilities(toEntries(pool))
	byID := make(map[string]float64, len(pool))
	for i, part := range pool {
		byID[part.ID] = probs[i]
	}
	for i := range participants {
		prob := byID[participants[i].ID]
		participants[i].Probability = &prob
	}
	return participants, nil
}

// AddParticipant adds one participant with weight 1
func (s *ParticipantService) AddParticipant(ctx context.Context, programID int, name string) (*models.Participant, error) {
	name = normalizeName(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if _, err := requireProgram(ctx, s.repo, programID); err != nil {
		return nil, err
	}
	p, err := s.repo.AddParticipant(ctx, programID, name, 1)
	if err != nil {
		return nil, err
	}
	s.log.Debug("Participant added", "program_id", programID, "name", name)
	s.notify(programID)
	return &p, nil
}

// AddParticipants adds every name of a newline or comma separated list
func (s *ParticipantService) AddParticipants(ctx context.Context, programID int, text string) ([]models.Participant, error) {
	names := splitNames(text)
	if len(names) == 0 {
		return nil, ErrEmptyName
	}
	if _, err := requireProgram(ctx, s.repo, programID); err != nil {
		return nil, err
	}

	added := make([]models.Participant, 0, len(names))
	for _, name := range names {
		p, err := s.repo.AddParticipant(ctx, programID, name, 1)
		if err != nil {
			return added, err
		}
		added = append(added, p)
	}
	s.log.Info("Participants added", "program_id", programID, "count", len(added))
	s.notify(programID)
	return added, nil
}

// UpdateWeight sets a participant's weight; weights outside 1..engine.MaxWeight are rejected
func (s *ParticipantService) UpdateWeight(ctx context.Context, programID int, participantID string, weight int) error {
	if weight < 1 || weight > engine.MaxWeight {
		return ErrInvalidWeight
	}
	if err := s.repo.UpdateParticipantWeight(ctx, programID, participantID, weight); err != nil {
		if err == repository.ErrNotFound {
			return participantNotFound(participantID)
		}
		return err
	}
	s.notify(programID)
	return nil
}

// RemoveParticipant deletes a participant
func (s *ParticipantService) RemoveParticipant(ctx context.Context, programID int, participantID string) error {
	if err := s.repo.RemoveParticipant(ctx, programID, participantID); err != nil {
		if err == repository.ErrNotFound {
			return participantNotFound(participantID)
		}
		return err
	}
	s.notify(programID)
	return nil
}

// ListExclusions returns the excluded names of a program
func (s *ParticipantService) ListExclusions(ctx context.Context, programID int) ([]string, error) {
	if _, err := requireProgram(ctx, s.repo, programID); err != nil {
		return nil, err
	}
	return s.repo.ListExclusions(ctx, programID)
}

// AddExclusion excludes a name from every game of the program. Names are compared
// case-insensitively, so adding a name already present in another case is a no-op.
func (s *ParticipantService) AddExclusion(ctx context.Context, programID int, name string) error {
	name = normalizeName(name)
	if name == "" {
		return ErrEmptyName
	}
	existing, err := s.ListExclusions(ctx, programID)
	if err != nil {
		return err
	}
	key := foldName(name)
	for _, e := range existing {
		if foldName(e) == key {
			return nil
		}
	}
	if err := s.repo.AddExclusion(ctx, programID, name); err != nil {
		return err
	}
	s.notify(programID)
	return nil
}

// RemoveExclusion lifts an exclusion, matching the name case-insensitively
func (s *ParticipantService) RemoveExclusion(ctx context.Context, programID int, name string) error {
	existing, err := s.ListExclusions(ctx, programID)
	if err != nil {
		return err
	}
	key := foldName(name)
	for _, e := range existing {
		if foldName(e) == key {
			if err := s.repo.RemoveExclusion(ctx, programID, e); err != nil {
				return err
			}
			s.notify(programID)
			return nil
		}
	}
	return exclusionNotFound(name)
}
