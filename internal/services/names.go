package services

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/abrezinsky/luckydraw/internal/engine"
	"github.com/abrezinsky/luckydraw/internal/models"
	"github.com/abrezinsky/luckydraw/internal/repository"
)

// normalizeName trims a display name and puts it in NFC so that names typed
// on different keyboards (decomposed Hangul, for one) compare equal
func normalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// foldName is the key used to compare names for exclusions
func foldName(name string) string {
	return cases.Fold().String(normalizeName(name))
}

// splitNames breaks a pasted list on newlines and commas, dropping blanks
func splitNames(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ','
	})
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		if n := normalizeName(f); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// eligible returns participants whose names are not excluded, in program order
func eligible(participants []models.Participant, exclusions []string) []models.Participant {
	if len(exclusions) == 0 {
		return participants
	}
	excluded := make(map[string]bool, len(exclusions))
	for _, e := range exclusions {
		excluded[foldName(e)] = true
	}
	out := make([]models.Participant, 0, len(participants))
	for _, p := range participants {
		if !excluded[foldName(p.Name)] {
			out = append(out, p)
		}
	}
	return out
}

// loadPool fetches the eligible participants of a program
func loadPool(ctx context.Context, repo repository.ParticipantRepository, programID int) ([]models.Participant, error) {
	participants, err := repo.ListParticipants(ctx, programID)
	if err != nil {
		return nil, err
	}
	exclusions, err := repo.ListExclusions(ctx, programID)
	if err != nil {
		return nil, err
	}
	return eligible(participants, exclusions), nil
}

func toEntries(participants []models.Participant) []engine.Entry {
	entries := make([]engine.Entry, len(participants))
	for i, p := range participants {
		entries[i] = engine.Entry{ID: p.ID, Name: p.Name, Weight: p.Weight}
	}
	return entries
}

// requireProgram loads a program or returns a not-found error
func requireProgram(ctx context.Context, repo repository.ProgramRepository, id int) (*models.Program, error) {
	p, err := repo.GetProgram(ctx, id)
	if err == repository.ErrNotFound {
		return nil, programNotFound(id)
	}
	if err != nil {
		return nil, err
	}
	withSpinDuration(p)
	return p, nil
}

// spinDurations maps roulette speeds to seconds
var spinDurations = map[string]float64{
	models.SpinFast:   3,
	models.SpinNormal: 4,
	models.SpinSlow:   5,
}

func withSpinDuration(p *models.Program) {
	d, ok := spinDurations[p.Roulette.SpinSpeed]
	if !ok {
		d = spinDurations[models.SpinNormal]
	}
	p.Roulette.SpinDuration = d
}
