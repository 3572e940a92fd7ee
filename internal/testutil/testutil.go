package testutil

import (
	"context"
	"testing"

	"github.com/abrezinsky/luckydraw/internal/models"
	"github.com/abrezinsky/luckydraw/internal/repository"
)

// NewTestRepository creates a new in-memory repository for testing.
// Each call creates a fresh database with all migrations applied.
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}

	t.Cleanup(func() {
		repo.Close()
	})

	return repo
}

// DefaultProgram returns a program with the stock settings
func DefaultProgram(name string) models.Program {
	return models.Program{
		Name:     name,
		Draw:     models.DrawSettings{DrawCount: 1},
		Roulette: models.RouletteSettings{SpinSpeed: models.SpinNormal},
		Config:   models.ProgramConfig{ShowProbability: true, KeepHistory: true},
	}
}

// SeedProgram creates a program with the given participant names (weight 1 each)
// and returns its ID
func SeedProgram(t *testing.T, repo repository.FullRepository, name string, participants ...string) int {
	t.Helper()
	ctx := context.Background()

	id, err := repo.CreateProgram(ctx, DefaultProgram(name))
	if err != nil {
		t.Fatalf("failed to create program: %v", err)
	}
	for _, p := range participants {
		if _, err := repo.AddParticipant(ctx, int(id), p, 1); err != nil {
			t.Fatalf("failed to add participant %q: %v", p, err)
		}
	}
	return int(id)
}
