package services_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/abrezinsky/luckydraw/internal/engine"
	"github.com/abrezinsky/luckydraw/internal/errors"
	"github.com/abrezinsky/luckydraw/internal/logger"
	"github.com/abrezinsky/luckydraw/internal/models"
	"github.com/abrezinsky/luckydraw/internal/repository"
	"github.com/abrezinsky/luckydraw/internal/repository/mock"
	"github.com/abrezinsky/luckydraw/internal/services"
	"github.com/abrezinsky/luckydraw/internal/testutil"
)

func setupProgramService(t *testing.T) (*services.ProgramService, *repository.Repository, *recordingBroadcaster) {
	t.Helper()
	repo := testutil.NewTestRepository(t)
	svc := services.NewProgramService(logger.Discard(), repo, engine.NewSequenceSource(0.9))
	b := &recordingBroadcaster{}
	svc.SetBroadcaster(b)
	return svc, repo, b
}

func intPtr(v int) *int { return &v }
func boolPtr(v bool) *bool { return &v }
func strPtr(v string) *string { return &v }

func TestProgramService_CreateProgram(t *testing.T) {
	svc, _, _ := setupProgramService(t)
	ctx := context.Background()

	p, err := svc.CreateProgram(ctx, "  점심 내기  ")
	if err != nil {
		t.Fatalf("CreateProgram failed: %v", err)
	}
	if p.Name != "점심 내기" {
		t.Errorf("expected trimmed name, got %q", p.Name)
	}
	if p.ThumbnailURL != services.Thumbnails[1] {
		t.Errorf("expected second thumbnail, got %q", p.ThumbnailURL)
	}
	if p.Draw.DrawCount != 1 || p.Roulette.SpinSpeed != models.SpinNormal || p.Roulette.SpinDuration != 4 {
		t.Errorf("unexpected default settings: %+v %+v", p.Draw, p.Roulette)
	}
	if p.Config != services.DefaultConfig() {
		t.Errorf("expected default config, got %+v", p.Config)
	}

	blank, err := svc.CreateProgram(ctx, "   ")
	if err != nil {
		t.Fatalf("CreateProgram failed: %v", err)
	}
	if blank.Name != services.DefaultProgramName {
		t.Errorf("expected default name, got %q", blank.Name)
	}

	programs, err := svc.ListPrograms(ctx)
	if err != nil {
		t.Fatalf("ListPrograms failed: %v", err)
	}
	if len(programs) != 2 {
		t.Errorf("expected 2 programs, got %d", len(programs))
	}
}

func TestProgramService_RenameAndDelete(t *testing.T) {
	svc, repo, b := setupProgramService(t)
	ctx := context.Background()
	id := testutil.SeedProgram(t, repo, "Old", "Alice")

	if err := svc.RenameProgram(ctx, id, "New"); err != nil {
		t.Fatalf("RenameProgram failed: %v", err)
	}
	p, _ := svc.GetProgram(ctx, id)
	if p.Name != "New" {
		t.Errorf("expected New, got %q", p.Name)
	}
	if b.count(services.MsgProgramUpdated) != 1 {
		t.Errorf("expected program_updated, got %v", b.types())
	}

	if err := svc.DeleteProgram(ctx, id); err != nil {
		t.Fatalf("DeleteProgram failed: %v", err)
	}
	if _, err := svc.GetProgram(ctx, id); !errors.IsKind(err, errors.ErrNotFound) {
		t.Errorf("expected not found after delete, got %v", err)
	}
	if err := svc.DeleteProgram(ctx, id); !errors.IsKind(err, errors.ErrNotFound) {
		t.Errorf("expected not found deleting twice, got %v", err)
	}
	if err := svc.RenameProgram(ctx, id, "x"); !errors.IsKind(err, errors.ErrNotFound) {
		t.Errorf("expected not found renaming deleted program, got %v", err)
	}
}

func TestProgramService_ResetProgram(t *testing.T) {
	svc, repo, _ := setupProgramService(t)
	ctx := context.Background()
	id := testutil.SeedProgram(t, repo, "Reset", "Alice", "Bob")
	repo.AddExclusion(ctx, id, "Bob")

	if err := svc.ResetProgram(ctx, id); err != nil {
		t.Fatalf("ResetProgram failed: %v", err)
	}
	participants, _ := repo.ListParticipants(ctx, id)
	exclusions, _ := repo.ListExclusions(ctx, id)
	if len(participants) != 0 || len(exclusions) != 0 {
		t.Errorf("expected empty program, got %d participants and %d exclusions", len(participants), len(exclusions))
	}
}

func TestProgramService_UpdateSettings(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		participants []string
		update       services.SettingsUpdate
		wantErr      error
		check        func(t *testing.T, p *models.Program)
	}{
		{
			name:    "draw count below one",
			update:  services.SettingsUpdate{DrawCount: intPtr(0)},
			wantErr: services.ErrInvalidDrawCount,
		},
		{
			name:         "draw count capped at participants",
			participants: []string{"A", "B", "C"},
			update:       services.SettingsUpdate{DrawCount: intPtr(10)},
			check: func(t *testing.T, p *models.Program) {
				if p.Draw.DrawCount != 3 {
					t.Errorf("expected 3, got %d", p.Draw.DrawCount)
				}
			},
		},
		{
			name:   "draw count kept without participants",
			update: services.SettingsUpdate{DrawCount: intPtr(5)},
			check: func(t *testing.T, p *models.Program) {
				if p.Draw.DrawCount != 5 {
					t.Errorf("expected 5, got %d", p.Draw.DrawCount)
				}
			},
		},
		{
			name:    "unknown spin speed",
			update:  services.SettingsUpdate{SpinSpeed: strPtr("warp")},
			wantErr: services.ErrInvalidSpinSpeed,
		},
		{
			name:   "spin speed sets duration",
			update: services.SettingsUpdate{SpinSpeed: strPtr(models.SpinSlow)},
			check: func(t *testing.T, p *models.Program) {
				if p.Roulette.SpinSpeed != models.SpinSlow || p.Roulette.SpinDuration != 5 {
					t.Errorf("unexpected roulette settings %+v", p.Roulette)
				}
			},
		},
		{
			name: "config switches",
			update: services.SettingsUpdate{
				AllowDuplicate:  boolPtr(true),
				RemoveAfterDraw: boolPtr(true),
				SkipAnimation:   boolPtr(true),
				ShowProbability: boolPtr(false),
				KeepHistory:     boolPtr(false),
			},
			check: func(t *testing.T, p *models.Program) {
				want := models.ProgramConfig{RemoveAfterDraw: true, SkipAnimation: true}
				if p.Config != want || !p.Draw.AllowDuplicate {
					t.Errorf("unexpected settings %+v %+v", p.Config, p.Draw)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := setupProgramService(t)
			id := testutil.SeedProgram(t, repo, "Settings", tt.participants...)

			p, err := svc.UpdateSettings(ctx, id, tt.update)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("UpdateSettings failed: %v", err)
			}
			tt.check(t, p)

			// The update is persisted
			stored, err := svc.GetProgram(ctx, id)
			if err != nil {
				t.Fatalf("GetProgram failed: %v", err)
			}
			tt.check(t, stored)
		})
	}
}

func TestProgramService_UpdateSettings_RepositoryError(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	id := testutil.SeedProgram(t, repo, "Broken")
	mockRepo := mock.NewRepository(repo)
	mockRepo.UpdateProgramSettingsError = stderrors.New("database error")
	svc := services.NewProgramService(logger.Discard(), mockRepo, engine.NewSequenceSource(0))

	if _, err := svc.UpdateSettings(context.Background(), id, services.SettingsUpdate{KeepHistory: boolPtr(false)}); err == nil {
		t.Error("expected error")
	}
}

func TestProgramService_LadderLabels(t *testing.T) {
	svc, repo, _ := setupProgramService(t)
	ctx := context.Background()
	id := testutil.SeedProgram(t, repo, "Labels")

	got, err := svc.SetLadderLabels(ctx, id, []string{" 커피 ", "", "점심", "   "})
	if err != nil {
		t.Fatalf("SetLadderLabels failed: %v", err)
	}
	if len(got) != 2 || got[0] != "커피" || got[1] != "점심" {
		t.Errorf("expected cleaned labels, got %v", got)
	}

	stored, err := svc.LadderLabels(ctx, id)
	if err != nil {
		t.Fatalf("LadderLabels failed: %v", err)
	}
	if len(stored) != 2 {
		t.Errorf("expected 2 stored labels, got %v", stored)
	}

	if _, err := svc.LadderLabels(ctx, 999); !errors.IsKind(err, errors.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestProgramService_History(t *testing.T) {
	svc, repo, _ := setupProgramService(t)
	ctx := context.Background()
	id := testutil.SeedProgram(t, repo, "History")

	repo.AddHistory(ctx, id, models.GameDraw, []string{"Alice"})
	repo.AddHistory(ctx, id, models.GameRoulette, []string{"Bob"})

	entries, err := svc.History(ctx, id)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(entries) != 2 || entries[0].Name != "Bob" || entries[0].Game != models.GameRoulette {
		t.Errorf("expected newest first, got %+v", entries)
	}

	if err := svc.ClearHistory(ctx, id); err != nil {
		t.Fatalf("ClearHistory failed: %v", err)
	}
	entries, _ = svc.History(ctx, id)
	if len(entries) != 0 {
		t.Errorf("expected empty history, got %d entries", len(entries))
	}
}

func TestProgramService_ExportImport(t *testing.T) {
	svc, repo, _ := setupProgramService(t)
	ctx := context.Background()
	id := testutil.SeedProgram(t, repo, "Team", "Alice", "Bob")
	participants, _ := repo.ListParticipants(ctx, id)
	repo.UpdateParticipantWeight(ctx, id, participants[1].ID, 3)
	repo.AddExclusion(ctx, id, "Alice")
	repo.SetLadderLabels(ctx, id, []string{"1등"})
	svc.UpdateSettings(ctx, id, services.SettingsUpdate{SpinSpeed: strPtr(models.SpinFast), SkipAnimation: boolPtr(true)})

	data, err := svc.Export(ctx, id)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	imported, err := svc.Import(ctx, data)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if imported.ID == id {
		t.Error("expected import to create a new program")
	}
	if imported.Name != "Team" || imported.Roulette.SpinSpeed != models.SpinFast || !imported.Config.SkipAnimation {
		t.Errorf("settings not carried over: %+v", imported)
	}

	got, _ := repo.ListParticipants(ctx, imported.ID)
	if len(got) != 2 || got[0].Name != "Alice" || got[1].Name != "Bob" || got[1].Weight != 3 {
		t.Errorf("participants not carried over: %+v", got)
	}
	exclusions, _ := repo.ListExclusions(ctx, imported.ID)
	if len(exclusions) != 1 || exclusions[0] != "Alice" {
		t.Errorf("exclusions not carried over: %v", exclusions)
	}
	labels, _ := repo.ListLadderLabels(ctx, imported.ID)
	if len(labels) != 1 || labels[0] != "1등" {
		t.Errorf("labels not carried over: %v", labels)
	}
}

func TestProgramService_Import_Defaults(t *testing.T) {
	svc, repo, _ := setupProgramService(t)
	ctx := context.Background()

	p, err := svc.Import(ctx, []byte("participants:\n  - name: Alice\n  - name: Bob\n    weight: 2\n"))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if p.Name != services.DefaultProgramName || p.Draw.DrawCount != 1 || p.Roulette.SpinSpeed != models.SpinNormal {
		t.Errorf("expected defaults, got %+v", p)
	}
	if p.Config != services.DefaultConfig() {
		t.Errorf("expected default config, got %+v", p.Config)
	}
	got, _ := repo.ListParticipants(ctx, p.ID)
	if len(got) != 2 || got[0].Weight != 1 || got[1].Weight != 2 {
		t.Errorf("unexpected participants %+v", got)
	}
}

func TestProgramService_Import_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed yaml", "participants: [unclosed"},
		{"empty participant name", "participants:\n  - name: '  '\n"},
		{"negative weight", "participants:\n  - name: Alice\n    weight: -1\n"},
		{"weight above max", "participants:\n  - name: Alice\n    weight: 1000001\n"},
		{"unknown spin speed", "roulette:\n  spin_speed: warp\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := setupProgramService(t)
			_, err := svc.Import(context.Background(), []byte(tt.doc))
			var importErr *services.ImportError
			if !stderrors.As(err, &importErr) {
				t.Errorf("expected ImportError, got %v", err)
			}
		})
	}
}

func TestProgramService_Stats(t *testing.T) {
	svc, repo, _ := setupProgramService(t)
	testutil.SeedProgram(t, repo, "One", "Alice", "Bob")
	testutil.SeedProgram(t, repo, "Two", "Carol")

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats["total_programs"] != 2 || stats["total_participants"] != 3 {
		t.Errorf("unexpected stats %v", stats)
	}
}
