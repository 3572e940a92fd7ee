package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/abrezinsky/luckydraw/internal/models"
)

// newTestRepo creates a new in-memory repository for testing.
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func createProgram(t *testing.T, repo *Repository, name string) int {
	t.Helper()
	id, err := repo.CreateProgram(context.Background(), models.Program{
		Name:     name,
		Draw:     models.DrawSettings{DrawCount: 1},
		Roulette: models.RouletteSettings{SpinSpeed: "normal"},
		Config:   models.ProgramConfig{ShowProbability: true, KeepHistory: true},
	})
	if err != nil {
		t.Fatalf("CreateProgram failed: %v", err)
	}
	return int(id)
}

// ==================== Program Tests ====================

func TestCreateProgram_RoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	repo.now = func() time.Time { return fixed }
	ctx := context.Background()

	id := createProgram(t, repo, "점심 당번")

	p, err := repo.GetProgram(ctx, id)
	if err != nil {
		t.Fatalf("GetProgram failed: %v", err)
	}
	if p.Name != "점심 당번" {
		t.Errorf("expected name to round-trip, got %q", p.Name)
	}
	if p.Draw.DrawCount != 1 || p.Draw.AllowDuplicate {
		t.Errorf("unexpected draw settings: %+v", p.Draw)
	}
	if !p.Config.ShowProbability || !p.Config.KeepHistory || p.Config.RemoveAfterDraw {
		t.Errorf("unexpected config: %+v", p.Config)
	}
	if !p.CreatedAt.Equal(fixed) {
		t.Errorf("expected created_at %v, got %v", fixed, p.CreatedAt)
	}
}

func TestGetProgram_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetProgram(context.Background(), 999)
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListPrograms_Ordered(t *testing.T) {
	repo := newTestRepo(t)
	createProgram(t, repo, "first")
	createProgram(t, repo, "second")

	programs, err := repo.ListPrograms(context.Background())
	if err != nil {
		t.Fatalf("ListPrograms failed: %v", err)
	}
	if len(programs) != 2 {
		t.Fatalf("expected 2 programs, got %d", len(programs))
	}
	if programs[0].Name != "first" || programs[1].Name != "second" {
		t.Errorf("unexpected order: %q, %q", programs[0].Name, programs[1].Name)
	}
}

func TestUpdateProgram(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	id := createProgram(t, repo, "old")

	if err := repo.UpdateProgramName(ctx, id, "new"); err != nil {
		t.Fatalf("UpdateProgramName failed: %v", err)
	}
	err := repo.UpdateProgramSettings(ctx, id,
		models.DrawSettings{DrawCount: 3, AllowDuplicate: true},
		models.RouletteSettings{SpinSpeed: "fast"},
		models.ProgramConfig{RemoveAfterDraw: true, SkipAnimation: true})
	if err != nil {
		t.Fatalf("UpdateProgramSettings failed: %v", err)
	}

	p, _ := repo.GetProgram(ctx, id)
	if p.Name != "new" {
		t.Errorf("expected renamed program, got %q", p.Name)
	}
	if p.Draw.DrawCount != 3 || !p.Draw.AllowDuplicate {
		t.Errorf("unexpected draw settings: %+v", p.Draw)
	}
	if p.Roulette.SpinSpeed != "fast" {
		t.Errorf("expected fast, got %q", p.Roulette.SpinSpeed)
	}
	if !p.Config.RemoveAfterDraw || !p.Config.SkipAnimation || p.Config.KeepHistory {
		t.Errorf("unexpected config: %+v", p.Config)
	}
}

func TestUpdateProgram_NotFound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.UpdateProgramName(ctx, 42, "x"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := repo.DeleteProgram(ctx, 42); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteProgram_Cascades(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	id := createProgram(t, repo, "doomed")

	repo.AddParticipant(ctx, id, "Ann", 1)
	repo.AddExclusion(ctx, id, "Bob")
	repo.SetLadderLabels(ctx, id, []string{"꽝"})
	repo.AddHistory(ctx, id, "draw", []string{"Ann"})

	if err := repo.DeleteProgram(ctx, id); err != nil {
		t.Fatalf("DeleteProgram failed: %v", err)
	}

	for _, table := range []string{"participants", "exclusions", "ladder_labels", "history"} {
		var n int
		if err := repo.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if n != 0 {
			t.Errorf("expected %s to be empty after delete, got %d rows", table, n)
		}
	}
}

func TestImportProgram(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.ImportProgram(ctx,
		models.Program{Name: "imported", Draw: models.DrawSettings{DrawCount: 2}, Roulette: models.RouletteSettings{SpinSpeed: "slow"}},
		[]models.Participant{{Name: "A", Weight: 2}, {Name: "B", Weight: 1}},
		[]string{"C", "C"},
		[]string{"1등", "2등"})
	if err != nil {
		t.Fatalf("ImportProgram failed: %v", err)
	}

	participants, _ := repo.ListParticipants(ctx, int(id))
	if len(participants) != 2 || participants[0].Name != "A" || participants[0].Weight != 2 {
		t.Errorf("unexpected participants: %+v", participants)
	}
	exclusions, _ := repo.ListExclusions(ctx, int(id))
	if len(exclusions) != 1 {
		t.Errorf("expected duplicate exclusion to collapse, got %v", exclusions)
	}
	labels, _ := repo.ListLadderLabels(ctx, int(id))
	if len(labels) != 2 || labels[1] != "2등" {
		t.Errorf("unexpected labels: %v", labels)
	}
}

// ==================== Participant Tests ====================

func TestAddParticipant_AssignsIDAndPosition(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	id := createProgram(t, repo, "p")

	n := 0
	repo.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}

	a, err := repo.AddParticipant(ctx, id, "Ann", 1)
	if err != nil {
		t.Fatalf("AddParticipant failed: %v", err)
	}
	b, _ := repo.AddParticipant(ctx, id, "Bob", 3)

	if a.ID != "id-1" || b.ID != "id-2" {
		t.Errorf("unexpected ids %q %q", a.ID, b.ID)
	}
	if a.Position != 0 || b.Position != 1 {
		t.Errorf("unexpected positions %d %d", a.Position, b.Position)
	}

	list, _ := repo.ListParticipants(ctx, id)
	if len(list) != 2 || list[1].Name != "Bob" || list[1].Weight != 3 {
		t.Errorf("unexpected list: %+v", list)
	}
}

func TestAddParticipant_DefaultIDIsUUID(t *testing.T) {
	repo := newTestRepo(t)
	id := createProgram(t, repo, "p")

	p, err := repo.AddParticipant(context.Background(), id, "Ann", 1)
	if err != nil {
		t.Fatalf("AddParticipant failed: %v", err)
	}
	if len(p.ID) != 36 {
		t.Errorf("expected a UUID, got %q", p.ID)
	}
}

func TestAddParticipant_UnknownProgram(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.AddParticipant(context.Background(), 999, "Ann", 1)
	if err == nil {
		t.Error("expected foreign key error for unknown program")
	}
}

func TestParticipantWeightAndRemoval(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	id := createProgram(t, repo, "p")
	a, _ := repo.AddParticipant(ctx, id, "Ann", 1)
	b, _ := repo.AddParticipant(ctx, id, "Bob", 1)
	c, _ := repo.AddParticipant(ctx, id, "Cid", 1)

	if err := repo.UpdateParticipantWeight(ctx, id, a.ID, 5); err != nil {
		t.Fatalf("UpdateParticipantWeight failed: %v", err)
	}
	if err := repo.UpdateParticipantWeight(ctx, id, "missing", 5); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := repo.RemoveParticipant(ctx, id, b.ID); err != nil {
		t.Fatalf("RemoveParticipant failed: %v", err)
	}
	if err := repo.RemoveParticipant(ctx, id, b.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound on second removal, got %v", err)
	}
	if err := repo.RemoveParticipants(ctx, id, []string{c.ID, "unknown"}); err != nil {
		t.Fatalf("RemoveParticipants failed: %v", err)
	}

	list, _ := repo.ListParticipants(ctx, id)
	if len(list) != 1 || list[0].Name != "Ann" || list[0].Weight != 5 {
		t.Errorf("unexpected list: %+v", list)
	}

	if err := repo.ClearParticipants(ctx, id); err != nil {
		t.Fatalf("ClearParticipants failed: %v", err)
	}
	list, _ = repo.ListParticipants(ctx, id)
	if len(list) != 0 {
		t.Errorf("expected no participants, got %d", len(list))
	}
}

// ==================== Exclusion Tests ====================

func TestExclusions(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	id := createProgram(t, repo, "p")

	repo.AddExclusion(ctx, id, "Ann")
	repo.AddExclusion(ctx, id, "Ann")
	repo.AddExclusion(ctx, id, "Bob")

	names, err := repo.ListExclusions(ctx, id)
	if err != nil {
		t.Fatalf("ListExclusions failed: %v", err)
	}
	if len(names) != 2 || names[0] != "Ann" || names[1] != "Bob" {
		t.Errorf("unexpected exclusions: %v", names)
	}

	if err := repo.RemoveExclusion(ctx, id, "Ann"); err != nil {
		t.Fatalf("RemoveExclusion failed: %v", err)
	}
	if err := repo.RemoveExclusion(ctx, id, "Ann"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := repo.ClearExclusions(ctx, id); err != nil {
		t.Fatalf("ClearExclusions failed: %v", err)
	}
	names, _ = repo.ListExclusions(ctx, id)
	if len(names) != 0 {
		t.Errorf("expected no exclusions, got %v", names)
	}
}

// ==================== Ladder Label Tests ====================

func TestSetLadderLabels_Replaces(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	id := createProgram(t, repo, "p")

	repo.SetLadderLabels(ctx, id, []string{"a", "b", "c"})
	if err := repo.SetLadderLabels(ctx, id, []string{"커피", "꽝"}); err != nil {
		t.Fatalf("SetLadderLabels failed: %v", err)
	}

	labels, _ := repo.ListLadderLabels(ctx, id)
	if len(labels) != 2 || labels[0] != "커피" || labels[1] != "꽝" {
		t.Errorf("unexpected labels: %v", labels)
	}
}

// ==================== History Tests ====================

func TestHistory_NewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	id := createProgram(t, repo, "p")

	repo.AddHistory(ctx, id, "draw", []string{"Ann"})
	repo.AddHistory(ctx, id, "roulette", []string{"Bob"})

	entries, err := repo.ListHistory(ctx, id)
	if err != nil {
		t.Fatalf("ListHistory failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Name != "Bob" || entries[0].Game != "roulette" {
		t.Errorf("expected newest entry first, got %+v", entries[0])
	}
}

func TestHistory_CappedAtLimit(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	id := createProgram(t, repo, "p")
	other := createProgram(t, repo, "other")
	repo.AddHistory(ctx, other, "draw", []string{"keep me"})

	for i := 0; i < HistoryLimit+10; i++ {
		if err := repo.AddHistory(ctx, id, "draw", []string{fmt.Sprintf("n%d", i)}); err != nil {
			t.Fatalf("AddHistory failed: %v", err)
		}
	}

	entries, _ := repo.ListHistory(ctx, id)
	if len(entries) != HistoryLimit {
		t.Fatalf("expected %d entries, got %d", HistoryLimit, len(entries))
	}
	if entries[0].Name != fmt.Sprintf("n%d", HistoryLimit+9) {
		t.Errorf("expected newest first, got %q", entries[0].Name)
	}

	var stored int
	repo.db.QueryRow(`SELECT COUNT(*) FROM history WHERE program_id = ?`, id).Scan(&stored)
	if stored != HistoryLimit {
		t.Errorf("expected old rows to be trimmed, %d stored", stored)
	}

	otherEntries, _ := repo.ListHistory(ctx, other)
	if len(otherEntries) != 1 {
		t.Errorf("trim must not touch other programs, got %d", len(otherEntries))
	}
}

func TestHistory_EmptyAndClear(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	id := createProgram(t, repo, "p")

	if err := repo.AddHistory(ctx, id, "draw", nil); err != nil {
		t.Errorf("empty add should be a no-op, got %v", err)
	}
	repo.AddHistory(ctx, id, "draw", []string{"a", "b"})
	if err := repo.ClearHistory(ctx, id); err != nil {
		t.Fatalf("ClearHistory failed: %v", err)
	}
	entries, _ := repo.ListHistory(ctx, id)
	if len(entries) != 0 {
		t.Errorf("expected empty history, got %d", len(entries))
	}
}

// ==================== Settings Tests ====================

func TestSettings(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.GetSetting(ctx, "base_url"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	repo.SetSetting(ctx, "base_url", "http://a")
	repo.SetSetting(ctx, "base_url", "http://b")

	v, err := repo.GetSetting(ctx, "base_url")
	if err != nil || v != "http://b" {
		t.Errorf("expected http://b, got %q (%v)", v, err)
	}

	all, err := repo.ListSettings(ctx)
	if err != nil {
		t.Fatalf("ListSettings failed: %v", err)
	}
	if all["base_url"] != "http://b" {
		t.Errorf("unexpected settings: %v", all)
	}
}

func TestGetStats(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	id := createProgram(t, repo, "p")
	repo.AddParticipant(ctx, id, "Ann", 1)
	repo.AddHistory(ctx, id, "draw", []string{"Ann"})

	stats, err := repo.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats["total_programs"] != 1 || stats["total_participants"] != 1 || stats["total_history"] != 1 {
		t.Errorf("unexpected stats: %v", stats)
	}
}

func TestPingAndClose(t *testing.T) {
	repo, err := New(":memory:")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := repo.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
	if repo.DB() == nil {
		t.Error("expected DB handle")
	}
	if err := repo.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}
