package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/abrezinsky/luckydraw/internal/engine"
	"github.com/abrezinsky/luckydraw/internal/logger"
	"github.com/abrezinsky/luckydraw/internal/models"
	"github.com/abrezinsky/luckydraw/internal/repository"
	"github.com/abrezinsky/luckydraw/internal/services"
)

// recordingBroadcaster captures broadcast messages
type recordingBroadcaster struct {
	mu   sync.Mutex
	msgs []models.WSMessage
}

func (b *recordingBroadcaster) BroadcastMessage(msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs = append(b.msgs, models.WSMessage{Type: msgType, Payload: payload})
}

func (b *recordingBroadcaster) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.msgs))
	for i, m := range b.msgs {
		out[i] = m.Type
	}
	return out
}

func (b *recordingBroadcaster) count(msgType string) int {
	n := 0
	for _, t := range b.types() {
		if t == msgType {
			n++
		}
	}
	return n
}

// countingRecorder counts metric calls
type countingRecorder struct {
	mu      sync.Mutex
	started map[string]int
	settled map[string]int
	paths   []float64
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{started: map[string]int{}, settled: map[string]int{}}
}

func (r *countingRecorder) GameStarted(game string, participants int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started[game]++
}

func (r *countingRecorder) GameSettled(game string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settled[game]++
}

func (r *countingRecorder) LadderPath(length float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, length)
}

// newGameService creates a GameService over repo with a fixed random sequence
func newGameService(t *testing.T, repo repository.FullRepository, values ...float64) (*services.GameService, *recordingBroadcaster) {
	t.Helper()
	svc := services.NewGameService(logger.Discard(), repo, engine.NewSequenceSource(values...), nil)
	b := &recordingBroadcaster{}
	svc.SetBroadcaster(b)
	return svc, b
}

// configure applies fn to a program's stored settings
func configure(t *testing.T, repo repository.FullRepository, id int, fn func(p *models.Program)) {
	t.Helper()
	ctx := context.Background()
	p, err := repo.GetProgram(ctx, id)
	if err != nil {
		t.Fatalf("GetProgram failed: %v", err)
	}
	fn(p)
	if err := repo.UpdateProgramSettings(ctx, id, p.Draw, p.Roulette, p.Config); err != nil {
		t.Fatalf("UpdateProgramSettings failed: %v", err)
	}
}

func participantNames(ps []models.Participant) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func historyNames(t *testing.T, repo repository.FullRepository, id int) []string {
	t.Helper()
	entries, err := repo.ListHistory(context.Background(), id)
	if err != nil {
		t.Fatalf("ListHistory failed: %v", err)
	}
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}
