package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/abrezinsky/luckydraw/internal/engine"
	"github.com/abrezinsky/luckydraw/internal/logger"
	"github.com/abrezinsky/luckydraw/internal/metrics"
	"github.com/abrezinsky/luckydraw/internal/models"
	"github.com/abrezinsky/luckydraw/internal/repository"
)

// WebSocket message types
const (
	MsgProgramUpdated = "program_updated"
	MsgGameStarted    = "game_started"
	MsgGameProgress   = "game_progress"
	MsgGameSettled    = "game_settled"
	MsgLadderBuilt    = "ladder_built"
)

const (
	// DrawDuration is how long the draw reveal animates
	DrawDuration = 2 * time.Second
	// LadderSpeed is the trace speed in ladder length units per second
	LadderSpeed = 3.0
)

// Timing tells a client whether to animate a result and for how long
type Timing struct {
	Animating bool    `json:"animating"`
	Duration  float64 `json:"duration"` // seconds
}

// DrawResult is the outcome of a weighted draw
type DrawResult struct {
	ProgramID int                  `json:"program_id"`
	Winners   []models.Participant `json:"winners"`
	Timing
}

// SpinResult is the outcome of a roulette spin
type SpinResult struct {
	ProgramID    int                   `json:"program_id"`
	Winner       models.Participant    `json:"winner"`
	WinnerIndex  int                   `json:"winner_index"`
	Participants []models.Participant  `json:"participants"`
	Segments     []engine.WheelSegment `json:"segments"`
	FromRotation float64               `json:"from_rotation"`
	ToRotation   float64               `json:"to_rotation"`
	Timing
}

// LadderView is a built ladder together with the participants on its tracks.
// A draw that removes participants discards the program's ladder.
type LadderView struct {
	ProgramID    int                  `json:"program_id"`
	Participants []models.Participant `json:"participants"`
	Ladder       *engine.Ladder       `json:"ladder"`
}

// TraceResult is one participant's walk down the current ladder
type TraceResult struct {
	ProgramID   int                    `json:"program_id"`
	Track       int                    `json:"track"`
	Participant models.Participant     `json:"participant"`
	Label       string                 `json:"label"`
	Path        engine.ParticipantPath `json:"path"`
	Timing
}

// GameStatus is a snapshot of a running or just-settled game
type GameStatus struct {
	ProgramID int                   `json:"program_id"`
	Game      string                `json:"game"`
	State     engine.AnimationState `json:"state"`
	Progress  float64               `json:"progress"`
	Target    float64               `json:"target"`
	Result    interface{}           `json:"result,omitempty"`
}

// session is one animating game; its side effects are applied when it settles
type session struct {
	game     string
	animator *engine.Animator
	config   models.ProgramConfig
	remove   []string // participant IDs
	history  []string
	result   interface{}
	last     engine.Frame
}

// GameService runs the draw, roulette and ladder games.
//
// At most one game animates per program. Results are committed (history,
// removal) when the animation settles, or immediately when the program skips
// animations.
type GameService struct {
	log         logger.Logger
	repo        repository.FullRepository
	rng         engine.RandomSource
	metrics     metrics.Recorder
	broadcaster Broadcaster

	mu        sync.Mutex
	sessions  map[int]*session
	rotations map[int]float64
	ladders   map[int]*LadderView
}

// NewGameService creates a new GameService
func NewGameService(log logger.Logger, repo repository.FullRepository, rng engine.RandomSource, rec metrics.Recorder) *GameService {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &GameService{
		log:       log,
		repo:      repo,
		rng:       rng,
		metrics:   rec,
		sessions:  make(map[int]*session),
		rotations: make(map[int]float64),
		ladders:   make(map[int]*LadderView),
	}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *GameService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

func (s *GameService) publish(msgs []models.WSMessage) {
	if s.broadcaster == nil {
		return
	}
	for _, m := range msgs {
		s.broadcaster.BroadcastMessage(m.Type, m.Payload)
	}
}

// busy reports whether programID has an animating game. Caller holds s.mu.
func (s *GameService) busy(programID int) bool {
	sess, ok := s.sessions[programID]
	return ok && sess.animator.State() == engine.StateAnimating
}

// Draw picks the program's draw count of winners from the eligible pool
func (s *GameService) Draw(ctx context.Context, programID int) (*DrawResult, error) {
	s.mu.Lock()
	res, msgs, err := s.draw(ctx, programID)
	s.mu.Unlock()
	s.publish(msgs)
	return res, err
}

func (s *GameService) draw(ctx context.Context, programID int) (*DrawResult, []models.WSMessage, error) {
	if s.busy(programID) {
		return nil, nil, ErrGameInProgress
	}
	p, err := requireProgram(ctx, s.repo, programID)
	if err != nil {
		return nil, nil, err
	}
	pool, err := loadPool(ctx, s.repo, programID)
	if err != nil {
		return nil, nil, err
	}
	if len(pool) == 0 {
		return nil, nil, ErrNoParticipants
	}

	count := p.Draw.DrawCount
	if count < 1 {
		count = 1
	}
	picked := engine.SampleIndices(toEntries(pool), count, p.Draw.AllowDuplicate, s.rng)
	winners := make([]models.Participant, len(picked))
	for i, idx := range picked {
		winners[i] = pool[idx]
	}

	res := &DrawResult{ProgramID: programID, Winners: winners}
	sess := &session{
		game:    models.GameDraw,
		config:  p.Config,
		remove:  participantIDs(winners),
		history: participantNames(winners),
		result:  res,
	}
	msgs, err := s.launch(ctx, programID, sess, 0, 1, DrawDuration, len(pool), &res.Timing)
	if err != nil {
		return nil, nil, err
	}
	s.log.Info("Draw started", "program_id", programID, "winners", len(winners), "animating", res.Animating)
	return res, msgs, nil
}

// Spin picks one winner and turns the wheel so the winner's segment stops under the pointer.
// The wheel's rotation accumulates per program.
func (s *GameService) Spin(ctx context.Context, programID int) (*SpinResult, error) {
	s.mu.Lock()
	res, msgs, err := s.spin(ctx, programID)
	s.mu.Unlock()
	s.publish(msgs)
	return res, err
}

func (s *GameService) spin(ctx context.Context, programID int) (*SpinResult, []models.WSMessage, error) {
	if s.busy(programID) {
		return nil, nil, ErrGameInProgress
	}
	p, err := requireProgram(ctx, s.repo, programID)
	if err != nil {
		return nil, nil, err
	}
	pool, err := loadPool(ctx, s.repo, programID)
	if err != nil {
		return nil, nil, err
	}
	if len(pool) == 0 {
		return nil, nil, ErrNoParticipants
	}

	entries := toEntries(pool)
	winner := engine.SampleIndices(entries, 1, false, s.rng)[0]
	from := s.rotations[programID]
	to := engine.NextRotation(from, entries, winner, engine.DefaultFullTurns)

	res := &SpinResult{
		ProgramID:    programID,
		Winner:       pool[winner],
		WinnerIndex:  winner,
		Participants: pool,
		Segments:     engine.WheelSegments(entries),
		FromRotation: from,
		ToRotation:   to,
	}
	sess := &session{
		game:    models.GameRoulette,
		config:  p.Config,
		remove:  []string{pool[winner].ID},
		history: []string{pool[winner].Name},
		result:  res,
	}
	duration := time.Duration(p.Roulette.SpinDuration * float64(time.Second))
	msgs, err := s.launch(ctx, programID, sess, from, to, duration, len(pool), &res.Timing)
	if err != nil {
		return nil, nil, err
	}
	s.rotations[programID] = to
	s.log.Info("Roulette started", "program_id", programID, "rotation", to, "animating", res.Animating)
	return res, msgs, nil
}

// Rotation returns the wheel's current cumulative rotation for a program
func (s *GameService) Rotation(programID int) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rotations[programID]
}

// BuildLadder generates a new ladder over the eligible pool, replacing any previous one
func (s *GameService) BuildLadder(ctx context.Context, programID int) (*LadderView, error) {
	s.mu.Lock()
	view, err := s.buildLadder(ctx, programID)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	s.publish([]models.WSMessage{{Type: MsgLadderBuilt, Payload: map[string]interface{}{"program_id": programID}}})
	return view, nil
}

func (s *GameService) buildLadder(ctx context.Context, programID int) (*LadderView, error) {
	if s.busy(programID) {
		return nil, ErrGameInProgress
	}
	if _, err := requireProgram(ctx, s.repo, programID); err != nil {
		return nil, err
	}
	pool, err := loadPool(ctx, s.repo, programID)
	if err != nil {
		return nil, err
	}
	if len(pool) < 2 {
		return nil, ErrNotEnoughParticipants
	}
	labels, err := s.repo.ListLadderLabels(ctx, programID)
	if err != nil {
		return nil, err
	}

	ladder := engine.BuildLadder(toEntries(pool), labels, engine.DefaultLadderRows, engine.DefaultOutcomeLabel, s.rng)
	view := &LadderView{ProgramID: programID, Participants: pool, Ladder: ladder}
	s.ladders[programID] = view
	s.log.Info("Ladder built", "program_id", programID, "tracks", len(pool), "rungs", len(ladder.Topology.Rungs))
	return view, nil
}

// Ladder returns the program's current ladder
func (s *GameService) Ladder(ctx context.Context, programID int) (*LadderView, error) {
	if _, err := requireProgram(ctx, s.repo, programID); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	view, ok := s.ladders[programID]
	if !ok {
		return nil, ErrNoLadder
	}
	return view, nil
}

// TraceLadder animates the participant on track down the current ladder.
// Ladder games never remove participants.
func (s *GameService) TraceLadder(ctx context.Context, programID, track int) (*TraceResult, error) {
	s.mu.Lock()
	res, msgs, err := s.traceLadder(ctx, programID, track)
	s.mu.Unlock()
	s.publish(msgs)
	return res, err
}

func (s *GameService) traceLadder(ctx context.Context, programID, track int) (*TraceResult, []models.WSMessage, error) {
	if s.busy(programID) {
		return nil, nil, ErrGameInProgress
	}
	p, err := requireProgram(ctx, s.repo, programID)
	if err != nil {
		return nil, nil, err
	}
	view, ok := s.ladders[programID]
	if !ok {
		return nil, nil, ErrNoLadder
	}
	if track < 0 || track >= len(view.Ladder.Results) {
		return nil, nil, ErrInvalidTrack
	}

	r := view.Ladder.Results[track]
	res := &TraceResult{
		ProgramID:   programID,
		Track:       track,
		Participant: view.Participants[track],
		Label:       r.Label,
		Path:        r.Path,
	}
	config := p.Config
	config.RemoveAfterDraw = false
	sess := &session{
		game:    models.GameLadder,
		config:  config,
		history: []string{fmt.Sprintf("%s: %s", r.Entry.Name, r.Label)},
		result:  res,
	}
	s.metrics.LadderPath(r.Path.TotalLength)
	duration := time.Duration(r.Path.TotalLength / LadderSpeed * float64(time.Second))
	msgs, err := s.launch(ctx, programID, sess, 0, r.Path.TotalLength, duration, len(view.Participants), &res.Timing)
	if err != nil {
		return nil, nil, err
	}
	return res, msgs, nil
}

// launch either commits sess right away (skip animation) or starts its animator.
// Caller holds s.mu.
func (s *GameService) launch(ctx context.Context, programID int, sess *session, from, to float64, d time.Duration, poolSize int, timing *Timing) ([]models.WSMessage, error) {
	s.metrics.GameStarted(sess.game, poolSize)

	if sess.config.SkipAnimation {
		s.metrics.GameSettled(sess.game)
		if err := s.commit(ctx, programID, sess); err != nil {
			return nil, err
		}
		sess.last = engine.Frame{State: engine.StateSettled, Progress: to, Target: to, Settled: true}
		return []models.WSMessage{statusMessage(MsgGameSettled, programID, sess), updatedMessage(programID)}, nil
	}

	timing.Animating = true
	timing.Duration = d.Seconds()
	sess.animator = engine.NewAnimator()
	if err := sess.animator.Start(from, to, d); err != nil {
		return nil, err
	}
	sess.last = engine.Frame{State: engine.StateAnimating, Progress: from, Target: to}
	s.sessions[programID] = sess
	return []models.WSMessage{statusMessage(MsgGameStarted, programID, sess)}, nil
}

// Skip jumps the program's running game to its end; the result is committed on the next Step
func (s *GameService) Skip(programID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.busy(programID) {
		return ErrNoActiveGame
	}
	s.sessions[programID].animator.Skip()
	return nil
}

// Step advances every running game by dt. Games that settle are committed and
// announced after their animator reports the transition.
func (s *GameService) Step(ctx context.Context, dt time.Duration) {
	s.mu.Lock()
	var msgs []models.WSMessage
	for programID, sess := range s.sessions {
		sess.last = sess.animator.Tick(dt)
		if !sess.last.Settled {
			msgs = append(msgs, statusMessage(MsgGameProgress, programID, sess))
			continue
		}

		delete(s.sessions, programID)
		s.metrics.GameSettled(sess.game)
		if err := s.commit(ctx, programID, sess); err != nil {
			s.log.Error("Failed to commit game result", "program_id", programID, "game", sess.game, "error", err)
		}
		msgs = append(msgs, statusMessage(MsgGameSettled, programID, sess), updatedMessage(programID))
	}
	s.mu.Unlock()
	s.publish(msgs)
}

// commit records the session's history and removes its winners as configured.
// Caller holds s.mu.
func (s *GameService) commit(ctx context.Context, programID int, sess *session) error {
	if sess.config.KeepHistory && len(sess.history) > 0 {
		if err := s.repo.AddHistory(ctx, programID, sess.game, sess.history); err != nil {
			return err
		}
	}
	if sess.config.RemoveAfterDraw && len(sess.remove) > 0 {
		if err := s.repo.RemoveParticipants(ctx, programID, dedupe(sess.remove)); err != nil {
			return err
		}
		// the built ladder still lists the removed participants
		delete(s.ladders, programID)
	}
	s.log.Info("Game settled", "program_id", programID, "game", sess.game)
	return nil
}

// Status returns the program's running game, if any
func (s *GameService) Status(programID int) (*GameStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[programID]
	if !ok {
		return nil, false
	}
	st := sess.status(programID)
	return &st, true
}

// ActiveGames returns a snapshot of every running game
func (s *GameService) ActiveGames() []GameStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]GameStatus, 0, len(s.sessions))
	for programID, sess := range s.sessions {
		out = append(out, sess.status(programID))
	}
	return out
}

// Forget drops all in-memory game state of a program (after it is deleted)
func (s *GameService) Forget(programID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[programID]; ok {
		s.metrics.GameSettled(sess.game)
		delete(s.sessions, programID)
	}
	delete(s.rotations, programID)
	delete(s.ladders, programID)
}

func (sess *session) status(programID int) GameStatus {
	return GameStatus{
		ProgramID: programID,
		Game:      sess.game,
		State:     sess.last.State,
		Progress:  sess.last.Progress,
		Target:    sess.last.Target,
		Result:    sess.result,
	}
}

func statusMessage(msgType string, programID int, sess *session) models.WSMessage {
	st := sess.status(programID)
	if msgType == MsgGameProgress {
		st.Result = nil
	}
	return models.WSMessage{Type: msgType, Payload: st}
}

func updatedMessage(programID int) models.WSMessage {
	return models.WSMessage{Type: MsgProgramUpdated, Payload: map[string]interface{}{"program_id": programID}}
}

func participantIDs(ps []models.Participant) []string {
	ids := make([]string, len(ps))
	for i, p := range ps {
		ids[i] = p.ID
	}
	return ids
}

func participantNames(ps []models.Participant) []string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name
	}
	return names
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
