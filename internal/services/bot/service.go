// Package bot drafts for teams whose strategy is not manual.
//
// The Service runs one step at a time behind a single in-flight guard: it
// skips keeper-reserved picks, waits out the configured speed delay, asks the
// strategy evaluator for a player and commits the pick only if the cursor has
// not moved. Triggers that arrive while a step is running are coalesced into
// one re-run.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mcoot/draftboard/internal/dependencies/clock"
	"github.com/mcoot/draftboard/internal/model"
)

const (
	// DefaultStrategyTimeout bounds each evaluator call
	DefaultStrategyTimeout = 2 * time.Second
	// MaxStepIterations is a safety limit on re-evaluations within one step
	MaxStepIterations = 1000
)

// Drafter is the draft engine surface the orchestrator drives
type Drafter interface {
	Settings() model.Settings
	CurrentPick() int
	IsComplete() bool
	IsPickReserved(pick int) bool
	AdvancePastReserved() bool
	TeamOnClock() (model.TeamConfig, bool)
	CandidatePlayers() []model.Player
	Team(id int) (model.Team, error)
	DraftPlayerAt(id model.PlayerID, expectedPick int, origin model.PickOrigin) (model.Player, error)
}

// Evaluator chooses a player for a team using a named strategy
type Evaluator interface {
	Evaluate(ctx context.Context, available []model.Player, team model.Team, strategy string, variability float64) (model.PlayerID, error)
}

// Outcome is how a step ended
type Outcome string

const (
	OutcomePicked        Outcome = "picked"
	OutcomeWaitingManual Outcome = "waiting_manual"
	OutcomeComplete      Outcome = "complete"
	OutcomeDisabled      Outcome = "disabled"
	OutcomeCancelled     Outcome = "cancelled"
)

// StepResult describes one orchestrator step
type StepResult struct {
	Outcome  Outcome
	Pick     int
	TeamID   int
	PlayerID model.PlayerID
	// Fallback is set when the pick came from the local fallback rule
	Fallback bool
	// Skipped counts keeper-reserved picks passed over during the step
	Skipped int
}

// Listener receives orchestrator events
type Listener func(model.Event)

// Service is the auto-draft orchestrator
type Service struct {
	drafter   Drafter
	evaluator Evaluator
	clock     clock.Clock
	timeout   time.Duration
	logger    *slog.Logger

	mu         sync.Mutex
	enabled    bool
	continuous bool
	running    bool
	pending    bool
	closed     bool
	cancel     context.CancelFunc
	wg         sync.WaitGroup

	listenersMu sync.RWMutex
	listeners   []Listener
}

// NewService creates an orchestrator. Auto-drafting starts disabled and in
// continuous mode. A zero timeout uses DefaultStrategyTimeout.
func NewService(drafter Drafter, evaluator Evaluator, clk clock.Clock, timeout time.Duration, logger *slog.Logger) *Service {
	if timeout <= 0 {
		timeout = DefaultStrategyTimeout
	}
	return &Service{
		drafter:    drafter,
		evaluator:  evaluator,
		clock:      clk,
		timeout:    timeout,
		continuous: true,
		logger:     logger.With(slog.String("component", "autodraft")),
	}
}

// Subscribe registers a listener for orchestrator events
func (s *Service) Subscribe(fn Listener) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Service) publish(t model.EventType, payload any) {
	evt := model.Event{
		Type:        t,
		Timestamp:   s.clock.Now(),
		CurrentPick: s.drafter.CurrentPick(),
		Payload:     payload,
	}
	s.listenersMu.RLock()
	listeners := append([]Listener(nil), s.listeners...)
	s.listenersMu.RUnlock()
	for _, fn := range listeners {
		fn(evt)
	}
}

// State returns whether auto-drafting is enabled and continuous
func (s *Service) State() model.AutoDraftState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.AutoDraftState{Enabled: s.enabled, Continuous: s.continuous}
}

// Restore applies a saved state without triggering a run
func (s *Service) Restore(state model.AutoDraftState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = state.Enabled
	s.continuous = state.Continuous
}

func (s *Service) publishState() {
	state := s.State()
	s.publish(model.EventAutoDraftChanged, model.AutoDraftPayload{
		Enabled:    state.Enabled,
		Continuous: state.Continuous,
		Speed:      s.drafter.Settings().AutoDraftSpeed,
	})
}

// SetAutoDrafting turns auto-drafting on or off. Turning it on triggers a
// run; turning it off cancels any pending delay or strategy call.
func (s *Service) SetAutoDrafting(enabled bool) {
	s.mu.Lock()
	changed := s.enabled != enabled
	s.enabled = enabled
	if !enabled {
		s.pending = false
		if s.cancel != nil {
			s.cancel()
		}
	}
	s.mu.Unlock()

	if changed {
		s.logger.Info("auto-draft toggled", slog.Bool("enabled", enabled))
		s.publishState()
	}
	if enabled {
		s.Trigger()
	}
}

// SetContinuous chooses between drafting until a manual team is on the
// clock in one run and making one pick per run, with each pick triggering
// the next
func (s *Service) SetContinuous(continuous bool) {
	s.mu.Lock()
	changed := s.continuous != continuous
	s.continuous = continuous
	s.mu.Unlock()

	if changed {
		s.logger.Info("auto-draft mode changed", slog.Bool("continuous", continuous))
		s.publishState()
	}
}

// HandleEvent is the draft engine listener. Changes to the draft trigger a
// run. In continuous mode the running sequence already moves on after its
// own picks, so those are ignored; otherwise each own pick schedules the
// next step.
func (s *Service) HandleEvent(evt model.Event) {
	switch evt.Type {
	case model.EventPlayerDrafted:
		if p, ok := evt.Payload.(model.PickPayload); ok && p.Origin == model.OriginAuto && s.State().Continuous {
			return
		}
	case model.EventPlayerFlagged, model.EventDraftComplete:
		return
	}
	s.Trigger()
}

// Trigger starts a background run if auto-drafting is enabled. A trigger
// that arrives while a run is in flight is remembered and re-runs once.
func (s *Service) Trigger() {
	s.mu.Lock()
	if !s.enabled || s.closed {
		s.mu.Unlock()
		return
	}
	if s.running {
		s.pending = true
		s.mu.Unlock()
		return
	}
	ctx := s.acquire(context.Background())
	s.wg.Add(1)
	s.mu.Unlock()

	go s.loop(ctx)
}

func (s *Service) loop(ctx context.Context) {
	defer s.wg.Done()
	for {
		if _, err := s.sequence(ctx); err != nil {
			s.logger.Error("auto-draft run failed", slog.Any("error", err))
		}

		s.mu.Lock()
		again := s.pending && s.enabled && !s.closed
		s.pending = false
		if !again {
			s.release()
			s.mu.Unlock()
			return
		}
		if ctx.Err() != nil {
			// re-enabled after a cancel: the re-run needs a live context
			s.release()
			ctx = s.acquire(context.Background())
		}
		s.mu.Unlock()
	}
}

// acquire takes the in-flight guard. The caller holds mu.
func (s *Service) acquire(parent context.Context) context.Context {
	ctx, cancel := context.WithCancel(parent)
	s.running = true
	s.cancel = cancel
	return ctx
}

// release drops the in-flight guard. The caller holds mu.
func (s *Service) release() {
	s.running = false
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// RunSequence runs steps synchronously until a manual team is on the clock,
// the draft completes, or after one pick when not continuous. It fails with
// ErrAutoDraftBusy if a run is already in flight. A trigger that arrives
// while it runs starts a background run once it returns.
func (s *Service) RunSequence(ctx context.Context) ([]StepResult, error) {
	s.mu.Lock()
	if s.closed || s.running {
		s.mu.Unlock()
		return nil, model.ErrAutoDraftBusy
	}
	ctx = s.acquire(ctx)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.release()
		again := s.pending && s.enabled && !s.closed
		s.pending = false
		s.mu.Unlock()
		if again {
			s.Trigger()
		}
	}()
	return s.sequence(ctx)
}

func (s *Service) sequence(ctx context.Context) ([]StepResult, error) {
	var results []StepResult
	for {
		res, err := s.Step(ctx)
		if err != nil {
			return results, err
		}
		results = append(results, res)
		if res.Outcome != OutcomePicked || !s.State().Continuous {
			return results, nil
		}
	}
}

// Step makes at most one automated pick
func (s *Service) Step(ctx context.Context) (StepResult, error) {
	var res StepResult
	for range MaxStepIterations {
		if !s.State().Enabled {
			res.Outcome = OutcomeDisabled
			return res, nil
		}
		if s.drafter.IsComplete() {
			s.finish()
			res.Outcome = OutcomeComplete
			return res, nil
		}

		pick := s.drafter.CurrentPick()
		res.Pick = pick
		if s.drafter.IsPickReserved(pick) {
			if s.drafter.AdvancePastReserved() {
				res.Skipped++
			}
			continue
		}

		team, ok := s.drafter.TeamOnClock()
		if !ok {
			s.finish()
			res.Outcome = OutcomeComplete
			return res, nil
		}
		res.TeamID = team.ID
		if team.IsManual() {
			res.Outcome = OutcomeWaitingManual
			return res, nil
		}

		delay := s.drafter.Settings().AutoDraftSpeed.Delay()
		if err := s.wait(ctx, delay); err != nil {
			res.Outcome = OutcomeCancelled
			return res, nil
		}
		if !s.State().Enabled {
			res.Outcome = OutcomeDisabled
			return res, nil
		}
		if s.drafter.CurrentPick() != pick {
			continue
		}

		id, fallback, err := s.choose(ctx, team)
		if err != nil {
			if ctx.Err() != nil {
				res.Outcome = OutcomeCancelled
				return res, nil
			}
			return res, err
		}
		if id == "" {
			// nothing to draft; the next iteration sees the draft complete
			continue
		}

		p, err := s.drafter.DraftPlayerAt(id, pick, model.OriginAuto)
		if errors.Is(err, model.ErrStalePick) || errors.Is(err, model.ErrNotAvailable) {
			s.logger.Debug("pick moved during evaluation",
				slog.Int("pick", pick),
				slog.String("player_id", string(id)),
			)
			continue
		}
		if err != nil {
			return res, fmt.Errorf("failed to draft for team %d: %w", team.ID, err)
		}

		res.Outcome = OutcomePicked
		res.PlayerID = p.ID
		res.Fallback = fallback
		s.logger.Info("auto-drafted player",
			slog.Int("pick", pick),
			slog.Int("team_id", team.ID),
			slog.String("strategy", team.Strategy),
			slog.String("player_id", string(p.ID)),
			slog.Bool("fallback", fallback),
		)
		return res, nil
	}
	return res, fmt.Errorf("auto-draft step exceeded %d iterations", MaxStepIterations)
}

// finish turns auto-drafting off once the draft is over
func (s *Service) finish() {
	s.mu.Lock()
	was := s.enabled
	s.enabled = false
	s.mu.Unlock()
	if was {
		s.logger.Info("draft complete, auto-draft disabled")
		s.publishState()
	}
}

// choose asks the evaluator for a player and falls back locally when it
// fails, times out or names someone who cannot be drafted
func (s *Service) choose(ctx context.Context, team model.TeamConfig) (model.PlayerID, bool, error) {
	candidates := s.drafter.CandidatePlayers()
	if len(candidates) == 0 {
		return "", false, nil
	}
	roster, err := s.drafter.Team(team.ID)
	if err != nil {
		return "", false, err
	}

	id, err := s.evaluate(ctx, candidates, roster, team)
	if ctx.Err() != nil {
		return "", false, ctx.Err()
	}
	reason := ""
	switch {
	case err != nil:
		reason = err.Error()
	case !contains(candidates, id):
		reason = fmt.Sprintf("strategy chose unavailable player %q", id)
	default:
		return id, false, nil
	}

	pick := Fallback(candidates, team.Strategy)
	s.logger.Warn("strategy unavailable, using fallback pick",
		slog.Int("team_id", team.ID),
		slog.String("strategy", team.Strategy),
		slog.String("reason", reason),
		slog.String("player_id", string(pick)),
	)
	s.publish(model.EventAutoDraftFallback, model.FallbackPayload{
		TeamID:   team.ID,
		Strategy: team.Strategy,
		Reason:   reason,
	})
	return pick, true, nil
}

func (s *Service) evaluate(ctx context.Context, candidates []model.Player, roster model.Team, team model.TeamConfig) (model.PlayerID, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		id  model.PlayerID
		err error
	}
	done := make(chan result, 1)
	go func() {
		id, err := s.evaluator.Evaluate(ctx, candidates, roster, team.Strategy, team.Variability)
		done <- result{id: id, err: err}
	}()

	timer := s.clock.NewTimer(s.timeout)
	defer stopAndDrainTimer(timer)

	select {
	case r := <-done:
		return r.id, r.err
	case <-timer.Chan():
		return "", fmt.Errorf("%w: no answer within %s", model.ErrStrategyUnavailable, s.timeout)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// wait blocks for d or until ctx is cancelled
func (s *Service) wait(ctx context.Context, d time.Duration) error {
	timer := s.clock.NewTimer(d)
	defer stopAndDrainTimer(timer)
	select {
	case <-timer.Chan():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// stopAndDrainTimer stops a timer and drains its channel if it already fired
func stopAndDrainTimer(timer clockwork.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.Chan():
		default:
		}
	}
}

// Close cancels any run in flight and waits for it to finish
func (s *Service) Close() {
	s.mu.Lock()
	s.closed = true
	s.pending = false
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func contains(players []model.Player, id model.PlayerID) bool {
	for _, p := range players {
		if p.ID == id {
			return true
		}
	}
	return false
}
