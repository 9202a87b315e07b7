package bot_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/draftboard/internal/dependencies/mocks"
	"github.com/mcoot/draftboard/internal/model"
	"github.com/mcoot/draftboard/internal/services/bot"
	"github.com/mcoot/draftboard/internal/services/draft"
	"github.com/mcoot/draftboard/internal/testutil"
)

// fakeEvaluator answers with the first candidate unless fn is set
type fakeEvaluator struct {
	mu    sync.Mutex
	fn    func(ctx context.Context, available []model.Player) (model.PlayerID, error)
	calls []string
}

func (f *fakeEvaluator) Evaluate(ctx context.Context, available []model.Player, team model.Team, strategy string, variability float64) (model.PlayerID, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fmt.Sprintf("%d:%s", team.ID, strategy))
	fn := f.fn
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, available)
	}
	return available[0].ID, nil
}

func (f *fakeEvaluator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type ServiceSuite struct {
	suite.Suite
	clock     *clockwork.FakeClock
	engine    *draft.Engine
	evaluator *fakeEvaluator
	service   *bot.Service

	eventsMu sync.Mutex
	events   []model.Event
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC))
	s.evaluator = &fakeEvaluator{}
	s.events = nil
	s.setup(bot.DefaultStrategyTimeout, model.StrategyBPA, model.StrategyBPA, model.StrategyBPA, model.StrategyBPA)
}

func (s *ServiceSuite) TearDownTest() {
	s.service.Close()
}

// setup builds a 4-team snake league with the given strategies and twelve players
func (s *ServiceSuite) setup(timeout time.Duration, strategies ...string) {
	settings := model.Settings{
		NumTeams:       4,
		DraftStyle:     model.DraftStyleSnake,
		AutoDraftSpeed: model.SpeedFast,
		Roster: model.RosterSettings{
			{Position: model.PositionQB, Count: 1},
			{Position: model.PositionRB, Count: 1},
			{Position: model.PositionBENCH, Count: 1},
		},
	}
	for i, st := range strategies {
		settings.Teams = append(settings.Teams, model.TeamConfig{ID: i + 1, Strategy: st})
	}

	engine, err := draft.New(settings, s.clock, testutil.NopLogger())
	s.Require().NoError(err)
	var players []model.Player
	for i := 1; i <= 6; i++ {
		players = append(players,
			model.Player{ID: model.PlayerID(fmt.Sprintf("qb%d", i)), Name: fmt.Sprintf("QB %d", i), Position: model.PositionQB, Rank: 2*i - 1, Tier: model.IntPtr(i + 1)},
			model.Player{ID: model.PlayerID(fmt.Sprintf("rb%d", i)), Name: fmt.Sprintf("RB %d", i), Position: model.PositionRB, Rank: 2 * i, Tier: model.IntPtr(i)},
		)
	}
	s.Require().NoError(engine.Import(players))

	if s.service != nil {
		s.service.Close()
	}
	s.engine = engine
	s.service = bot.NewService(engine, s.evaluator, s.clock, timeout, testutil.NopLogger())
	s.service.Subscribe(func(evt model.Event) {
		s.eventsMu.Lock()
		defer s.eventsMu.Unlock()
		s.events = append(s.events, evt)
	})
}

func (s *ServiceSuite) eventTypes() []model.EventType {
	s.eventsMu.Lock()
	defer s.eventsMu.Unlock()
	var out []model.EventType
	for _, evt := range s.events {
		out = append(out, evt.Type)
	}
	return out
}

func (s *ServiceSuite) enable(continuous bool) {
	s.service.Restore(model.AutoDraftState{Enabled: true, Continuous: continuous})
}

// awaitTimer blocks until the code under test is waiting on n timers
func (s *ServiceSuite) awaitTimer(n int) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Require().NoError(s.clock.BlockUntilContext(ctx, n))
}

// pump advances the clock whenever a timer is pending until stop is closed
func (s *ServiceSuite) pump(stop <-chan struct{}, step time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-stop
		cancel()
	}()
	go func() {
		for {
			if err := s.clock.BlockUntilContext(ctx, 1); err != nil {
				return
			}
			s.clock.Advance(step)
		}
	}()
}

type stepOutcome struct {
	res bot.StepResult
	err error
}

func (s *ServiceSuite) stepAsync(ctx context.Context) <-chan stepOutcome {
	out := make(chan stepOutcome, 1)
	go func() {
		res, err := s.service.Step(ctx)
		out <- stepOutcome{res: res, err: err}
	}()
	return out
}

func (s *ServiceSuite) receive(ch <-chan stepOutcome) stepOutcome {
	select {
	case out := <-ch:
		return out
	case <-time.After(5 * time.Second):
		s.FailNow("step did not finish")
		return stepOutcome{}
	}
}

func (s *ServiceSuite) TestStepDisabled() {
	res, err := s.service.Step(context.Background())
	s.Require().NoError(err)
	s.Equal(bot.OutcomeDisabled, res.Outcome)
	s.Equal(1, s.engine.CurrentPick())
}

func (s *ServiceSuite) TestStepWaitsForManualTeam() {
	s.setup(bot.DefaultStrategyTimeout, model.StrategyManual, model.StrategyBPA)
	s.enable(true)

	res, err := s.service.Step(context.Background())
	s.Require().NoError(err)
	s.Equal(bot.OutcomeWaitingManual, res.Outcome)
	s.Equal(1, res.TeamID)
	s.Zero(s.evaluator.callCount())
}

func (s *ServiceSuite) TestStepDraftsAfterSpeedDelay() {
	s.enable(true)
	ch := s.stepAsync(context.Background())

	s.awaitTimer(1)
	s.clock.Advance(199 * time.Millisecond)
	s.Zero(s.evaluator.callCount())

	s.clock.Advance(time.Millisecond)
	out := s.receive(ch)
	s.Require().NoError(out.err)
	s.Equal(bot.OutcomePicked, out.res.Outcome)
	s.Equal(1, out.res.Pick)
	s.Equal(model.PlayerID("qb1"), out.res.PlayerID)
	s.False(out.res.Fallback)

	p, err := s.engine.Player("qb1")
	s.Require().NoError(err)
	s.Equal(model.StatusDrafted, p.Status)
	s.Equal(2, s.engine.CurrentPick())
}

func (s *ServiceSuite) TestStepCancelledDuringDelay() {
	s.enable(true)
	ctx, cancel := context.WithCancel(context.Background())
	ch := s.stepAsync(ctx)

	s.awaitTimer(1)
	cancel()

	out := s.receive(ch)
	s.Require().NoError(out.err)
	s.Equal(bot.OutcomeCancelled, out.res.Outcome)
	s.Equal(1, s.engine.CurrentPick())
	s.Zero(s.evaluator.callCount())
}

func (s *ServiceSuite) TestStepTimeoutFallsBack() {
	s.evaluator.fn = func(ctx context.Context, _ []model.Player) (model.PlayerID, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}
	s.enable(true)
	ch := s.stepAsync(context.Background())

	s.awaitTimer(1)
	s.clock.Advance(model.SpeedFast.Delay())
	s.awaitTimer(1)
	s.clock.Advance(bot.DefaultStrategyTimeout)

	out := s.receive(ch)
	s.Require().NoError(out.err)
	s.Equal(bot.OutcomePicked, out.res.Outcome)
	s.True(out.res.Fallback)
	s.Equal(model.PlayerID("qb1"), out.res.PlayerID)
	s.Contains(s.eventTypes(), model.EventAutoDraftFallback)
}

func (s *ServiceSuite) TestStepUnusableAnswerFallsBack() {
	s.evaluator.fn = func(context.Context, []model.Player) (model.PlayerID, error) {
		return "ghost", nil
	}
	s.enable(true)
	ch := s.stepAsync(context.Background())
	s.awaitTimer(1)
	s.clock.Advance(model.SpeedFast.Delay())

	out := s.receive(ch)
	s.Require().NoError(out.err)
	s.True(out.res.Fallback)
	s.Equal(model.PlayerID("qb1"), out.res.PlayerID)
}

func (s *ServiceSuite) TestStepErrorUsesTierFallback() {
	s.setup(bot.DefaultStrategyTimeout, model.StrategyTier)
	s.evaluator.fn = func(context.Context, []model.Player) (model.PlayerID, error) {
		return "", errors.New("collaborator down")
	}
	s.enable(true)
	ch := s.stepAsync(context.Background())
	s.awaitTimer(1)
	s.clock.Advance(model.SpeedFast.Delay())

	out := s.receive(ch)
	s.Require().NoError(out.err)
	s.True(out.res.Fallback)
	// rb1 has tier 1, qb1 has tier 2
	s.Equal(model.PlayerID("rb1"), out.res.PlayerID)
}

func (s *ServiceSuite) TestStepSkipsAvoidedPlayers() {
	_, err := s.engine.SetAvoided("qb1", true)
	s.Require().NoError(err)
	s.enable(true)
	ch := s.stepAsync(context.Background())
	s.awaitTimer(1)
	s.clock.Advance(model.SpeedFast.Delay())

	out := s.receive(ch)
	s.Require().NoError(out.err)
	s.Equal(model.PlayerID("rb1"), out.res.PlayerID)
}

func (s *ServiceSuite) TestRunSequenceSingleStepWhenNotContinuous() {
	s.enable(false)
	stop := make(chan struct{})
	defer close(stop)
	s.pump(stop, model.SpeedFast.Delay())

	results, err := s.service.RunSequence(context.Background())
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.Equal(bot.OutcomePicked, results[0].Outcome)
	s.Equal(2, s.engine.CurrentPick())
}

func (s *ServiceSuite) TestRunSequenceDraftsToCompletion() {
	s.setup(time.Hour, model.StrategyBPA, model.StrategyBPA, model.StrategyBPA, model.StrategyBPA)
	_, err := s.engine.AddKeeper("rb6", 2, 1)
	s.Require().NoError(err)
	s.enable(true)
	stop := make(chan struct{})
	defer close(stop)
	s.pump(stop, model.SpeedFast.Delay())

	results, err := s.service.RunSequence(context.Background())
	s.Require().NoError(err)

	s.Len(results, 12)
	s.Equal(bot.OutcomeComplete, results[len(results)-1].Outcome)
	s.True(s.engine.IsComplete())
	s.False(s.service.State().Enabled)
	s.Contains(s.eventTypes(), model.EventAutoDraftChanged)

	keeper, err := s.engine.Player("rb6")
	s.Require().NoError(err)
	s.Equal(model.StatusKeeper, keeper.Status)
	s.Equal(2, keeper.PickNumber)
	for _, res := range results[:len(results)-1] {
		s.NotEqual(2, res.Pick, "keeper pick must not be auto-drafted")
	}
}

func (s *ServiceSuite) TestRunSequenceStopsAtManualTeam() {
	s.setup(time.Hour, model.StrategyBPA, model.StrategyBPA, model.StrategyManual, model.StrategyBPA)
	s.enable(true)
	stop := make(chan struct{})
	defer close(stop)
	s.pump(stop, model.SpeedFast.Delay())

	results, err := s.service.RunSequence(context.Background())
	s.Require().NoError(err)
	s.Require().Len(results, 3)
	s.Equal(bot.OutcomeWaitingManual, results[2].Outcome)
	s.Equal(3, s.engine.CurrentPick())
	s.True(s.service.State().Enabled)
}

func (s *ServiceSuite) TestRunSequenceBusy() {
	s.enable(true)
	done := make(chan error, 1)
	go func() {
		_, err := s.service.RunSequence(context.Background())
		done <- err
	}()
	s.awaitTimer(1)

	_, err := s.service.RunSequence(context.Background())
	s.ErrorIs(err, model.ErrAutoDraftBusy)

	s.service.SetAutoDrafting(false)
	s.Require().NoError(<-done)
	s.Equal(1, s.engine.CurrentPick())
}

func (s *ServiceSuite) TestTriggerRunsAfterManualPick() {
	s.setup(time.Hour, model.StrategyManual, model.StrategyBPA, model.StrategyManual, model.StrategyManual)
	s.engine.Subscribe(s.service.HandleEvent)
	stop := make(chan struct{})
	defer close(stop)
	s.pump(stop, model.SpeedFast.Delay())

	s.service.SetAutoDrafting(true)
	s.Equal(1, s.engine.CurrentPick())

	_, err := s.engine.DraftPlayer("rb1")
	s.Require().NoError(err)

	s.Eventually(func() bool {
		return s.engine.CurrentPick() == 3
	}, 5*time.Second, 10*time.Millisecond)

	p, err := s.engine.Player("qb1")
	s.Require().NoError(err)
	s.Equal(2, p.TeamID)
}

func (s *ServiceSuite) TestDisableCancelsPendingDelay() {
	s.service.SetAutoDrafting(true)
	s.awaitTimer(1)

	s.service.SetAutoDrafting(false)
	s.service.Close()

	s.Equal(1, s.engine.CurrentPick())
	s.Zero(s.evaluator.callCount())
	s.Equal([]model.EventType{model.EventAutoDraftChanged, model.EventAutoDraftChanged}, s.eventTypes())
}

func (s *ServiceSuite) TestHandleEventIgnoresOwnPicksWhenContinuous() {
	s.service.Restore(model.AutoDraftState{Enabled: true, Continuous: true})
	s.service.HandleEvent(model.Event{
		Type:    model.EventPlayerDrafted,
		Payload: model.PickPayload{Origin: model.OriginAuto},
	})
	s.service.Close()
	s.Zero(s.evaluator.callCount())
	s.Equal(1, s.engine.CurrentPick())
}

func (s *ServiceSuite) TestNotContinuousDraftsConsecutiveAutomatedTeams() {
	s.setup(time.Hour, model.StrategyManual, model.StrategyBPA, model.StrategyBPA, model.StrategyManual)
	s.engine.Subscribe(s.service.HandleEvent)
	stop := make(chan struct{})
	defer close(stop)
	s.pump(stop, model.SpeedFast.Delay())

	s.service.SetContinuous(false)
	_, err := s.engine.DraftPlayer("rb1")
	s.Require().NoError(err)
	s.service.SetAutoDrafting(true)

	s.Eventually(func() bool {
		return s.engine.CurrentPick() == 4
	}, 5*time.Second, 10*time.Millisecond)

	for id, team := range map[model.PlayerID]int{"qb1": 2, "qb2": 3} {
		p, err := s.engine.Player(id)
		s.Require().NoError(err)
		s.Equal(team, p.TeamID, string(id))
	}
	s.True(s.service.State().Enabled)
}

func (s *ServiceSuite) TestTriggerDuringRunSequenceRunsAfterward() {
	s.enable(false)
	done := make(chan error, 1)
	go func() {
		_, err := s.service.RunSequence(context.Background())
		done <- err
	}()
	s.awaitTimer(1)

	s.service.Trigger()
	s.clock.Advance(model.SpeedFast.Delay())
	select {
	case err := <-done:
		s.Require().NoError(err)
	case <-time.After(5 * time.Second):
		s.FailNow("sequence did not finish")
	}
	s.Equal(2, s.engine.CurrentPick())

	s.awaitTimer(1)
	s.clock.Advance(model.SpeedFast.Delay())
	s.Eventually(func() bool {
		return s.engine.CurrentPick() == 3
	}, 5*time.Second, 10*time.Millisecond)
}

func (s *ServiceSuite) TestSetContinuousPublishesState() {
	s.service.SetContinuous(false)
	s.False(s.service.State().Continuous)
	s.Equal([]model.EventType{model.EventAutoDraftChanged}, s.eventTypes())

	s.service.SetContinuous(false)
	s.Len(s.eventTypes(), 1)
}

func TestFallback(t *testing.T) {
	candidates := []model.Player{
		{ID: "a", Rank: 3, Tier: model.IntPtr(2)},
		{ID: "b", Rank: 1},
		{ID: "c", Rank: 5, Tier: model.IntPtr(1)},
		{ID: "d", Rank: 4, Tier: model.IntPtr(1)},
	}

	tests := []struct {
		name       string
		candidates []model.Player
		strategy   string
		want       model.PlayerID
	}{
		{"rank for bpa", candidates, model.StrategyBPA, "b"},
		{"tier then rank", candidates, model.StrategyTier, "d"},
		{"tier prefix", candidates, "tier_plus", "d"},
		{"tier without tiers", []model.Player{{ID: "x", Rank: 9}, {ID: "y", Rank: 2}}, model.StrategyTier, "y"},
		{"no candidates", nil, model.StrategyBPA, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bot.Fallback(tt.candidates, tt.strategy); got != tt.want {
				t.Errorf("Fallback() = %q, want %q", got, tt.want)
			}
		})
	}
}
