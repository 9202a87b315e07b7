package factory

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/draftboard/internal/model"
	"github.com/mcoot/draftboard/internal/services/autosave"
	"github.com/mcoot/draftboard/internal/services/strategy/remote"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp(Config{})
	s.ctx = context.Background()
	s.Require().NoError(s.app.LoadTestPlayers())
}

func (s *IntegrationSuite) TearDownTest() {
	s.NoError(s.app.Close(s.ctx))
}

// advanceUntil moves the fake clock forward in small steps until cond holds
func (s *IntegrationSuite) advanceUntil(cond func() bool) {
	s.Require().Eventually(func() bool {
		if cond() {
			return true
		}
		s.app.MockClock.Advance(model.SpeedInstant.Delay())
		return false
	}, 2*time.Second, 5*time.Millisecond)
}

func (s *IntegrationSuite) TestManualDraftAndUndo() {
	_, err := s.app.Engine.DraftPlayer("qb1")
	s.Require().NoError(err)
	_, err = s.app.Engine.DraftPlayer("rb1")
	s.Require().NoError(err)

	team, err := s.app.Engine.Team(2)
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"rb1"}, playerIDs(team.Players()))

	undone, err := s.app.Engine.UndoLastDraft()
	s.Require().NoError(err)
	s.Equal(model.PlayerID("rb1"), undone.ID)
	s.Equal(2, s.app.Engine.CurrentPick())
}

func (s *IntegrationSuite) TestAutoDraftRunsUntilManualTeam() {
	s.app.BotService.SetAutoDrafting(true)

	// team 1 is manual, so nothing happens until it picks
	_, err := s.app.Engine.DraftPlayer("qb1")
	s.Require().NoError(err)

	// snake order hands picks 2 to 7 to the automated teams
	s.advanceUntil(func() bool { return s.app.Engine.CurrentPick() == 8 })

	team, ok := s.app.Engine.TeamOnClock()
	s.Require().True(ok)
	s.Equal(1, team.ID)
	s.Equal(7, s.app.Engine.Stats().Drafted)
}

func (s *IntegrationSuite) TestAutosaveAndRestore() {
	s.app.BotService.SetContinuous(false)
	_, err := s.app.Engine.AddKeeper("qb6", 3, 2)
	s.Require().NoError(err)
	_, err = s.app.Engine.DraftPlayer("qb1")
	s.Require().NoError(err)

	s.advanceUntil(func() bool {
		_, err := s.app.Session.Load(s.ctx)
		return err == nil && !s.app.Saver.Pending()
	})

	restored, err := newWithDependencies(Config{SessionID: "test", Settings: TestSettings()}, s.app.Storage, s.app.MockClock, s.app.MockRandom, s.app.logger)
	s.Require().NoError(err)
	defer restored.Hub.Close()
	ok, err := restored.Restore(s.ctx)
	s.Require().NoError(err)
	s.True(ok)

	s.Equal(s.app.Engine.Stats(), restored.Engine.Stats())
	s.Equal(s.app.Engine.Keepers(), restored.Engine.Keepers())
	s.Equal(model.AutoDraftState{Enabled: false, Continuous: false}, restored.BotService.State())
}

func (s *IntegrationSuite) TestRestoreWithoutSnapshot() {
	ok, err := s.app.Restore(s.ctx)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *IntegrationSuite) TestStartImportsRankingsWhenNothingSaved() {
	path := filepath.Join(s.T().TempDir(), "rankings.json")
	data, err := json.Marshal([]map[string]any{
		{"name": "Josh Allen", "position": "QB", "team": "BUF", "rank": 1},
		{"name": "Bijan Robinson", "position": "RB", "team": "ATL", "rank": 2, "tier": 1},
	})
	s.Require().NoError(err)
	s.Require().NoError(os.WriteFile(path, data, 0o600))

	s.Require().NoError(s.app.Start(s.ctx, path))
	s.Equal(2, s.app.Engine.Stats().Available)
}

func (s *IntegrationSuite) TestStartPrefersSavedSession() {
	_, err := s.app.Engine.DraftPlayer("qb1")
	s.Require().NoError(err)
	s.Require().NoError(s.app.Saver.Flush(s.ctx))

	s.Require().NoError(s.app.Start(s.ctx, filepath.Join(s.T().TempDir(), "missing.json")))
	s.Equal(1, s.app.Engine.Stats().Drafted)
}

func (s *IntegrationSuite) TestClearedSessionIsNotRestored() {
	s.Require().NoError(s.app.Saver.Flush(s.ctx))
	s.Require().NoError(s.app.Session.Clear(s.ctx))

	ok, err := s.app.Restore(s.ctx)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *IntegrationSuite) TestRemoteEvaluatorSelectedByURL() {
	app := NewTestApp(Config{StrategyURL: "http://strategies.local"})
	defer func() { s.NoError(app.Close(s.ctx)) }()

	s.IsType(&remote.Client{}, app.Evaluator)
	s.Same(s.app.Strategies, s.app.Evaluator)
}

func (s *IntegrationSuite) TestAutosaveUsesConfiguredQuietPeriod() {
	app := NewTestApp(Config{AutosaveQuietPeriod: 2 * autosave.DefaultQuietPeriod})
	defer func() { s.NoError(app.Close(s.ctx)) }()
	s.Require().NoError(app.LoadTestPlayers())

	ctx, cancel := context.WithTimeout(s.ctx, time.Second)
	defer cancel()
	s.Require().NoError(app.MockClock.BlockUntilContext(ctx, 1))

	app.MockClock.Advance(autosave.DefaultQuietPeriod)
	s.True(app.Saver.Pending())
}

func playerIDs(players []model.Player) []model.PlayerID {
	ids := make([]model.PlayerID, 0, len(players))
	for _, p := range players {
		ids = append(ids, p.ID)
	}
	return ids
}
