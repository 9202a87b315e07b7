package factory

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mcoot/draftboard/internal/dependencies/mocks"
	"github.com/mcoot/draftboard/internal/model"
	"github.com/mcoot/draftboard/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *clockwork.FakeClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// A zero cfg.Settings uses TestSettings. It panics if cfg is invalid.
func NewTestApp(cfg Config) *TestApp {
	if cfg.Settings.NumTeams == 0 {
		cfg.Settings = TestSettings()
	}
	if cfg.SessionID == "" {
		cfg.SessionID = "test"
	}

	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	app, err := newWithDependencies(cfg, store, mockClock, mockRandom, logger)
	if err != nil {
		panic(fmt.Sprintf("test app: %v", err))
	}

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// TestSettings is a four team snake league where team 1 drafts by hand and
// the rest take the best available player
func TestSettings() model.Settings {
	settings := model.Settings{
		NumTeams:   4,
		DraftStyle: model.DraftStyleSnake,
		Roster: model.RosterSettings{
			{Position: model.PositionQB, Count: 1},
			{Position: model.PositionRB, Count: 1},
			{Position: model.PositionBENCH, Count: 1},
		},
		AutoDraftSpeed: model.SpeedInstant,
	}.Normalize()
	for i := range settings.Teams {
		if settings.Teams[i].ID == 1 {
			continue
		}
		settings.Teams[i].Strategy = model.StrategyBPA
		settings.Teams[i].Variability = 0
	}
	return settings
}

// TestPlayers returns six QBs and six RBs ranked qb1, rb1, qb2, rb2, ...
func TestPlayers() []model.Player {
	var players []model.Player
	for i := 1; i <= 6; i++ {
		players = append(players,
			model.Player{ID: model.PlayerID(fmt.Sprintf("qb%d", i)), Name: fmt.Sprintf("QB %d", i), Position: model.PositionQB, Team: "BUF", Rank: 2*i - 1, Status: model.StatusAvailable},
			model.Player{ID: model.PlayerID(fmt.Sprintf("rb%d", i)), Name: fmt.Sprintf("RB %d", i), Position: model.PositionRB, Team: "SF", Rank: 2 * i, Status: model.StatusAvailable},
		)
	}
	return players
}

// LoadTestPlayers imports TestPlayers into the engine
func (t *TestApp) LoadTestPlayers() error {
	return t.Engine.Import(TestPlayers())
}
