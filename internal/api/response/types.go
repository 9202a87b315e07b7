package response

import (
	"github.com/mcoot/draftboard/internal/model"
	"github.com/mcoot/draftboard/internal/services/strategy"
)

// Health is the liveness response
type Health struct {
	Status    string `json:"status"`
	SessionID string `json:"session_id"`
	Players   int    `json:"players"`
}

// AutoDraft is the orchestrator state
type AutoDraft struct {
	Enabled    bool                 `json:"enabled"`
	Continuous bool                 `json:"continuous"`
	Speed      model.AutoDraftSpeed `json:"speed"`
}

// AutoDraftFromState combines orchestrator state with the configured speed
func AutoDraftFromState(state model.AutoDraftState, speed model.AutoDraftSpeed) AutoDraft {
	return AutoDraft{
		Enabled:    state.Enabled,
		Continuous: state.Continuous,
		Speed:      speed,
	}
}

// Draft is the overview returned by GET /draft
type Draft struct {
	Stats       model.DraftStats  `json:"stats"`
	Settings    model.Settings    `json:"settings"`
	AutoDraft   AutoDraft         `json:"auto_draft"`
	TeamOnClock *model.TeamConfig `json:"team_on_clock,omitempty"`
}

// Pick is the response for drafting or undoing a pick
type Pick struct {
	Player      model.Player `json:"player"`
	CurrentPick int          `json:"current_pick"`
	IsComplete  bool         `json:"is_complete"`
}

// Undo is the response for undoing the last pick. Player is nil when
// nothing had been drafted.
type Undo struct {
	Player      *model.Player `json:"player"`
	CurrentPick int           `json:"current_pick"`
}

// Players wraps a player listing
type Players struct {
	Players []model.Player `json:"players"`
	Count   int            `json:"count"`
}

// PlayersFrom builds a Players response, never encoding a null list
func PlayersFrom(players []model.Player) Players {
	if players == nil {
		players = []model.Player{}
	}
	return Players{Players: players, Count: len(players)}
}

// Teams wraps the derived team boards
type Teams struct {
	Teams []model.Team `json:"teams"`
}

// Strategies wraps the strategy registry
type Strategies struct {
	Strategies []strategy.Info `json:"strategies"`
}

// Prediction maps player ids to the probability they are still available
// at the team's next pick
type Prediction struct {
	MyTeamID      int                        `json:"my_team_id"`
	Trials        int                        `json:"trials"`
	Probabilities map[model.PlayerID]float64 `json:"probabilities"`
}

// Import is the response for a player import
type Import struct {
	Imported int `json:"imported"`
}
