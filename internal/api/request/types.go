package request

import "github.com/mcoot/draftboard/internal/model"

// PickRequest is the request body for drafting a player
type PickRequest struct {
	PlayerID model.PlayerID `json:"player_id"`
}

// FlagRequest is the request body for watching or avoiding a player.
// Omitted fields are left unchanged.
type FlagRequest struct {
	Watched *bool `json:"watched,omitempty"`
	Avoided *bool `json:"avoided,omitempty"`
}

// KeeperRequest is the request body for adding a keeper
type KeeperRequest struct {
	PlayerID model.PlayerID `json:"player_id"`
	TeamID   int            `json:"team_id"`
	Round    int            `json:"round"`
}

// AutoDraftRequest is the request body for changing auto-draft state.
// Omitted fields are left unchanged.
type AutoDraftRequest struct {
	Enabled    *bool                 `json:"enabled,omitempty"`
	Continuous *bool                 `json:"continuous,omitempty"`
	Speed      *model.AutoDraftSpeed `json:"speed,omitempty"`
}

// PredictRequest is the request body for availability predictions
type PredictRequest struct {
	MyTeamID int `json:"my_team_id"`
	Trials   int `json:"trials,omitempty"`
}
