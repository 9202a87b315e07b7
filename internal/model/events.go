package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	// Draft events
	EventPlayerDrafted  EventType = "player_drafted"
	EventDraftUndone    EventType = "draft_undone"
	EventDraftRestarted EventType = "draft_restarted"
	EventDraftReset     EventType = "draft_reset"
	EventDraftComplete  EventType = "draft_complete"

	// Keeper events
	EventKeeperAdded   EventType = "keeper_added"
	EventKeeperRemoved EventType = "keeper_removed"

	// Session events
	EventPlayerFlagged    EventType = "player_flagged"
	EventSettingsUpdated  EventType = "settings_updated"
	EventPlayersImported  EventType = "players_imported"
	EventSnapshotRestored EventType = "snapshot_restored"

	// Auto-draft events
	EventAutoDraftChanged  EventType = "autodraft_changed"
	EventAutoDraftFallback EventType = "autodraft_fallback"
)

// PickOrigin records who made a pick
type PickOrigin string

const (
	OriginManual PickOrigin = "manual"
	OriginAuto   PickOrigin = "auto"
)

// Event is published after every committed change to the draft
type Event struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	CurrentPick int       `json:"current_pick"`
	PlayerID    PlayerID  `json:"player_id,omitempty"`
	Payload     any       `json:"payload,omitempty"`
}

// PickPayload contains data for drafted, undone and keeper events
type PickPayload struct {
	PlayerID   PlayerID   `json:"player_id"`
	PlayerName string     `json:"player_name"`
	Position   Position   `json:"position"`
	PickNumber int        `json:"pick_number"`
	Round      int        `json:"round"`
	TeamID     int        `json:"team_id"`
	TeamName   string     `json:"team_name"`
	Origin     PickOrigin `json:"origin,omitempty"`
}

// PickPayloadFor builds a PickPayload from a player's draft fields
func PickPayloadFor(p Player, origin PickOrigin) PickPayload {
	return PickPayload{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Position:   p.Position,
		PickNumber: p.PickNumber,
		Round:      p.Round,
		TeamID:     p.TeamID,
		TeamName:   p.TeamName,
		Origin:     origin,
	}
}

// FlagPayload contains data for player flag events
type FlagPayload struct {
	IsWatched bool `json:"is_watched"`
	IsAvoided bool `json:"is_avoided"`
}

// ImportPayload contains data for import and reset events
type ImportPayload struct {
	PlayerCount int `json:"player_count"`
}

// AutoDraftPayload contains the orchestrator state
type AutoDraftPayload struct {
	Enabled    bool           `json:"enabled"`
	Continuous bool           `json:"continuous"`
	Speed      AutoDraftSpeed `json:"speed"`
}

// FallbackPayload describes a pick made without the strategy collaborator
type FallbackPayload struct {
	TeamID   int    `json:"team_id"`
	Strategy string `json:"strategy"`
	Reason   string `json:"reason"`
}
