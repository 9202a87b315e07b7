package model

import "time"

// SnapshotVersion is the current snapshot format version
const SnapshotVersion = 1

// SessionID identifies a persisted draft session
type SessionID string

// AutoDraftState is the persisted part of the orchestrator's state
type AutoDraftState struct {
	Enabled    bool `json:"enabled"`
	Continuous bool `json:"continuous"`
}

// Snapshot is everything needed to resume a draft session
type Snapshot struct {
	Version     int            `json:"version"`
	SavedAt     time.Time      `json:"saved_at"`
	Settings    Settings       `json:"settings"`
	CurrentPick int            `json:"current_pick"`
	AutoDraft   AutoDraftState `json:"auto_draft"`

	// Players are kept in import order
	Players []Player `json:"players"`
}

// DraftStats summarizes draft progress
type DraftStats struct {
	CurrentPick     int    `json:"current_pick"`
	CurrentRound    int    `json:"current_round"`
	PickInRound     int    `json:"pick_in_round"`
	TeamOnClock     int    `json:"team_on_clock"`
	TeamOnClockName string `json:"team_on_clock_name"`
	TotalPicks      int    `json:"total_picks"`
	Drafted         int    `json:"drafted"`
	Keepers         int    `json:"keepers"`
	Available       int    `json:"available"`
	PicksRemaining  int    `json:"picks_remaining"`
	IsComplete      bool   `json:"is_complete"`

	DraftedByPosition map[Position]int `json:"drafted_by_position"`

	// Overflow lists players assigned to a team with no free slot
	Overflow []OverflowEntry `json:"overflow,omitempty"`
}

// OverflowEntry records one player that could not be placed on a roster
type OverflowEntry struct {
	TeamID   int      `json:"team_id"`
	PlayerID PlayerID `json:"player_id"`
}
