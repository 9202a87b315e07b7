package model

import (
	"fmt"
	"strings"
)

// PlayerID uniquely identifies a ranked player for the lifetime of a session
type PlayerID string

// Position is a roster position. QB through K are player positions,
// FLEX and BENCH only exist as roster slots.
type Position string

const (
	PositionQB    Position = "QB"
	PositionRB    Position = "RB"
	PositionWR    Position = "WR"
	PositionTE    Position = "TE"
	PositionDST   Position = "DST"
	PositionK     Position = "K"
	PositionFLEX  Position = "FLEX"
	PositionBENCH Position = "BENCH"
)

// PlayerPositions returns the positions a player can have, in display order
func PlayerPositions() []Position {
	return []Position{PositionQB, PositionRB, PositionWR, PositionTE, PositionDST, PositionK}
}

// IsPlayerPosition reports whether p is a position a player can have
func (p Position) IsPlayerPosition() bool {
	switch p {
	case PositionQB, PositionRB, PositionWR, PositionTE, PositionDST, PositionK:
		return true
	}
	return false
}

// IsSlot reports whether p can appear in roster settings
func (p Position) IsSlot() bool {
	return p.IsPlayerPosition() || p == PositionFLEX || p == PositionBENCH
}

// IsFlexEligible reports whether a player at p may fill a FLEX slot
func (p Position) IsFlexEligible() bool {
	return p == PositionRB || p == PositionWR || p == PositionTE
}

// ParsePosition parses a player position, accepting common spellings
func ParsePosition(s string) (Position, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "QB":
		return PositionQB, nil
	case "RB":
		return PositionRB, nil
	case "WR":
		return PositionWR, nil
	case "TE":
		return PositionTE, nil
	case "DST", "D/ST", "DEF", "D":
		return PositionDST, nil
	case "K", "PK":
		return PositionK, nil
	}
	return "", fmt.Errorf("unknown position %q", s)
}

// PlayerStatus is the draft status of a player
type PlayerStatus string

const (
	StatusAvailable PlayerStatus = "available"
	StatusDrafted   PlayerStatus = "drafted"
	StatusKeeper    PlayerStatus = "keeper"
)

// IsValid reports whether the status is one of the three known values
func (s PlayerStatus) IsValid() bool {
	return s == StatusAvailable || s == StatusDrafted || s == StatusKeeper
}

// Player is a ranked athlete and, once taken, the pick that took them.
// PickNumber, Round, TeamID and TeamName are only set when Status is not
// available, and are always set or cleared together.
type Player struct {
	ID       PlayerID `json:"id"`
	Name     string   `json:"name"`
	Position Position `json:"position"`
	Team     string   `json:"team"`
	Rank     int      `json:"rank"`
	Tier     *int     `json:"tier,omitempty"`

	Status     PlayerStatus `json:"status"`
	PickNumber int          `json:"pick_number,omitempty"`
	Round      int          `json:"round,omitempty"`
	TeamID     int          `json:"team_id,omitempty"`
	TeamName   string       `json:"team_name,omitempty"`

	IsWatched bool `json:"is_watched,omitempty"`
	IsAvoided bool `json:"is_avoided,omitempty"`
}

// IsAvailable reports whether the player can still be drafted
func (p Player) IsAvailable() bool {
	return p.Status == StatusAvailable
}

// HasTier reports whether tier data was imported for the player
func (p Player) HasTier() bool {
	return p.Tier != nil
}

// TierValue returns the tier, or 0 when the player has none
func (p Player) TierValue() int {
	if p.Tier == nil {
		return 0
	}
	return *p.Tier
}

// Assign marks the player as taken at the given pick
func (p *Player) Assign(status PlayerStatus, pick, round, teamID int, teamName string) {
	p.Status = status
	p.PickNumber = pick
	p.Round = round
	p.TeamID = teamID
	p.TeamName = teamName
}

// Release returns the player to the available pool
func (p *Player) Release() {
	p.Status = StatusAvailable
	p.PickNumber = 0
	p.Round = 0
	p.TeamID = 0
	p.TeamName = ""
}

// Clone returns a copy that shares no memory with p
func (p Player) Clone() Player {
	if p.Tier != nil {
		t := *p.Tier
		p.Tier = &t
	}
	return p
}

// IntPtr is a helper for building optional integer fields such as Tier
func IntPtr(v int) *int {
	return &v
}
