package model

import (
	"fmt"
	"strings"
	"time"
)

// DraftStyle determines the order teams pick in each round
type DraftStyle string

const (
	DraftStyleSnake  DraftStyle = "snake"
	DraftStyleLinear DraftStyle = "linear"
)

// RosterRequirement is the number of slots a team has for one position
type RosterRequirement struct {
	Position Position `json:"position" yaml:"position"`
	Count    int      `json:"count" yaml:"count"`
}

// RosterSettings lists slot counts per position. Order is significant: it is
// the order slots appear on every team's roster.
type RosterSettings []RosterRequirement

// DefaultRosterSettings returns the standard QB/2RB/2WR/TE/FLEX/DST/K/6 bench layout
func DefaultRosterSettings() RosterSettings {
	return RosterSettings{
		{Position: PositionQB, Count: 1},
		{Position: PositionRB, Count: 2},
		{Position: PositionWR, Count: 2},
		{Position: PositionTE, Count: 1},
		{Position: PositionFLEX, Count: 1},
		{Position: PositionDST, Count: 1},
		{Position: PositionK, Count: 1},
		{Position: PositionBENCH, Count: 6},
	}
}

// SlotsPerTeam is the total number of roster slots, which is also the number of rounds
func (r RosterSettings) SlotsPerTeam() int {
	total := 0
	for _, req := range r {
		total += req.Count
	}
	return total
}

// Count returns the number of slots configured for a position
func (r RosterSettings) Count(pos Position) int {
	for _, req := range r {
		if req.Position == pos {
			return req.Count
		}
	}
	return 0
}

// AutoDraftSpeed controls how long the orchestrator pauses before each automated pick
type AutoDraftSpeed string

const (
	SpeedInstant AutoDraftSpeed = "instant"
	SpeedFast    AutoDraftSpeed = "fast"
	SpeedNormal  AutoDraftSpeed = "normal"
	SpeedSlow    AutoDraftSpeed = "slow"
)

// Delay returns the pause before an automated pick. Unknown speeds use normal.
func (s AutoDraftSpeed) Delay() time.Duration {
	switch s {
	case SpeedInstant:
		return 50 * time.Millisecond
	case SpeedFast:
		return 200 * time.Millisecond
	case SpeedSlow:
		return 2000 * time.Millisecond
	default:
		return 800 * time.Millisecond
	}
}

// IsValid reports whether s is a known speed
func (s AutoDraftSpeed) IsValid() bool {
	switch s {
	case SpeedInstant, SpeedFast, SpeedNormal, SpeedSlow:
		return true
	}
	return false
}

// TeamConfig is the per-team league configuration
type TeamConfig struct {
	ID          int     `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Strategy    string  `json:"strategy" yaml:"strategy"`
	Variability float64 `json:"variability" yaml:"variability"`
}

// IsManual reports whether a human makes this team's picks
func (t TeamConfig) IsManual() bool {
	return t.Strategy == "" || t.Strategy == StrategyManual
}

// DefaultVariability is the variability assumed for teams that don't set one
const DefaultVariability = 0.3

// Settings is the league configuration for a draft session
type Settings struct {
	NumTeams       int            `json:"num_teams" yaml:"num_teams"`
	DraftStyle     DraftStyle     `json:"draft_style" yaml:"draft_style"`
	Roster         RosterSettings `json:"roster" yaml:"roster"`
	Teams          []TeamConfig   `json:"teams" yaml:"teams"`
	AutoDraftSpeed AutoDraftSpeed `json:"auto_draft_speed" yaml:"auto_draft_speed"`
}

// DefaultSettings returns a 12 team snake league with every team drafted by hand
func DefaultSettings() Settings {
	s := Settings{
		NumTeams:       12,
		DraftStyle:     DraftStyleSnake,
		Roster:         DefaultRosterSettings(),
		AutoDraftSpeed: SpeedNormal,
	}
	return s.Normalize()
}

// Normalize fills in team entries so there is exactly one per team id, in id order
func (s Settings) Normalize() Settings {
	out := s.Clone()
	if out.AutoDraftSpeed == "" {
		out.AutoDraftSpeed = SpeedNormal
	}
	if out.DraftStyle == "" {
		out.DraftStyle = DraftStyleSnake
	}
	if out.NumTeams < 1 {
		return out
	}

	byID := make(map[int]TeamConfig, len(out.Teams))
	for _, t := range out.Teams {
		byID[t.ID] = t
	}

	teams := make([]TeamConfig, 0, out.NumTeams)
	for id := 1; id <= out.NumTeams; id++ {
		t, ok := byID[id]
		if !ok {
			t = TeamConfig{ID: id, Variability: DefaultVariability}
		}
		if strings.TrimSpace(t.Name) == "" {
			t.Name = defaultTeamName(id)
		}
		if t.Strategy == "" {
			t.Strategy = StrategyManual
		}
		teams = append(teams, t)
	}
	out.Teams = teams
	return out
}

func defaultTeamName(id int) string {
	if id == 1 {
		return "My Team"
	}
	return fmt.Sprintf("Team %d", id)
}

// Validate checks the settings are usable. Call Normalize first.
func (s Settings) Validate() error {
	if s.NumTeams < 1 {
		return fmt.Errorf("%w: num_teams must be at least 1", ErrInvalidSettings)
	}
	if s.DraftStyle != DraftStyleSnake && s.DraftStyle != DraftStyleLinear {
		return fmt.Errorf("%w: unknown draft style %q", ErrInvalidSettings, s.DraftStyle)
	}
	if !s.AutoDraftSpeed.IsValid() {
		return fmt.Errorf("%w: unknown auto-draft speed %q", ErrInvalidSettings, s.AutoDraftSpeed)
	}

	seen := make(map[Position]bool, len(s.Roster))
	for _, req := range s.Roster {
		if !req.Position.IsSlot() {
			return fmt.Errorf("%w: unknown roster position %q", ErrInvalidSettings, req.Position)
		}
		if seen[req.Position] {
			return fmt.Errorf("%w: roster position %s listed twice", ErrInvalidSettings, req.Position)
		}
		seen[req.Position] = true
		if req.Count < 0 {
			return fmt.Errorf("%w: negative slot count for %s", ErrInvalidSettings, req.Position)
		}
	}
	if s.Roster.SlotsPerTeam() < 1 {
		return fmt.Errorf("%w: roster has no slots", ErrInvalidSettings)
	}

	if len(s.Teams) != s.NumTeams {
		return fmt.Errorf("%w: expected %d teams, got %d", ErrInvalidSettings, s.NumTeams, len(s.Teams))
	}
	for i, t := range s.Teams {
		if t.ID != i+1 {
			return fmt.Errorf("%w: team ids must run 1..%d", ErrInvalidSettings, s.NumTeams)
		}
		if t.Variability < 0 || t.Variability > 1 {
			return fmt.Errorf("%w: team %d variability must be within 0..1", ErrInvalidSettings, t.ID)
		}
	}
	return nil
}

// Rounds is the number of rounds in the draft
func (s Settings) Rounds() int {
	return s.Roster.SlotsPerTeam()
}

// Capacity is the total number of picks in the draft
func (s Settings) Capacity() int {
	return s.NumTeams * s.Rounds()
}

// Team returns the configuration for a team id
func (s Settings) Team(id int) (TeamConfig, bool) {
	if id < 1 || id > len(s.Teams) {
		return TeamConfig{}, false
	}
	return s.Teams[id-1], true
}

// TeamName returns the display name for a team id
func (s Settings) TeamName(id int) string {
	if t, ok := s.Team(id); ok {
		return t.Name
	}
	return defaultTeamName(id)
}

// Clone returns a deep copy
func (s Settings) Clone() Settings {
	out := s
	out.Roster = append(RosterSettings(nil), s.Roster...)
	out.Teams = append([]TeamConfig(nil), s.Teams...)
	return out
}
