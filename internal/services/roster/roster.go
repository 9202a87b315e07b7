// Package roster derives team boards from the player store.
package roster

import (
	"sort"

	"github.com/mcoot/draftboard/internal/model"
)

// NewTeams returns one empty team per league team, with slots laid out in
// roster settings order
func NewTeams(settings model.Settings) []model.Team {
	teams := make([]model.Team, 0, settings.NumTeams)
	for id := 1; id <= settings.NumTeams; id++ {
		cfg, ok := settings.Team(id)
		if !ok {
			cfg = model.TeamConfig{ID: id, Name: settings.TeamName(id), Strategy: model.StrategyManual}
		}
		teams = append(teams, model.Team{
			ID:          id,
			Name:        cfg.Name,
			Strategy:    cfg.Strategy,
			Variability: cfg.Variability,
			Roster:      emptyRoster(settings.Roster),
		})
	}
	return teams
}

func emptyRoster(rs model.RosterSettings) []model.RosterSlot {
	slots := make([]model.RosterSlot, 0, rs.SlotsPerTeam())
	for _, req := range rs {
		for range req.Count {
			slots = append(slots, model.RosterSlot{Position: req.Position})
		}
	}
	return slots
}

// SlotFor returns the index of the slot a player at pos would fill, or -1
// when the team has no room. An exact position match wins, then FLEX for
// RB/WR/TE, then BENCH.
func SlotFor(team *model.Team, pos model.Position) int {
	if i := firstEmpty(team, pos); i >= 0 {
		return i
	}
	if pos.IsFlexEligible() {
		if i := firstEmpty(team, model.PositionFLEX); i >= 0 {
			return i
		}
	}
	return firstEmpty(team, model.PositionBENCH)
}

func firstEmpty(team *model.Team, pos model.Position) int {
	for i, slot := range team.Roster {
		if slot.Position == pos && slot.IsEmpty() {
			return i
		}
	}
	return -1
}

// CanPlace reports whether the team still has a slot for a player at pos
func CanPlace(team *model.Team, pos model.Position) bool {
	return SlotFor(team, pos) >= 0
}

// Place puts the player in the team's first matching slot. It returns false
// when the roster is full; the player is then recorded as unplaced.
func Place(team *model.Team, p model.Player) bool {
	i := SlotFor(team, p.Position)
	if i < 0 {
		team.Unplaced = append(team.Unplaced, p)
		return false
	}
	player := p.Clone()
	team.Roster[i].Player = &player
	team.Roster[i].IsKeeper = p.Status == model.StatusKeeper
	return true
}

// BuildTeams places every drafted or kept player on their team's roster in
// pick order. The result depends only on its inputs.
func BuildTeams(players []model.Player, settings model.Settings) []model.Team {
	teams := NewTeams(settings)

	taken := make([]model.Player, 0, len(players))
	for _, p := range players {
		if p.Status == model.StatusDrafted || p.Status == model.StatusKeeper {
			taken = append(taken, p)
		}
	}
	sort.SliceStable(taken, func(i, j int) bool {
		return taken[i].PickNumber < taken[j].PickNumber
	})

	for _, p := range taken {
		if p.TeamID < 1 || p.TeamID > len(teams) {
			continue
		}
		Place(&teams[p.TeamID-1], p)
	}
	return teams
}

// Overflow lists every player that could not be placed on a roster
func Overflow(teams []model.Team) []model.OverflowEntry {
	var out []model.OverflowEntry
	for _, t := range teams {
		for _, p := range t.Unplaced {
			out = append(out, model.OverflowEntry{TeamID: t.ID, PlayerID: p.ID})
		}
	}
	return out
}
