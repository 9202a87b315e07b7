// Package schedule maps pick numbers to teams and back.
//
// Picks and rounds are 1-indexed. Under a linear draft every round runs
// 1..N; under a snake draft odd rounds run 1..N and even rounds run N..1.
// TeamAt and PickFor are exact inverses for every valid input.
package schedule

import "github.com/mcoot/draftboard/internal/model"

// Schedule is the pick order for a league. The zero value is invalid and
// every lookup on it returns 0.
type Schedule struct {
	NumTeams int
	Style    model.DraftStyle
}

// New creates a Schedule
func New(numTeams int, style model.DraftStyle) Schedule {
	return Schedule{NumTeams: numTeams, Style: style}
}

// FromSettings creates the Schedule for a league
func FromSettings(s model.Settings) Schedule {
	return New(s.NumTeams, s.DraftStyle)
}

func (s Schedule) valid() bool {
	return s.NumTeams >= 1
}

// TeamAt returns the team id that owns a pick, or 0 for an invalid pick
func (s Schedule) TeamAt(pick int) int {
	if !s.valid() || pick < 1 {
		return 0
	}
	round0 := (pick - 1) / s.NumTeams
	pos := (pick - 1) % s.NumTeams
	if s.Style == model.DraftStyleSnake && round0%2 == 1 {
		return s.NumTeams - pos
	}
	return pos + 1
}

// PickFor returns the pick number a team holds in a round, or 0 when the
// team or round is out of range
func (s Schedule) PickFor(teamID, round int) int {
	if !s.valid() || teamID < 1 || teamID > s.NumTeams || round < 1 {
		return 0
	}
	base := (round - 1) * s.NumTeams
	if s.Style == model.DraftStyleSnake && round%2 == 0 {
		return base + (s.NumTeams - teamID + 1)
	}
	return base + teamID
}

// RoundOf returns the round a pick falls in
func (s Schedule) RoundOf(pick int) int {
	if !s.valid() || pick < 1 {
		return 0
	}
	return (pick-1)/s.NumTeams + 1
}

// PickInRound returns the 1-indexed position of a pick within its round
func (s Schedule) PickInRound(pick int) int {
	if !s.valid() || pick < 1 {
		return 0
	}
	return (pick-1)%s.NumTeams + 1
}

// Order returns the team ids in the order they pick during a round
func (s Schedule) Order(round int) []int {
	if !s.valid() || round < 1 {
		return nil
	}
	order := make([]int, 0, s.NumTeams)
	first := (round-1)*s.NumTeams + 1
	for pick := first; pick < first+s.NumTeams; pick++ {
		order = append(order, s.TeamAt(pick))
	}
	return order
}
