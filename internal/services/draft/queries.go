package draft

import (
	"github.com/mcoot/draftboard/internal/model"
	"github.com/mcoot/draftboard/internal/services/roster"
)

// PlayerFilter narrows a player listing. Zero fields match everything.
type PlayerFilter struct {
	Status      model.PlayerStatus
	Position    model.Position
	WatchedOnly bool
}

func (f PlayerFilter) matches(p *model.Player) bool {
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.Position != "" && p.Position != f.Position {
		return false
	}
	if f.WatchedOnly && !p.IsWatched {
		return false
	}
	return true
}

// Settings returns a copy of the league settings
func (e *Engine) Settings() model.Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings.Clone()
}

// CurrentPick returns the pick on the clock
func (e *Engine) CurrentPick() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentPick
}

// TeamOnClock returns the team that owns the current pick. It returns false
// once the draft has run past its last pick.
func (e *Engine) TeamOnClock() (model.TeamConfig, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.currentPick > e.settings.Capacity() {
		return model.TeamConfig{}, false
	}
	return e.settings.Team(e.schedule.TeamAt(e.currentPick))
}

// IsComplete reports whether every pick is made or no players remain
func (e *Engine) IsComplete() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.isComplete()
}

// IsPickReserved reports whether a keeper holds the pick
func (e *Engine) IsPickReserved(pick int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.store.reservedPicks()[pick]
	return ok
}

// Player returns a copy of one player
func (e *Engine) Player(id model.PlayerID) (model.Player, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, err := e.store.get(id)
	if err != nil {
		return model.Player{}, err
	}
	return p.Clone(), nil
}

// Players returns matching players ordered by rank
func (e *Engine) Players(filter PlayerFilter) []model.Player {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.filter(filter.matches)
}

// AvailablePlayers returns every available player ordered by rank
func (e *Engine) AvailablePlayers() []model.Player {
	return e.Players(PlayerFilter{Status: model.StatusAvailable})
}

// CandidatePlayers returns the available players an automated pick may
// choose from: avoided players are left out unless nobody else remains
func (e *Engine) CandidatePlayers() []model.Player {
	available := e.AvailablePlayers()
	candidates := make([]model.Player, 0, len(available))
	for _, p := range available {
		if !p.IsAvoided {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return available
	}
	return candidates
}

// Keepers returns every keeper ordered by pick number
func (e *Engine) Keepers() []model.Player {
	e.mu.Lock()
	defer e.mu.Unlock()
	reserved := e.store.reservedPicks()
	var out []model.Player
	for pick := 1; pick <= e.settings.Capacity(); pick++ {
		if id, ok := reserved[pick]; ok {
			p, _ := e.store.get(id)
			out = append(out, p.Clone())
		}
	}
	return out
}

// Teams derives every team's roster from the player store
func (e *Engine) Teams() []model.Team {
	e.mu.Lock()
	defer e.mu.Unlock()
	return roster.BuildTeams(e.store.snapshot(), e.settings)
}

// Team derives one team's roster
func (e *Engine) Team(id int) (model.Team, error) {
	teams := e.Teams()
	if id < 1 || id > len(teams) {
		return model.Team{}, model.ErrInvalidTeam
	}
	return teams[id-1], nil
}

// Stats summarizes draft progress
func (e *Engine) Stats() model.DraftStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	players := e.store.snapshot()
	teams := roster.BuildTeams(players, e.settings)

	stats := model.DraftStats{
		CurrentPick:       e.currentPick,
		CurrentRound:      e.schedule.RoundOf(e.currentPick),
		PickInRound:       e.schedule.PickInRound(e.currentPick),
		TotalPicks:        e.settings.Capacity(),
		IsComplete:        e.isComplete(),
		DraftedByPosition: make(map[model.Position]int),
		Overflow:          roster.Overflow(teams),
	}
	if e.currentPick <= e.settings.Capacity() {
		stats.TeamOnClock = e.schedule.TeamAt(e.currentPick)
		stats.TeamOnClockName = e.settings.TeamName(stats.TeamOnClock)
	}

	for _, p := range players {
		switch p.Status {
		case model.StatusAvailable:
			stats.Available++
		case model.StatusDrafted:
			stats.Drafted++
			stats.DraftedByPosition[p.Position]++
		case model.StatusKeeper:
			stats.Keepers++
			stats.DraftedByPosition[p.Position]++
		}
	}
	stats.PicksRemaining = max(0, stats.TotalPicks-stats.Drafted-stats.Keepers)
	return stats
}
