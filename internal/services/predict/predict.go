// Package predict estimates how likely each available player is to still be
// on the board when a team next picks.
package predict

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/mcoot/draftboard/internal/dependencies/random"
	"github.com/mcoot/draftboard/internal/model"
	"github.com/mcoot/draftboard/internal/services/roster"
	"github.com/mcoot/draftboard/internal/services/schedule"
	"github.com/mcoot/draftboard/internal/services/strategy"
)

const (
	// DefaultTrials is the number of simulated drafts when none is requested
	DefaultTrials = 100
	// MaxTrials caps a single request
	MaxTrials = 1000
	// MaxSimulatedPicks bounds each trial
	MaxSimulatedPicks = 20
)

// Request describes the draft state to simulate from
type Request struct {
	Available   []model.Player
	Teams       []model.Team
	CurrentPick int
	MyTeamID    int
	Settings    model.Settings
	Trials      int
	// TeamVariability overrides each team's variability. Teams missing from
	// it use model.DefaultVariability.
	TeamVariability map[int]float64
	// Reserved picks are held by keepers and skipped by the simulation
	Reserved []int
}

// Service runs availability simulations
type Service struct {
	strategies map[string]strategy.Strategy
	names      []string
	random     random.Random
	logger     *slog.Logger
}

// NewService creates a Service that draws simulated picks from strategies
func NewService(strategies map[string]strategy.Strategy, rnd random.Random, logger *slog.Logger) *Service {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	slices.Sort(names)
	return &Service{
		strategies: strategies,
		names:      names,
		random:     rnd,
		logger:     logger.With(slog.String("component", "predict")),
	}
}

// Predict returns, for every available player, the fraction of trials in
// which the player was not taken before MyTeamID's next pick
func (s *Service) Predict(ctx context.Context, req Request) (map[model.PlayerID]float64, error) {
	settings := req.Settings.Normalize()
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if req.MyTeamID < 1 || req.MyTeamID > settings.NumTeams {
		return nil, fmt.Errorf("%w: %d", model.ErrInvalidTeam, req.MyTeamID)
	}
	if len(s.names) == 0 {
		return nil, fmt.Errorf("%w: no strategies registered", model.ErrStrategyUnavailable)
	}
	trials := req.Trials
	if trials <= 0 {
		trials = DefaultTrials
	}
	trials = min(trials, MaxTrials)

	sched := schedule.FromSettings(settings)
	reserved := make(map[int]bool, len(req.Reserved))
	for _, pick := range req.Reserved {
		reserved[pick] = true
	}

	taken := make(map[model.PlayerID]int, len(req.Available))
	for range trials {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, id := range s.simulate(req, settings, sched, reserved) {
			taken[id]++
		}
	}

	out := make(map[model.PlayerID]float64, len(req.Available))
	for _, p := range req.Available {
		prob := 1 - float64(taken[p.ID])/float64(trials)
		out[p.ID] = math.Round(prob*1000) / 1000
	}

	s.logger.Debug("availability predicted",
		slog.Int("trials", trials),
		slog.Int("my_team_id", req.MyTeamID),
		slog.Int("current_pick", req.CurrentPick),
		slog.Int("players", len(req.Available)),
	)
	return out, nil
}

// simulate plays one trial and returns the players taken
func (s *Service) simulate(req Request, settings model.Settings, sched schedule.Schedule, reserved map[int]bool) []model.PlayerID {
	pool := slices.Clone(req.Available)
	teams := make(map[int]*model.Team, len(req.Teams))
	for _, t := range req.Teams {
		cp := t.Clone()
		teams[t.ID] = &cp
	}

	var picked []model.PlayerID
	pick := req.CurrentPick + 1
	for simulated := 0; simulated < MaxSimulatedPicks && pick <= settings.Capacity(); pick++ {
		if reserved[pick] {
			continue
		}
		teamID := sched.TeamAt(pick)
		if teamID == req.MyTeamID || len(pool) == 0 {
			break
		}
		team, ok := teams[teamID]
		if !ok {
			fresh := roster.NewTeams(settings)[teamID-1]
			team = &fresh
			teams[teamID] = team
		}

		st := s.strategies[s.names[s.random.Intn(len(s.names))]]
		draftable := strategy.Draftable(pool, team)
		choice, ok := st.Choose(draftable, team)
		if !ok {
			break
		}
		choice = strategy.ApplyVariability(draftable, choice, s.variability(req, teamID), s.random)

		i := slices.IndexFunc(pool, func(p model.Player) bool { return p.ID == choice })
		if i < 0 {
			break
		}
		roster.Place(team, pool[i])
		picked = append(picked, choice)
		pool = slices.Delete(pool, i, i+1)
		simulated++
	}
	return picked
}

func (s *Service) variability(req Request, teamID int) float64 {
	if v, ok := req.TeamVariability[teamID]; ok {
		return v
	}
	return model.DefaultVariability
}
