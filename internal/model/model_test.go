package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/draftboard/internal/model"
)

type ModelSuite struct {
	suite.Suite
}

func TestModelSuite(t *testing.T) {
	suite.Run(t, new(ModelSuite))
}

func (s *ModelSuite) TestDefaultSettings() {
	settings := model.DefaultSettings()
	s.Require().NoError(settings.Validate())
	s.Equal(12, settings.NumTeams)
	s.Equal(15, settings.Rounds())
	s.Equal(180, settings.Capacity())
	s.Equal("My Team", settings.TeamName(1))
	s.Equal("Team 7", settings.TeamName(7))
	s.True(settings.Teams[0].IsManual())
}

func (s *ModelSuite) TestNormalizeFillsTeams() {
	settings := model.Settings{
		NumTeams: 3,
		Roster:   model.RosterSettings{{Position: model.PositionQB, Count: 1}},
		Teams:    []model.TeamConfig{{ID: 3, Name: "Sharks", Strategy: model.StrategyBPA}},
	}.Normalize()

	s.Require().NoError(settings.Validate())
	s.Equal(model.DraftStyleSnake, settings.DraftStyle)
	s.Equal(model.SpeedNormal, settings.AutoDraftSpeed)
	s.Require().Len(settings.Teams, 3)
	s.Equal("Team 2", settings.Teams[1].Name)
	s.Equal(model.StrategyManual, settings.Teams[1].Strategy)
	s.InDelta(model.DefaultVariability, settings.Teams[1].Variability, 1e-9)
	s.Equal("Sharks", settings.Teams[2].Name)
	s.False(settings.Teams[2].IsManual())
}

func (s *ModelSuite) TestNormalizeDoesNotAlias() {
	base := model.DefaultSettings()
	out := base.Normalize()
	out.Teams[0].Name = "changed"
	out.Roster[0].Count = 9
	s.Equal("My Team", base.Teams[0].Name)
	s.Equal(1, base.Roster[0].Count)
}

func (s *ModelSuite) TestValidateRejects() {
	cases := map[string]func(*model.Settings){
		"no teams":          func(st *model.Settings) { st.NumTeams = 0 },
		"style":             func(st *model.Settings) { st.DraftStyle = "auction" },
		"speed":             func(st *model.Settings) { st.AutoDraftSpeed = "ludicrous" },
		"position":          func(st *model.Settings) { st.Roster = append(st.Roster, model.RosterRequirement{Position: "OL", Count: 1}) },
		"duplicate":         func(st *model.Settings) { st.Roster = append(st.Roster, model.RosterRequirement{Position: model.PositionQB, Count: 1}) },
		"negative":          func(st *model.Settings) { st.Roster[0].Count = -1 },
		"empty roster":      func(st *model.Settings) { st.Roster = nil },
		"team count":        func(st *model.Settings) { st.Teams = st.Teams[:3] },
		"variability range": func(st *model.Settings) { st.Teams[2].Variability = 1.5 },
	}
	for name, mutate := range cases {
		s.Run(name, func() {
			settings := model.DefaultSettings()
			mutate(&settings)
			s.ErrorIs(settings.Validate(), model.ErrInvalidSettings)
		})
	}
}

func (s *ModelSuite) TestSpeedDelay() {
	s.Equal(50*time.Millisecond, model.SpeedInstant.Delay())
	s.Equal(200*time.Millisecond, model.SpeedFast.Delay())
	s.Equal(800*time.Millisecond, model.SpeedNormal.Delay())
	s.Equal(2*time.Second, model.SpeedSlow.Delay())
	s.Equal(800*time.Millisecond, model.AutoDraftSpeed("bogus").Delay())
	s.False(model.AutoDraftSpeed("bogus").IsValid())
}

func (s *ModelSuite) TestParsePosition() {
	for in, want := range map[string]model.Position{
		"qb": model.PositionQB, " RB ": model.PositionRB, "D/ST": model.PositionDST,
		"DEF": model.PositionDST, "PK": model.PositionK,
	} {
		got, err := model.ParsePosition(in)
		s.Require().NoError(err, in)
		s.Equal(want, got, in)
	}

	_, err := model.ParsePosition("FLEX")
	s.Error(err)
	s.True(model.PositionFLEX.IsSlot())
	s.False(model.PositionFLEX.IsPlayerPosition())
	s.True(model.PositionTE.IsFlexEligible())
	s.False(model.PositionQB.IsFlexEligible())
}

func (s *ModelSuite) TestAssignAndRelease() {
	p := model.Player{ID: "p1", Name: "Alpha", Position: model.PositionQB, Rank: 1, Status: model.StatusAvailable}
	p.Assign(model.StatusKeeper, 14, 2, 3, "Team 3")
	s.False(p.IsAvailable())
	s.Equal(14, p.PickNumber)
	s.Equal(3, p.TeamID)

	p.Release()
	s.True(p.IsAvailable())
	s.Zero(p.PickNumber)
	s.Zero(p.Round)
	s.Zero(p.TeamID)
	s.Empty(p.TeamName)
}

func (s *ModelSuite) TestPlayerCloneCopiesTier() {
	p := model.Player{ID: "p1", Tier: model.IntPtr(2)}
	c := p.Clone()
	*c.Tier = 5
	s.Equal(2, p.TierValue())
	s.True(c.HasTier())
	s.Zero((&model.Player{}).TierValue())
}

func (s *ModelSuite) TestPlayerQueriesOnReturnedValues() {
	lookup := func(status model.PlayerStatus, tier *int) model.Player {
		return model.Player{ID: "p1", Status: status, Tier: tier}
	}
	s.True(lookup(model.StatusAvailable, nil).IsAvailable())
	s.False(lookup(model.StatusDrafted, nil).IsAvailable())
	s.False(lookup(model.StatusAvailable, nil).HasTier())
	s.Zero(lookup(model.StatusAvailable, nil).TierValue())
	s.Equal(3, lookup(model.StatusKeeper, model.IntPtr(3)).TierValue())
}

func (s *ModelSuite) TestTeamCounts() {
	rb := model.Player{ID: "rb", Position: model.PositionRB}
	wr := model.Player{ID: "wr", Position: model.PositionWR}
	flexRB := model.Player{ID: "rb2", Position: model.PositionRB}
	team := model.Team{
		ID: 1,
		Roster: []model.RosterSlot{
			{Position: model.PositionRB, Player: &rb},
			{Position: model.PositionRB},
			{Position: model.PositionWR, Player: &wr},
			{Position: model.PositionFLEX, Player: &flexRB},
		},
		Unplaced: []model.Player{{ID: "k", Position: model.PositionK}},
	}

	s.Equal(3, team.FilledCount())
	s.Equal(1, team.EmptySlots(model.PositionRB))
	s.Equal(2, team.CountPosition(model.PositionRB))
	s.Equal(1, team.CountPosition(model.PositionWR))
	s.Len(team.Players(), 4)

	clone := team.Clone()
	clone.Roster[0].Player.Name = "changed"
	s.Empty(rb.Name)
}

func (s *ModelSuite) TestStrategyNames() {
	s.Equal(model.StrategyManual, model.ValidStrategies()[0])
	s.Equal("Robust RB", model.StrategyDisplayName(model.StrategyRobustRB))
	s.Equal("custom", model.StrategyDisplayName("custom"))
	s.True(model.IsTierStrategy("Tier"))
	s.False(model.IsTierStrategy(model.StrategyBPA))
}
