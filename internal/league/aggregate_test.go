package league

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateRates(t *testing.T) {
	ms := []MatchResult{
		played(1, "2024-08-10", "Arsenal", 2, 0, "Brentford"),
		played(2, "2024-08-17", "Arsenal", 1, 1, "Chelsea"),
		played(3, "2024-08-24", "Chelsea", 3, 0, "Arsenal"),
		unplayed(4, "2024-08-31", "Fulham", "Arsenal"),
	}

	r := AggregateRates(ms, "Arsenal")
	assert.InDelta(t, 1.5, r.AvgScoredHome, 1e-9)
	assert.InDelta(t, 0.5, r.AvgConcededHome, 1e-9)
	assert.InDelta(t, 0.0, r.AvgScoredAway, 1e-9)
	assert.InDelta(t, 3.0, r.AvgConcededAway, 1e-9)
}

func TestAggregateRates_EmptyVenueIsZero(t *testing.T) {
	r := AggregateRates([]MatchResult{played(1, "2024-08-10", "Arsenal", 2, 0, "Brentford")}, "Brentford")
	assert.Zero(t, r.AvgScoredHome)
	assert.Zero(t, r.AvgConcededHome)
	assert.InDelta(t, 0.0, r.AvgScoredAway, 1e-9)
	assert.InDelta(t, 2.0, r.AvgConcededAway, 1e-9)

	assert.Equal(t, TeamRates{}, AggregateRates(nil, "Arsenal"))
}

func TestLast5Stats(t *testing.T) {
	var ms []MatchResult
	dates := []string{"2024-08-03", "2024-08-10", "2024-08-17", "2024-08-24", "2024-08-31", "2024-09-07"}
	for i, d := range dates {
		m := played(int64(i+1), d, "Arsenal", i%3, 1, "Chelsea")
		m.Home = SideStats{Shots: 10, ShotsOnTarget: 4, Corners: 5, Yellows: 1}
		m.Away = SideStats{Shots: 7, ShotsOnTarget: 2, Corners: 3, Reds: 1}
		ms = append(ms, m)
	}
	// flip the latest so Arsenal is the away side
	ms[5].HomeTeam, ms[5].AwayTeam = "Chelsea", "Arsenal"

	s := Last5Stats(ms, "Arsenal")
	assert.Equal(t, "Arsenal", s.Name)
	assert.Equal(t, 5, s.Played)
	// matches 2..6 from Arsenal's side: 1-1 D, 2-1 W, 0-1 L, 1-1 D, (1-2 away) L
	assert.Equal(t, "DWLDL", s.Form)
	assert.Equal(t, 1, s.Won)
	assert.Equal(t, 2, s.Drawn)
	assert.Equal(t, 2, s.Lost)
	assert.Equal(t, 5, s.GoalsFor)
	assert.Equal(t, 6, s.GoalsAgainst)
	assert.Equal(t, -1, s.GoalDifference)
	assert.Equal(t, 4*10+7, s.Shots)
	assert.Equal(t, 4*4+2, s.ShotsOnTarget)
	assert.Equal(t, 4*5+3, s.Corners)
	assert.Equal(t, 4, s.Yellows)
	assert.Equal(t, 1, s.Reds)
}

func TestLast5Stats_UnscoredMatchInWindow(t *testing.T) {
	ms := []MatchResult{
		played(1, "2024-08-10", "Arsenal", 2, 0, "Brentford"),
		played(2, "2024-08-17", "Chelsea", 1, 1, "Arsenal"),
		unplayed(3, "2024-08-24", "Arsenal", "Fulham"),
	}
	ms[2].Home = SideStats{Shots: 9, Corners: 4}

	s := Last5Stats(ms, "Arsenal")
	assert.Equal(t, 2, s.Played)
	assert.Equal(t, s.Won+s.Drawn+s.Lost, s.Played)
	assert.Equal(t, "WD", s.Form)
	assert.Equal(t, 3, s.GoalsFor)
	assert.Equal(t, 9, s.Shots)
	assert.Equal(t, 4, s.Corners)
}

func TestLast5Stats_NoMatches(t *testing.T) {
	s := Last5Stats(nil, "Arsenal")
	assert.Equal(t, TeamStatsSummary{Name: "Arsenal"}, s)
}

func TestSeasonStats_UsesStandingsRow(t *testing.T) {
	ms := []MatchResult{
		played(1, "2024-08-10", "Arsenal", 2, 0, "Brentford"),
		played(2, "2024-08-17", "Chelsea", 1, 1, "Arsenal"),
	}
	ms[0].Home.Corners = 6
	ms[1].Away.Corners = 2

	total := &StandingsRow{Team: "Arsenal", Split: SplitTotal, Played: 2, Won: 1, Drawn: 1, GoalsFor: 3, GoalsAgainst: 1, GoalDifference: 2, Points: 4, Form: "WD"}
	s := SeasonStats(ms, "Arsenal", total)
	assert.Equal(t, 2, s.Played)
	assert.Equal(t, 1, s.Won)
	assert.Equal(t, "WD", s.Form)
	assert.Equal(t, 8, s.Corners)
	require.NotNil(t, s.Rates)
	assert.InDelta(t, 2.0, s.Rates.AvgScoredHome, 1e-9)
	assert.InDelta(t, 1.0, s.Rates.AvgScoredAway, 1e-9)

	counted := SeasonStats(ms, "Arsenal", nil)
	assert.Equal(t, 2, counted.Played)
	assert.Equal(t, 3, counted.GoalsFor)
	assert.Equal(t, 1, counted.GoalsAgainst)
	assert.Equal(t, 2, counted.GoalDifference)
	assert.Equal(t, "WD", counted.Form)
}
