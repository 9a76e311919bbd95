package forecast

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utakatalp/league-forecaster/internal/league"
	"github.com/utakatalp/league-forecaster/internal/store"
)

func match(date, home string, hg, ag int, away string) *league.MatchResult {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return &league.MatchResult{
		League:    "Premier League",
		HomeTeam:  home,
		AwayTeam:  away,
		Kickoff:   d.Add(15 * time.Hour),
		HomeGoals: league.Goals(hg),
		AwayGoals: league.Goals(ag),
		Home:      league.SideStats{Shots: 10, ShotsOnTarget: 4, Corners: 5, Yellows: 1},
		Away:      league.SideStats{Shots: 7, ShotsOnTarget: 2, Corners: 3, Yellows: 2},
	}
}

func newTestService(t *testing.T, matches ...*league.MatchResult) (*Service, *store.Memory) {
	t.Helper()
	repo := store.NewMemory()
	for _, m := range matches {
		_, err := repo.InsertMatch(context.Background(), m)
		require.NoError(t, err)
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(repo, Options{Trials: 5000, Workers: 2, Logger: log}), repo
}

func seasonMatches() []*league.MatchResult {
	return []*league.MatchResult{
		match("2024-08-17", "Arsenal", 2, 1, "Chelsea"),
		match("2024-08-24", "Brentford", 1, 1, "Everton"),
		match("2024-08-31", "Chelsea", 3, 0, "Brentford"),
		match("2024-09-14", "Everton", 0, 2, "Arsenal"),
		match("2024-09-21", "Arsenal", 4, 1, "Brentford"),
		match("2024-09-28", "Everton", 1, 1, "Chelsea"),
	}
}

func TestComputeStandings(t *testing.T) {
	svc, _ := newTestService(t, seasonMatches()...)
	ctx := context.Background()

	rows, err := svc.ComputeStandings(ctx, "Premier League", 2024)
	require.NoError(t, err)

	ars := league.FindRow(rows, "Arsenal", league.SplitTotal)
	require.NotNil(t, ars)
	assert.Equal(t, 1, ars.Position)
	assert.Equal(t, 9, ars.Points)
	assert.Equal(t, "WWW", ars.Form)

	stored, err := svc.Standings(ctx, "Premier League", 2024, league.SplitTotal)
	require.NoError(t, err)
	require.Len(t, stored, 4)
	for i, r := range stored {
		assert.Equal(t, i+1, r.Position)
	}
	assert.Equal(t, "Arsenal", stored[0].Team)

	again, err := svc.ComputeStandings(ctx, "Premier League", 2024)
	require.NoError(t, err)
	assert.Equal(t, rows, again)
}

func TestStandingsEmpty(t *testing.T) {
	svc, _ := newTestService(t)
	rows, err := svc.Standings(context.Background(), "Serie A", 2024, league.SplitHome)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestComputeHeadToHead(t *testing.T) {
	m1 := match("2024-09-01", "Arsenal", 2, 1, "Chelsea")
	m2 := match("2024-12-01", "Chelsea", 0, 0, "Arsenal")
	svc, _ := newTestService(t, m1, m2)
	ctx := context.Background()

	rec, err := svc.ComputeHeadToHead(ctx, "Chelsea", "Arsenal")
	require.NoError(t, err)
	assert.Equal(t, "Arsenal", rec.Team1)
	assert.Equal(t, "Chelsea", rec.Team2)
	assert.Equal(t, 2, rec.MatchesPlayed)
	assert.Equal(t, 1, rec.Team1Wins)
	assert.Equal(t, 0, rec.Team2Wins)
	assert.Equal(t, 1, rec.Draws)
	assert.Equal(t, []int64{m2.ID, m1.ID}, rec.Last5)

	flipped, err := svc.ComputeHeadToHead(ctx, "Arsenal", "Chelsea")
	require.NoError(t, err)
	assert.Equal(t, rec, flipped)

	stored, err := svc.HeadToHead(ctx, "Chelsea", "Arsenal")
	require.NoError(t, err)
	assert.Equal(t, rec, stored)
}

func TestComputeHeadToHead_Concurrent(t *testing.T) {
	svc, _ := newTestService(t, seasonMatches()...)
	ctx := context.Background()

	var wg sync.WaitGroup
	recs := make([]league.Head2HeadRecord, 16)
	errs := make([]error, 16)
	for i := range recs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, b := "Arsenal", "Chelsea"
			if i%2 == 1 {
				a, b = b, a
			}
			recs[i], errs[i] = svc.ComputeHeadToHead(ctx, a, b)
		}()
	}
	wg.Wait()

	for i := range recs {
		require.NoError(t, errs[i])
		assert.Equal(t, recs[0], recs[i])
	}
	stored, err := svc.HeadToHead(ctx, "Arsenal", "Chelsea")
	require.NoError(t, err)
	assert.Equal(t, recs[0], stored)
}

func TestComputeHeadToHead_NoHistory(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.HeadToHead(ctx, "Arsenal", "Chelsea")
	assert.ErrorIs(t, err, ErrNotFound)

	rec, err := svc.ComputeHeadToHead(ctx, "Arsenal", "Chelsea")
	require.NoError(t, err)
	assert.Equal(t, 0, rec.MatchesPlayed)
	assert.Equal(t, []int64{}, rec.Last5)

	// the zero record is stored
	_, err = svc.HeadToHead(ctx, "Arsenal", "Chelsea")
	assert.NoError(t, err)
}

func TestComputeHeadToHead_SameTeam(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.ComputeHeadToHead(context.Background(), "Arsenal", "Arsenal")
	assert.ErrorIs(t, err, ErrSameTeam)
}

func TestComputeTeamStats_Last5(t *testing.T) {
	svc, _ := newTestService(t, seasonMatches()...)

	got, err := svc.ComputeTeamStats(context.Background(), "Arsenal", "Chelsea", ModeLast5, 2024)
	require.NoError(t, err)

	ars := got[0]
	assert.Equal(t, "Arsenal", ars.Name)
	assert.Equal(t, 3, ars.Played)
	assert.Equal(t, 3, ars.Won)
	assert.Equal(t, 8, ars.GoalsFor)
	assert.Equal(t, 2, ars.GoalsAgainst)
	assert.Equal(t, "WWW", ars.Form)
	// home twice, away once
	assert.Equal(t, 10+10+7, ars.Shots)
	assert.Nil(t, ars.Rates)

	che := got[1]
	assert.Equal(t, "Chelsea", che.Name)
	assert.Equal(t, 3, che.Played)
	assert.Equal(t, "LWD", che.Form)
}

func TestComputeTeamStats_Season(t *testing.T) {
	svc, _ := newTestService(t, seasonMatches()...)
	ctx := context.Background()
	_, err := svc.ComputeStandings(ctx, "Premier League", 2024)
	require.NoError(t, err)

	got, err := svc.ComputeTeamStats(ctx, "Arsenal", "Everton", ModeSeason, 2024)
	require.NoError(t, err)

	ars := got[0]
	assert.Equal(t, 3, ars.Played)
	assert.Equal(t, 3, ars.Won)
	assert.Equal(t, 6, ars.GoalDifference)
	assert.Equal(t, "WWW", ars.Form)
	require.NotNil(t, ars.Rates)
	assert.InDelta(t, 3.0, ars.Rates.AvgScoredHome, 1e-9)
	assert.InDelta(t, 2.0, ars.Rates.AvgScoredAway, 1e-9)
	assert.InDelta(t, 1.0, ars.Rates.AvgConcededHome, 1e-9)

	eve := got[1]
	assert.Equal(t, 3, eve.Played)
	assert.Equal(t, 2, eve.Drawn)
	assert.Equal(t, 1, eve.Lost)
}

func TestComputeTeamStats_Errors(t *testing.T) {
	svc, _ := newTestService(t, seasonMatches()...)
	ctx := context.Background()

	_, err := svc.ComputeTeamStats(ctx, "Arsenal", "Chelsea", "career", 2024)
	assert.ErrorIs(t, err, ErrUnknownMode)

	_, err = svc.ComputeTeamStats(ctx, "Arsenal", "Juventus", ModeSeason, 2024)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.ComputeTeamStats(ctx, "Arsenal", "Chelsea", ModeLast5, 2019)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSimulateMatch(t *testing.T) {
	svc, _ := newTestService(t, seasonMatches()...)
	ctx := context.Background()
	_, err := svc.ComputeStandings(ctx, "Premier League", 2024)
	require.NoError(t, err)

	seed := uint64(7)
	res, err := svc.SimulateMatch(ctx, "Arsenal", "Chelsea", 2024, league.SimOptions{Seed: &seed})
	require.NoError(t, err)

	assert.Equal(t, "Arsenal", res.HomeTeam)
	assert.Equal(t, "Chelsea", res.AwayTeam)
	assert.Equal(t, 5000, res.Trials)
	assert.Greater(t, res.LambdaHome, 0.0)
	assert.Greater(t, res.LambdaAway, 0.0)
	sum := res.HomeWinProb + res.DrawProb + res.AwayWinProb
	assert.InDelta(t, 1.0, sum, 0.01)
	assert.NotEmpty(t, res.MostLikelyScore)

	again, err := svc.SimulateMatch(ctx, "Arsenal", "Chelsea", 2024, league.SimOptions{Seed: &seed, Workers: 1})
	require.NoError(t, err)
	assert.Equal(t, res, again)
}

func TestSimulateMatch_HeadToHeadBias(t *testing.T) {
	svc, _ := newTestService(t, seasonMatches()...)
	ctx := context.Background()
	seed := uint64(1)
	opts := league.SimOptions{Seed: &seed, Trials: 100}

	before, err := svc.SimulateMatch(ctx, "Arsenal", "Chelsea", 2024, opts)
	require.NoError(t, err)

	// Arsenal won the only meeting, bias clamps at +0.2
	_, err = svc.ComputeHeadToHead(ctx, "Arsenal", "Chelsea")
	require.NoError(t, err)

	after, err := svc.SimulateMatch(ctx, "Arsenal", "Chelsea", 2024, opts)
	require.NoError(t, err)
	assert.InDelta(t, before.LambdaHome*1.2, after.LambdaHome, 1e-9)
	assert.InDelta(t, before.LambdaAway*0.8, after.LambdaAway, 1e-9)
	assert.Equal(t, 100, after.Trials)
}

func TestSimulateMatch_Errors(t *testing.T) {
	svc, _ := newTestService(t, seasonMatches()...)
	ctx := context.Background()

	_, err := svc.SimulateMatch(ctx, "Arsenal", "Arsenal", 2024, league.SimOptions{})
	assert.ErrorIs(t, err, ErrSameTeam)

	_, err = svc.SimulateMatch(ctx, "Arsenal", "Juventus", 2024, league.SimOptions{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRefreshLeague(t *testing.T) {
	svc, _ := newTestService(t, seasonMatches()...)
	ctx := context.Background()

	rep, err := svc.RefreshLeague(ctx, "Premier League", 2024)
	require.NoError(t, err)
	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, 6, rep.Pairs) // 4 teams
	assert.NotEmpty(t, rep.Standings)

	teams := []string{"Arsenal", "Brentford", "Chelsea", "Everton"}
	for i := range teams {
		for j := i + 1; j < len(teams); j++ {
			rec, err := svc.HeadToHead(ctx, teams[i], teams[j])
			require.NoError(t, err, "%s v %s", teams[i], teams[j])
			assert.Equal(t, rec.Team1Wins+rec.Team2Wins+rec.Draws, rec.MatchesPlayed)
		}
	}

	ae, err := svc.HeadToHead(ctx, "Everton", "Arsenal")
	require.NoError(t, err)
	assert.Equal(t, 1, ae.MatchesPlayed)
	assert.Equal(t, 1, ae.Team1Wins)

	be, err := svc.HeadToHead(ctx, "Brentford", "Everton")
	require.NoError(t, err)
	assert.Equal(t, 1, be.Draws)

	second, err := svc.RefreshLeague(ctx, "Premier League", 2024)
	require.NoError(t, err)
	assert.NotEqual(t, rep.RunID, second.RunID)
	assert.Equal(t, rep.Standings, second.Standings)
}
