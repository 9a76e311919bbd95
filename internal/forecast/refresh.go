package forecast

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/utakatalp/league-forecaster/internal/league"
)

// RefreshReport summarizes one RefreshLeague run.
type RefreshReport struct {
	RunID     string
	League    string
	Season    int
	Standings []league.StandingsRow
	Pairs     int
	Took      time.Duration
}

// RefreshLeague is the scheduled batch for one league season: standings
// with recent form first, then a head-to-head recompute for every pair of
// teams in the TOTAL table. Pairs are processed one round-robin round at a
// time; no team appears twice within a round.
func (s *Service) RefreshLeague(ctx context.Context, leagueName string, season int) (RefreshReport, error) {
	start := time.Now()
	rep := RefreshReport{RunID: uuid.NewString(), League: leagueName, Season: season}
	log := s.log.WithFields(logrus.Fields{
		"run_id": rep.RunID,
		"league": leagueName,
		"season": season,
	})

	// 1) standings
	rows, err := s.ComputeStandings(ctx, leagueName, season)
	if err != nil {
		return rep, err
	}
	rep.Standings = rows

	var teams []string
	for _, r := range rows {
		if r.Split == league.SplitTotal {
			teams = append(teams, r.Team)
		}
	}
	sort.Strings(teams)
	log.WithField("rows", len(rows)).Info("standings refreshed")

	// 2) head-to-head backfill
	for i, round := range league.RoundRobin(teams) {
		g, gctx := errgroup.WithContext(ctx)
		if s.workers > 0 {
			g.SetLimit(s.workers)
		}
		for _, p := range round {
			g.Go(func() error {
				_, err := s.ComputeHeadToHead(gctx, p.Home, p.Away)
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return rep, fmt.Errorf("head2head round %d: %w", i+1, err)
		}
		rep.Pairs += len(round)
	}

	rep.Took = time.Since(start)
	log.WithFields(logrus.Fields{
		"pairs": rep.Pairs,
		"took":  rep.Took.String(),
	}).Info("league refreshed")
	return rep, nil
}
