package forecast

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/utakatalp/league-forecaster/internal/league"
	"github.com/utakatalp/league-forecaster/internal/store"
	"github.com/utakatalp/league-forecaster/internal/telemetry"
)

var (
	// ErrUnknownMode is returned for a team stats mode other than season or last5.
	ErrUnknownMode = errors.New("unknown stats mode")
	// ErrNotFound means the requested team or record has no data.
	ErrNotFound = errors.New("not found")
	// ErrSameTeam is returned when both sides of a pair are the same team.
	ErrSameTeam = errors.New("a team cannot face itself")
)

// Stats modes accepted by ComputeTeamStats.
const (
	ModeSeason = "season"
	ModeLast5  = "last5"
)

// Repository is the persistence the service reads from and writes to.
// *store.Store and *store.Memory both satisfy it.
type Repository interface {
	SeasonMatches(ctx context.Context, leagueName string, from, to time.Time) ([]league.MatchResult, error)
	TeamMatches(ctx context.Context, teams []string, from, to time.Time) ([]league.MatchResult, error)
	PairMatches(ctx context.Context, team1, team2 string) ([]league.MatchResult, error)
	ReplaceStandings(ctx context.Context, leagueName string, season int, rows []league.StandingsRow) error
	Standings(ctx context.Context, leagueName string, season int, split league.Split) ([]league.StandingsRow, error)
	TeamStandings(ctx context.Context, teams []string, season int) ([]league.StandingsRow, error)
	UpsertHeadToHead(ctx context.Context, rec league.Head2HeadRecord) error
	HeadToHead(ctx context.Context, team1, team2 string) (league.Head2HeadRecord, error)
}

// Options tunes a Service. Zero values fall back to defaults.
type Options struct {
	Model   league.Model
	Trials  int // simulations per request when the caller gives none
	Workers int // simulator goroutines; 0 means GOMAXPROCS
	Logger  logrus.FieldLogger
}

// Service runs the standings, head-to-head, team stats and simulation
// pipelines on top of a Repository.
type Service struct {
	repo    Repository
	model   league.Model
	trials  int
	workers int
	log     logrus.FieldLogger

	h2h singleflight.Group
}

func New(repo Repository, opts Options) *Service {
	s := &Service{
		repo:    repo,
		model:   opts.Model,
		trials:  opts.Trials,
		workers: opts.Workers,
		log:     opts.Logger,
	}
	if s.model == (league.Model{}) {
		s.model = league.DefaultModel()
	}
	if s.trials <= 0 {
		s.trials = league.DefaultTrials
	}
	if s.log == nil {
		s.log = telemetry.L()
	}
	return s
}

// ComputeStandings rebuilds the HOME, AWAY and TOTAL tables of a league
// season from its matches, stores them in one write and returns them.
func (s *Service) ComputeStandings(ctx context.Context, leagueName string, season int) ([]league.StandingsRow, error) {
	from, to := league.SeasonWindow(season)
	matches, err := s.repo.SeasonMatches(ctx, leagueName, from, to)
	if err != nil {
		return nil, fmt.Errorf("loading %s %d matches: %w", leagueName, season, err)
	}

	rows := league.BuildStandings(leagueName, season, matches)
	if err := s.repo.ReplaceStandings(ctx, leagueName, season, rows); err != nil {
		return nil, fmt.Errorf("saving %s %d standings: %w", leagueName, season, err)
	}

	s.log.WithFields(logrus.Fields{
		"league":  leagueName,
		"season":  season,
		"matches": len(matches),
		"rows":    len(rows),
	}).Debug("standings computed")
	return rows, nil
}

// ComputeHeadToHead recomputes the record of a pair from its full history
// and overwrites the stored one. Argument order does not matter; concurrent
// calls for the same pair share one computation.
func (s *Service) ComputeHeadToHead(ctx context.Context, teamA, teamB string) (league.Head2HeadRecord, error) {
	team1, team2 := league.CanonicalPair(teamA, teamB)
	if team1 == team2 {
		return league.Head2HeadRecord{}, ErrSameTeam
	}

	v, err, _ := s.h2h.Do(team1+"\x00"+team2, func() (any, error) {
		history, err := s.repo.PairMatches(ctx, team1, team2)
		if err != nil {
			return nil, fmt.Errorf("loading %s v %s history: %w", team1, team2, err)
		}
		rec := league.BuildHeadToHead(team1, team2, history)
		if err := s.repo.UpsertHeadToHead(ctx, rec); err != nil {
			return nil, fmt.Errorf("saving %s v %s: %w", team1, team2, err)
		}
		return rec, nil
	})
	if err != nil {
		return league.Head2HeadRecord{}, err
	}
	return v.(league.Head2HeadRecord), nil
}

// HeadToHead returns the stored record of a pair without recomputing it.
func (s *Service) HeadToHead(ctx context.Context, teamA, teamB string) (league.Head2HeadRecord, error) {
	team1, team2 := league.CanonicalPair(teamA, teamB)
	rec, err := s.repo.HeadToHead(ctx, team1, team2)
	if errors.Is(err, store.ErrNotFound) {
		return league.Head2HeadRecord{}, fmt.Errorf("head2head %s v %s: %w", team1, team2, ErrNotFound)
	}
	if err != nil {
		return league.Head2HeadRecord{}, fmt.Errorf("loading head2head: %w", err)
	}
	return rec, nil
}

// Standings returns one stored split of a league table.
func (s *Service) Standings(ctx context.Context, leagueName string, season int, split league.Split) ([]league.StandingsRow, error) {
	rows, err := s.repo.Standings(ctx, leagueName, season, split)
	if err != nil {
		return nil, fmt.Errorf("loading standings: %w", err)
	}
	if rows == nil {
		rows = []league.StandingsRow{}
	}
	return rows, nil
}

// ComputeTeamStats returns side-by-side summaries of two teams for a
// season, either over the whole season or over each team's last five
// matches in it. A team with no matches and no standings in the season
// is reported as ErrNotFound.
func (s *Service) ComputeTeamStats(ctx context.Context, team1, team2, mode string, season int) ([2]league.TeamStatsSummary, error) {
	var out [2]league.TeamStatsSummary
	if mode != ModeSeason && mode != ModeLast5 {
		return out, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	d, err := s.loadPair(ctx, team1, team2, season)
	if err != nil {
		return out, err
	}

	for i, team := range []string{team1, team2} {
		switch mode {
		case ModeLast5:
			out[i] = league.Last5Stats(d.matches, team)
		case ModeSeason:
			out[i] = league.SeasonStats(teamOnly(d.matches, team), team, league.FindRow(d.rows, team, league.SplitTotal))
		}
	}
	return out, nil
}

// SimulateMatch estimates the outcome of home v away from the season's
// data: goal rates from the model, then a Monte Carlo run. Nothing is
// stored. opts.Trials <= 0 uses the service default.
func (s *Service) SimulateMatch(ctx context.Context, homeTeam, awayTeam string, season int, opts league.SimOptions) (league.SimulationResult, error) {
	if homeTeam == awayTeam {
		return league.SimulationResult{}, ErrSameTeam
	}

	d, err := s.loadPair(ctx, homeTeam, awayTeam, season)
	if err != nil {
		return league.SimulationResult{}, err
	}

	in := league.FixtureInputs{
		HomeTeam:  homeTeam,
		AwayTeam:  awayTeam,
		HomeRates: league.AggregateRates(d.matches, homeTeam),
		AwayRates: league.AggregateRates(d.matches, awayTeam),
		HomeTotal: league.FindRow(d.rows, homeTeam, league.SplitTotal),
		AwayTotal: league.FindRow(d.rows, awayTeam, league.SplitTotal),
		HomeVenue: league.FindRow(d.rows, homeTeam, league.SplitHome),
		AwayVenue: league.FindRow(d.rows, awayTeam, league.SplitAway),
	}

	team1, team2 := league.CanonicalPair(homeTeam, awayTeam)
	rec, err := s.repo.HeadToHead(ctx, team1, team2)
	switch {
	case err == nil:
		in.H2H = &rec
	case errors.Is(err, store.ErrNotFound):
		// no stored record, neutral bias
	default:
		return league.SimulationResult{}, fmt.Errorf("loading head2head: %w", err)
	}

	lambdaHome, lambdaAway := s.model.Rates(in)

	if opts.Trials <= 0 {
		opts.Trials = s.trials
	}
	if opts.Workers <= 0 {
		opts.Workers = s.workers
	}
	res := league.Simulate(homeTeam, awayTeam, lambdaHome, lambdaAway, opts)

	s.log.WithFields(logrus.Fields{
		"home":        homeTeam,
		"away":        awayTeam,
		"season":      season,
		"lambda_home": lambdaHome,
		"lambda_away": lambdaAway,
		"trials":      res.Trials,
	}).Debug("match simulated")
	return res, nil
}

type pairData struct {
	matches []league.MatchResult
	rows    []league.StandingsRow
}

// loadPair reads the season matches and standings rows of two teams.
func (s *Service) loadPair(ctx context.Context, team1, team2 string, season int) (pairData, error) {
	from, to := league.SeasonWindow(season)
	matches, err := s.repo.TeamMatches(ctx, []string{team1, team2}, from, to)
	if err != nil {
		return pairData{}, fmt.Errorf("loading team matches: %w", err)
	}
	rows, err := s.repo.TeamStandings(ctx, []string{team1, team2}, season)
	if err != nil {
		return pairData{}, fmt.Errorf("loading team standings: %w", err)
	}

	for _, team := range []string{team1, team2} {
		if !hasTeam(matches, rows, team) {
			return pairData{}, fmt.Errorf("team %q in season %d: %w", team, season, ErrNotFound)
		}
	}
	return pairData{matches: matches, rows: rows}, nil
}

func hasTeam(matches []league.MatchResult, rows []league.StandingsRow, team string) bool {
	for _, m := range matches {
		if m.Involves(team) {
			return true
		}
	}
	for _, r := range rows {
		if r.Team == team {
			return true
		}
	}
	return false
}

func teamOnly(matches []league.MatchResult, team string) []league.MatchResult {
	out := make([]league.MatchResult, 0, len(matches))
	for _, m := range matches {
		if m.Involves(team) {
			out = append(out, m)
		}
	}
	return out
}
