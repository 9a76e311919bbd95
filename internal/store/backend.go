package store

import (
	"context"
	"time"

	"github.com/utakatalp/league-forecaster/internal/league"
)

// Backend is the method set shared by Store and Memory.
type Backend interface {
	InsertMatch(ctx context.Context, m *league.MatchResult) (bool, error)
	SeasonMatches(ctx context.Context, leagueName string, from, to time.Time) ([]league.MatchResult, error)
	TeamMatches(ctx context.Context, teams []string, from, to time.Time) ([]league.MatchResult, error)
	PairMatches(ctx context.Context, team1, team2 string) ([]league.MatchResult, error)
	ReplaceStandings(ctx context.Context, leagueName string, season int, rows []league.StandingsRow) error
	Standings(ctx context.Context, leagueName string, season int, split league.Split) ([]league.StandingsRow, error)
	TeamStandings(ctx context.Context, teams []string, season int) ([]league.StandingsRow, error)
	UpsertHeadToHead(ctx context.Context, rec league.Head2HeadRecord) error
	HeadToHead(ctx context.Context, team1, team2 string) (league.Head2HeadRecord, error)
	Close() error
}

var (
	_ Backend = (*Store)(nil)
	_ Backend = (*Memory)(nil)
)

// Connect opens the backend named by driver: postgres, sqlite or memory.
func Connect(ctx context.Context, driver, dsn string) (Backend, error) {
	if driver == "memory" {
		return NewMemory(), nil
	}
	s, err := Open(ctx, driver, dsn)
	if err != nil {
		return nil, err
	}
	return s, nil
}
