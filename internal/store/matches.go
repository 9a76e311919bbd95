package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/utakatalp/league-forecaster/internal/league"
)

const matchColumns = `id, league, kickoff, home_team, away_team, fthg, ftag,
	COALESCE(hs, 0), COALESCE("as", 0), COALESCE(hst, 0), COALESCE(ast, 0),
	COALESCE(hc, 0), COALESCE(ac, 0), COALESCE(hy, 0), COALESCE(ay, 0),
	COALESCE(hr, 0), COALESCE(ar, 0), COALESCE(hf, 0), COALESCE(af, 0)`

// InsertMatch records a played fixture. A fixture already stored under the
// same (kickoff, home, away) is left untouched and inserted is false.
// On insert m.ID is set.
func (s *Store) InsertMatch(ctx context.Context, m *league.MatchResult) (inserted bool, err error) {
	q := s.d.rebind(`
INSERT INTO matches (league, kickoff, home_team, away_team, fthg, ftag,
	hs, "as", hst, ast, hc, ac, hy, ay, hr, ar, hf, af)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (kickoff, home_team, away_team) DO NOTHING
RETURNING id
`)
	err = s.DB.QueryRowContext(ctx, q,
		m.League, m.Kickoff.UTC(), m.HomeTeam, m.AwayTeam,
		nullInt(m.HomeGoals), nullInt(m.AwayGoals),
		m.Home.Shots, m.Away.Shots,
		m.Home.ShotsOnTarget, m.Away.ShotsOnTarget,
		m.Home.Corners, m.Away.Corners,
		m.Home.Yellows, m.Away.Yellows,
		m.Home.Reds, m.Away.Reds,
		m.Home.Fouls, m.Away.Fouls,
	).Scan(&m.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("saving match %s: %w", m.ScoreLine(), err)
	}
	return true, nil
}

// SeasonMatches returns a league's matches with kickoff in [from, to),
// most recent first.
func (s *Store) SeasonMatches(ctx context.Context, leagueName string, from, to time.Time) ([]league.MatchResult, error) {
	q := s.d.rebind(`
SELECT ` + matchColumns + `
FROM matches
WHERE league = ? AND kickoff >= ? AND kickoff < ?
ORDER BY kickoff DESC, id DESC
`)
	return s.queryMatches(ctx, q, leagueName, from.UTC(), to.UTC())
}

// TeamMatches returns every match involving any of teams with kickoff in
// [from, to), most recent first.
func (s *Store) TeamMatches(ctx context.Context, teams []string, from, to time.Time) ([]league.MatchResult, error) {
	if len(teams) == 0 {
		return nil, nil
	}
	in := placeholders(len(teams))
	q := s.d.rebind(`
SELECT ` + matchColumns + `
FROM matches
WHERE kickoff >= ? AND kickoff < ?
  AND (home_team IN (` + in + `) OR away_team IN (` + in + `))
ORDER BY kickoff DESC, id DESC
`)
	args := make([]any, 0, 2+2*len(teams))
	args = append(args, from.UTC(), to.UTC())
	for i := 0; i < 2; i++ {
		for _, t := range teams {
			args = append(args, t)
		}
	}
	return s.queryMatches(ctx, q, args...)
}

// PairMatches returns every meeting between two teams in either
// orientation, most recent first.
func (s *Store) PairMatches(ctx context.Context, team1, team2 string) ([]league.MatchResult, error) {
	q := s.d.rebind(`
SELECT ` + matchColumns + `
FROM matches
WHERE (home_team = ? AND away_team = ?) OR (home_team = ? AND away_team = ?)
ORDER BY kickoff DESC, id DESC
`)
	return s.queryMatches(ctx, q, team1, team2, team2, team1)
}

func (s *Store) queryMatches(ctx context.Context, q string, args ...any) ([]league.MatchResult, error) {
	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying matches: %w", err)
	}
	defer rows.Close()

	var matches []league.MatchResult
	for rows.Next() {
		var (
			m          league.MatchResult
			fthg, ftag sql.NullInt64
		)
		if err := rows.Scan(
			&m.ID, &m.League, &m.Kickoff, &m.HomeTeam, &m.AwayTeam, &fthg, &ftag,
			&m.Home.Shots, &m.Away.Shots,
			&m.Home.ShotsOnTarget, &m.Away.ShotsOnTarget,
			&m.Home.Corners, &m.Away.Corners,
			&m.Home.Yellows, &m.Away.Yellows,
			&m.Home.Reds, &m.Away.Reds,
			&m.Home.Fouls, &m.Away.Fouls,
		); err != nil {
			return nil, fmt.Errorf("scanning match: %w", err)
		}
		m.Kickoff = m.Kickoff.UTC()
		m.HomeGoals = intPtr(fthg)
		m.AwayGoals = intPtr(ftag)
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating match rows: %w", err)
	}
	return matches, nil
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
