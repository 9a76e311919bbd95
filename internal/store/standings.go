package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/utakatalp/league-forecaster/internal/league"
)

const standingsColumns = `league, team, season, split, position, played, won, drawn, lost,
	goals_for, goals_against, form, recent_gf, recent_ga`

// ReplaceStandings writes the complete table of a (league, season) in one
// transaction: stale rows are removed and every row is upserted on
// (team, season, split). Readers see either the old table or the new one.
func (s *Store) ReplaceStandings(ctx context.Context, leagueName string, season int, rows []league.StandingsRow) error {
	del := s.d.rebind(`DELETE FROM standings WHERE league = ? AND season = ?`)
	upsert := s.d.rebind(`
INSERT INTO standings (` + standingsColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (team, season, split) DO UPDATE SET
	league        = excluded.league,
	position      = excluded.position,
	played        = excluded.played,
	won           = excluded.won,
	drawn         = excluded.drawn,
	lost          = excluded.lost,
	goals_for     = excluded.goals_for,
	goals_against = excluded.goals_against,
	form          = excluded.form,
	recent_gf     = excluded.recent_gf,
	recent_ga     = excluded.recent_ga
`)

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, del, leagueName, season); err != nil {
			return fmt.Errorf("clearing standings %s %d: %w", leagueName, season, err)
		}
		stmt, err := tx.PrepareContext(ctx, upsert)
		if err != nil {
			return fmt.Errorf("preparing standings upsert: %w", err)
		}
		defer stmt.Close()

		for _, r := range rows {
			if _, err := stmt.ExecContext(ctx,
				leagueName, r.Team, season, string(r.Split), r.Position,
				r.Played, r.Won, r.Drawn, r.Lost,
				r.GoalsFor, r.GoalsAgainst, r.Form, r.RecentGoalsFor, r.RecentGoalsAgainst,
			); err != nil {
				return fmt.Errorf("upserting standings %s %s: %w", r.Team, r.Split, err)
			}
		}
		return nil
	})
}

// Standings returns one split of a league table in position order.
func (s *Store) Standings(ctx context.Context, leagueName string, season int, split league.Split) ([]league.StandingsRow, error) {
	q := s.d.rebind(`
SELECT ` + standingsColumns + `
FROM standings
WHERE league = ? AND season = ? AND split = ?
ORDER BY position, team
`)
	return s.queryStandings(ctx, q, leagueName, season, string(split))
}

// TeamStandings returns every split row of teams for a season.
func (s *Store) TeamStandings(ctx context.Context, teams []string, season int) ([]league.StandingsRow, error) {
	if len(teams) == 0 {
		return nil, nil
	}
	q := s.d.rebind(`
SELECT ` + standingsColumns + `
FROM standings
WHERE season = ? AND team IN (` + placeholders(len(teams)) + `)
ORDER BY team, split
`)
	args := make([]any, 0, 1+len(teams))
	args = append(args, season)
	for _, t := range teams {
		args = append(args, t)
	}
	return s.queryStandings(ctx, q, args...)
}

func (s *Store) queryStandings(ctx context.Context, q string, args ...any) ([]league.StandingsRow, error) {
	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying standings: %w", err)
	}
	defer rows.Close()

	var table []league.StandingsRow
	for rows.Next() {
		var (
			r     league.StandingsRow
			split string
		)
		if err := rows.Scan(
			&r.League, &r.Team, &r.Season, &split, &r.Position,
			&r.Played, &r.Won, &r.Drawn, &r.Lost,
			&r.GoalsFor, &r.GoalsAgainst, &r.Form, &r.RecentGoalsFor, &r.RecentGoalsAgainst,
		); err != nil {
			return nil, fmt.Errorf("scanning standings row: %w", err)
		}
		r.Split = league.Split(split)
		// derived, never stored
		r.GoalDifference = r.GoalsFor - r.GoalsAgainst
		r.Points = 3*r.Won + r.Drawn
		table = append(table, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating standings rows: %w", err)
	}
	return table, nil
}
