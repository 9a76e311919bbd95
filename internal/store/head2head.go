package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/utakatalp/league-forecaster/internal/league"
)

// UpsertHeadToHead overwrites the record stored for (Team1, Team2).
// The caller passes a canonical pair.
func (s *Store) UpsertHeadToHead(ctx context.Context, rec league.Head2HeadRecord) error {
	q := s.d.rebind(`
INSERT INTO head2head (team1, team2, mp, team1_wins, team2_wins, draws, last5)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (team1, team2) DO UPDATE SET
	mp         = excluded.mp,
	team1_wins = excluded.team1_wins,
	team2_wins = excluded.team2_wins,
	draws      = excluded.draws,
	last5      = excluded.last5
`)
	last5 := rec.Last5
	if last5 == nil {
		last5 = []int64{}
	}
	_, err := s.DB.ExecContext(ctx, q,
		rec.Team1, rec.Team2, rec.MatchesPlayed,
		rec.Team1Wins, rec.Team2Wins, rec.Draws,
		s.d.idsValue(last5),
	)
	if err != nil {
		return fmt.Errorf("upserting head2head %s v %s: %w", rec.Team1, rec.Team2, err)
	}
	return nil
}

// HeadToHead loads the record stored under the canonical pair.
func (s *Store) HeadToHead(ctx context.Context, team1, team2 string) (league.Head2HeadRecord, error) {
	q := s.d.rebind(`
SELECT team1, team2, mp, team1_wins, team2_wins, draws, last5
FROM head2head
WHERE team1 = ? AND team2 = ?
`)
	var rec league.Head2HeadRecord
	err := s.DB.QueryRowContext(ctx, q, team1, team2).Scan(
		&rec.Team1, &rec.Team2, &rec.MatchesPlayed,
		&rec.Team1Wins, &rec.Team2Wins, &rec.Draws,
		s.d.idsDest(&rec.Last5),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return league.Head2HeadRecord{}, fmt.Errorf("head2head %s v %s: %w", team1, team2, ErrNotFound)
	}
	if err != nil {
		return league.Head2HeadRecord{}, fmt.Errorf("loading head2head %s v %s: %w", team1, team2, err)
	}
	if rec.Last5 == nil {
		rec.Last5 = []int64{}
	}
	return rec, nil
}
