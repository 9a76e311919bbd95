package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/utakatalp/league-forecaster/internal/league"
)

type standingsKey struct {
	team   string
	season int
	split  league.Split
}

type matchKey struct {
	kickoff        int64
	homeTeam, away string
}

// Memory is an in-process store with the same contract as Store. It backs
// DB_DRIVER=memory and the service tests.
type Memory struct {
	mu        sync.RWMutex
	nextID    int64
	matches   []league.MatchResult
	seen      map[matchKey]bool
	standings map[standingsKey]league.StandingsRow
	h2h       map[[2]string]league.Head2HeadRecord
}

func NewMemory() *Memory {
	return &Memory{
		seen:      make(map[matchKey]bool),
		standings: make(map[standingsKey]league.StandingsRow),
		h2h:       make(map[[2]string]league.Head2HeadRecord),
	}
}

func (m *Memory) InsertMatch(_ context.Context, match *league.MatchResult) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := matchKey{match.Kickoff.UTC().UnixNano(), match.HomeTeam, match.AwayTeam}
	if m.seen[k] {
		return false, nil
	}
	m.seen[k] = true
	m.nextID++
	match.ID = m.nextID
	match.Kickoff = match.Kickoff.UTC()
	m.matches = append(m.matches, *match)
	return true, nil
}

func (m *Memory) SeasonMatches(_ context.Context, leagueName string, from, to time.Time) ([]league.MatchResult, error) {
	return m.filter(func(x league.MatchResult) bool {
		return x.League == leagueName && inRange(x.Kickoff, from, to)
	}), nil
}

func (m *Memory) TeamMatches(_ context.Context, teams []string, from, to time.Time) ([]league.MatchResult, error) {
	if len(teams) == 0 {
		return nil, nil
	}
	want := make(map[string]bool, len(teams))
	for _, t := range teams {
		want[t] = true
	}
	return m.filter(func(x league.MatchResult) bool {
		return (want[x.HomeTeam] || want[x.AwayTeam]) && inRange(x.Kickoff, from, to)
	}), nil
}

func (m *Memory) PairMatches(_ context.Context, team1, team2 string) ([]league.MatchResult, error) {
	return m.filter(func(x league.MatchResult) bool {
		return (x.HomeTeam == team1 && x.AwayTeam == team2) ||
			(x.HomeTeam == team2 && x.AwayTeam == team1)
	}), nil
}

func (m *Memory) filter(keep func(league.MatchResult) bool) []league.MatchResult {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []league.MatchResult
	for _, x := range m.matches {
		if keep(x) {
			out = append(out, x)
		}
	}
	league.SortRecentFirst(out)
	return out
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func (m *Memory) ReplaceStandings(_ context.Context, leagueName string, season int, rows []league.StandingsRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k, r := range m.standings {
		if r.League == leagueName && k.season == season {
			delete(m.standings, k)
		}
	}
	for _, r := range rows {
		r.League = leagueName
		r.Season = season
		r.GoalDifference = r.GoalsFor - r.GoalsAgainst
		r.Points = 3*r.Won + r.Drawn
		m.standings[standingsKey{r.Team, season, r.Split}] = r
	}
	return nil
}

func (m *Memory) Standings(_ context.Context, leagueName string, season int, split league.Split) ([]league.StandingsRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []league.StandingsRow
	for k, r := range m.standings {
		if r.League == leagueName && k.season == season && k.split == split {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].Team < out[j].Team
	})
	return out, nil
}

func (m *Memory) TeamStandings(_ context.Context, teams []string, season int) ([]league.StandingsRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []league.StandingsRow
	for _, t := range teams {
		for _, s := range league.Splits {
			if r, ok := m.standings[standingsKey{t, season, s}]; ok {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func (m *Memory) UpsertHeadToHead(_ context.Context, rec league.Head2HeadRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	last5 := make([]int64, len(rec.Last5))
	copy(last5, rec.Last5)
	rec.Last5 = last5
	m.h2h[[2]string{rec.Team1, rec.Team2}] = rec
	return nil
}

func (m *Memory) HeadToHead(_ context.Context, team1, team2 string) (league.Head2HeadRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.h2h[[2]string{team1, team2}]
	if !ok {
		return league.Head2HeadRecord{}, fmt.Errorf("head2head %s v %s: %w", team1, team2, ErrNotFound)
	}
	last5 := make([]int64, len(rec.Last5))
	copy(last5, rec.Last5)
	rec.Last5 = last5
	return rec, nil
}

// Close is a no-op; it lets Memory stand in for a Store.
func (m *Memory) Close() error { return nil }
