package league

import (
	"sort"
)

// BuildStandings folds a season's matches into HOME, AWAY and TOTAL rows,
// ranks each split and fills in recent form. Matches outside the season
// window, from another league, or without a score are ignored. A team only
// gets a row in a split it has played in.
//
// Rows are returned grouped by split (TOTAL, HOME, AWAY), each group in
// position order.
func BuildStandings(leagueName string, season int, matches []MatchResult) []StandingsRow {
	played := make([]MatchResult, 0, len(matches))
	for _, m := range matches {
		if leagueName != "" && m.League != leagueName {
			continue
		}
		if !InSeason(m.Kickoff, season) {
			continue
		}
		played = append(played, m)
	}

	// 1) zeroed record per team and split
	table := make(map[string]map[Split]*StandingsRow)
	entry := func(team string, split Split) *StandingsRow {
		splits, ok := table[team]
		if !ok {
			splits = make(map[Split]*StandingsRow, len(Splits))
			for _, s := range Splits {
				splits[s] = &StandingsRow{League: leagueName, Team: team, Season: season, Split: s}
			}
			table[team] = splits
		}
		return splits[split]
	}

	// 2) fold results
	for _, m := range played {
		hg, ag, ok := m.Score()
		if !ok {
			continue
		}
		entry(m.HomeTeam, SplitHome).record(hg, ag)
		entry(m.HomeTeam, SplitTotal).record(hg, ag)
		entry(m.AwayTeam, SplitAway).record(ag, hg)
		entry(m.AwayTeam, SplitTotal).record(ag, hg)
	}

	teams := make([]string, 0, len(table))
	for team := range table {
		teams = append(teams, team)
	}
	sort.Strings(teams)

	// 3) collect rows that have at least one match
	rows := make([]StandingsRow, 0, len(teams)*len(Splits))
	for _, split := range Splits {
		for _, team := range teams {
			r := table[team][split]
			if r.Played == 0 {
				continue
			}
			rows = append(rows, *r)
		}
	}

	// 4) rank, 5) recent form
	RankStandings(rows)
	RecentForm(rows, played)
	return rows
}

// RankStandings assigns 1-based positions per split: points desc, then goal
// difference desc, then goals for desc. Teams level on all three keep their
// incoming order. Rows are reordered in place, grouped by split.
func RankStandings(rows []StandingsRow) {
	if len(rows) == 0 {
		return
	}
	splitOrder := make(map[Split]int, len(Splits))
	for i, s := range Splits {
		splitOrder[s] = i
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Split != b.Split {
			return splitOrder[a.Split] < splitOrder[b.Split]
		}
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		return a.GoalsFor > b.GoalsFor
	})

	pos := 0
	for i := range rows {
		if i == 0 || rows[i].Split != rows[i-1].Split {
			pos = 0
		}
		pos++
		rows[i].Position = pos
	}
}

// RecentForm sets Form, RecentGoalsFor and RecentGoalsAgainst on every row
// from the team's LastN most recent matches in that row's split. Matches
// without a score take a slot in the window but add nothing.
func RecentForm(rows []StandingsRow, matches []MatchResult) {
	for i := range rows {
		r := &rows[i]
		var keep func(MatchResult) bool
		switch r.Split {
		case SplitHome:
			keep = func(m MatchResult) bool { return m.HomeTeam == r.Team }
		case SplitAway:
			keep = func(m MatchResult) bool { return m.AwayTeam == r.Team }
		}
		recent := recentFor(matches, r.Team, LastN, keep)
		r.Form, r.RecentGoalsFor, r.RecentGoalsAgainst = windowForm(recent, r.Team)
	}
}

// FindRow returns the row for team and split, or nil.
func FindRow(rows []StandingsRow, team string, split Split) *StandingsRow {
	for i := range rows {
		if rows[i].Team == team && rows[i].Split == split {
			return &rows[i]
		}
	}
	return nil
}
