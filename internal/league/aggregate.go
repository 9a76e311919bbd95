package league

import (
	"sort"
	"strings"
)

// LastN is the size of the recent-form window.
const LastN = 5

// SortRecentFirst orders matches by kickoff descending, then by ID
// descending so equal kickoffs stay deterministic.
func SortRecentFirst(matches []MatchResult) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if !a.Kickoff.Equal(b.Kickoff) {
			return a.Kickoff.After(b.Kickoff)
		}
		return a.ID > b.ID
	})
}

// recentFor returns at most n of team's matches accepted by keep,
// most recent first. The input is not modified.
func recentFor(matches []MatchResult, team string, n int, keep func(MatchResult) bool) []MatchResult {
	picked := make([]MatchResult, 0, len(matches))
	for _, m := range matches {
		if m.Involves(team) && (keep == nil || keep(m)) {
			picked = append(picked, m)
		}
	}
	SortRecentFirst(picked)
	if len(picked) > n {
		picked = picked[:n]
	}
	return picked
}

func mean(sum, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// AggregateRates averages team's full-time goals scored and conceded per
// venue. A venue with no scored matches yields zeros.
func AggregateRates(matches []MatchResult, team string) TeamRates {
	var (
		scoredHome, concededHome, nHome int
		scoredAway, concededAway, nAway int
	)
	for _, m := range matches {
		hg, ag, ok := m.Score()
		if !ok {
			continue
		}
		switch team {
		case m.HomeTeam:
			scoredHome += hg
			concededHome += ag
			nHome++
		case m.AwayTeam:
			scoredAway += ag
			concededAway += hg
			nAway++
		}
	}
	return TeamRates{
		AvgScoredHome:   mean(scoredHome, nHome),
		AvgScoredAway:   mean(scoredAway, nAway),
		AvgConcededHome: mean(concededHome, nHome),
		AvgConcededAway: mean(concededAway, nAway),
	}
}

func addSide(s *TeamStatsSummary, own SideStats) {
	s.Shots += own.Shots
	s.ShotsOnTarget += own.ShotsOnTarget
	s.Corners += own.Corners
	s.Yellows += own.Yellows
	s.Reds += own.Reds
}

// Last5Stats rolls up team's five most recent matches. Auxiliary counts
// cover every match in the window; Played and the result fields cover only
// the ones with a score, so Played == Won+Drawn+Lost. Form is returned
// oldest-first, the same order as StandingsRow.Form.
func Last5Stats(matches []MatchResult, team string) TeamStatsSummary {
	recent := recentFor(matches, team, LastN, nil)

	s := TeamStatsSummary{Name: team}
	for _, m := range recent {
		gf, ga, own, ok := m.Perspective(team)
		addSide(&s, own)
		if !ok {
			continue
		}
		s.Played++
		s.GoalsFor += gf
		s.GoalsAgainst += ga
		switch m.Result(team) {
		case "W":
			s.Won++
		case "D":
			s.Drawn++
		case "L":
			s.Lost++
		}
	}
	s.GoalDifference = s.GoalsFor - s.GoalsAgainst
	s.Form, _, _ = windowForm(recent, team)
	return s
}

// SeasonStats summarizes team over a whole season. Record figures and form
// come from the TOTAL standings row when one is given, otherwise from the
// matches themselves; auxiliary counts are summed over matches.
func SeasonStats(matches []MatchResult, team string, total *StandingsRow) TeamStatsSummary {
	s := TeamStatsSummary{Name: team}
	var counted StandingsRow
	for _, m := range matches {
		if !m.Involves(team) {
			continue
		}
		gf, ga, own, ok := m.Perspective(team)
		addSide(&s, own)
		if ok {
			counted.record(gf, ga)
		}
	}
	if total != nil {
		counted = *total
	} else {
		counted.Form, _, _ = windowForm(recentFor(matches, team, LastN, nil), team)
	}
	s.Played = counted.Played
	s.Won = counted.Won
	s.Drawn = counted.Drawn
	s.Lost = counted.Lost
	s.GoalsFor = counted.GoalsFor
	s.GoalsAgainst = counted.GoalsAgainst
	s.GoalDifference = counted.GoalsFor - counted.GoalsAgainst
	s.Form = counted.Form
	rates := AggregateRates(matches, team)
	s.Rates = &rates
	return s
}

// windowForm returns the form string (oldest-first) and goals for/against
// over a recent-first window. Matches without a score add nothing.
func windowForm(recent []MatchResult, team string) (form string, gf, ga int) {
	results := make([]string, 0, len(recent))
	for _, m := range recent {
		f, a, _, ok := m.Perspective(team)
		if !ok {
			continue
		}
		gf += f
		ga += a
		results = append(results, m.Result(team))
	}
	return reverseJoin(results), gf, ga
}

// reverseJoin joins results collected newest-first into an oldest-first string.
func reverseJoin(results []string) string {
	var b strings.Builder
	for i := len(results) - 1; i >= 0; i-- {
		b.WriteString(results[i])
	}
	return b.String()
}
