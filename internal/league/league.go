package league

import (
	"fmt"
	"time"
)

// Split is the venue scope of a standings row.
type Split string

const (
	SplitHome  Split = "HOME"
	SplitAway  Split = "AWAY"
	SplitTotal Split = "TOTAL"
)

// Splits lists every split in the order rows are written.
var Splits = []Split{SplitTotal, SplitHome, SplitAway}

// ParseSplit accepts HOME, AWAY or TOTAL.
func ParseSplit(s string) (Split, error) {
	switch Split(s) {
	case SplitHome, SplitAway, SplitTotal:
		return Split(s), nil
	}
	return "", fmt.Errorf("unknown split %q", s)
}

// SideStats holds the auxiliary counts for one side of a match.
// Missing feed values are stored as 0.
type SideStats struct {
	Shots         int `json:"shots"`
	ShotsOnTarget int `json:"shots_on_target"`
	Corners       int `json:"corners"`
	Yellows       int `json:"yellows"`
	Reds          int `json:"reds"`
	Fouls         int `json:"fouls"`
}

// MatchResult represents a played fixture.
type MatchResult struct {
	ID        int64     `json:"id"`
	League    string    `json:"league"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	Kickoff   time.Time `json:"kickoff"`
	HomeGoals *int      `json:"fthg"`
	AwayGoals *int      `json:"ftag"`
	Home      SideStats `json:"home"`
	Away      SideStats `json:"away"`
}

// Score returns the full-time score. ok is false when either side is missing.
func (m MatchResult) Score() (home, away int, ok bool) {
	if m.HomeGoals == nil || m.AwayGoals == nil {
		return 0, 0, false
	}
	return *m.HomeGoals, *m.AwayGoals, true
}

// Involves reports whether team played in m.
func (m MatchResult) Involves(team string) bool {
	return m.HomeTeam == team || m.AwayTeam == team
}

// Perspective returns goals for/against and the side stats from team's
// point of view. ok is false when the score is missing.
func (m MatchResult) Perspective(team string) (gf, ga int, own SideStats, ok bool) {
	hg, ag, ok := m.Score()
	if m.HomeTeam == team {
		return hg, ag, m.Home, ok
	}
	return ag, hg, m.Away, ok
}

// Result returns W, D or L from team's point of view, or "" if the
// score is missing.
func (m MatchResult) Result(team string) string {
	gf, ga, _, ok := m.Perspective(team)
	if !ok {
		return ""
	}
	switch {
	case gf > ga:
		return "W"
	case gf < ga:
		return "L"
	default:
		return "D"
	}
}

// ScoreLine renders the match as "Home 2 - 1 Away".
func (m MatchResult) ScoreLine() string {
	hg, ag, ok := m.Score()
	if !ok {
		return fmt.Sprintf("%s ? - ? %s", m.HomeTeam, m.AwayTeam)
	}
	return fmt.Sprintf("%s %d - %d %s", m.HomeTeam, hg, ag, m.AwayTeam)
}

// Goals is a convenience for building MatchResult literals.
func Goals(n int) *int { return &n }

// StandingsRow holds a team's record for one (season, split).
type StandingsRow struct {
	League             string `json:"league"`
	Team               string `json:"name"`
	Season             int    `json:"season"`
	Split              Split  `json:"type"`
	Position           int    `json:"position"`
	Played             int    `json:"played"`
	Won                int    `json:"won"`
	Drawn              int    `json:"draw"`
	Lost               int    `json:"lost"`
	GoalsFor           int    `json:"goalsFor"`
	GoalsAgainst       int    `json:"goalsAgainst"`
	GoalDifference     int    `json:"goalDifference"`
	Points             int    `json:"points"`
	Form               string `json:"form"`
	RecentGoalsFor     int    `json:"recentGf"`
	RecentGoalsAgainst int    `json:"recentGa"`
}

// record folds one result into the row and refreshes the derived fields.
func (r *StandingsRow) record(gf, ga int) {
	r.Played++
	r.GoalsFor += gf
	r.GoalsAgainst += ga
	switch {
	case gf > ga:
		r.Won++
	case gf < ga:
		r.Lost++
	default:
		r.Drawn++
	}
	r.GoalDifference = r.GoalsFor - r.GoalsAgainst
	r.Points = 3*r.Won + r.Drawn
}

// Head2HeadRecord summarizes every meeting between two teams.
// Team1 always sorts before Team2, see CanonicalPair.
type Head2HeadRecord struct {
	Team1         string  `json:"team1"`
	Team2         string  `json:"team2"`
	MatchesPlayed int     `json:"mp"`
	Team1Wins     int     `json:"team1Wins"`
	Team2Wins     int     `json:"team2Wins"`
	Draws         int     `json:"draws"`
	Last5         []int64 `json:"last5"`
}

// WinsFor returns the wins credited to team, which must be Team1 or Team2.
func (h Head2HeadRecord) WinsFor(team string) int {
	switch team {
	case h.Team1:
		return h.Team1Wins
	case h.Team2:
		return h.Team2Wins
	}
	return 0
}

// TeamRates are a team's per-venue goal averages.
type TeamRates struct {
	AvgScoredHome   float64 `json:"avg_scored_home"`
	AvgScoredAway   float64 `json:"avg_scored_away"`
	AvgConcededHome float64 `json:"avg_conceded_home"`
	AvgConcededAway float64 `json:"avg_conceded_away"`
}

// TeamStatsSummary is the side-by-side comparison block for one team.
type TeamStatsSummary struct {
	Name           string     `json:"name"`
	Played         int        `json:"played"`
	Won            int        `json:"won"`
	Drawn          int        `json:"draw"`
	Lost           int        `json:"lost"`
	GoalsFor       int        `json:"gf"`
	GoalsAgainst   int        `json:"ga"`
	GoalDifference int        `json:"gd"`
	Shots          int        `json:"shots"`
	ShotsOnTarget  int        `json:"shotsOnTarget"`
	Corners        int        `json:"corners"`
	Yellows        int        `json:"yellows"`
	Reds           int        `json:"reds"`
	Form           string     `json:"form"`
	Rates          *TeamRates `json:"rates,omitempty"`
}

// SimulationResult is the outcome of a Monte Carlo run. It is never persisted.
type SimulationResult struct {
	HomeTeam            string  `json:"home_team"`
	AwayTeam            string  `json:"away_team"`
	HomeWinProb         float64 `json:"home_win_prob"`
	DrawProb            float64 `json:"draw_prob"`
	AwayWinProb         float64 `json:"away_win_prob"`
	AvgGoalsHome        float64 `json:"avg_goals_home"`
	AvgGoalsAway        float64 `json:"avg_goals_away"`
	LambdaHome          float64 `json:"lambda_home"`
	LambdaAway          float64 `json:"lambda_away"`
	MostLikelyScore     string  `json:"most_likely_score"`
	MostLikelyScoreProb float64 `json:"most_likely_score_prob"`
	Trials              int     `json:"trials"`
}

// SeasonWindow returns [Aug 1 season, Jul 1 season+1) in UTC.
func SeasonWindow(season int) (start, end time.Time) {
	start = time.Date(season, time.August, 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(season+1, time.July, 1, 0, 0, 0, 0, time.UTC)
	return start, end
}

// InSeason reports whether t falls in the season window.
func InSeason(t time.Time, season int) bool {
	start, end := SeasonWindow(season)
	return !t.Before(start) && t.Before(end)
}

// SeasonOf returns the season a kickoff belongs to. July falls into the
// gap between windows and is attributed to the season that just ended.
func SeasonOf(t time.Time) int {
	t = t.UTC()
	if t.Month() >= time.August {
		return t.Year()
	}
	return t.Year() - 1
}
