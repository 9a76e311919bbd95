package league

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// foldName is the comparison key for team names: NFC-normalized, case-folded.
func foldName(name string) string {
	return cases.Fold().String(norm.NFC.String(name))
}

// CanonicalPair orders two team names so the pair has a single stored form,
// whatever the home/away order of the fixture. Comparison is
// case-insensitive; names that fold to the same key fall back to a byte
// comparison.
func CanonicalPair(a, b string) (team1, team2 string) {
	fa, fb := foldName(a), foldName(b)
	if fa < fb || (fa == fb && a <= b) {
		return a, b
	}
	return b, a
}

// BuildHeadToHead recomputes the record between teamA and teamB from the
// full history. Matches between other teams are ignored. Matches without a
// score are left out of the counts but still take a Last5 slot.
func BuildHeadToHead(teamA, teamB string, history []MatchResult) Head2HeadRecord {
	team1, team2 := CanonicalPair(teamA, teamB)
	rec := Head2HeadRecord{Team1: team1, Team2: team2, Last5: []int64{}}

	meetings := make([]MatchResult, 0, len(history))
	for _, m := range history {
		if (m.HomeTeam == team1 && m.AwayTeam == team2) ||
			(m.HomeTeam == team2 && m.AwayTeam == team1) {
			meetings = append(meetings, m)
		}
	}
	if len(meetings) == 0 {
		return rec
	}
	SortRecentFirst(meetings)

	for i, m := range meetings {
		if i < LastN {
			rec.Last5 = append(rec.Last5, m.ID)
		}
		switch m.Result(team1) {
		case "W":
			rec.Team1Wins++
		case "L":
			rec.Team2Wins++
		case "D":
			rec.Draws++
		default:
			continue
		}
		rec.MatchesPlayed++
	}
	return rec
}
