package league

import "time"

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t.Add(15 * time.Hour)
}

func played(id int64, date, home string, hg, ag int, away string) MatchResult {
	return MatchResult{
		ID:        id,
		League:    "Premier League",
		HomeTeam:  home,
		AwayTeam:  away,
		Kickoff:   day(date),
		HomeGoals: Goals(hg),
		AwayGoals: Goals(ag),
	}
}

func unplayed(id int64, date, home, away string) MatchResult {
	return MatchResult{ID: id, League: "Premier League", HomeTeam: home, AwayTeam: away, Kickoff: day(date)}
}
