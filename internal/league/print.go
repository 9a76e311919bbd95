package league

import (
	"fmt"
	"io"
)

// PrintTable writes rows of one split as a fixed-width table.
func PrintTable(w io.Writer, label string, rows []StandingsRow) {
	fmt.Fprintln(w, label)
	fmt.Fprintf(w, "%3s %-24s %2s %2s %2s %2s %3s %3s %4s %3s  %-5s\n",
		"Pos", "Team", "P", "W", "D", "L", "GF", "GA", "GD", "Pts", "Form")
	for _, r := range rows {
		fmt.Fprintf(w, "%3d %-24s %2d %2d %2d %2d %3d %3d %+4d %3d  %-5s\n",
			r.Position,
			r.Team,
			r.Played,
			r.Won,
			r.Drawn,
			r.Lost,
			r.GoalsFor,
			r.GoalsAgainst,
			r.GoalDifference,
			r.Points,
			r.Form,
		)
	}
}
