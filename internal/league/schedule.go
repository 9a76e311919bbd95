package league

// Pairing is one fixture of a round-robin round.
type Pairing struct {
	Home, Away string
}

// RoundRobin returns a single round-robin over teams using the circle
// method: every pair meets exactly once and no team appears twice in a
// round. An odd team count gives each team one bye.
func RoundRobin(teams []string) [][]Pairing {
	slots := make([]*string, 0, len(teams)+1)
	for i := range teams {
		slots = append(slots, &teams[i])
	}
	if len(slots)%2 != 0 {
		slots = append(slots, nil) // bye
	}
	n := len(slots)
	if n < 2 {
		return nil
	}

	rounds := make([][]Pairing, 0, n-1)
	for i := 0; i < n-1; i++ {
		round := make([]Pairing, 0, n/2)
		for j := 0; j < n/2; j++ {
			home, away := slots[j], slots[n-1-j]
			if home != nil && away != nil {
				round = append(round, Pairing{Home: *home, Away: *away})
			}
		}
		rounds = append(rounds, round)

		// rotate everything but the first slot
		last := slots[n-1]
		copy(slots[2:], slots[1:n-1])
		slots[1] = last
	}
	return rounds
}
