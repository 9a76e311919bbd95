package league

import (
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultTrials is the number of simulated matches when none is given.
const DefaultTrials = 10000

// trials per random stream; fixed so results do not depend on Workers
const chunkSize = 2048

// SimOptions controls a Monte Carlo run.
type SimOptions struct {
	Trials  int     // <= 0 means DefaultTrials
	Seed    *uint64 // nil draws a fresh seed
	Workers int     // <= 0 means GOMAXPROCS
}

// SamplePoisson draws from Poisson(lambda) by multiplying uniforms until the
// running product drops below e^-lambda.
func SamplePoisson(rng *rand.Rand, lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	L := math.Exp(-lambda)
	p := 1.0
	k := 0
	for p > L {
		k++
		p *= rng.Float64()
	}
	return k - 1
}

type scoreline struct{ home, away int }

type tally struct {
	homeWins, draws, awayWins int
	goalsHome, goalsAway      int
	counts                    map[scoreline]int
	first                     map[scoreline]int // earliest global trial index
}

func newTally() *tally {
	return &tally{counts: make(map[scoreline]int), first: make(map[scoreline]int)}
}

func (t *tally) add(trial, hg, ag int) {
	switch {
	case hg > ag:
		t.homeWins++
	case hg < ag:
		t.awayWins++
	default:
		t.draws++
	}
	t.goalsHome += hg
	t.goalsAway += ag
	s := scoreline{hg, ag}
	if _, seen := t.first[s]; !seen {
		t.first[s] = trial
	}
	t.counts[s]++
}

func (t *tally) merge(o *tally) {
	t.homeWins += o.homeWins
	t.draws += o.draws
	t.awayWins += o.awayWins
	t.goalsHome += o.goalsHome
	t.goalsAway += o.goalsAway
	for s, n := range o.counts {
		t.counts[s] += n
		if idx, seen := t.first[s]; !seen || o.first[s] < idx {
			t.first[s] = o.first[s]
		}
	}
}

// mode returns the most frequent scoreline; ties go to the one seen first.
func (t *tally) mode() (scoreline, int) {
	var best scoreline
	bestN, bestFirst := -1, 0
	for s, n := range t.counts {
		f := t.first[s]
		if n > bestN || (n == bestN && f < bestFirst) {
			best, bestN, bestFirst = s, n, f
		}
	}
	return best, bestN
}

// Simulate plays trials independent matches with goals drawn from
// Poisson(lambdaHome) and Poisson(lambdaAway) and reduces them to outcome
// probabilities, average goals and the modal scoreline. With a fixed seed
// the result is identical for any worker count.
func Simulate(homeTeam, awayTeam string, lambdaHome, lambdaAway float64, opts SimOptions) SimulationResult {
	n := opts.Trials
	if n <= 0 {
		n = DefaultTrials
	}
	seed := rand.Uint64()
	if opts.Seed != nil {
		seed = *opts.Seed
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	chunks := (n + chunkSize - 1) / chunkSize
	tallies := make([]*tally, chunks)

	var g errgroup.Group
	g.SetLimit(workers)
	for c := 0; c < chunks; c++ {
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(seed, uint64(c)))
			t := newTally()
			lo, hi := c*chunkSize, min((c+1)*chunkSize, n)
			for i := lo; i < hi; i++ {
				t.add(i, SamplePoisson(rng, lambdaHome), SamplePoisson(rng, lambdaAway))
			}
			tallies[c] = t
			return nil
		})
	}
	_ = g.Wait()

	total := newTally()
	for _, t := range tallies {
		total.merge(t)
	}
	best, bestN := total.mode()

	fn := float64(n)
	return SimulationResult{
		HomeTeam:            homeTeam,
		AwayTeam:            awayTeam,
		HomeWinProb:         float64(total.homeWins) / fn,
		DrawProb:            float64(total.draws) / fn,
		AwayWinProb:         float64(total.awayWins) / fn,
		AvgGoalsHome:        float64(total.goalsHome) / fn,
		AvgGoalsAway:        float64(total.goalsAway) / fn,
		LambdaHome:          lambdaHome,
		LambdaAway:          lambdaAway,
		MostLikelyScore:     fmt.Sprintf("%d-%d", best.home, best.away),
		MostLikelyScoreProb: float64(bestN) / fn,
		Trials:              n,
	}
}
