package league

import "math"

// Model turns team aggregates, standings and head-to-head history into the
// two Poisson rates of a fixture. Each adjustment is applied as
// lambda *= 1 + adjustment, in the order points, venue, form, head-to-head.
type Model struct {
	PointsWeight float64 `yaml:"points_weight"`
	VenueWeight  float64 `yaml:"venue_weight"`
	FormWeight   float64 `yaml:"form_weight"`
	H2HScale     float64 `yaml:"h2h_scale"`
	H2HClamp     float64 `yaml:"h2h_clamp"`
	MinLambda    float64 `yaml:"min_lambda"`
}

// DefaultModel returns the stock weights.
func DefaultModel() Model {
	return Model{
		PointsWeight: 0.2,
		VenueWeight:  0.2,
		FormWeight:   0.2,
		H2HScale:     1,
		H2HClamp:     0.2,
		MinLambda:    0.01,
	}
}

// FixtureInputs is everything the model reads for one fixture. Nil rows and
// records mean "no data" and produce neutral adjustments.
type FixtureInputs struct {
	HomeTeam  string
	AwayTeam  string
	HomeRates TeamRates
	AwayRates TeamRates
	HomeTotal *StandingsRow
	AwayTotal *StandingsRow
	HomeVenue *StandingsRow // home team's HOME split
	AwayVenue *StandingsRow // away team's AWAY split
	H2H       *Head2HeadRecord
}

// Rates returns the expected goals of the home and away side.
func (md Model) Rates(in FixtureInputs) (lambdaHome, lambdaAway float64) {
	// 1) baseline: own attack blended with opponent defence
	lambdaHome = (in.HomeRates.AvgScoredHome + in.AwayRates.AvgConcededAway) / 2
	lambdaAway = (in.AwayRates.AvgScoredAway + in.HomeRates.AvgConcededHome) / 2

	// 2) league points, normalized by the better of the two
	homePts, awayPts := points(in.HomeTotal), points(in.AwayTotal)
	maxPts := math.Max(math.Max(homePts, awayPts), 1)
	ph, pa := homePts/maxPts, awayPts/maxPts
	lambdaHome *= 1 + (ph-pa)*md.PointsWeight
	lambdaAway *= 1 + (pa-ph)*md.PointsWeight

	// 3) venue points-per-game, centred on 0.5
	lambdaHome *= 1 + (VenueRatio(in.HomeVenue)-0.5)*md.VenueWeight
	lambdaAway *= 1 + (VenueRatio(in.AwayVenue)-0.5)*md.VenueWeight

	// 4) recent form
	fh, fa := FormScore(form(in.HomeTotal)), FormScore(form(in.AwayTotal))
	lambdaHome *= 1 + (fh-fa)*md.FormWeight
	lambdaAway *= 1 + (fa-fh)*md.FormWeight

	// 5) head-to-head, from the home side's perspective
	bias := md.HeadToHeadBias(in.H2H, in.HomeTeam, in.AwayTeam)
	lambdaHome *= 1 + bias
	lambdaAway *= 1 - bias

	return math.Max(lambdaHome, md.MinLambda), math.Max(lambdaAway, md.MinLambda)
}

func points(r *StandingsRow) float64 {
	if r == nil {
		return 0
	}
	return float64(r.Points)
}

func form(r *StandingsRow) string {
	if r == nil {
		return ""
	}
	return r.Form
}

// VenueRatio is points per available point. No games gives 0.5.
func VenueRatio(r *StandingsRow) float64 {
	if r == nil || r.Played <= 0 {
		return 0.5
	}
	return float64(r.Points) / float64(3*r.Played)
}

// FormScore maps the last LastN characters of a form string (W=3, D=1,
// L=0) onto [0, 1]. An empty form is 0.5.
func FormScore(form string) float64 {
	if form == "" {
		return 0.5
	}
	if len(form) > LastN {
		form = form[len(form)-LastN:]
	}
	sum := 0
	for _, c := range form {
		switch c {
		case 'W':
			sum += 3
		case 'D':
			sum++
		}
	}
	return float64(sum) / float64(3*LastN)
}

// HeadToHeadBias is (home wins - away wins) / meetings, scaled and clamped.
func (md Model) HeadToHeadBias(rec *Head2HeadRecord, homeTeam, awayTeam string) float64 {
	if rec == nil || rec.MatchesPlayed <= 0 {
		return 0
	}
	bias := float64(rec.WinsFor(homeTeam)-rec.WinsFor(awayTeam)) / float64(rec.MatchesPlayed)
	bias *= md.H2HScale
	return math.Max(math.Min(bias, md.H2HClamp), -md.H2HClamp)
}
