package rating

import "math"

// glickoScale converts between the public Elo-like scale and the internal
// Glicko-2 scale (Glickman 2013).
const glickoScale = 173.7178

// DefaultTau bounds how fast volatility can move between rating periods.
// Benchmark comparisons produce frequent upsets, so the conservative value
// from Glickman's paper fits well.
const DefaultTau = 0.5

const convergenceTol = 1e-6

// Seed state for an unrated player.
const (
	InitialRating     = 1500.0
	InitialDeviation  = 350.0
	InitialVolatility = 0.06
)

// Rating is one player's Glicko-2 state on the public scale.
type Rating struct {
	Value      float64
	Deviation  float64
	Volatility float64
}

// NewRating seeds an unrated player.
func NewRating() Rating {
	return Rating{Value: InitialRating, Deviation: InitialDeviation, Volatility: InitialVolatility}
}

// Outcome is one game of a rating period, seen from the rated player's side.
// Opponent carries the opponent's state at the START of the period.
type Outcome struct {
	Opponent Rating
	// Score is 1 for a win, 0.5 for a tie, 0 for a loss.
	Score float64
}

// Update closes one rating period and returns the player's next state. A
// player with no games keeps rating and volatility while the deviation
// inflates, reflecting growing uncertainty about an idle player.
func Update(r Rating, games []Outcome, tau float64) Rating {
	if tau <= 0 {
		tau = DefaultTau
	}
	mu := (r.Value - InitialRating) / glickoScale
	phi := r.Deviation / glickoScale

	if len(games) == 0 {
		return Rating{
			Value:      r.Value,
			Deviation:  math.Sqrt(phi*phi+r.Volatility*r.Volatility) * glickoScale,
			Volatility: r.Volatility,
		}
	}

	// estimated variance of the period and the rating improvement it suggests
	vInv, improve := 0.0, 0.0
	for _, gm := range games {
		muJ := (gm.Opponent.Value - InitialRating) / glickoScale
		phiJ := gm.Opponent.Deviation / glickoScale
		gJ := g(phiJ)
		eJ := expectedScore(mu, muJ, phiJ)
		vInv += gJ * gJ * eJ * (1 - eJ)
		improve += gJ * (gm.Score - eJ)
	}
	v := 1 / vInv
	delta := v * improve

	sigma := nextVolatility(phi, v, delta, r.Volatility, tau)

	phiStar := math.Sqrt(phi*phi + sigma*sigma)
	phiNext := 1 / math.Sqrt(1/(phiStar*phiStar)+1/v)
	muNext := mu + phiNext*phiNext*improve

	return Rating{
		Value:      muNext*glickoScale + InitialRating,
		Deviation:  phiNext * glickoScale,
		Volatility: sigma,
	}
}

func g(phi float64) float64 {
	return 1 / math.Sqrt(1+3*phi*phi/(math.Pi*math.Pi))
}

func expectedScore(mu, muJ, phiJ float64) float64 {
	return 1 / (1 + math.Exp(-g(phiJ)*(mu-muJ)))
}

// nextVolatility solves Glickman's volatility equation with the Illinois
// variant of regula falsi.
func nextVolatility(phi, v, delta, sigma, tau float64) float64 {
	a := math.Log(sigma * sigma)
	f := func(x float64) float64 {
		ex := math.Exp(x)
		num := ex * (delta*delta - phi*phi - v - ex)
		den := 2 * (phi*phi + v + ex) * (phi*phi + v + ex)
		return num/den - (x-a)/(tau*tau)
	}

	lo := a
	var hi float64
	if delta*delta > phi*phi+v {
		hi = math.Log(delta*delta - phi*phi - v)
	} else {
		k := 1.0
		for f(a-k*tau) < 0 {
			k++
		}
		hi = a - k*tau
	}

	fLo, fHi := f(lo), f(hi)
	for math.Abs(hi-lo) > convergenceTol {
		mid := lo + (lo-hi)*fLo/(fHi-fLo)
		fMid := f(mid)
		if fMid*fHi <= 0 {
			lo, fLo = hi, fHi
		} else {
			fLo /= 2
		}
		hi, fHi = mid, fMid
	}
	return math.Exp(lo / 2)
}
