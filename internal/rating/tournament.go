package rating

import (
	"context"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/teftimov/IOHanalyzer/internal/apperr"
	"github.com/teftimov/IOHanalyzer/internal/dataset"
	"github.com/teftimov/IOHanalyzer/internal/target"
)

// TournamentOpts configures the round-robin ranking.
type TournamentOpts struct {
	// Rounds is the number of rating periods played.
	Rounds int
	// Targets picks the comparison point per cell; derived from the data
	// when nil.
	Targets     target.Spec
	Orientation dataset.Orientation
	// Tau is the Glicko-2 system constant; DefaultTau when zero.
	Tau float64
	// Rng drives the per-game run draws; required, the caller owns the seed.
	Rng *rand.Rand
}

// Game is one decided comparison. Score is 1 when P1 won, 0 when P2 won and
// 0.5 for a tie.
type Game struct {
	Round  int
	Cell   dataset.Cell
	Target float64
	P1, P2 string
	Score  float64
}

// PlayerRating couples an algorithm with its final rating state and its
// win/tie/loss tally.
type PlayerRating struct {
	Algorithm string
	Rating    Rating
	Wins      int
	Ties      int
	Losses    int
}

// RunTournament ranks the collection's algorithms by a round-robin Glicko-2
// tournament. Each round is one rating period: on every cell, every pair of
// algorithms present plays one game per target, each side entering a single
// randomly drawn run. Fixed-target games compare runtime to the target
// (faster wins), fixed-budget games compare the value held at the budget
// (orientation decides the winning side); a censored side loses, two
// censored sides tie. Ratings update once per round from the pre-round
// states, and idle algorithms only inflate their deviation.
//
// Results come back sorted by rating, best first, alongside the full game
// log. The same collection, options and seed replay the same ranking.
func RunTournament(ctx context.Context, c dataset.Collection, o TournamentOpts) ([]PlayerRating, []Game, error) {
	players := c.Algorithms()
	if len(players) < 2 {
		return nil, nil, apperr.NewValidationf("ranking requires at least 2 algorithms, got %d", len(players))
	}
	if o.Rounds < 1 {
		return nil, nil, apperr.NewValidationf("ranking requires at least 1 round, got %d", o.Rounds)
	}
	if o.Rng == nil {
		return nil, nil, apperr.NewValidation("ranking requires a random source")
	}

	spec := o.Targets
	if spec == nil {
		spec = target.Derive(c, o.Orientation)
	}
	targets, err := target.Resolve(spec, c)
	if err != nil {
		return nil, nil, err
	}

	ratings := make(map[string]Rating, len(players))
	tally := make(map[string]*PlayerRating, len(players))
	for _, p := range players {
		ratings[p] = NewRating()
		tally[p] = &PlayerRating{Algorithm: p}
	}

	cells := c.Cells()
	var games []Game

	for round := 1; round <= o.Rounds; round++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		// all games of a round score against the pre-round states
		snapshot := make(map[string]Rating, len(ratings))
		for p, r := range ratings {
			snapshot[p] = r
		}
		period := make(map[string][]Outcome, len(players))

		o.Rng.Shuffle(len(cells), func(i, j int) { cells[i], cells[j] = cells[j], cells[i] })
		for _, cell := range cells {
			members := c.Cell(cell)
			for i := 0; i < len(members); i++ {
				for j := i + 1; j < len(members); j++ {
					d1, d2 := members[i], members[j]
					for _, t := range targets[cell] {
						s := gameScore(
							drawValue(d1, t, o.Orientation, o.Rng),
							drawValue(d2, t, o.Orientation, o.Rng),
							winsHigh(o.Orientation, d1.Maximize),
						)
						games = append(games, Game{
							Round: round, Cell: cell, Target: t,
							P1: d1.Algorithm, P2: d2.Algorithm, Score: s,
						})
						period[d1.Algorithm] = append(period[d1.Algorithm], Outcome{Opponent: snapshot[d2.Algorithm], Score: s})
						period[d2.Algorithm] = append(period[d2.Algorithm], Outcome{Opponent: snapshot[d1.Algorithm], Score: 1 - s})
						recordScore(tally[d1.Algorithm], s)
						recordScore(tally[d2.Algorithm], 1-s)
					}
				}
			}
		}

		for _, p := range players {
			ratings[p] = Update(snapshot[p], period[p], o.Tau)
		}
	}

	out := make([]PlayerRating, 0, len(players))
	for _, p := range players {
		pr := *tally[p]
		pr.Rating = ratings[p]
		out = append(out, pr)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rating.Value != out[j].Rating.Value {
			return out[i].Rating.Value > out[j].Rating.Value
		}
		return out[i].Algorithm < out[j].Algorithm
	})
	return out, games, nil
}

// drawValue enters one randomly drawn run into a game.
func drawValue(d *dataset.Dataset, t float64, o dataset.Orientation, rng *rand.Rand) float64 {
	r := d.Runs[rng.IntN(len(d.Runs))]
	if o == dataset.ByFunctionValue {
		return r.RuntimeTo(t, d.Maximize)
	}
	return r.ValueAt(t)
}

// winsHigh reports whether the larger game value wins: runtimes always favor
// the smaller value, budget comparisons follow the cell's orientation.
func winsHigh(o dataset.Orientation, maximize bool) bool {
	return o == dataset.ByRuntimeBudget && maximize
}

// gameScore decides a game from P1's perspective. NaN marks a censored side.
func gameScore(v1, v2 float64, higherWins bool) float64 {
	c1, c2 := math.IsNaN(v1), math.IsNaN(v2)
	switch {
	case c1 && c2:
		return 0.5
	case c1:
		return 0
	case c2:
		return 1
	case v1 == v2:
		return 0.5
	case higherWins == (v1 > v2):
		return 1
	default:
		return 0
	}
}

func recordScore(pr *PlayerRating, s float64) {
	switch s {
	case 1:
		pr.Wins++
	case 0:
		pr.Losses++
	default:
		pr.Ties++
	}
}
