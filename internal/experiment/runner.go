package experiment

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/teftimov/IOHanalyzer/internal/apperr"
	"github.com/teftimov/IOHanalyzer/internal/dataset"
	"github.com/teftimov/IOHanalyzer/internal/rating"
	"github.com/teftimov/IOHanalyzer/internal/stats"
	"github.com/teftimov/IOHanalyzer/internal/target"
	"github.com/teftimov/IOHanalyzer/pkg/jsonx"
)

// Result is the output of one experiment run. Analysis fields stay nil when
// the spec did not request them.
type Result struct {
	Name      string          `json:"name"`
	Generated time.Time       `json:"generated"`
	ECDF      *ECDFResult     `json:"ecdf,omitempty"`
	AUC       *AUCResult      `json:"auc,omitempty"`
	Pairwise  *PairwiseResult `json:"pairwise,omitempty"`
	Ranking   *RankingResult  `json:"ranking,omitempty"`
}

// ECDFResult holds one aggregated distribution per algorithm.
type ECDFResult struct {
	Orientation string      `json:"orientation"`
	Curves      []ECDFCurve `json:"curves"`
}

// ECDFCurve is the step function of one algorithm, pooled over the selected
// cells and targets.
type ECDFCurve struct {
	Algorithm string      `json:"algorithm"`
	X         []float64   `json:"x"`
	Y         []float64   `json:"y"`
	N         int         `json:"n"`
	Censored  int         `json:"censored"`
	Min       jsonx.Float `json:"min"`
	Max       jsonx.Float `json:"max"`
}

// AUCResult normalizes each algorithm's curve over a shared interval.
type AUCResult struct {
	From    float64    `json:"from"`
	To      float64    `json:"to"`
	Entries []AUCEntry `json:"entries"`
}

type AUCEntry struct {
	Algorithm string  `json:"algorithm"`
	AUC       float64 `json:"auc"`
}

// PairwiseResult is the Holm-corrected p-value matrix; P[i][j] tests
// "Algorithms[i] better than Algorithms[j]" and nulls mark the diagonal.
type PairwiseResult struct {
	Algorithms    []string        `json:"algorithms"`
	BootstrapSize int             `json:"bootstrap_size"`
	P             [][]jsonx.Float `json:"p"`
}

// RankingResult is the tournament outcome, best rating first.
type RankingResult struct {
	Rounds    int        `json:"rounds"`
	Games     int        `json:"games"`
	Standings []Standing `json:"standings"`
}

type Standing struct {
	Algorithm  string  `json:"algorithm"`
	Rating     float64 `json:"rating"`
	Deviation  float64 `json:"deviation"`
	Volatility float64 `json:"volatility"`
	Wins       int     `json:"wins"`
	Ties       int     `json:"ties"`
	Losses     int     `json:"losses"`
}

// Run executes the spec's analyses against a collection. All randomness
// (bootstrap resampling, tournament draws) flows from a single source seeded
// by the spec, so a given spec and collection always reproduce the same
// numbers.
func Run(ctx context.Context, s *Spec, c dataset.Collection) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	filtered := c.Filter(s.Filters.Algorithms, s.Filters.Functions, s.Filters.Dimensions)
	if len(filtered) == 0 {
		return nil, apperr.NewValidation("experiment filters match no datasets")
	}
	if err := filtered.Validate(); err != nil {
		return nil, err
	}

	seed := s.Seed
	if seed == 0 {
		seed = 1
	}
	rng := rand.New(rand.NewPCG(seed, 0))

	res := &Result{Name: s.Name, Generated: time.Now().UTC()}

	if e := s.Analyses.ECDF; e != nil {
		or := mustOrientation(e.Orientation)
		spec, err := s.targetSpec(e.Targets, filtered, or)
		if err != nil {
			return nil, fmt.Errorf("ecdf targets: %w", err)
		}
		dists, err := ECDFByAlgorithm(filtered, spec, or)
		if err != nil {
			return nil, fmt.Errorf("ecdf: %w", err)
		}

		ecdfRes := &ECDFResult{Orientation: or.String()}
		for _, alg := range filtered.Algorithms() {
			d := dists[alg]
			xs, ps := d.Points()
			ecdfRes.Curves = append(ecdfRes.Curves, ECDFCurve{
				Algorithm: alg,
				X:         xs,
				Y:         ps,
				N:         d.N,
				Censored:  d.Censored,
				Min:       jsonx.Float(d.Min),
				Max:       jsonx.Float(d.Max),
			})
		}
		res.ECDF = ecdfRes

		if a := s.Analyses.AUC; a != nil {
			aucRes := &AUCResult{From: a.From, To: a.To}
			for _, alg := range filtered.Algorithms() {
				v, err := stats.AUC(dists[alg], a.From, a.To)
				if err != nil {
					return nil, fmt.Errorf("auc %s: %w", alg, err)
				}
				aucRes.Entries = append(aucRes.Entries, AUCEntry{Algorithm: alg, AUC: v})
			}
			res.AUC = aucRes
		}
	}

	if pw := s.Analyses.Pairwise; pw != nil {
		or := mustOrientation(pw.Orientation)
		spec, err := s.targetSpec(pw.Targets, filtered, or)
		if err != nil {
			return nil, fmt.Errorf("pairwise targets: %w", err)
		}
		algs, samples, budgets, err := PairwiseSamples(filtered, spec, or)
		if err != nil {
			return nil, fmt.Errorf("pairwise: %w", err)
		}
		p, err := stats.PairwiseTest(ctx, samples, budgets, stats.PairwiseOpts{
			BootstrapSize: pw.BootstrapSize,
			Orientation:   or,
			Maximize:      filtered.Maximize(),
			Rng:           rng,
		})
		if err != nil {
			return nil, fmt.Errorf("pairwise: %w", err)
		}
		res.Pairwise = &PairwiseResult{
			Algorithms:    algs,
			BootstrapSize: pw.BootstrapSize,
			P:             jsonx.Matrix(p),
		}
	}

	if rk := s.Analyses.Ranking; rk != nil {
		or := mustOrientation(rk.Orientation)
		spec, err := s.targetSpec(rk.Targets, filtered, or)
		if err != nil {
			return nil, fmt.Errorf("ranking targets: %w", err)
		}
		players, games, err := rating.RunTournament(ctx, filtered, rating.TournamentOpts{
			Rounds:      rk.Rounds,
			Targets:     spec,
			Orientation: or,
			Rng:         rng,
		})
		if err != nil {
			return nil, fmt.Errorf("ranking: %w", err)
		}
		rankRes := &RankingResult{Rounds: rk.Rounds, Games: len(games)}
		for _, p := range players {
			rankRes.Standings = append(rankRes.Standings, Standing{
				Algorithm:  p.Algorithm,
				Rating:     p.Rating.Value,
				Deviation:  p.Rating.Deviation,
				Volatility: p.Rating.Volatility,
				Wins:       p.Wins,
				Ties:       p.Ties,
				Losses:     p.Losses,
			})
		}
		res.Ranking = rankRes
	}

	return res, nil
}

// targetSpec materializes a TargetsSpec: scalar, CSV table, generated
// sequences, or the derived defaults when nothing is set.
func (s *Spec) targetSpec(t TargetsSpec, c dataset.Collection, or dataset.Orientation) (target.Spec, error) {
	switch {
	case t.Scalar != nil:
		return target.Scalar(*t.Scalar), nil
	case t.CSV != "":
		path := t.CSV
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.baseDir, path)
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open target table: %w", err)
		}
		defer f.Close()
		return target.ReadCSV(f)
	case t.Sequence != nil:
		return SequenceTargets(c, or, *t.Sequence)
	default:
		return target.Derive(c, or), nil
	}
}

// SequenceTargets generates one target sequence per cell from the observed
// values on that cell.
func SequenceTargets(c dataset.Collection, or dataset.Orientation, sq SequenceSpec) (target.Spec, error) {
	scale, err := stats.ParseScale(sq.Scale)
	if err != nil {
		return nil, err
	}
	from, to := sq.From, sq.To
	if from == 0 && to == 0 {
		from, to = math.Inf(-1), math.Inf(1)
	}
	opts := stats.SeqOpts{Step: sq.Step, Count: sq.Count, Scale: scale}

	out := make(target.PerCell, len(c.Cells()))
	for _, cell := range c.Cells() {
		var vals []float64
		for _, d := range c.Cell(cell) {
			for _, r := range d.Runs {
				if or == dataset.ByFunctionValue {
					vals = append(vals, r.Values...)
					continue
				}
				for _, e := range r.Evals {
					vals = append(vals, float64(e))
				}
			}
		}

		var seq []float64
		if or == dataset.ByFunctionValue {
			seq, err = stats.Sequence(vals, from, to, opts)
		} else {
			seq, err = stats.RuntimeSequence(vals, from, to, opts)
		}
		if err != nil {
			return nil, fmt.Errorf("cell %s: %w", cell.Key(), err)
		}
		out[cell.Key()] = seq
	}
	return out, nil
}

// ECDFByAlgorithm aggregates one distribution per algorithm present in the
// collection.
func ECDFByAlgorithm(c dataset.Collection, spec target.Spec, or dataset.Orientation) (map[string]*stats.ECDF, error) {
	out := make(map[string]*stats.ECDF)
	for _, alg := range c.Algorithms() {
		e, err := stats.AggregateECDF(c.Select(alg, "", 0), spec, or)
		if err != nil {
			return nil, fmt.Errorf("algorithm %s: %w", alg, err)
		}
		out[alg] = e
	}
	return out, nil
}

// PairwiseSamples pools each algorithm's sample vector (and the aligned
// budget vector for bootstrapping) across the selected cells and targets.
func PairwiseSamples(c dataset.Collection, spec target.Spec, or dataset.Orientation) (algs []string, samples, budgets [][]float64, err error) {
	targets, err := target.Resolve(spec, c)
	if err != nil {
		return nil, nil, nil, err
	}

	algs = c.Algorithms()
	samples = make([][]float64, len(algs))
	budgets = make([][]float64, len(algs))
	for i, alg := range algs {
		for _, d := range c.Select(alg, "", 0) {
			for _, t := range targets[d.Cell()] {
				if or == dataset.ByFunctionValue {
					samples[i] = append(samples[i], d.RuntimeSample(t)...)
				} else {
					samples[i] = append(samples[i], d.ValueSample(t)...)
				}
				budgets[i] = append(budgets[i], d.MaxBudgets()...)
			}
		}
	}
	return algs, samples, budgets, nil
}

// mustOrientation parses an orientation the spec already validated.
func mustOrientation(s string) dataset.Orientation {
	or, err := dataset.ParseOrientation(orDefault(s))
	if err != nil {
		panic(err)
	}
	return or
}
