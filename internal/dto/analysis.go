package dto

import (
	"github.com/teftimov/IOHanalyzer/pkg/jsonx"
)

// AnalysisRequest is the sealed set of analysis request bodies.
type AnalysisRequest interface {
	isAnalysisRequest()
}

// ECDFRequest pools every run of the table into one empirical distribution
// of runtime-to-target (by_FV) or value-at-budget (by_RT) samples.
type ECDFRequest struct {
	Runs        RunsTable `json:"runs"`
	Targets     *Targets  `json:"targets,omitempty"`
	Orientation string    `json:"orientation,omitempty"`
}

func (ECDFRequest) isAnalysisRequest() {}

// AUCRequest integrates the pooled distribution over [From, To].
type AUCRequest struct {
	ECDFRequest
	From float64 `json:"from"`
	To   float64 `json:"to"`
}

// PairwiseRequest compares algorithms through one-sided rank tests. Runs
// pools the sample vectors from a run table; Samples ships pre-pooled
// vectors directly. Exactly one of the two must be set.
type PairwiseRequest struct {
	Runs          *RunsTable     `json:"runs,omitempty"`
	Samples       []SampleVector `json:"samples,omitempty"`
	Targets       *Targets       `json:"targets,omitempty"`
	Orientation   string         `json:"orientation,omitempty"`
	BootstrapSize *int           `json:"bootstrap_size,omitempty"`
	// Maximize orients fixed-budget comparisons of pre-pooled samples; with
	// a runs table the table's own flag wins.
	Maximize bool   `json:"maximize,omitempty"`
	Seed     uint64 `json:"seed,omitempty"`
}

func (PairwiseRequest) isAnalysisRequest() {}

// SampleVector is one algorithm's pre-pooled sample; nulls mark censored
// entries. MaxEvals aligns per-run budgets for bootstrapping.
type SampleVector struct {
	Algorithm string        `json:"algorithm"`
	Values    []jsonx.Float `json:"values"`
	MaxEvals  []float64     `json:"max_evals,omitempty"`
}

// Sample returns the vector with nulls resolved to NaN.
func (v SampleVector) Sample() []float64 {
	out := make([]float64, len(v.Values))
	for i, f := range v.Values {
		out[i] = float64(f)
	}
	return out
}

// RankingRequest plays a round-robin rating tournament over the run table.
type RankingRequest struct {
	Runs        RunsTable `json:"runs"`
	Rounds      int       `json:"rounds"`
	Seed        uint64    `json:"seed,omitempty"`
	Targets     *Targets  `json:"targets,omitempty"`
	Orientation string    `json:"orientation,omitempty"`
}

func (RankingRequest) isAnalysisRequest() {}

// NullResult is the body returned when an analysis has no data to describe.
type NullResult struct {
	Null bool `json:"null"`
}

// ECDFResponse is the aggregated step function. Max is null whenever any
// sample was censored.
type ECDFResponse struct {
	Orientation string      `json:"orientation"`
	X           []float64   `json:"x"`
	Y           []float64   `json:"y"`
	Min         jsonx.Float `json:"min"`
	Max         jsonx.Float `json:"max"`
	Count       int         `json:"count"`
	Censored    int         `json:"censored"`
}

type AUCResponse struct {
	AUC float64 `json:"auc"`
}

// PairwiseResponse is the Holm-corrected p-value matrix, row better than
// column, nulls on the diagonal.
type PairwiseResponse struct {
	Algorithms    []string        `json:"algorithms"`
	BootstrapSize int             `json:"bootstrap_size"`
	P             [][]jsonx.Float `json:"p"`
}

// Standing is one ranked algorithm; responses list them best rating first.
type Standing struct {
	Algorithm  string  `json:"algorithm"`
	Rating     float64 `json:"rating"`
	Deviation  float64 `json:"deviation"`
	Volatility float64 `json:"volatility"`
}

// SequenceRequest generates one target sequence from observed values.
// Runtime switches to budget-axis generation: integer spacing, log scale
// over evaluation counts.
type SequenceRequest struct {
	Values  []float64 `json:"values"`
	From    *float64  `json:"from,omitempty"`
	To      *float64  `json:"to,omitempty"`
	Step    float64   `json:"step,omitempty"`
	Count   int       `json:"count,omitempty"`
	Scale   string    `json:"scale,omitempty"`
	Runtime bool      `json:"runtime,omitempty"`
}

type SequenceResponse struct {
	Targets []float64 `json:"targets"`
}

// DeriveTargetsRequest computes the default per-cell target table of a run
// table.
type DeriveTargetsRequest struct {
	Runs        RunsTable `json:"runs"`
	Orientation string    `json:"orientation,omitempty"`
}

// MergeTargetsRequest applies a CSV payload to a caller-owned table: a
// matching column count updates rows by key, a different one replaces the
// table.
type MergeTargetsRequest struct {
	Table TargetTable `json:"table"`
	CSV   string      `json:"csv"`
}
