package router

import (
	"math/rand/v2"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teftimov/IOHanalyzer/internal/apperr"
	"github.com/teftimov/IOHanalyzer/internal/dataset"
	"github.com/teftimov/IOHanalyzer/internal/dto"
	"github.com/teftimov/IOHanalyzer/internal/experiment"
	"github.com/teftimov/IOHanalyzer/internal/rating"
	"github.com/teftimov/IOHanalyzer/internal/stats"
	"github.com/teftimov/IOHanalyzer/pkg/jsonx"
)

// AnalysisRouter serves the stateless analysis routes. The caller ships the
// run table with every request; nothing is read from storage, so the routes
// work against any archive or none at all.
type AnalysisRouter struct {
	e *echo.Echo
}

func NewAnalysisRouter(e *echo.Echo) *AnalysisRouter {
	return &AnalysisRouter{e: e}
}

func (r *AnalysisRouter) Bind() {
	g := r.e.Group("/api/v1")
	g.POST("/analysis/ecdf", r.ecdfHandler)
	g.POST("/analysis/auc", r.aucHandler)
	g.POST("/analysis/pairwise", r.pairwiseHandler)
	g.POST("/analysis/ranking", r.rankingHandler)
	g.POST("/targets/sequence", r.sequenceHandler)
	g.POST("/targets/table", r.deriveTargetsHandler)
	g.PUT("/targets/table", r.mergeTargetsHandler)
}

// bind decodes an analysis request body, turning decode failures into
// validation errors so the global handler answers 400.
func bind[T dto.AnalysisRequest](c echo.Context) (T, error) {
	var req T
	if err := c.Bind(&req); err != nil {
		return req, apperr.NewValidationWrap("malformed request body", err)
	}
	return req, nil
}

// orientation applies the fixed-target default before parsing.
func orientation(s string) (dataset.Orientation, error) {
	if s == "" {
		return dataset.ByFunctionValue, nil
	}
	return dataset.ParseOrientation(s)
}

func (r *AnalysisRouter) ecdfHandler(c echo.Context) error {
	req, err := bind[dto.ECDFRequest](c)
	if err != nil {
		return err
	}
	e, or, err := pooledECDF(req)
	if err != nil {
		return err
	}
	if e == nil {
		return c.JSON(http.StatusOK, dto.NullResult{Null: true})
	}

	x, y := e.Points()
	return c.JSON(http.StatusOK, dto.ECDFResponse{
		Orientation: or.String(),
		X:           x,
		Y:           y,
		Min:         jsonx.Float(e.Min),
		Max:         jsonx.Float(e.Max),
		Count:       e.N,
		Censored:    e.Censored,
	})
}

func (r *AnalysisRouter) aucHandler(c echo.Context) error {
	req, err := bind[dto.AUCRequest](c)
	if err != nil {
		return err
	}
	e, _, err := pooledECDF(req.ECDFRequest)
	if err != nil {
		return err
	}
	if e == nil {
		return c.JSON(http.StatusOK, dto.NullResult{Null: true})
	}

	v, err := stats.AUC(e, req.From, req.To)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.AUCResponse{AUC: v})
}

// pooledECDF aggregates the request's runs into one distribution. A nil
// distribution means the request carried no runs.
func pooledECDF(req dto.ECDFRequest) (*stats.ECDF, dataset.Orientation, error) {
	or, err := orientation(req.Orientation)
	if err != nil {
		return nil, or, err
	}
	if len(req.Runs.Rows) == 0 {
		return nil, or, nil
	}
	col, err := req.Runs.Collection()
	if err != nil {
		return nil, or, err
	}
	spec, err := req.Targets.Spec(col, or)
	if err != nil {
		return nil, or, err
	}
	e, err := stats.AggregateECDF(col, spec, or)
	return e, or, err
}

func (r *AnalysisRouter) pairwiseHandler(c echo.Context) error {
	req, err := bind[dto.PairwiseRequest](c)
	if err != nil {
		return err
	}
	or, err := orientation(req.Orientation)
	if err != nil {
		return err
	}

	var (
		algs     []string
		samples  [][]float64
		budgets  [][]float64
		maximize bool
	)
	switch {
	case req.Runs != nil && len(req.Samples) > 0:
		return apperr.NewValidation("pairwise: runs and samples are mutually exclusive")
	case req.Runs != nil:
		col, err := req.Runs.Collection()
		if err != nil {
			return err
		}
		spec, err := req.Targets.Spec(col, or)
		if err != nil {
			return err
		}
		algs, samples, budgets, err = experiment.PairwiseSamples(col, spec, or)
		if err != nil {
			return err
		}
		maximize = col.Maximize()
	case len(req.Samples) > 0:
		for _, sv := range req.Samples {
			algs = append(algs, sv.Algorithm)
			samples = append(samples, sv.Sample())
			budgets = append(budgets, sv.MaxEvals)
		}
		maximize = req.Maximize
	default:
		return apperr.NewValidation("pairwise: needs a runs table or sample vectors")
	}

	size := stats.DefaultBootstrapSize
	if req.BootstrapSize != nil {
		size = *req.BootstrapSize
	}

	p, err := stats.PairwiseTest(c.Request().Context(), samples, budgets, stats.PairwiseOpts{
		BootstrapSize: size,
		Orientation:   or,
		Maximize:      maximize,
		Rng:           rand.New(rand.NewPCG(seedOrDefault(req.Seed), 0)),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.PairwiseResponse{
		Algorithms:    algs,
		BootstrapSize: size,
		P:             jsonx.Matrix(p),
	})
}

func (r *AnalysisRouter) rankingHandler(c echo.Context) error {
	req, err := bind[dto.RankingRequest](c)
	if err != nil {
		return err
	}
	or, err := orientation(req.Orientation)
	if err != nil {
		return err
	}
	col, err := req.Runs.Collection()
	if err != nil {
		return err
	}
	spec, err := req.Targets.Spec(col, or)
	if err != nil {
		return err
	}

	players, _, err := rating.RunTournament(c.Request().Context(), col, rating.TournamentOpts{
		Rounds:      req.Rounds,
		Targets:     spec,
		Orientation: or,
		Rng:         rand.New(rand.NewPCG(seedOrDefault(req.Seed), 0)),
	})
	if err != nil {
		return err
	}

	out := make([]dto.Standing, 0, len(players))
	for _, p := range players {
		out = append(out, dto.Standing{
			Algorithm:  p.Algorithm,
			Rating:     p.Rating.Value,
			Deviation:  p.Rating.Deviation,
			Volatility: p.Rating.Volatility,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// seedOrDefault keeps unseeded requests reproducible.
func seedOrDefault(seed uint64) uint64 {
	if seed == 0 {
		return 1
	}
	return seed
}
