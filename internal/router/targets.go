package router

import (
	"math"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/teftimov/IOHanalyzer/internal/apperr"
	"github.com/teftimov/IOHanalyzer/internal/dto"
	"github.com/teftimov/IOHanalyzer/internal/stats"
	"github.com/teftimov/IOHanalyzer/internal/target"
)

func (r *AnalysisRouter) sequenceHandler(c echo.Context) error {
	var req dto.SequenceRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("malformed request body", err)
	}

	scale, err := stats.ParseScale(req.Scale)
	if err != nil {
		return err
	}
	from, to := math.Inf(-1), math.Inf(1)
	if req.From != nil {
		from = *req.From
	}
	if req.To != nil {
		to = *req.To
	}
	opts := stats.SeqOpts{Step: req.Step, Count: req.Count, Scale: scale}

	var seq []float64
	if req.Runtime {
		seq, err = stats.RuntimeSequence(req.Values, from, to, opts)
	} else {
		seq, err = stats.Sequence(req.Values, from, to, opts)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.SequenceResponse{Targets: seq})
}

func (r *AnalysisRouter) deriveTargetsHandler(c echo.Context) error {
	var req dto.DeriveTargetsRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("malformed request body", err)
	}
	or, err := orientation(req.Orientation)
	if err != nil {
		return err
	}
	col, err := req.Runs.Collection()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.FromTargetTable(target.Derive(col, or)))
}

func (r *AnalysisRouter) mergeTargetsHandler(c echo.Context) error {
	var req dto.MergeTargetsRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("malformed request body", err)
	}
	tbl, err := req.Table.Table()
	if err != nil {
		return err
	}
	if err := tbl.MergeCSV(strings.NewReader(req.CSV)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.FromTargetTable(tbl))
}
