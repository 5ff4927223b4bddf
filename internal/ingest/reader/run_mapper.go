package reader

import (
	"strconv"

	"github.com/teftimov/IOHanalyzer/internal/apperr"
	"github.com/teftimov/IOHanalyzer/internal/dataset"
	"github.com/teftimov/IOHanalyzer/pkg/apis/runmapping"
)

// RunMapper maps raw rows to run records through a column mapping.
type RunMapper struct {
	cfg *runmapping.RunMapping
}

func NewRunMapper(cfg *runmapping.RunMapping) *RunMapper {
	return &RunMapper{
		cfg: cfg,
	}
}

func (m *RunMapper) Map(record map[string]string) (dataset.RunRecord, error) {
	if err := m.cfg.Validate(); err != nil {
		return dataset.RunRecord{}, err
	}

	cols := m.cfg.Columns
	var rec dataset.RunRecord
	var err error

	if rec.Algorithm, err = field(record, cols.Algorithm); err != nil {
		return dataset.RunRecord{}, err
	}
	if rec.Function, err = field(record, cols.Function); err != nil {
		return dataset.RunRecord{}, err
	}
	if rec.Dimension, err = intField(record, cols.Dimension); err != nil {
		return dataset.RunRecord{}, err
	}
	if rec.Run, err = intField(record, cols.Run); err != nil {
		return dataset.RunRecord{}, err
	}
	if rec.Eval, err = int64Field(record, cols.Eval); err != nil {
		return dataset.RunRecord{}, err
	}
	if rec.Value, err = floatField(record, cols.Value); err != nil {
		return dataset.RunRecord{}, err
	}

	return rec, nil
}

func field(record map[string]string, column string) (string, error) {
	v, ok := record[column]
	if !ok {
		return "", apperr.NewValidationf("run table has no %q column", column)
	}
	return v, nil
}

func intField(record map[string]string, column string) (int, error) {
	raw, err := field(record, column)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.NewValidationf("column %q holds %q, want an integer", column, raw)
	}
	return n, nil
}

func int64Field(record map[string]string, column string) (int64, error) {
	raw, err := field(record, column)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.NewValidationf("column %q holds %q, want an integer", column, raw)
	}
	return n, nil
}

// floatField accepts the usual numeric spellings plus NaN and Inf, which
// IOHprofiler-style exports use for runs that never reached a value.
func floatField(record map[string]string, column string) (float64, error) {
	raw, err := field(record, column)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperr.NewValidationf("column %q holds %q, want a number", column, raw)
	}
	return v, nil
}
