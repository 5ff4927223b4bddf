package dataset

import "github.com/teftimov/IOHanalyzer/internal/apperr"

// Orientation selects the random variable a comparison runs on: runtime to a
// fixed function-value target, or function value at a fixed evaluation budget.
type Orientation int

const (
	ByFunctionValue Orientation = iota
	ByRuntimeBudget
)

const (
	orientFV = "by_FV"
	orientRT = "by_RT"
)

func (o Orientation) String() string {
	if o == ByRuntimeBudget {
		return orientRT
	}
	return orientFV
}

// ParseOrientation converts the wire form ("by_FV", "by_RT") into an
// Orientation. Unknown strings are a validation error, never a fallback.
func ParseOrientation(s string) (Orientation, error) {
	switch s {
	case orientFV:
		return ByFunctionValue, nil
	case orientRT:
		return ByRuntimeBudget, nil
	default:
		return ByFunctionValue, apperr.NewValidationf("unsupported orientation %q, want %q or %q", s, orientFV, orientRT)
	}
}
