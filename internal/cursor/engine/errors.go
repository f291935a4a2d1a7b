package engine

import (
	"fmt"
	"math"
)

// PreconditionViolation reports a configuration or sample value the engine
// refuses to process. It is returned at config construction time and for
// non-finite or out-of-order samples; the running hash is never advanced
// past a violation.
type PreconditionViolation struct {
	Field  string
	Value  float64
	Reason string
}

func (e *PreconditionViolation) Error() string {
	return fmt.Sprintf("precondition violated: %s=%v: %s", e.Field, e.Value, e.Reason)
}

func checkFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &PreconditionViolation{Field: field, Value: v, Reason: "must be finite"}
	}
	return nil
}

func checkUnit(field string, v float64) error {
	if err := checkFinite(field, v); err != nil {
		return err
	}
	if v < 0 || v > 1 {
		return &PreconditionViolation{Field: field, Value: v, Reason: "must be between 0 and 1"}
	}
	return nil
}

func checkNonNegative(field string, v float64) error {
	if err := checkFinite(field, v); err != nil {
		return err
	}
	if v < 0 {
		return &PreconditionViolation{Field: field, Value: v, Reason: "must be non-negative"}
	}
	return nil
}
