package calculation

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrDomain marks inputs outside the domain of a formula, such as a zero rate in a denominator
	ErrDomain = errors.New("domain error")
	// ErrNonConvergent marks an iterative solver that exhausted its iteration cap
	ErrNonConvergent = errors.New("solver did not converge")
)

// DomainError reports a calculation that cannot be evaluated for the given inputs
type DomainError struct {
	Op     string
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Op, ErrDomain, e.Reason)
}

func (e *DomainError) Unwrap() error { return ErrDomain }

func domainErr(op, format string, args ...any) error {
	return &DomainError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// checkFinite rejects NaN and infinite results. Money results are converted to
// decimal, which cannot represent either.
func checkFinite(op string, values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return domainErr(op, "result is not a finite number (%g)", v)
		}
	}
	return nil
}

// NonConvergentError carries the best estimate reached before the solver gave up
type NonConvergentError struct {
	Op         string
	Iterations int
	Estimate   float64
}

func (e *NonConvergentError) Error() string {
	return fmt.Sprintf("%s: %s after %d iterations (last estimate %g)", e.Op, ErrNonConvergent, e.Iterations, e.Estimate)
}

func (e *NonConvergentError) Unwrap() error { return ErrNonConvergent }
