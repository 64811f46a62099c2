package calculation

import (
	"math"
)

// newtonResult is the outcome of a Newton-Raphson run
type newtonResult struct {
	x          float64
	iterations int
	converged  bool
}

// newton runs Newton-Raphson on f starting at x0. ffp returns (f(x), f'(x)).
// It stops when successive iterates differ by less than tol, or after maxIter
// steps, in which case the last iterate is returned with converged=false.
// A zero or non-finite derivative is a domain error.
func newton(op string, x0, tol float64, maxIter int, ffp func(float64) (float64, float64, error)) (newtonResult, error) {
	x := x0
	for k := 1; k <= maxIter; k++ {
		fx, dfx, err := ffp(x)
		if err != nil {
			return newtonResult{x: x, iterations: k}, err
		}
		if dfx == 0 || math.IsNaN(dfx) || math.IsInf(dfx, 0) {
			return newtonResult{x: x, iterations: k}, domainErr(op, "zero or non-finite derivative at %g", x)
		}
		next := x - fx/dfx
		if math.IsNaN(next) || math.IsInf(next, 0) {
			return newtonResult{x: x, iterations: k}, domainErr(op, "iterate left the real line at step %d", k)
		}
		if math.Abs(next-x) < tol {
			return newtonResult{x: next, iterations: k, converged: true}, nil
		}
		x = next
	}
	return newtonResult{x: x, iterations: maxIter}, nil
}

// bisect halves [lo, hi] until it is narrower than tol and returns the midpoint.
// f is assumed increasing on the bracket: a positive residual at the midpoint
// moves the upper bound down. The caller owns that monotonicity assumption.
func bisect(lo, hi, tol float64, f func(float64) (float64, error)) (float64, int, error) {
	iterations := 0
	for hi-lo > tol {
		mid := (lo + hi) / 2
		fm, err := f(mid)
		if err != nil {
			return mid, iterations, err
		}
		iterations++
		if fm > 0 {
			hi = mid
		} else {
			lo = mid
		}
	}
	return (lo + hi) / 2, iterations, nil
}
