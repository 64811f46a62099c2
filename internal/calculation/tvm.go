package calculation

import (
	"fmt"
	"math"

	"github.com/rpgo/actuarial-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	// Newton-Raphson settings for the rate solve with a payment stream
	rateSeedAnnual   = 0.05
	rateMaxIter      = 20
	rateTolerance    = 1e-8
	periodBracketLow = 1.0
	periodBracketHi  = 1000.0
	periodTolerance  = 0.01
)

// annuityFactor is the future-value factor ((1+i)^n - 1)/i of a level payment stream.
// A zero per-period rate is not special-cased.
func annuityFactor(op string, i, n float64) (float64, error) {
	if i == 0 {
		return 0, domainErr(op, "per-period rate is zero with a payment stream present")
	}
	return (math.Pow(1+i, n) - 1) / i, nil
}

// paymentStreamFV is the value after n periods of the payment stream, moved one
// extra period forward when payments fall at the beginning of each period.
func paymentStreamFV(op string, p *domain.PaymentStream, i, n float64) (float64, error) {
	factor, err := annuityFactor(op, i, n)
	if err != nil {
		return 0, err
	}
	v := p.Amount * factor
	if p.IsDue() {
		v *= 1 + i
	}
	return v, nil
}

func checkFrequency(op string, req domain.TVMRequest) error {
	if req.PeriodsPerYear <= 0 {
		return domainErr(op, "compounding frequency must be positive, got %d", req.PeriodsPerYear)
	}
	return nil
}

// SolveFutureValue computes FV = PV(1+r/m)^(nm) plus the future value of any payment stream
func SolveFutureValue(req domain.TVMRequest) (float64, error) {
	const op = "tvm.fv"
	if err := checkFrequency(op, req); err != nil {
		return 0, err
	}
	i, n := req.PeriodRate(), req.TotalPeriods()
	fv := req.PresentValue * math.Pow(1+i, n)
	if req.HasPayment() {
		pay, err := paymentStreamFV(op, req.Payment, i, n)
		if err != nil {
			return 0, err
		}
		fv += pay
	}
	return fv, nil
}

// SolvePresentValue discounts the future value, net of the payment stream's
// accumulated value, back nm periods
func SolvePresentValue(req domain.TVMRequest) (float64, error) {
	const op = "tvm.pv"
	if err := checkFrequency(op, req); err != nil {
		return 0, err
	}
	i, n := req.PeriodRate(), req.TotalPeriods()
	growth := math.Pow(1+i, n)
	if growth == 0 || math.IsInf(growth, 0) || math.IsNaN(growth) {
		return 0, domainErr(op, "growth factor for rate %g over %g periods is not usable", i, n)
	}
	lump := req.FutureValue
	if req.HasPayment() {
		pay, err := paymentStreamFV(op, req.Payment, i, n)
		if err != nil {
			return 0, err
		}
		lump -= pay
	}
	return lump / growth, nil
}

// tvmResidual returns f(x) = PV(1+x)^N + PMT·factor(x)·(1+x)^[due] - FV and f'(x)
func tvmResidual(op string, req domain.TVMRequest, x, periods float64) (float64, float64, error) {
	if x == 0 {
		return 0, 0, domainErr(op, "per-period rate reached zero")
	}
	g := math.Pow(1+x, periods)
	dg := periods * math.Pow(1+x, periods-1)
	f := req.PresentValue*g - req.FutureValue
	df := req.PresentValue * dg
	if req.HasPayment() {
		amt := req.Payment.Amount
		a := (g - 1) / x
		da := (dg*x - (g - 1)) / (x * x)
		if req.Payment.IsDue() {
			f += amt * a * (1 + x)
			df += amt * (da*(1+x) + a)
		} else {
			f += amt * a
			df += amt * da
		}
	}
	return f, df, nil
}

// SolveRate finds the nominal annual rate linking PV, FV and the payment stream.
// Without payments the closed form m((FV/PV)^(1/nm) - 1) is used. With payments
// Newton-Raphson runs from 5%/m for at most 20 steps; when the cap is reached
// the last iterate is returned with Converged=false rather than an error.
func SolveRate(req domain.TVMRequest) (domain.RateSolution, error) {
	const op = "tvm.rate"
	if err := checkFrequency(op, req); err != nil {
		return domain.RateSolution{}, err
	}
	m := float64(req.PeriodsPerYear)
	periods := req.TotalPeriods()
	if periods == 0 {
		return domain.RateSolution{}, domainErr(op, "zero periods")
	}

	if !req.HasPayment() {
		if req.PresentValue == 0 {
			return domain.RateSolution{}, domainErr(op, "present value is zero")
		}
		ratio := req.FutureValue / req.PresentValue
		if ratio <= 0 {
			return domain.RateSolution{}, domainErr(op, "FV/PV ratio %g has no real rate", ratio)
		}
		x := math.Pow(ratio, 1/periods) - 1
		return domain.RateSolution{AnnualRate: m * x, PeriodRate: x, Converged: true}, nil
	}

	res, err := newton(op, rateSeedAnnual/m, rateTolerance, rateMaxIter, func(x float64) (float64, float64, error) {
		return tvmResidual(op, req, x, periods)
	})
	if err != nil {
		return domain.RateSolution{}, err
	}
	return domain.RateSolution{
		AnnualRate: m * res.x,
		PeriodRate: res.x,
		Iterations: res.iterations,
		Converged:  res.converged,
	}, nil
}

// SolvePeriods finds how long PV (plus payments) takes to reach FV.
// Without payments: n = ln(FV/PV) / (m·ln(1+r/m)) years. With payments the
// period count is bisected over [1, 1000] to within 0.01 periods; the residual
// is assumed increasing there, which holds for positive rates and payments.
func SolvePeriods(req domain.TVMRequest) (domain.PeriodSolution, error) {
	const op = "tvm.periods"
	if err := checkFrequency(op, req); err != nil {
		return domain.PeriodSolution{}, err
	}
	m := float64(req.PeriodsPerYear)
	i := req.PeriodRate()

	if !req.HasPayment() {
		if req.PresentValue == 0 {
			return domain.PeriodSolution{}, domainErr(op, "present value is zero")
		}
		ratio := req.FutureValue / req.PresentValue
		if ratio <= 0 {
			return domain.PeriodSolution{}, domainErr(op, "FV/PV ratio %g has no real solution", ratio)
		}
		denom := m * math.Log(1+i)
		if denom == 0 || math.IsNaN(denom) {
			return domain.PeriodSolution{}, domainErr(op, "per-period rate %g gives no growth", i)
		}
		years := math.Log(ratio) / denom
		return domain.PeriodSolution{Periods: years * m, Years: years}, nil
	}

	if i == 0 {
		return domain.PeriodSolution{}, domainErr(op, "per-period rate is zero with a payment stream present")
	}
	periods, _, err := bisect(periodBracketLow, periodBracketHi, periodTolerance, func(n float64) (float64, error) {
		f, _, err := tvmResidual(op, req, i, n)
		return f, err
	})
	if err != nil {
		return domain.PeriodSolution{}, err
	}
	return domain.PeriodSolution{Periods: periods, Years: periods / m}, nil
}

// SolveTVM dispatches on the requested unknown. Solved amounts are also
// reported as decimals in Amount.
func SolveTVM(req domain.TVMRequest) (domain.TVMResult, error) {
	const op = "tvm.solve"
	var res domain.TVMResult
	switch req.Solve {
	case domain.SolveForFV, domain.SolveForPV:
		solve := SolveFutureValue
		if req.Solve == domain.SolveForPV {
			solve = SolvePresentValue
		}
		v, err := solve(req)
		if err != nil {
			return domain.TVMResult{}, err
		}
		if err := checkFinite(op, v); err != nil {
			return domain.TVMResult{}, err
		}
		amount := decimal.NewFromFloat(v)
		res = domain.TVMResult{Solved: req.Solve, Value: v, Amount: &amount}
	case domain.SolveForRate:
		sol, err := SolveRate(req)
		if err != nil {
			return domain.TVMResult{}, err
		}
		res = domain.TVMResult{Solved: req.Solve, Value: sol.AnnualRate, Rate: &sol}
	case domain.SolveForPeriods:
		sol, err := SolvePeriods(req)
		if err != nil {
			return domain.TVMResult{}, err
		}
		res = domain.TVMResult{Solved: req.Solve, Value: sol.Years, Periods: &sol}
	default:
		return domain.TVMResult{}, fmt.Errorf("unsupported TVM unknown %q", req.Solve)
	}
	if err := checkFinite(op, res.Value); err != nil {
		return domain.TVMResult{}, err
	}
	return res, nil
}

// TVMGrowthSeries samples the lump-sum value at each whole year before the
// horizon and at the horizon itself, so a 2.5-year term yields 0, 1, 2 and 2.5.
// GrowthFV compounds the present value forward; GrowthPV discounts the future
// value back, so the first point holds FV and the last holds PV.
func TVMGrowthSeries(req domain.TVMRequest, mode domain.GrowthMode) ([]domain.SeriesPoint, error) {
	const op = "tvm.series"
	if err := checkFrequency(op, req); err != nil {
		return nil, err
	}
	if req.Years < 0 {
		return nil, domainErr(op, "horizon must not be negative, got %g years", req.Years)
	}
	i, m := req.PeriodRate(), float64(req.PeriodsPerYear)
	xs := make([]float64, 0, int(math.Ceil(req.Years))+1)
	for year := 0.0; year < req.Years; year++ {
		xs = append(xs, year)
	}
	xs = append(xs, req.Years)

	points := make([]domain.SeriesPoint, 0, len(xs))
	for _, x := range xs {
		g := math.Pow(1+i, x*m)
		var v float64
		switch mode {
		case domain.GrowthPV:
			v = req.FutureValue / g
		default:
			v = req.PresentValue * g
		}
		if err := checkFinite(op, v); err != nil {
			return nil, err
		}
		points = append(points, domain.SeriesPoint{X: x, Value: decimal.NewFromFloat(v)})
	}
	return points, nil
}
