package calculation

import (
	"context"
	"fmt"

	"github.com/rpgo/actuarial-calculator/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Evaluator computes a single result from one perturbed parameter value.
// All other inputs are fixed by the closure.
type Evaluator func(param float64) (float64, error)

// LinearGrid returns points evenly spaced shocks from lo to hi inclusive
func LinearGrid(lo, hi float64, points int) []float64 {
	switch {
	case points <= 0:
		return nil
	case points == 1:
		return []float64{lo}
	}
	step := (hi - lo) / float64(points-1)
	grid := make([]float64, points)
	for k := range grid {
		grid[k] = lo + float64(k)*step
	}
	grid[points-1] = hi
	return grid
}

func evaluatePoint(base, shock float64, eval Evaluator) domain.SensitivityPoint {
	param := base + shock
	p := domain.SensitivityPoint{Shock: shock, Parameter: param}
	v, err := eval(param)
	if err == nil {
		err = checkFinite("sensitivity.point", v)
	}
	if err != nil {
		p.Err = err
		p.Error = err.Error()
		return p
	}
	p.Value = v
	return p
}

// Sweep evaluates eval at base+shock for every shock in order. A failing point
// records its error and the sweep continues.
func Sweep(base float64, shocks []float64, eval Evaluator) domain.SensitivitySeries {
	points := make([]domain.SensitivityPoint, len(shocks))
	for k, s := range shocks {
		points[k] = evaluatePoint(base, s, eval)
	}
	return domain.SensitivitySeries{Base: base, Points: points}
}

// SweepParallel is Sweep with up to limit points evaluated concurrently.
// The output order matches shocks. Only context cancellation is returned as an error.
func SweepParallel(ctx context.Context, base float64, shocks []float64, eval Evaluator, limit int) (domain.SensitivitySeries, error) {
	points := make([]domain.SensitivityPoint, len(shocks))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for k, s := range shocks {
		k, s := k, s
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			points[k] = evaluatePoint(base, s, eval)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.SensitivitySeries{}, fmt.Errorf("sensitivity sweep cancelled: %w", err)
	}
	return domain.SensitivitySeries{Base: base, Points: points}, nil
}

// FutureValueByRate shocks the nominal annual rate of a TVM future value
func FutureValueByRate(req domain.TVMRequest) (float64, Evaluator) {
	return req.AnnualRate, func(rate float64) (float64, error) {
		r := req
		r.AnnualRate = rate
		return SolveFutureValue(r)
	}
}

// PresentValueByRate shocks the nominal annual rate of a TVM present value
func PresentValueByRate(req domain.TVMRequest) (float64, Evaluator) {
	return req.AnnualRate, func(rate float64) (float64, error) {
		r := req
		r.AnnualRate = rate
		return SolvePresentValue(r)
	}
}

// AnnuityPVByRate shocks the per-period discount rate of an annuity
func AnnuityPVByRate(req domain.AnnuityRequest) (float64, Evaluator) {
	return req.Rate, func(rate float64) (float64, error) {
		r := req
		r.Rate = rate
		return AnnuityPresentValue(r)
	}
}

// BondPriceByYield shocks the yield to maturity
func BondPriceByYield(spec domain.BondSpec) (float64, Evaluator) {
	return spec.YieldToMaturity, func(ytm float64) (float64, error) {
		s := spec
		s.YieldToMaturity = ytm
		v, err := PriceBond(s)
		return v.Price.InexactFloat64(), err
	}
}

// MonthlyPaymentByRate shocks the annual loan rate
func MonthlyPaymentByRate(req domain.LoanRequest) (float64, Evaluator) {
	return req.AnnualRate, func(rate float64) (float64, error) {
		r := req
		r.AnnualRate = rate
		return MonthlyPayment(r)
	}
}

// RetirementFundsByReturn shocks the annual return and reports total projected funds
func RetirementFundsByReturn(req domain.RetirementRequest) (float64, Evaluator) {
	return req.AnnualReturn, func(ret float64) (float64, error) {
		r := req
		r.AnnualReturn = ret
		p, err := ProjectRetirement(r)
		return p.TotalFunds.InexactFloat64(), err
	}
}

// EvaluatorFor picks the base value and evaluator matching the request target
func EvaluatorFor(req domain.SensitivityRequest) (float64, Evaluator, error) {
	missing := func() (float64, Evaluator, error) {
		return 0, nil, fmt.Errorf("sensitivity target %q requires its input block", req.Target)
	}
	switch req.Target {
	case domain.SweepFutureValueByRate:
		if req.TVM == nil {
			return missing()
		}
		base, eval := FutureValueByRate(*req.TVM)
		return base, eval, nil
	case domain.SweepPresentValueByRate:
		if req.TVM == nil {
			return missing()
		}
		base, eval := PresentValueByRate(*req.TVM)
		return base, eval, nil
	case domain.SweepAnnuityPVByRate:
		if req.Annuity == nil {
			return missing()
		}
		base, eval := AnnuityPVByRate(*req.Annuity)
		return base, eval, nil
	case domain.SweepBondPriceByYield:
		if req.Bond == nil {
			return missing()
		}
		base, eval := BondPriceByYield(*req.Bond)
		return base, eval, nil
	case domain.SweepMonthlyPaymentByRate:
		if req.Loan == nil {
			return missing()
		}
		base, eval := MonthlyPaymentByRate(*req.Loan)
		return base, eval, nil
	case domain.SweepRetirementFundsByRate:
		if req.Retirement == nil {
			return missing()
		}
		base, eval := RetirementFundsByReturn(*req.Retirement)
		return base, eval, nil
	}
	return 0, nil, fmt.Errorf("unknown sensitivity target %q", req.Target)
}

// ShocksFor returns the explicit shocks when given, otherwise the grid, otherwise the default grid
func ShocksFor(req domain.SensitivityRequest) []float64 {
	if len(req.Shocks) > 0 {
		return req.Shocks
	}
	grid := req.Grid
	if grid.Points <= 0 {
		grid = domain.DefaultShockGrid()
	}
	return LinearGrid(grid.Min, grid.Max, grid.Points)
}
