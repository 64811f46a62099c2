package calculation

import (
	"context"
	"fmt"
	"time"

	"github.com/rpgo/actuarial-calculator/internal/domain"
)

// DefaultSweepConcurrency bounds the goroutines one sensitivity sweep may use
const DefaultSweepConcurrency = 8

// CalculationEngine runs calculations on behalf of the CLI, the HTTP API and batch files.
// The numerical routines are pure functions; the engine adds logging and batching.
type CalculationEngine struct {
	SweepConcurrency int
	Logger           Logger
}

// NewCalculationEngine creates a new calculation engine
func NewCalculationEngine() *CalculationEngine {
	return &CalculationEngine{
		SweepConcurrency: DefaultSweepConcurrency,
		Logger:           NopLogger{},
	}
}

// SetLogger sets the logger for the calculation engine. If nil is provided, a no-op logger is used.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

// TVM solves the time-value-of-money equation for req.Solve
func (ce *CalculationEngine) TVM(req domain.TVMRequest) (domain.TVMResult, error) {
	res, err := SolveTVM(req)
	if err != nil {
		return res, err
	}
	if res.Rate != nil && !res.Rate.Converged {
		ce.Logger.Warnf("rate solve stopped after %d iterations without converging; returning last estimate %.6f",
			res.Rate.Iterations, res.Rate.AnnualRate)
	}
	ce.Logger.Debugf("tvm %s solved: %g", req.Solve, res.Value)
	return res, nil
}

// Annuity values a payment stream
func (ce *CalculationEngine) Annuity(req domain.AnnuityRequest) (domain.AnnuityValuation, error) {
	return ValueAnnuity(req)
}

// Bond prices a bond and, when marketPrice is positive, also solves its implied yield
func (ce *CalculationEngine) Bond(spec domain.BondSpec, marketPrice float64) (domain.BondValuation, *domain.YieldSolution, error) {
	val, err := PriceBond(spec)
	if err != nil {
		return val, nil, err
	}
	if marketPrice <= 0 {
		return val, nil, nil
	}
	ys, err := SolveBondYield(spec, marketPrice)
	if err != nil {
		return val, nil, err
	}
	ce.Logger.Debugf("bond yield solved by %s in %d iterations", ys.Method, ys.Iterations)
	return val, &ys, nil
}

// Loan builds the fixed schedule, or the extra-payment comparison when an extra payment is set
func (ce *CalculationEngine) Loan(req domain.LoanRequest) (domain.AmortizationSchedule, *domain.PayoffComparison, error) {
	if req.ExtraPayment == 0 {
		s, err := FixedSchedule(req)
		return s, nil, err
	}
	cmp, err := CompareExtraPayment(req)
	if err != nil {
		return domain.AmortizationSchedule{}, nil, err
	}
	if cmp.Accelerated.Truncated {
		ce.Logger.Warnf("extra-payment schedule stopped at %d periods with balance outstanding", MaxExtraPaymentPeriods)
	}
	return cmp.Accelerated, &cmp, nil
}

// Retirement projects savings to retirement
func (ce *CalculationEngine) Retirement(req domain.RetirementRequest) (domain.RetirementProjection, error) {
	return ProjectRetirement(req)
}

// Sensitivity runs a sweep for the requested target
func (ce *CalculationEngine) Sensitivity(ctx context.Context, req domain.SensitivityRequest) (domain.SensitivitySeries, error) {
	base, eval, err := EvaluatorFor(req)
	if err != nil {
		return domain.SensitivitySeries{}, err
	}
	series, err := SweepParallel(ctx, base, ShocksFor(req), eval, ce.SweepConcurrency)
	if err != nil {
		return series, err
	}
	series.Target = req.Target
	if n := series.Failures(); n > 0 {
		ce.Logger.Warnf("sensitivity sweep %s: %d of %d points failed", req.Target, n, len(series.Points))
	}
	return series, nil
}

// Run evaluates a single batch entry
func (ce *CalculationEngine) Run(ctx context.Context, calc domain.Calculation) (domain.CalculationResult, error) {
	result := domain.CalculationResult{Name: calc.Name, Type: calc.Type}
	missing := fmt.Errorf("calculation %q of type %s has no %s block", calc.Name, calc.Type, calc.Type)

	switch calc.Type {
	case domain.CalcTVM:
		if calc.TVM == nil {
			return result, missing
		}
		res, err := ce.TVM(*calc.TVM)
		if err != nil {
			return result, err
		}
		result.TVM = &res
	case domain.CalcAnnuity:
		if calc.Annuity == nil {
			return result, missing
		}
		res, err := ce.Annuity(*calc.Annuity)
		if err != nil {
			return result, err
		}
		result.Annuity = &res
	case domain.CalcBond:
		if calc.Bond == nil {
			return result, missing
		}
		val, ys, err := ce.Bond(*calc.Bond, calc.MarketPrice)
		if err != nil {
			return result, err
		}
		result.Bond = &val
		result.BondYield = ys
	case domain.CalcLoan:
		if calc.Loan == nil {
			return result, missing
		}
		s, cmp, err := ce.Loan(*calc.Loan)
		if err != nil {
			return result, err
		}
		result.Loan = &s
		result.Payoff = cmp
	case domain.CalcRetirement:
		if calc.Retirement == nil {
			return result, missing
		}
		p, err := ce.Retirement(*calc.Retirement)
		if err != nil {
			return result, err
		}
		result.Retirement = &p
	case domain.CalcSensitivity:
		if calc.Sensitivity == nil {
			return result, missing
		}
		s, err := ce.Sensitivity(ctx, *calc.Sensitivity)
		if err != nil {
			return result, err
		}
		result.Sensitivity = &s
	default:
		return result, fmt.Errorf("unknown calculation type %q", calc.Type)
	}
	return result, nil
}

// RunBatch evaluates every calculation in order. A failing entry records its
// error and the batch continues; only context cancellation aborts the run.
func (ce *CalculationEngine) RunBatch(ctx context.Context, config *domain.Configuration) (*domain.BatchResult, error) {
	batch := &domain.BatchResult{
		Name:        config.Name,
		GeneratedAt: time.Now(),
		Results:     make([]domain.CalculationResult, 0, len(config.Calculations)),
	}
	for _, calc := range config.Calculations {
		if err := ctx.Err(); err != nil {
			return batch, fmt.Errorf("batch %q cancelled: %w", config.Name, err)
		}
		ce.Logger.Debugf("running %s calculation %q", calc.Type, calc.Name)
		res, err := ce.Run(ctx, calc)
		if err != nil {
			ce.Logger.Warnf("calculation %q failed: %v", calc.Name, err)
			res.Error = err.Error()
		}
		batch.Results = append(batch.Results, res)
	}
	ce.Logger.Infof("batch %q finished: %d calculations, %d failed", config.Name, len(batch.Results), batch.Failures())
	return batch, nil
}
