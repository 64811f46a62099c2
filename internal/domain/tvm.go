package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PaymentTiming says whether level payments fall at the end or the beginning of each period
type PaymentTiming string

const (
	TimingEnd   PaymentTiming = "end"
	TimingBegin PaymentTiming = "begin"
)

// PaymentStream is a level periodic payment attached to a TVM problem
type PaymentStream struct {
	Amount float64       `yaml:"amount" json:"amount"`
	Timing PaymentTiming `yaml:"timing" json:"timing"`
}

// IsDue reports whether payments are made at the beginning of each period
func (p PaymentStream) IsDue() bool {
	return p.Timing == TimingBegin
}

// TVMUnknown identifies which quantity a TVM request solves for
type TVMUnknown string

const (
	SolveForFV      TVMUnknown = "fv"
	SolveForPV      TVMUnknown = "pv"
	SolveForRate    TVMUnknown = "rate"
	SolveForPeriods TVMUnknown = "periods"
)

// ParseTVMUnknown accepts the short and long names of a TVM unknown
func ParseTVMUnknown(s string) (TVMUnknown, error) {
	switch s {
	case "fv", "future_value":
		return SolveForFV, nil
	case "pv", "present_value":
		return SolveForPV, nil
	case "rate", "r":
		return SolveForRate, nil
	case "periods", "n", "time":
		return SolveForPeriods, nil
	}
	return "", fmt.Errorf("unknown TVM quantity %q (want fv, pv, rate or periods)", s)
}

// TVMRequest carries the known quantities of a time-value-of-money problem.
// AnnualRate is a nominal annual fraction compounded PeriodsPerYear times a year.
type TVMRequest struct {
	Solve          TVMUnknown     `yaml:"solve" json:"solve"`
	PresentValue   float64        `yaml:"present_value" json:"present_value"`
	FutureValue    float64        `yaml:"future_value" json:"future_value"`
	AnnualRate     float64        `yaml:"annual_rate" json:"annual_rate"`
	Years          float64        `yaml:"years" json:"years"`
	PeriodsPerYear int            `yaml:"periods_per_year" json:"periods_per_year"`
	Payment        *PaymentStream `yaml:"payment,omitempty" json:"payment,omitempty"`
}

// PeriodRate returns the per-period rate r/m
func (r TVMRequest) PeriodRate() float64 {
	return r.AnnualRate / float64(r.PeriodsPerYear)
}

// TotalPeriods returns n·m
func (r TVMRequest) TotalPeriods() float64 {
	return r.Years * float64(r.PeriodsPerYear)
}

// HasPayment reports whether a payment stream takes part in the problem
func (r TVMRequest) HasPayment() bool {
	return r.Payment != nil && r.Payment.Amount != 0
}

// RateSolution is the outcome of the rate solve. Converged is false when the
// iteration cap was reached; AnnualRate then holds the last estimate.
type RateSolution struct {
	AnnualRate float64 `json:"annual_rate"`
	PeriodRate float64 `json:"period_rate"`
	Iterations int     `json:"iterations"`
	Converged  bool    `json:"converged"`
}

// PeriodSolution is the outcome of the period solve, as both periods and years
type PeriodSolution struct {
	Periods float64 `json:"periods"`
	Years   float64 `json:"years"`
}

// TVMResult holds the solved quantity of a TVM request. Value is an amount,
// an annual rate or a number of years depending on Solved; Amount is set only
// when an amount was solved.
type TVMResult struct {
	Solved  TVMUnknown       `json:"solved"`
	Value   float64          `json:"value"`
	Amount  *decimal.Decimal `json:"amount,omitempty"`
	Rate    *RateSolution    `json:"rate,omitempty"`
	Periods *PeriodSolution  `json:"periods,omitempty"`
}

// GrowthMode selects the shape of a TVM growth series
type GrowthMode string

const (
	GrowthFV GrowthMode = "fv"
	GrowthPV GrowthMode = "pv"
)

// SeriesPoint is the value of a lump sum at time X, in years
type SeriesPoint struct {
	X     float64         `json:"x"`
	Value decimal.Decimal `json:"value"`
}
