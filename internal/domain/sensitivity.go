package domain

import "fmt"

// SensitivityTarget names the calculation and parameter a sweep perturbs
type SensitivityTarget string

const (
	SweepFutureValueByRate     SensitivityTarget = "tvm_fv_rate"
	SweepPresentValueByRate    SensitivityTarget = "tvm_pv_rate"
	SweepAnnuityPVByRate       SensitivityTarget = "annuity_pv_rate"
	SweepBondPriceByYield      SensitivityTarget = "bond_price_yield"
	SweepMonthlyPaymentByRate  SensitivityTarget = "loan_payment_rate"
	SweepRetirementFundsByRate SensitivityTarget = "retirement_funds_return"
)

// SensitivityTargets lists the supported sweep targets in display order
func SensitivityTargets() []SensitivityTarget {
	return []SensitivityTarget{
		SweepFutureValueByRate,
		SweepPresentValueByRate,
		SweepAnnuityPVByRate,
		SweepBondPriceByYield,
		SweepMonthlyPaymentByRate,
		SweepRetirementFundsByRate,
	}
}

// ParseSensitivityTarget validates a sweep target name
func ParseSensitivityTarget(s string) (SensitivityTarget, error) {
	for _, t := range SensitivityTargets() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown sensitivity target %q", s)
}

// ShockGrid is a symmetric or asymmetric linear grid of additive shocks
type ShockGrid struct {
	Min    float64 `yaml:"min" json:"min"`
	Max    float64 `yaml:"max" json:"max"`
	Points int     `yaml:"points" json:"points"`
}

// DefaultShockGrid is 21 points from -3% to +3%
func DefaultShockGrid() ShockGrid {
	return ShockGrid{Min: -0.03, Max: 0.03, Points: 21}
}

// SensitivityRequest selects a target and carries the fixed inputs it closes over.
// Only the input matching Target is read.
type SensitivityRequest struct {
	Target     SensitivityTarget  `yaml:"target" json:"target"`
	Grid       ShockGrid          `yaml:"grid" json:"grid"`
	Shocks     []float64          `yaml:"shocks,omitempty" json:"shocks,omitempty"`
	TVM        *TVMRequest        `yaml:"tvm,omitempty" json:"tvm,omitempty"`
	Annuity    *AnnuityRequest    `yaml:"annuity,omitempty" json:"annuity,omitempty"`
	Bond       *BondSpec          `yaml:"bond,omitempty" json:"bond,omitempty"`
	Loan       *LoanRequest       `yaml:"loan,omitempty" json:"loan,omitempty"`
	Retirement *RetirementRequest `yaml:"retirement,omitempty" json:"retirement,omitempty"`
}

// SensitivityPoint is one evaluated shock. Err is set when the evaluation failed
// at that point; the rest of the sweep is unaffected.
type SensitivityPoint struct {
	Shock     float64 `json:"shock"`
	Parameter float64 `json:"parameter"`
	Value     float64 `json:"value"`
	Err       error   `json:"-"`
	Error     string  `json:"error,omitempty"`
}

// OK reports whether the point evaluated successfully
func (p SensitivityPoint) OK() bool {
	return p.Err == nil
}

// SensitivitySeries is the ordered output of a sweep
type SensitivitySeries struct {
	Target SensitivityTarget  `json:"target,omitempty"`
	Base   float64            `json:"base"`
	Points []SensitivityPoint `json:"points"`
}

// Failures counts the points whose evaluation failed
func (s SensitivitySeries) Failures() int {
	n := 0
	for _, p := range s.Points {
		if !p.OK() {
			n++
		}
	}
	return n
}
