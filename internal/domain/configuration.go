package domain

import (
	"fmt"
	"time"
)

// CalculationType identifies which engine component a batch entry runs
type CalculationType string

const (
	CalcTVM         CalculationType = "tvm"
	CalcAnnuity     CalculationType = "annuity"
	CalcBond        CalculationType = "bond"
	CalcLoan        CalculationType = "loan"
	CalcRetirement  CalculationType = "retirement"
	CalcSensitivity CalculationType = "sensitivity"
)

// ParseCalculationType validates a calculation type name
func ParseCalculationType(s string) (CalculationType, error) {
	switch t := CalculationType(s); t {
	case CalcTVM, CalcAnnuity, CalcBond, CalcLoan, CalcRetirement, CalcSensitivity:
		return t, nil
	}
	return "", fmt.Errorf("unknown calculation type %q", s)
}

// Configuration is a batch input file: a named list of calculations
type Configuration struct {
	Name         string        `yaml:"name" json:"name"`
	Calculations []Calculation `yaml:"calculations" json:"calculations"`
}

// Calculation is one batch entry. Only the block matching Type is read.
// MarketPrice, when set on a bond entry, also solves the implied yield.
type Calculation struct {
	Name        string              `yaml:"name" json:"name"`
	Type        CalculationType     `yaml:"type" json:"type"`
	TVM         *TVMRequest         `yaml:"tvm,omitempty" json:"tvm,omitempty"`
	Annuity     *AnnuityRequest     `yaml:"annuity,omitempty" json:"annuity,omitempty"`
	Bond        *BondSpec           `yaml:"bond,omitempty" json:"bond,omitempty"`
	MarketPrice float64             `yaml:"market_price,omitempty" json:"market_price,omitempty"`
	Loan        *LoanRequest        `yaml:"loan,omitempty" json:"loan,omitempty"`
	Retirement  *RetirementRequest  `yaml:"retirement,omitempty" json:"retirement,omitempty"`
	Sensitivity *SensitivityRequest `yaml:"sensitivity,omitempty" json:"sensitivity,omitempty"`
}

// CalculationResult is the outcome of one batch entry. Error is set instead of a
// result block when the engine rejected the inputs.
type CalculationResult struct {
	Name        string                `json:"name"`
	Type        CalculationType       `json:"type"`
	Error       string                `json:"error,omitempty"`
	TVM         *TVMResult            `json:"tvm,omitempty"`
	Annuity     *AnnuityValuation     `json:"annuity,omitempty"`
	Bond        *BondValuation        `json:"bond,omitempty"`
	BondYield   *YieldSolution        `json:"bond_yield,omitempty"`
	Loan        *AmortizationSchedule `json:"loan,omitempty"`
	Payoff      *PayoffComparison     `json:"payoff,omitempty"`
	Retirement  *RetirementProjection `json:"retirement,omitempty"`
	Sensitivity *SensitivitySeries    `json:"sensitivity,omitempty"`
}

// Failed reports whether the entry produced an error
func (r CalculationResult) Failed() bool {
	return r.Error != ""
}

// BatchResult collects the results of a batch run in input order
type BatchResult struct {
	Name        string              `json:"name"`
	GeneratedAt time.Time           `json:"generated_at"`
	Results     []CalculationResult `json:"results"`
}

// Failures counts the entries that produced an error
func (b BatchResult) Failures() int {
	n := 0
	for _, r := range b.Results {
		if r.Failed() {
			n++
		}
	}
	return n
}
