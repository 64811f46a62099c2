package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/rpgo/actuarial-calculator/internal/domain"
	"gopkg.in/yaml.v3"
)

// MaxSweepPoints caps the size of a sensitivity grid
const MaxSweepPoints = 1001

// InputParser handles parsing of input configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a batch of calculations from a YAML or JSON file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates a batch document
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if len(config.Calculations) == 0 {
		return fmt.Errorf("no calculations provided")
	}

	seen := make(map[string]bool, len(config.Calculations))
	for i := range config.Calculations {
		calc := &config.Calculations[i]
		if calc.Name == "" {
			return fmt.Errorf("calculation %d: name is required", i)
		}
		if seen[calc.Name] {
			return fmt.Errorf("calculation %d: duplicate name %q", i, calc.Name)
		}
		seen[calc.Name] = true
		if err := ip.ValidateCalculation(calc); err != nil {
			return fmt.Errorf("calculation %q validation failed: %w", calc.Name, err)
		}
	}

	return nil
}

// ValidateCalculation checks the entry type and the input block it requires
func (ip *InputParser) ValidateCalculation(calc *domain.Calculation) error {
	if _, err := domain.ParseCalculationType(string(calc.Type)); err != nil {
		return err
	}

	switch calc.Type {
	case domain.CalcTVM:
		if calc.TVM == nil {
			return fmt.Errorf("tvm block is required")
		}
		return ip.ValidateTVM(calc.TVM)
	case domain.CalcAnnuity:
		if calc.Annuity == nil {
			return fmt.Errorf("annuity block is required")
		}
		return ip.ValidateAnnuity(calc.Annuity)
	case domain.CalcBond:
		if calc.Bond == nil {
			return fmt.Errorf("bond block is required")
		}
		if calc.MarketPrice < 0 {
			return fmt.Errorf("market price cannot be negative")
		}
		return ip.ValidateBond(calc.Bond, calc.MarketPrice > 0)
	case domain.CalcLoan:
		if calc.Loan == nil {
			return fmt.Errorf("loan block is required")
		}
		return ip.ValidateLoan(calc.Loan)
	case domain.CalcRetirement:
		if calc.Retirement == nil {
			return fmt.Errorf("retirement block is required")
		}
		return ip.ValidateRetirement(calc.Retirement)
	case domain.CalcSensitivity:
		if calc.Sensitivity == nil {
			return fmt.Errorf("sensitivity block is required")
		}
		return ip.ValidateSensitivity(calc.Sensitivity)
	}
	return nil
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ValidateTVM range-checks a time-value-of-money request for its unknown.
// Long names such as "future_value" are normalized in place.
func (ip *InputParser) ValidateTVM(req *domain.TVMRequest) error {
	unknown, err := domain.ParseTVMUnknown(string(req.Solve))
	if err != nil {
		return err
	}
	req.Solve = unknown
	if !finite(req.PresentValue, req.FutureValue, req.AnnualRate, req.Years) {
		return fmt.Errorf("tvm inputs must be finite numbers")
	}
	if req.PeriodsPerYear <= 0 || req.PeriodsPerYear > 365 {
		return fmt.Errorf("periods per year must be between 1 and 365")
	}
	if req.AnnualRate <= -1 {
		return fmt.Errorf("annual rate must be greater than -100%%")
	}
	if req.Solve != domain.SolveForPeriods && req.Years <= 0 {
		return fmt.Errorf("years must be positive")
	}
	if req.Solve != domain.SolveForPV && req.PresentValue <= 0 {
		return fmt.Errorf("present value must be positive")
	}
	if (req.Solve == domain.SolveForPV || req.Solve == domain.SolveForRate || req.Solve == domain.SolveForPeriods) && req.FutureValue <= 0 {
		return fmt.Errorf("future value must be positive")
	}
	if req.Payment != nil {
		if !finite(req.Payment.Amount) {
			return fmt.Errorf("payment amount must be a finite number")
		}
		if req.Payment.Timing != "" && req.Payment.Timing != domain.TimingEnd && req.Payment.Timing != domain.TimingBegin {
			return fmt.Errorf("payment timing must be 'end' or 'begin'")
		}
	}
	return nil
}

// ValidateAnnuity range-checks an annuity request
func (ip *InputParser) ValidateAnnuity(req *domain.AnnuityRequest) error {
	if _, err := domain.ParseAnnuityKind(string(req.Kind)); err != nil {
		return err
	}
	if !finite(req.Payment, req.Rate, req.Growth) {
		return fmt.Errorf("annuity inputs must be finite numbers")
	}
	if req.Payment <= 0 {
		return fmt.Errorf("payment must be positive")
	}
	if req.Periods <= 0 {
		return fmt.Errorf("periods must be positive")
	}
	if req.Rate <= -1 || req.Growth <= -1 {
		return fmt.Errorf("rate and growth must be greater than -100%%")
	}
	if req.DeferralPeriods < 0 {
		return fmt.Errorf("deferral periods cannot be negative")
	}
	return nil
}

// ValidateBond range-checks a bond. The yield is only required when pricing.
func (ip *InputParser) ValidateBond(spec *domain.BondSpec, solvingYield bool) error {
	if !finite(spec.FaceValue, spec.CouponRate, spec.YieldToMaturity) {
		return fmt.Errorf("bond inputs must be finite numbers")
	}
	if spec.FaceValue <= 0 {
		return fmt.Errorf("face value must be positive")
	}
	if spec.CouponRate < 0 {
		return fmt.Errorf("coupon rate cannot be negative")
	}
	if spec.YearsToMaturity <= 0 {
		return fmt.Errorf("years to maturity must be positive")
	}
	switch spec.CouponFrequency {
	case 1, 2, 4, 12:
	default:
		return fmt.Errorf("coupon frequency must be 1, 2, 4 or 12")
	}
	if !solvingYield && spec.YieldToMaturity <= -1 {
		return fmt.Errorf("yield to maturity must be greater than -100%%")
	}
	return nil
}

// ValidateLoan range-checks a loan
func (ip *InputParser) ValidateLoan(req *domain.LoanRequest) error {
	if !finite(req.Principal, req.AnnualRate, req.ExtraPayment) {
		return fmt.Errorf("loan inputs must be finite numbers")
	}
	if req.Principal <= 0 {
		return fmt.Errorf("principal must be positive")
	}
	if req.AnnualRate < 0 {
		return fmt.Errorf("annual rate cannot be negative")
	}
	if req.Years <= 0 || req.Years > 50 {
		return fmt.Errorf("loan term must be between 1 and 50 years")
	}
	if req.ExtraPayment < 0 {
		return fmt.Errorf("extra payment cannot be negative")
	}
	return nil
}

// ValidateRetirement range-checks a retirement projection
func (ip *InputParser) ValidateRetirement(req *domain.RetirementRequest) error {
	if !finite(req.CurrentSavings, req.MonthlyContribution, req.AnnualReturn, req.WithdrawalRate, req.InflationRate) {
		return fmt.Errorf("retirement inputs must be finite numbers")
	}
	if req.CurrentAge == 0 && req.BirthDate == nil {
		return fmt.Errorf("current age or birth date is required")
	}
	if req.BirthDate != nil && req.BirthDate.After(time.Now()) {
		return fmt.Errorf("birth date cannot be in the future")
	}
	if req.CurrentAge < 0 || req.CurrentAge > 120 {
		return fmt.Errorf("current age must be between 0 and 120")
	}
	if req.RetirementAge <= 0 || req.RetirementAge > 120 {
		return fmt.Errorf("retirement age must be between 1 and 120")
	}
	if req.CurrentAge > 0 && req.RetirementAge < req.CurrentAge {
		return fmt.Errorf("retirement age cannot be before current age")
	}
	if req.CurrentSavings < 0 || req.MonthlyContribution < 0 {
		return fmt.Errorf("savings and contributions cannot be negative")
	}
	if req.AnnualReturn <= -1 {
		return fmt.Errorf("annual return must be greater than -100%%")
	}
	if req.WithdrawalRate < 0 || req.WithdrawalRate > 0.2 {
		return fmt.Errorf("withdrawal rate must be between 0 and 20%%")
	}
	if req.WithdrawalYears < 0 || req.WithdrawalYears > 60 {
		return fmt.Errorf("withdrawal years must be between 0 and 60")
	}
	return nil
}

// ValidateSensitivity checks the target, its input block and the grid size
func (ip *InputParser) ValidateSensitivity(req *domain.SensitivityRequest) error {
	if _, err := domain.ParseSensitivityTarget(string(req.Target)); err != nil {
		return err
	}
	if req.Grid.Points < 0 || req.Grid.Points > MaxSweepPoints || len(req.Shocks) > MaxSweepPoints {
		return fmt.Errorf("sweep may have at most %d points", MaxSweepPoints)
	}
	if req.Grid.Points > 0 && req.Grid.Min > req.Grid.Max {
		return fmt.Errorf("grid min cannot exceed grid max")
	}
	if !finite(req.Shocks...) || !finite(req.Grid.Min, req.Grid.Max) {
		return fmt.Errorf("shocks must be finite numbers")
	}

	// degenerate shocked values are reported per point, so only the base inputs are checked
	switch req.Target {
	case domain.SweepFutureValueByRate, domain.SweepPresentValueByRate:
		if req.TVM == nil {
			return fmt.Errorf("tvm block is required for target %s", req.Target)
		}
		tvm := *req.TVM
		if req.Target == domain.SweepFutureValueByRate {
			tvm.Solve = domain.SolveForFV
		} else {
			tvm.Solve = domain.SolveForPV
		}
		return ip.ValidateTVM(&tvm)
	case domain.SweepAnnuityPVByRate:
		if req.Annuity == nil {
			return fmt.Errorf("annuity block is required for target %s", req.Target)
		}
		return ip.ValidateAnnuity(req.Annuity)
	case domain.SweepBondPriceByYield:
		if req.Bond == nil {
			return fmt.Errorf("bond block is required for target %s", req.Target)
		}
		return ip.ValidateBond(req.Bond, false)
	case domain.SweepMonthlyPaymentByRate:
		if req.Loan == nil {
			return fmt.Errorf("loan block is required for target %s", req.Target)
		}
		return ip.ValidateLoan(req.Loan)
	case domain.SweepRetirementFundsByRate:
		if req.Retirement == nil {
			return fmt.Errorf("retirement block is required for target %s", req.Target)
		}
		return ip.ValidateRetirement(req.Retirement)
	}
	return nil
}

// CreateExampleConfiguration creates an example batch covering every calculation type
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	firstPayment, _ := time.Parse("2006-01-02", "2026-01-01")

	return &domain.Configuration{
		Name: "Example Calculations",
		Calculations: []domain.Calculation{
			{
				Name: "Savings growth",
				Type: domain.CalcTVM,
				TVM: &domain.TVMRequest{
					Solve:          domain.SolveForFV,
					PresentValue:   1000,
					AnnualRate:     0.05,
					Years:          5,
					PeriodsPerYear: 12,
				},
			},
			{
				Name: "Doubling rate",
				Type: domain.CalcTVM,
				TVM: &domain.TVMRequest{
					Solve:          domain.SolveForRate,
					PresentValue:   1000,
					FutureValue:    2000,
					Years:          5,
					PeriodsPerYear: 12,
				},
			},
			{
				Name: "Ten-year annuity",
				Type: domain.CalcAnnuity,
				Annuity: &domain.AnnuityRequest{
					Kind:    domain.AnnuityImmediate,
					Payment: 1000,
					Rate:    0.06,
					Periods: 10,
				},
			},
			{
				Name: "Treasury note",
				Type: domain.CalcBond,
				Bond: &domain.BondSpec{
					FaceValue:       1000,
					CouponRate:      0.05,
					YearsToMaturity: 10,
					YieldToMaturity: 0.04,
					CouponFrequency: 2,
				},
			},
			{
				Name: "Mortgage",
				Type: domain.CalcLoan,
				Loan: &domain.LoanRequest{
					Principal:        100000,
					AnnualRate:       0.06,
					Years:            30,
					ExtraPayment:     200,
					FirstPaymentDate: &firstPayment,
				},
			},
			{
				Name: "Retirement plan",
				Type: domain.CalcRetirement,
				Retirement: &domain.RetirementRequest{
					CurrentAge:          35,
					RetirementAge:       65,
					CurrentSavings:      50000,
					MonthlyContribution: 500,
					AnnualReturn:        0.07,
					InflationRate:       0.025,
					WithdrawalYears:     30,
				},
			},
			{
				Name: "Bond rate shock",
				Type: domain.CalcSensitivity,
				Sensitivity: &domain.SensitivityRequest{
					Target: domain.SweepBondPriceByYield,
					Grid:   domain.DefaultShockGrid(),
					Bond: &domain.BondSpec{
						FaceValue:       1000,
						CouponRate:      0.05,
						YearsToMaturity: 10,
						YieldToMaturity: 0.04,
						CouponFrequency: 2,
					},
				},
			},
		},
	}
}
