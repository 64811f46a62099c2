package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rpgo/actuarial-calculator/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "batch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser)
}

func TestLoadFromFile_Success(t *testing.T) {
	testConfig := "name: \"Household\"\n" +
		"calculations:\n" +
		"  - name: \"growth\"\n" +
		"    type: tvm\n" +
		"    tvm:\n" +
		"      solve: future_value\n" +
		"      present_value: 1000\n" +
		"      annual_rate: 0.05\n" +
		"      years: 5\n" +
		"      periods_per_year: 12\n" +
		"  - name: \"mortgage\"\n" +
		"    type: loan\n" +
		"    loan:\n" +
		"      principal: 100000\n" +
		"      annual_rate: 0.06\n" +
		"      years: 30\n" +
		"      first_payment_date: 2026-01-01\n" +
		"  - name: \"rate shock\"\n" +
		"    type: sensitivity\n" +
		"    sensitivity:\n" +
		"      target: bond_price_yield\n" +
		"      shocks: [-0.01, 0, 0.01]\n" +
		"      bond:\n" +
		"        face_value: 1000\n" +
		"        coupon_rate: 0.05\n" +
		"        years_to_maturity: 10\n" +
		"        yield_to_maturity: 0.04\n" +
		"        coupon_frequency: 2\n"

	parser := NewInputParser()
	config, err := parser.LoadFromFile(writeTempConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, "Household", config.Name)
	require.Len(t, config.Calculations, 3)

	growth := config.Calculations[0]
	require.NotNil(t, growth.TVM)
	assert.Equal(t, domain.SolveForFV, growth.TVM.Solve)
	assert.Equal(t, 12, growth.TVM.PeriodsPerYear)

	loan := config.Calculations[1].Loan
	require.NotNil(t, loan)
	require.NotNil(t, loan.FirstPaymentDate)
	assert.Equal(t, time.January, loan.FirstPaymentDate.Month())

	sweep := config.Calculations[2].Sensitivity
	require.NotNil(t, sweep)
	assert.Equal(t, []float64{-0.01, 0, 0.01}, sweep.Shocks)
	assert.Equal(t, 2, sweep.Bond.CouponFrequency)
}

func TestLoadFromFile_FileNotFound(t *testing.T) {
	parser := NewInputParser()
	config, err := parser.LoadFromFile("nonexistent_file.yaml")

	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestLoadFromFile_InvalidYAML(t *testing.T) {
	testConfig := `
calculations:
	- name: "tabs are not yaml"
		type: tvm
`
	parser := NewInputParser()
	config, err := parser.LoadFromFile(writeTempConfig(t, testConfig))

	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadFromFile_ValidationFailure(t *testing.T) {
	testConfig := "calculations:\n" +
		"  - name: \"bad loan\"\n" +
		"    type: loan\n" +
		"    loan:\n" +
		"      principal: -5\n" +
		"      annual_rate: 0.06\n" +
		"      years: 30\n"

	_, err := NewInputParser().LoadFromFile(writeTempConfig(t, testConfig))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
	assert.Contains(t, err.Error(), "principal must be positive")
}

func TestValidateConfiguration_Example(t *testing.T) {
	parser := NewInputParser()
	assert.NoError(t, parser.ValidateConfiguration(parser.CreateExampleConfiguration()))
}

func TestValidateConfiguration_Structure(t *testing.T) {
	parser := NewInputParser()
	tvm := &domain.TVMRequest{Solve: domain.SolveForFV, PresentValue: 1000, AnnualRate: 0.05, Years: 5, PeriodsPerYear: 12}

	tests := []struct {
		name    string
		config  *domain.Configuration
		message string
	}{
		{"empty", &domain.Configuration{}, "no calculations provided"},
		{"unnamed", &domain.Configuration{Calculations: []domain.Calculation{{Type: domain.CalcTVM, TVM: tvm}}}, "name is required"},
		{"duplicate", &domain.Configuration{Calculations: []domain.Calculation{
			{Name: "a", Type: domain.CalcTVM, TVM: tvm},
			{Name: "a", Type: domain.CalcTVM, TVM: tvm},
		}}, "duplicate name"},
		{"unknown type", &domain.Configuration{Calculations: []domain.Calculation{{Name: "a", Type: "swap"}}}, "unknown calculation type"},
		{"missing block", &domain.Configuration{Calculations: []domain.Calculation{{Name: "a", Type: domain.CalcBond}}}, "bond block is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parser.ValidateConfiguration(tt.config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestValidateTVM(t *testing.T) {
	parser := NewInputParser()
	valid := func() domain.TVMRequest {
		return domain.TVMRequest{Solve: domain.SolveForRate, PresentValue: 1000, FutureValue: 2000, Years: 5, PeriodsPerYear: 12}
	}

	req := valid()
	assert.NoError(t, parser.ValidateTVM(&req))

	req = valid()
	req.Solve = "present_value"
	require.NoError(t, parser.ValidateTVM(&req))
	assert.Equal(t, domain.SolveForPV, req.Solve)

	tests := []struct {
		name    string
		mutate  func(*domain.TVMRequest)
		message string
	}{
		{"unknown quantity", func(r *domain.TVMRequest) { r.Solve = "payment" }, "unknown TVM quantity"},
		{"zero frequency", func(r *domain.TVMRequest) { r.PeriodsPerYear = 0 }, "periods per year"},
		{"zero years", func(r *domain.TVMRequest) { r.Years = 0 }, "years must be positive"},
		{"zero pv", func(r *domain.TVMRequest) { r.PresentValue = 0 }, "present value must be positive"},
		{"zero fv", func(r *domain.TVMRequest) { r.FutureValue = 0 }, "future value must be positive"},
		{"bad timing", func(r *domain.TVMRequest) { r.Payment = &domain.PaymentStream{Amount: 10, Timing: "middle"} }, "payment timing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)
			err := parser.ValidateTVM(&req)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}

	// years may be zero when solving for the period count
	periods := valid()
	periods.Solve = domain.SolveForPeriods
	periods.Years = 0
	periods.AnnualRate = 0.06
	assert.NoError(t, parser.ValidateTVM(&periods))
}

func TestValidateAnnuityBondLoan(t *testing.T) {
	parser := NewInputParser()

	assert.NoError(t, parser.ValidateAnnuity(&domain.AnnuityRequest{Kind: domain.AnnuityDue, Payment: 100, Rate: 0.05, Periods: 10}))
	assert.Error(t, parser.ValidateAnnuity(&domain.AnnuityRequest{Kind: "perpetual", Payment: 100, Rate: 0.05, Periods: 10}))
	assert.Error(t, parser.ValidateAnnuity(&domain.AnnuityRequest{Kind: domain.AnnuityImmediate, Payment: 100, Rate: 0.05}))
	assert.Error(t, parser.ValidateAnnuity(&domain.AnnuityRequest{Kind: domain.AnnuityDeferred, Payment: 100, Rate: 0.05, Periods: 10, DeferralPeriods: -1}))

	bond := domain.BondSpec{FaceValue: 1000, CouponRate: 0.05, YearsToMaturity: 10, YieldToMaturity: 0.04, CouponFrequency: 2}
	assert.NoError(t, parser.ValidateBond(&bond, false))
	bad := bond
	bad.CouponFrequency = 3
	assert.ErrorContains(t, parser.ValidateBond(&bad, false), "coupon frequency")
	bad = bond
	bad.FaceValue = 0
	assert.ErrorContains(t, parser.ValidateBond(&bad, false), "face value")

	loan := domain.LoanRequest{Principal: 100000, AnnualRate: 0.06, Years: 30}
	assert.NoError(t, parser.ValidateLoan(&loan))
	loan.ExtraPayment = -10
	assert.ErrorContains(t, parser.ValidateLoan(&loan), "extra payment")
	loan.ExtraPayment = 0
	loan.Years = 0
	assert.ErrorContains(t, parser.ValidateLoan(&loan), "loan term")
}

func TestValidateRetirement(t *testing.T) {
	parser := NewInputParser()
	birth := time.Date(1980, time.March, 1, 0, 0, 0, 0, time.UTC)
	future := time.Now().AddDate(1, 0, 0)

	tests := []struct {
		name    string
		req     domain.RetirementRequest
		message string
	}{
		{"valid", domain.RetirementRequest{CurrentAge: 35, RetirementAge: 65, MonthlyContribution: 500, AnnualReturn: 0.07}, ""},
		{"birth date instead of age", domain.RetirementRequest{BirthDate: &birth, RetirementAge: 65, AnnualReturn: 0.07}, ""},
		{"no age", domain.RetirementRequest{RetirementAge: 65}, "current age or birth date"},
		{"future birth", domain.RetirementRequest{BirthDate: &future, RetirementAge: 65}, "birth date cannot be in the future"},
		{"retire before now", domain.RetirementRequest{CurrentAge: 50, RetirementAge: 45}, "retirement age cannot be before"},
		{"negative savings", domain.RetirementRequest{CurrentAge: 35, RetirementAge: 65, CurrentSavings: -1}, "cannot be negative"},
		{"withdrawal too high", domain.RetirementRequest{CurrentAge: 35, RetirementAge: 65, WithdrawalRate: 0.5}, "withdrawal rate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parser.ValidateRetirement(&tt.req)
			if tt.message == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestValidateSensitivity(t *testing.T) {
	parser := NewInputParser()
	loan := &domain.LoanRequest{Principal: 100000, AnnualRate: 0.06, Years: 30}

	assert.NoError(t, parser.ValidateSensitivity(&domain.SensitivityRequest{Target: domain.SweepMonthlyPaymentByRate, Loan: loan}))
	assert.ErrorContains(t, parser.ValidateSensitivity(&domain.SensitivityRequest{Target: "duration", Loan: loan}), "unknown sensitivity target")
	assert.ErrorContains(t, parser.ValidateSensitivity(&domain.SensitivityRequest{Target: domain.SweepMonthlyPaymentByRate}), "loan block is required")
	assert.ErrorContains(t, parser.ValidateSensitivity(&domain.SensitivityRequest{
		Target: domain.SweepMonthlyPaymentByRate, Loan: loan, Grid: domain.ShockGrid{Min: -1, Max: 1, Points: MaxSweepPoints + 1},
	}), "at most")
	assert.ErrorContains(t, parser.ValidateSensitivity(&domain.SensitivityRequest{
		Target: domain.SweepMonthlyPaymentByRate, Loan: loan, Grid: domain.ShockGrid{Min: 1, Max: -1, Points: 5},
	}), "grid min")

	// the base TVM inputs are checked as a plain FV or PV problem
	tvm := &domain.TVMRequest{PresentValue: 1000, AnnualRate: 0.05, Years: 5, PeriodsPerYear: 12}
	assert.NoError(t, parser.ValidateSensitivity(&domain.SensitivityRequest{Target: domain.SweepFutureValueByRate, TVM: tvm}))
	assert.Error(t, parser.ValidateSensitivity(&domain.SensitivityRequest{Target: domain.SweepPresentValueByRate, TVM: tvm}))
}
