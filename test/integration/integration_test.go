package integration

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/actuarial-calculator/internal/calculation"
	"github.com/rpgo/actuarial-calculator/internal/config"
	"github.com/rpgo/actuarial-calculator/internal/domain"
)

const examplePath = "../testdata/example_config.yaml"

func runExample(t *testing.T) *domain.BatchResult {
	t.Helper()
	parser := config.NewInputParser()
	cfg, err := parser.LoadFromFile(examplePath)
	require.NoError(t, err)

	engine := calculation.NewCalculationEngine()
	batch, err := engine.RunBatch(context.Background(), cfg)
	require.NoError(t, err)
	return batch
}

func byName(t *testing.T, batch *domain.BatchResult, name string) domain.CalculationResult {
	t.Helper()
	for _, r := range batch.Results {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("no result named %q", name)
	return domain.CalculationResult{}
}

func TestConfigurationValidation(t *testing.T) {
	parser := config.NewInputParser()
	cfg, err := parser.LoadFromFile(examplePath)
	require.NoError(t, err)
	assert.Len(t, cfg.Calculations, 10)

	// long alias is normalized on load
	assert.Equal(t, domain.SolveForFV, cfg.Calculations[0].TVM.Solve)
	assert.NoError(t, parser.ValidateConfiguration(cfg))
}

func TestEndToEndCalculation(t *testing.T) {
	batch := runExample(t)
	assert.Equal(t, "Integration Batch", batch.Name)
	require.Len(t, batch.Results, 10)
	assert.Equal(t, 1, batch.Failures())

	fv := byName(t, batch, "Savings growth")
	require.NotNil(t, fv.TVM)
	assert.InDelta(t, 1628.894627, fv.TVM.Value, 1e-6)

	pv := byName(t, batch, "Discounted target")
	assert.InDelta(t, 1000, pv.TVM.Value, 1e-6)

	rate := byName(t, batch, "Doubling rate")
	require.NotNil(t, rate.TVM.Rate)
	assert.True(t, rate.TVM.Rate.Converged)
	assert.InDelta(t, math.Pow(2, 0.1)-1, rate.TVM.Value, 1e-8)

	periods := byName(t, batch, "Doubling time")
	require.NotNil(t, periods.TVM.Periods)
	assert.InDelta(t, math.Log(2)/math.Log(1.005), periods.TVM.Periods.Periods, 1e-9)
	assert.InDelta(t, periods.TVM.Periods.Periods/12, periods.TVM.Value, 1e-9)

	annuity := byName(t, batch, "Ten-year annuity")
	require.NotNil(t, annuity.Annuity)
	assert.InDelta(t, 7360.087051, annuity.Annuity.PresentValue.InexactFloat64(), 1e-5)

	bond := byName(t, batch, "Par bond")
	require.NotNil(t, bond.Bond)
	assert.InDelta(t, 1000, bond.Bond.Price.InexactFloat64(), 1e-6)
	assert.Equal(t, domain.AtPar, bond.Bond.Classification)

	yield := byName(t, batch, "Par bond yield")
	require.NotNil(t, yield.BondYield)
	assert.InDelta(t, 0.05, yield.BondYield.YieldToMaturity, 1e-8)

	loan := byName(t, batch, "Mortgage")
	require.NotNil(t, loan.Loan)
	assert.Equal(t, "599.55", loan.Loan.MonthlyPayment.StringFixed(2))
	assert.Len(t, loan.Loan.Rows, 360)
	require.NotNil(t, loan.Loan.PayoffDate)
	assert.Equal(t, "2055-12-01", loan.Loan.PayoffDate.Format("2006-01-02"))

	failed := byName(t, batch, "No growth plan")
	assert.True(t, failed.Failed())
	assert.Nil(t, failed.Retirement)

	sweep := byName(t, batch, "Bond rate shock")
	require.NotNil(t, sweep.Sensitivity)
	require.Len(t, sweep.Sensitivity.Points, 7)
	assert.Equal(t, domain.SweepBondPriceByYield, sweep.Sensitivity.Target)
	assert.InDelta(t, 1000, sweep.Sensitivity.Points[3].Value, 1e-6)
	for i := 1; i < len(sweep.Sensitivity.Points); i++ {
		// price falls as the yield rises
		assert.Less(t, sweep.Sensitivity.Points[i].Value, sweep.Sensitivity.Points[i-1].Value)
	}
}
