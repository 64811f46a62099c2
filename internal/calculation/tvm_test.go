package calculation

import (
	"errors"
	"math"
	"testing"

	"github.com/rpgo/actuarial-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveFutureValue(t *testing.T) {
	tests := []struct {
		name     string
		req      domain.TVMRequest
		expected float64
		delta    float64
	}{
		{
			name:     "monthly compounding lump sum",
			req:      domain.TVMRequest{PresentValue: 1000, AnnualRate: 0.05, Years: 5, PeriodsPerYear: 12},
			expected: 1283.36,
			delta:    0.005,
		},
		{
			name:     "annual compounding lump sum",
			req:      domain.TVMRequest{PresentValue: 1000, AnnualRate: 0.05, Years: 5, PeriodsPerYear: 1},
			expected: 1276.28,
			delta:    0.005,
		},
		{
			name:     "zero rate without payments",
			req:      domain.TVMRequest{PresentValue: 1000, AnnualRate: 0, Years: 5, PeriodsPerYear: 12},
			expected: 1000,
			delta:    1e-9,
		},
		{
			name: "payment stream at period end",
			req: domain.TVMRequest{PresentValue: 0, AnnualRate: 0.06, Years: 10, PeriodsPerYear: 1,
				Payment: &domain.PaymentStream{Amount: 1000, Timing: domain.TimingEnd}},
			expected: 13180.79,
			delta:    0.005,
		},
		{
			name: "payment stream at period start",
			req: domain.TVMRequest{PresentValue: 0, AnnualRate: 0.06, Years: 10, PeriodsPerYear: 1,
				Payment: &domain.PaymentStream{Amount: 1000, Timing: domain.TimingBegin}},
			expected: 13180.79 * 1.06,
			delta:    0.01,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fv, err := SolveFutureValue(tt.req)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, fv, tt.delta)
		})
	}
}

func TestSolveFutureValueZeroRateWithPayment(t *testing.T) {
	req := domain.TVMRequest{PresentValue: 1000, AnnualRate: 0, Years: 5, PeriodsPerYear: 12,
		Payment: &domain.PaymentStream{Amount: 100}}

	_, err := SolveFutureValue(req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDomain))

	var de *DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "tvm.fv", de.Op)
}

func TestSolveFutureValueRejectsZeroFrequency(t *testing.T) {
	_, err := SolveFutureValue(domain.TVMRequest{PresentValue: 1000, AnnualRate: 0.05, Years: 5})
	assert.ErrorIs(t, err, ErrDomain)
}

func TestPresentValueRoundTrip(t *testing.T) {
	cases := []struct {
		pv, rate, years float64
		m               int
		payment         *domain.PaymentStream
	}{
		{1000, 0.05, 5, 12, nil},
		{250000, 0.0725, 30, 12, nil},
		{1, 0.01, 1, 1, nil},
		{5000, 0.12, 7.5, 4, nil},
		{1000, 0.06, 5, 12, &domain.PaymentStream{Amount: 100}},
		{1000, 0.06, 5, 12, &domain.PaymentStream{Amount: 100, Timing: domain.TimingBegin}},
	}

	for _, c := range cases {
		req := domain.TVMRequest{PresentValue: c.pv, AnnualRate: c.rate, Years: c.years, PeriodsPerYear: c.m, Payment: c.payment}
		fv, err := SolveFutureValue(req)
		require.NoError(t, err)

		back := req
		back.PresentValue = 0
		back.FutureValue = fv
		pv, err := SolvePresentValue(back)
		require.NoError(t, err)
		assert.InEpsilon(t, c.pv, pv, 1e-6, "round trip for %+v", c)
	}
}

func TestSolveRateClosedForm(t *testing.T) {
	req := domain.TVMRequest{PresentValue: 1000, FutureValue: 2000, Years: 5, PeriodsPerYear: 12}

	sol, err := SolveRate(req)
	require.NoError(t, err)
	assert.True(t, sol.Converged)
	assert.Zero(t, sol.Iterations)
	assert.InDelta(t, 0.1392, sol.AnnualRate, 0.0005)
	assert.InDelta(t, sol.AnnualRate/12, sol.PeriodRate, 1e-12)
}

func TestSolveRateWithPaymentRecoversRate(t *testing.T) {
	for _, timing := range []domain.PaymentTiming{domain.TimingEnd, domain.TimingBegin} {
		t.Run(string(timing), func(t *testing.T) {
			req := domain.TVMRequest{PresentValue: 1000, AnnualRate: 0.06, Years: 5, PeriodsPerYear: 12,
				Payment: &domain.PaymentStream{Amount: 100, Timing: timing}}
			fv, err := SolveFutureValue(req)
			require.NoError(t, err)

			req.AnnualRate = 0
			req.FutureValue = fv
			sol, err := SolveRate(req)
			require.NoError(t, err)
			assert.True(t, sol.Converged)
			assert.LessOrEqual(t, sol.Iterations, 20)
			assert.InDelta(t, 0.06, sol.AnnualRate, 1e-6)
		})
	}
}

func TestSolveRateReturnsLastIterateWhenCapped(t *testing.T) {
	// a root far from the 5% seed cannot be reached in 20 Newton steps
	req := domain.TVMRequest{PresentValue: 1, FutureValue: 1e12, Years: 10, PeriodsPerYear: 1,
		Payment: &domain.PaymentStream{Amount: 1}}

	sol, err := SolveRate(req)
	require.NoError(t, err)
	assert.False(t, sol.Converged)
	assert.Equal(t, 20, sol.Iterations)
	assert.False(t, math.IsNaN(sol.AnnualRate))
}

func TestSolveRateDomainErrors(t *testing.T) {
	tests := []struct {
		name string
		req  domain.TVMRequest
	}{
		{"zero present value", domain.TVMRequest{PresentValue: 0, FutureValue: 2000, Years: 5, PeriodsPerYear: 12}},
		{"opposite signs", domain.TVMRequest{PresentValue: 1000, FutureValue: -2000, Years: 5, PeriodsPerYear: 12}},
		{"zero horizon", domain.TVMRequest{PresentValue: 1000, FutureValue: 2000, Years: 0, PeriodsPerYear: 12}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SolveRate(tt.req)
			assert.ErrorIs(t, err, ErrDomain)
		})
	}
}

func TestSolvePeriods(t *testing.T) {
	t.Run("closed form", func(t *testing.T) {
		req := domain.TVMRequest{PresentValue: 1000, FutureValue: 2000, AnnualRate: 0.06, PeriodsPerYear: 12}
		sol, err := SolvePeriods(req)
		require.NoError(t, err)
		expectedYears := math.Log(2) / (12 * math.Log(1.005))
		assert.InDelta(t, expectedYears, sol.Years, 1e-9)
		assert.InDelta(t, expectedYears*12, sol.Periods, 1e-9)
	})

	t.Run("bisection with payments", func(t *testing.T) {
		req := domain.TVMRequest{PresentValue: 1000, AnnualRate: 0.06, Years: 5, PeriodsPerYear: 12,
			Payment: &domain.PaymentStream{Amount: 100}}
		fv, err := SolveFutureValue(req)
		require.NoError(t, err)

		req.Years = 0
		req.FutureValue = fv
		sol, err := SolvePeriods(req)
		require.NoError(t, err)
		assert.InDelta(t, 60, sol.Periods, 0.01)
		assert.InDelta(t, 5, sol.Years, 0.01/12)
	})

	t.Run("zero rate with payments", func(t *testing.T) {
		req := domain.TVMRequest{PresentValue: 1000, FutureValue: 5000, PeriodsPerYear: 12,
			Payment: &domain.PaymentStream{Amount: 100}}
		_, err := SolvePeriods(req)
		assert.ErrorIs(t, err, ErrDomain)
	})
}

func TestSolveTVMDispatch(t *testing.T) {
	base := domain.TVMRequest{PresentValue: 1000, FutureValue: 2000, AnnualRate: 0.05, Years: 5, PeriodsPerYear: 12}

	for _, unknown := range []domain.TVMUnknown{domain.SolveForFV, domain.SolveForPV, domain.SolveForRate, domain.SolveForPeriods} {
		t.Run(string(unknown), func(t *testing.T) {
			req := base
			req.Solve = unknown
			res, err := SolveTVM(req)
			require.NoError(t, err)
			assert.Equal(t, unknown, res.Solved)
			assert.Positive(t, res.Value)
			assert.Equal(t, unknown == domain.SolveForRate, res.Rate != nil)
			assert.Equal(t, unknown == domain.SolveForPeriods, res.Periods != nil)
			solvedAmount := unknown == domain.SolveForFV || unknown == domain.SolveForPV
			require.Equal(t, solvedAmount, res.Amount != nil)
			if solvedAmount {
				assert.InDelta(t, res.Value, res.Amount.InexactFloat64(), 1e-9)
			}
		})
	}

	_, err := SolveTVM(domain.TVMRequest{Solve: "payment", PeriodsPerYear: 12})
	assert.Error(t, err)
}

func TestTVMGrowthSeries(t *testing.T) {
	req := domain.TVMRequest{PresentValue: 1000, FutureValue: 1283.36, AnnualRate: 0.05, Years: 5, PeriodsPerYear: 12}

	growth, err := TVMGrowthSeries(req, domain.GrowthFV)
	require.NoError(t, err)
	require.Len(t, growth, 6)
	assert.True(t, growth[0].Value.Equal(decimal.NewFromInt(1000)))
	assert.InDelta(t, 1283.36, growth[5].Value.InexactFloat64(), 0.005)
	for k := 1; k < len(growth); k++ {
		assert.True(t, growth[k].Value.GreaterThan(growth[k-1].Value))
	}

	discount, err := TVMGrowthSeries(req, domain.GrowthPV)
	require.NoError(t, err)
	require.Len(t, discount, 6)
	assert.True(t, discount[0].Value.Equal(decimal.NewFromFloat(1283.36)))
	assert.InDelta(t, 1000, discount[5].Value.InexactFloat64(), 0.005)
}

func TestTVMGrowthSeriesFractionalHorizon(t *testing.T) {
	req := domain.TVMRequest{PresentValue: 1000, AnnualRate: 0.05, Years: 2.5, PeriodsPerYear: 1}
	fv, err := SolveFutureValue(req)
	require.NoError(t, err)

	growth, err := TVMGrowthSeries(req, domain.GrowthFV)
	require.NoError(t, err)
	require.Len(t, growth, 4)
	xs := make([]float64, len(growth))
	for k, p := range growth {
		xs[k] = p.X
	}
	assert.Equal(t, []float64{0, 1, 2, 2.5}, xs)
	assert.InDelta(t, fv, growth[3].Value.InexactFloat64(), 1e-9)

	req.FutureValue = fv
	discount, err := TVMGrowthSeries(req, domain.GrowthPV)
	require.NoError(t, err)
	assert.InDelta(t, 1000, discount[len(discount)-1].Value.InexactFloat64(), 1e-9)
}

func TestSolveTVMRejectsNonFiniteAmount(t *testing.T) {
	_, err := SolveTVM(domain.TVMRequest{Solve: domain.SolveForFV, PresentValue: 1e300, AnnualRate: 1e10, Years: 100, PeriodsPerYear: 1})
	assert.ErrorIs(t, err, ErrDomain)
}
