package calculation

import (
	"math"
	"testing"

	"github.com/rpgo/actuarial-calculator/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueAnnuity(t *testing.T) {
	immediatePV := 7360.09
	immediateFV := 13180.79

	tests := []struct {
		name       string
		req        domain.AnnuityRequest
		expectedPV float64
		expectedFV float64
		delta      float64
	}{
		{
			name:       "immediate",
			req:        domain.AnnuityRequest{Kind: domain.AnnuityImmediate, Payment: 1000, Rate: 0.06, Periods: 10},
			expectedPV: immediatePV,
			expectedFV: immediateFV,
			delta:      0.005,
		},
		{
			name:       "due is immediate times one period of growth",
			req:        domain.AnnuityRequest{Kind: domain.AnnuityDue, Payment: 1000, Rate: 0.06, Periods: 10},
			expectedPV: immediatePV * 1.06,
			expectedFV: immediateFV * 1.06,
			delta:      0.01,
		},
		{
			name:       "deferred by three periods",
			req:        domain.AnnuityRequest{Kind: domain.AnnuityDeferred, Payment: 1000, Rate: 0.06, Periods: 10, DeferralPeriods: 3},
			expectedPV: immediatePV / math.Pow(1.06, 3),
			expectedFV: immediateFV * math.Pow(1.06, 3),
			delta:      0.01,
		},
		{
			name:       "deferred with no deferral equals immediate",
			req:        domain.AnnuityRequest{Kind: domain.AnnuityDeferred, Payment: 1000, Rate: 0.06, Periods: 10},
			expectedPV: immediatePV,
			expectedFV: immediateFV,
			delta:      0.005,
		},
		{
			name:       "growing with zero growth equals immediate",
			req:        domain.AnnuityRequest{Kind: domain.AnnuityGrowing, Payment: 1000, Rate: 0.06, Growth: 0, Periods: 10},
			expectedPV: immediatePV,
			expectedFV: immediateFV,
			delta:      0.005,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ValueAnnuity(tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.req.Kind, v.Kind)
			assert.InDelta(t, tt.expectedPV, v.PresentValue.InexactFloat64(), tt.delta)
			assert.InDelta(t, tt.expectedFV, v.FutureValue.InexactFloat64(), tt.delta)
		})
	}
}

func TestGrowingAnnuityEqualRates(t *testing.T) {
	req := domain.AnnuityRequest{Kind: domain.AnnuityGrowing, Payment: 100, Rate: 0.05, Growth: 0.05, Periods: 10}

	pv, err := AnnuityPresentValue(req)
	require.NoError(t, err)
	assert.Equal(t, 10*100/1.05, pv)

	fv, err := AnnuityFutureValue(req)
	require.NoError(t, err)
	assert.InDelta(t, 10*100*math.Pow(1.05, 9), fv, 1e-9)

	// the general formula approaches the limit from both sides
	for _, eps := range []float64{1e-6, -1e-6} {
		near := req
		near.Growth = req.Rate + eps
		nearPV, err := AnnuityPresentValue(near)
		require.NoError(t, err)
		assert.InDelta(t, pv, nearPV, 1e-2, "growth offset %g", eps)

		nearFV, err := AnnuityFutureValue(near)
		require.NoError(t, err)
		assert.InDelta(t, fv, nearFV, 1e-2, "growth offset %g", eps)
	}
}

func TestAnnuityZeroRate(t *testing.T) {
	for _, kind := range []domain.AnnuityKind{domain.AnnuityImmediate, domain.AnnuityDue, domain.AnnuityDeferred} {
		t.Run(string(kind), func(t *testing.T) {
			req := domain.AnnuityRequest{Kind: kind, Payment: 1000, Rate: 0, Periods: 10, DeferralPeriods: 2}
			_, err := AnnuityPresentValue(req)
			assert.ErrorIs(t, err, ErrDomain)
			_, err = AnnuityFutureValue(req)
			assert.ErrorIs(t, err, ErrDomain)
			_, err = ValueAnnuity(req)
			assert.ErrorIs(t, err, ErrDomain)
		})
	}
}

func TestAnnuityUnknownKind(t *testing.T) {
	_, err := ValueAnnuity(domain.AnnuityRequest{Kind: "perpetuity", Payment: 1, Rate: 0.05, Periods: 1})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDomain)
}
