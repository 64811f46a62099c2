package calculation

import (
	"fmt"
	"math"

	"github.com/rpgo/actuarial-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// immediatePV is PMT(1 - (1+r)^-n)/r
func immediatePV(op string, pmt, r float64, n int) (float64, error) {
	if r == 0 {
		return 0, domainErr(op, "rate is zero")
	}
	if 1+r == 0 {
		return 0, domainErr(op, "rate of -100%% discounts to zero")
	}
	return pmt * (1 - math.Pow(1+r, -float64(n))) / r, nil
}

// immediateFV is PMT((1+r)^n - 1)/r
func immediateFV(op string, pmt, r float64, n int) (float64, error) {
	if r == 0 {
		return 0, domainErr(op, "rate is zero")
	}
	return pmt * (math.Pow(1+r, float64(n)) - 1) / r, nil
}

// growingPV values payments growing at g per period. The r == g case uses the
// limit n·PMT/(1+r); the comparison is exact, so rates a hair apart take the
// general formula.
func growingPV(pmt, r, g float64, n int) float64 {
	if r == g {
		return float64(n) * pmt / (1 + r)
	}
	return pmt * (1 - math.Pow((1+g)/(1+r), float64(n))) / (r - g)
}

func growingFV(pmt, r, g float64, n int) float64 {
	if r == g {
		return float64(n) * pmt * math.Pow(1+r, float64(n-1))
	}
	return pmt * (math.Pow(1+r, float64(n)) - math.Pow(1+g, float64(n))) / (r - g)
}

// AnnuityPresentValue values the payment stream at time zero
func AnnuityPresentValue(req domain.AnnuityRequest) (float64, error) {
	op := "annuity." + string(req.Kind) + ".pv"
	switch req.Kind {
	case domain.AnnuityImmediate:
		return immediatePV(op, req.Payment, req.Rate, req.Periods)
	case domain.AnnuityDue:
		pv, err := immediatePV(op, req.Payment, req.Rate, req.Periods)
		return pv * (1 + req.Rate), err
	case domain.AnnuityGrowing:
		return growingPV(req.Payment, req.Rate, req.Growth, req.Periods), nil
	case domain.AnnuityDeferred:
		pv, err := immediatePV(op, req.Payment, req.Rate, req.Periods)
		if err != nil {
			return 0, err
		}
		return pv / math.Pow(1+req.Rate, float64(req.DeferralPeriods)), nil
	}
	return 0, fmt.Errorf("unsupported annuity kind %q", req.Kind)
}

// AnnuityFutureValue values the payment stream at the end of its last period.
// Deferred annuities are compounded forward over the deferral periods as well.
func AnnuityFutureValue(req domain.AnnuityRequest) (float64, error) {
	op := "annuity." + string(req.Kind) + ".fv"
	switch req.Kind {
	case domain.AnnuityImmediate:
		return immediateFV(op, req.Payment, req.Rate, req.Periods)
	case domain.AnnuityDue:
		fv, err := immediateFV(op, req.Payment, req.Rate, req.Periods)
		return fv * (1 + req.Rate), err
	case domain.AnnuityGrowing:
		return growingFV(req.Payment, req.Rate, req.Growth, req.Periods), nil
	case domain.AnnuityDeferred:
		fv, err := immediateFV(op, req.Payment, req.Rate, req.Periods)
		if err != nil {
			return 0, err
		}
		return fv * math.Pow(1+req.Rate, float64(req.DeferralPeriods)), nil
	}
	return 0, fmt.Errorf("unsupported annuity kind %q", req.Kind)
}

// ValueAnnuity computes both values
func ValueAnnuity(req domain.AnnuityRequest) (domain.AnnuityValuation, error) {
	pv, err := AnnuityPresentValue(req)
	if err != nil {
		return domain.AnnuityValuation{}, err
	}
	fv, err := AnnuityFutureValue(req)
	if err != nil {
		return domain.AnnuityValuation{}, err
	}
	if err := checkFinite("annuity."+string(req.Kind), pv, fv); err != nil {
		return domain.AnnuityValuation{}, err
	}
	return domain.AnnuityValuation{
		Kind:         req.Kind,
		PresentValue: decimal.NewFromFloat(pv),
		FutureValue:  decimal.NewFromFloat(fv),
	}, nil
}
