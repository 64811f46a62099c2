package calculation

import (
	"math"

	"github.com/rpgo/actuarial-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	parTolerance   = 0.01
	yieldSeed      = 0.05
	yieldMaxIter   = 50
	yieldTolerance = 1e-10
	yieldBracketLo = -0.99
	yieldBracketHi = 1.0
	yieldBisectTol = 1e-10
	yieldMethodNR  = "newton"
	yieldMethodBis = "bisection"
)

// PriceBond prices a fixed-coupon bond as an ordinary annuity of coupons plus the
// discounted face value, with Macaulay and modified duration
func PriceBond(spec domain.BondSpec) (domain.BondValuation, error) {
	const op = "bond.price"
	if spec.CouponFrequency <= 0 {
		return domain.BondValuation{}, domainErr(op, "coupon frequency must be positive, got %d", spec.CouponFrequency)
	}
	periods := spec.Periods()
	i := spec.PeriodRate()
	coupon := spec.CouponPayment()

	pvCoupons, err := immediatePV(op, coupon, i, periods)
	if err != nil {
		return domain.BondValuation{}, err
	}
	pvFace := spec.FaceValue / math.Pow(1+i, float64(periods))
	price := pvCoupons + pvFace
	if price == 0 {
		return domain.BondValuation{}, domainErr(op, "price is zero, duration undefined")
	}

	freq := float64(spec.CouponFrequency)
	var weighted float64
	for t := 1; t <= periods; t++ {
		cf := coupon
		if t == periods {
			cf += spec.FaceValue
		}
		weighted += (float64(t) / freq) * cf / math.Pow(1+i, float64(t))
	}
	macaulay := weighted / price
	if err := checkFinite(op, price, macaulay); err != nil {
		return domain.BondValuation{}, err
	}

	return domain.BondValuation{
		Price:            decimal.NewFromFloat(price),
		PVCoupons:        decimal.NewFromFloat(pvCoupons),
		PVFace:           decimal.NewFromFloat(pvFace),
		CouponPayment:    decimal.NewFromFloat(coupon),
		Periods:          periods,
		MacaulayDuration: macaulay,
		ModifiedDuration: macaulay / (1 + spec.YieldToMaturity/freq),
		Classification:   ClassifyPrice(price, spec.FaceValue),
	}, nil
}

// ClassifyPrice labels a price within a cent of face as at par
func ClassifyPrice(price, face float64) domain.PriceClass {
	switch {
	case math.Abs(price-face) < parTolerance:
		return domain.AtPar
	case price > face:
		return domain.Premium
	default:
		return domain.Discount
	}
}

// bondPriceAt returns the price at per-period yield y and dP/dy
func bondPriceAt(spec domain.BondSpec, y float64) (float64, float64) {
	periods := spec.Periods()
	coupon := spec.CouponPayment()
	var price, deriv float64
	for t := 1; t <= periods; t++ {
		cf := coupon
		if t == periods {
			cf += spec.FaceValue
		}
		tf := float64(t)
		price += cf / math.Pow(1+y, tf)
		deriv += -tf * cf / math.Pow(1+y, tf+1)
	}
	return price, deriv
}

// SolveBondYield finds the annual yield to maturity implied by a market price.
// Newton-Raphson on the price residual runs first; if it fails or wanders
// outside (-99%, 100%) per period, bisection over that bracket takes over.
func SolveBondYield(spec domain.BondSpec, marketPrice float64) (domain.YieldSolution, error) {
	const op = "bond.yield"
	if spec.CouponFrequency <= 0 {
		return domain.YieldSolution{}, domainErr(op, "coupon frequency must be positive, got %d", spec.CouponFrequency)
	}
	if spec.Periods() <= 0 {
		return domain.YieldSolution{}, domainErr(op, "bond has no remaining periods")
	}
	if marketPrice <= 0 {
		return domain.YieldSolution{}, domainErr(op, "market price must be positive, got %g", marketPrice)
	}
	freq := float64(spec.CouponFrequency)

	res, err := newton(op, yieldSeed/freq, yieldTolerance, yieldMaxIter, func(y float64) (float64, float64, error) {
		p, dp := bondPriceAt(spec, y)
		return p - marketPrice, dp, nil
	})
	if err == nil && res.converged && res.x > yieldBracketLo && res.x < yieldBracketHi {
		return domain.YieldSolution{YieldToMaturity: res.x * freq, Iterations: res.iterations, Method: yieldMethodNR}, nil
	}

	// price falls as yield rises, so bisect on the negated residual
	residual := func(y float64) (float64, error) {
		p, _ := bondPriceAt(spec, y)
		return marketPrice - p, nil
	}
	lo, _ := residual(yieldBracketLo)
	hi, _ := residual(yieldBracketHi)
	if lo > 0 || hi < 0 {
		return domain.YieldSolution{}, &NonConvergentError{Op: op, Iterations: res.iterations, Estimate: res.x * freq}
	}
	y, iterations, err := bisect(yieldBracketLo, yieldBracketHi, yieldBisectTol, residual)
	if err != nil {
		return domain.YieldSolution{}, err
	}
	return domain.YieldSolution{YieldToMaturity: y * freq, Iterations: res.iterations + iterations, Method: yieldMethodBis}, nil
}
