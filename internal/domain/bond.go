package domain

import "github.com/shopspring/decimal"

// BondSpec describes a plain fixed-coupon bond. CouponRate and YieldToMaturity are annual fractions.
type BondSpec struct {
	FaceValue       float64 `yaml:"face_value" json:"face_value"`
	CouponRate      float64 `yaml:"coupon_rate" json:"coupon_rate"`
	YearsToMaturity int     `yaml:"years_to_maturity" json:"years_to_maturity"`
	YieldToMaturity float64 `yaml:"yield_to_maturity" json:"yield_to_maturity"`
	CouponFrequency int     `yaml:"coupon_frequency" json:"coupon_frequency"`
}

// Periods is the number of coupon periods to maturity
func (b BondSpec) Periods() int {
	return b.YearsToMaturity * b.CouponFrequency
}

// PeriodRate is the per-period discount rate
func (b BondSpec) PeriodRate() float64 {
	return b.YieldToMaturity / float64(b.CouponFrequency)
}

// CouponPayment is the cash coupon paid each period
func (b BondSpec) CouponPayment() float64 {
	return b.FaceValue * b.CouponRate / float64(b.CouponFrequency)
}

// PriceClass labels a price relative to face value
type PriceClass string

const (
	AtPar    PriceClass = "at par"
	Premium  PriceClass = "premium"
	Discount PriceClass = "discount"
)

// BondValuation is the priced bond with its duration measures. Money fields are
// unrounded; durations are in years.
type BondValuation struct {
	Price            decimal.Decimal `json:"price"`
	PVCoupons        decimal.Decimal `json:"pv_coupons"`
	PVFace           decimal.Decimal `json:"pv_face"`
	CouponPayment    decimal.Decimal `json:"coupon_payment"`
	Periods          int             `json:"periods"`
	MacaulayDuration float64         `json:"macaulay_duration"`
	ModifiedDuration float64         `json:"modified_duration"`
	Classification   PriceClass      `json:"classification"`
}

// YieldSolution is the yield implied by a market price
type YieldSolution struct {
	YieldToMaturity float64 `json:"yield_to_maturity"`
	Iterations      int     `json:"iterations"`
	Method          string  `json:"method"`
}
