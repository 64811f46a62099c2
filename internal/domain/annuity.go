package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AnnuityKind enumerates the supported payment streams
type AnnuityKind string

const (
	AnnuityImmediate AnnuityKind = "immediate"
	AnnuityDue       AnnuityKind = "due"
	AnnuityGrowing   AnnuityKind = "growing"
	AnnuityDeferred  AnnuityKind = "deferred"
)

// ParseAnnuityKind validates an annuity kind name
func ParseAnnuityKind(s string) (AnnuityKind, error) {
	switch k := AnnuityKind(s); k {
	case AnnuityImmediate, AnnuityDue, AnnuityGrowing, AnnuityDeferred:
		return k, nil
	}
	return "", fmt.Errorf("unknown annuity kind %q (want immediate, due, growing or deferred)", s)
}

// AnnuityRequest describes a level, growing or deferred payment stream.
// Rate and Growth are per-period fractions. DeferralPeriods is only read for
// deferred annuities and counts waiting periods, not compounding frequency.
type AnnuityRequest struct {
	Kind            AnnuityKind `yaml:"kind" json:"kind"`
	Payment         float64     `yaml:"payment" json:"payment"`
	Rate            float64     `yaml:"rate" json:"rate"`
	Growth          float64     `yaml:"growth,omitempty" json:"growth,omitempty"`
	Periods         int         `yaml:"periods" json:"periods"`
	DeferralPeriods int         `yaml:"deferral_periods,omitempty" json:"deferral_periods,omitempty"`
}

// AnnuityValuation holds both values of a payment stream
type AnnuityValuation struct {
	Kind         AnnuityKind     `json:"kind"`
	PresentValue decimal.Decimal `json:"present_value"`
	FutureValue  decimal.Decimal `json:"future_value"`
}
