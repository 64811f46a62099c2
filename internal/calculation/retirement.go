package calculation

import (
	"math"
	"time"

	"github.com/rpgo/actuarial-calculator/internal/domain"
	"github.com/rpgo/actuarial-calculator/pkg/dateutil"
	money "github.com/rpgo/actuarial-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

// DefaultWithdrawalRate is the sustainable first-year draw as a fraction of funds
const DefaultWithdrawalRate = 0.04

// FourPercentRule implements the fixed-percentage withdrawal rule adjusted for inflation
type FourPercentRule struct {
	InitialWithdrawalPercent decimal.Decimal
	InflationRate            decimal.Decimal
	InitialBalance           decimal.Decimal
	FirstWithdrawalAmount    decimal.Decimal
}

// NewFourPercentRule creates a rule drawing rate×initialBalance in the first year.
// A zero rate falls back to DefaultWithdrawalRate.
func NewFourPercentRule(initialBalance, rate, inflationRate decimal.Decimal) *FourPercentRule {
	if rate.IsZero() {
		rate = decimal.NewFromFloat(DefaultWithdrawalRate)
	}
	return &FourPercentRule{
		InitialWithdrawalPercent: rate,
		InflationRate:            inflationRate,
		InitialBalance:           initialBalance,
		FirstWithdrawalAmount:    initialBalance.Mul(rate),
	}
}

// CalculateWithdrawal returns the withdrawal for a given year, counting from 1.
// Later years inflate the first withdrawal.
func (fpr *FourPercentRule) CalculateWithdrawal(year int) decimal.Decimal {
	if year <= 1 {
		return fpr.FirstWithdrawalAmount
	}
	inflationFactor := decimal.NewFromInt(1).Add(fpr.InflationRate)
	return fpr.FirstWithdrawalAmount.Mul(inflationFactor.Pow(decimal.NewFromInt(int64(year - 1))))
}

// GetStrategyName returns the name of this strategy
func (fpr *FourPercentRule) GetStrategyName() string {
	return "4_percent_rule"
}

// resolveCurrentAge prefers an explicit age and otherwise derives it from the birth date
func resolveCurrentAge(req domain.RetirementRequest, now time.Time) int {
	if req.CurrentAge == 0 && req.BirthDate != nil {
		return dateutil.Age(*req.BirthDate, now)
	}
	return req.CurrentAge
}

// ProjectRetirement steps the balance monthly from the current age to retirement,
// recording it at the start of each year. Totals use the closed forms
// savings×(1+annual)^years and the future value of the monthly contribution
// annuity, so they can differ slightly from the last trajectory point.
func ProjectRetirement(req domain.RetirementRequest) (domain.RetirementProjection, error) {
	return projectRetirementAt(req, time.Now())
}

func projectRetirementAt(req domain.RetirementRequest, now time.Time) (domain.RetirementProjection, error) {
	const op = "retirement.project"
	current := resolveCurrentAge(req, now)
	if req.RetirementAge < current {
		return domain.RetirementProjection{}, domainErr(op, "retirement age %d is before current age %d", req.RetirementAge, current)
	}
	years := req.RetirementAge - current
	monthlyReturn := req.AnnualReturn / 12

	trajectory := make([]domain.TrajectoryPoint, 0, years+1)
	balance := req.CurrentSavings
	for age := current; age <= req.RetirementAge; age++ {
		if err := checkFinite(op, balance); err != nil {
			return domain.RetirementProjection{}, err
		}
		trajectory = append(trajectory, domain.TrajectoryPoint{Age: age, Balance: decimal.NewFromFloat(balance)})
		if age < req.RetirementAge {
			for month := 0; month < 12; month++ {
				balance = balance*(1+monthlyReturn) + req.MonthlyContribution
			}
		}
	}

	fvCurrent := req.CurrentSavings * math.Pow(1+req.AnnualReturn, float64(years))
	var fvContrib float64
	if req.MonthlyContribution != 0 && years > 0 {
		var err error
		fvContrib, err = immediateFV(op, req.MonthlyContribution, monthlyReturn, years*12)
		if err != nil {
			return domain.RetirementProjection{}, err
		}
	}
	if err := checkFinite(op, fvCurrent, fvContrib); err != nil {
		return domain.RetirementProjection{}, err
	}
	fvCurrentD, fvContribD := decimal.NewFromFloat(fvCurrent), decimal.NewFromFloat(fvContrib)
	total := money.Sum(fvCurrentD, fvContribD)

	rule := NewFourPercentRule(total, decimal.NewFromFloat(req.WithdrawalRate), decimal.NewFromFloat(req.InflationRate))
	annual := money.NewMoneyFromDecimal(rule.FirstWithdrawalAmount)

	var schedule []decimal.Decimal
	for year := 1; year <= req.WithdrawalYears; year++ {
		schedule = append(schedule, rule.CalculateWithdrawal(year))
	}

	return domain.RetirementProjection{
		CurrentAge:         current,
		RetirementAge:      req.RetirementAge,
		YearsToRetirement:  years,
		Trajectory:         trajectory,
		FVCurrentSavings:   fvCurrentD,
		FVContributions:    fvContribD,
		TotalFunds:         total,
		AnnualWithdrawal:   annual.Decimal,
		MonthlyWithdrawal:  annual.Monthly().Decimal,
		WithdrawalSchedule: schedule,
	}, nil
}
