package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RetirementRequest holds the inputs of a retirement savings projection.
// AnnualReturn is compounded monthly at AnnualReturn/12 for the trajectory.
// WithdrawalRate defaults to 4% when zero.
type RetirementRequest struct {
	CurrentAge          int        `yaml:"current_age" json:"current_age"`
	BirthDate           *time.Time `yaml:"birth_date,omitempty" json:"birth_date,omitempty"`
	RetirementAge       int        `yaml:"retirement_age" json:"retirement_age"`
	CurrentSavings      float64    `yaml:"current_savings" json:"current_savings"`
	MonthlyContribution float64    `yaml:"monthly_contribution" json:"monthly_contribution"`
	AnnualReturn        float64    `yaml:"annual_return" json:"annual_return"`
	WithdrawalRate      float64    `yaml:"withdrawal_rate,omitempty" json:"withdrawal_rate,omitempty"`
	InflationRate       float64    `yaml:"inflation_rate,omitempty" json:"inflation_rate,omitempty"`
	WithdrawalYears     int        `yaml:"withdrawal_years,omitempty" json:"withdrawal_years,omitempty"`
}

// TrajectoryPoint is the account balance at the start of a given age
type TrajectoryPoint struct {
	Age     int             `json:"age"`
	Balance decimal.Decimal `json:"balance"`
}

// RetirementProjection is the projected growth to retirement and the sustainable draw
type RetirementProjection struct {
	CurrentAge         int               `json:"current_age"`
	RetirementAge      int               `json:"retirement_age"`
	YearsToRetirement  int               `json:"years_to_retirement"`
	Trajectory         []TrajectoryPoint `json:"trajectory"`
	FVCurrentSavings   decimal.Decimal   `json:"fv_current_savings"`
	FVContributions    decimal.Decimal   `json:"fv_contributions"`
	TotalFunds         decimal.Decimal   `json:"total_funds"`
	AnnualWithdrawal   decimal.Decimal   `json:"annual_withdrawal"`
	MonthlyWithdrawal  decimal.Decimal   `json:"monthly_withdrawal"`
	WithdrawalSchedule []decimal.Decimal `json:"withdrawal_schedule,omitempty"`
}
