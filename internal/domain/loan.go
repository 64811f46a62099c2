package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanRequest describes a level-payment monthly loan. ExtraPayment is an additional
// principal amount paid every month on top of the scheduled payment.
type LoanRequest struct {
	Principal        float64    `yaml:"principal" json:"principal"`
	AnnualRate       float64    `yaml:"annual_rate" json:"annual_rate"`
	Years            int        `yaml:"years" json:"years"`
	ExtraPayment     float64    `yaml:"extra_payment,omitempty" json:"extra_payment,omitempty"`
	FirstPaymentDate *time.Time `yaml:"first_payment_date,omitempty" json:"first_payment_date,omitempty"`
}

// MonthlyRate returns the annual rate divided by twelve
func (l LoanRequest) MonthlyRate() float64 {
	return l.AnnualRate / 12
}

// NumPayments returns the contractual number of monthly payments
func (l LoanRequest) NumPayments() int {
	return l.Years * 12
}

// AmortizationRow is one recorded period of a schedule; money fields are rounded to cents
type AmortizationRow struct {
	Period           int             `json:"period"`
	DueDate          *time.Time      `json:"due_date,omitempty"`
	BeginningBalance decimal.Decimal `json:"beginning_balance"`
	Payment          decimal.Decimal `json:"payment"`
	Interest         decimal.Decimal `json:"interest"`
	Principal        decimal.Decimal `json:"principal"`
	EndingBalance    decimal.Decimal `json:"ending_balance"`
}

// AmortizationSchedule is the chronological list of rows plus payoff totals
type AmortizationSchedule struct {
	Rows           []AmortizationRow `json:"rows"`
	MonthlyPayment decimal.Decimal   `json:"monthly_payment"`
	ExtraPayment   decimal.Decimal   `json:"extra_payment"`
	Months         int               `json:"months"`
	Years          float64           `json:"years"`
	TotalPaid      decimal.Decimal   `json:"total_paid"`
	TotalInterest  decimal.Decimal   `json:"total_interest"`
	PayoffDate     *time.Time        `json:"payoff_date,omitempty"`
	// Truncated is set when the period cap stopped the schedule before the balance reached zero
	Truncated bool `json:"truncated"`
}

// FinalRow returns the last row of the schedule, or a zero row for an empty schedule
func (s AmortizationSchedule) FinalRow() AmortizationRow {
	if len(s.Rows) == 0 {
		return AmortizationRow{}
	}
	return s.Rows[len(s.Rows)-1]
}

// PayoffComparison sets an extra-payment schedule against the standard one
type PayoffComparison struct {
	Standard      AmortizationSchedule `json:"standard"`
	Accelerated   AmortizationSchedule `json:"accelerated"`
	MonthsSaved   int                  `json:"months_saved"`
	YearsSaved    float64              `json:"years_saved"`
	InterestSaved decimal.Decimal      `json:"interest_saved"`
}
