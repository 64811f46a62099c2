package calculation

import (
	"math"
	"time"

	"github.com/rpgo/actuarial-calculator/internal/domain"
	"github.com/rpgo/actuarial-calculator/pkg/dateutil"
	money "github.com/rpgo/actuarial-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

const (
	// MaxExtraPaymentPeriods bounds the extra-payment loop for inputs that never amortize.
	// A schedule cut by it is returned with Truncated set.
	MaxExtraPaymentPeriods = 1000
	payoffEpsilon          = 0.01
)

// MonthlyPayment is the level payment P·i(1+i)^N / ((1+i)^N - 1) with i the
// monthly rate and N the number of monthly payments
func MonthlyPayment(req domain.LoanRequest) (float64, error) {
	const op = "loan.payment"
	n := req.NumPayments()
	if n <= 0 {
		return 0, domainErr(op, "loan term must be at least one month, got %d years", req.Years)
	}
	i := req.MonthlyRate()
	if i == 0 {
		return 0, domainErr(op, "monthly rate is zero")
	}
	g := math.Pow(1+i, float64(n))
	return req.Principal * (i * g) / (g - 1), nil
}

type rowRecorder struct {
	first *time.Time
	rows  []domain.AmortizationRow
}

func (r *rowRecorder) record(period int, begin, payment, interest, principal, end float64) {
	row := domain.AmortizationRow{
		Period:           period,
		BeginningBalance: money.Cents(begin),
		Payment:          money.Cents(payment),
		Interest:         money.Cents(interest),
		Principal:        money.Cents(principal),
		EndingBalance:    money.Cents(end),
	}
	if r.first != nil {
		due := dateutil.PaymentDate(*r.first, period)
		row.DueDate = &due
	}
	r.rows = append(r.rows, row)
}

func (r *rowRecorder) payoffDate() *time.Time {
	if len(r.rows) == 0 {
		return nil
	}
	return r.rows[len(r.rows)-1].DueDate
}

// FixedSchedule amortizes the loan over exactly Years×12 level payments
func FixedSchedule(req domain.LoanRequest) (domain.AmortizationSchedule, error) {
	pmt, err := MonthlyPayment(req)
	if err != nil {
		return domain.AmortizationSchedule{}, err
	}
	i := req.MonthlyRate()
	n := req.NumPayments()

	rec := &rowRecorder{first: req.FirstPaymentDate, rows: make([]domain.AmortizationRow, 0, n)}
	balance := req.Principal
	for period := 1; period <= n; period++ {
		interest := balance * i
		principal := pmt - interest
		begin := balance
		balance -= principal
		rec.record(period, begin, pmt, interest, principal, balance)
	}

	totalPaid := pmt * float64(n)
	return domain.AmortizationSchedule{
		Rows:           rec.rows,
		MonthlyPayment: money.Cents(pmt),
		ExtraPayment:   decimal.Zero,
		Months:         n,
		Years:          float64(n) / 12,
		TotalPaid:      money.Cents(totalPaid),
		TotalInterest:  money.Cents(totalPaid - req.Principal),
		PayoffDate:     rec.payoffDate(),
	}, nil
}

// ExtraPaymentSchedule pays the scheduled payment plus ExtraPayment each month
// until the balance reaches zero or MaxExtraPaymentPeriods is hit. The principal
// portion never exceeds the outstanding balance, and a residual under one cent
// is folded into the final period so its ending balance is exactly zero.
func ExtraPaymentSchedule(req domain.LoanRequest) (domain.AmortizationSchedule, error) {
	pmt, err := MonthlyPayment(req)
	if err != nil {
		return domain.AmortizationSchedule{}, err
	}
	i := req.MonthlyRate()
	total := pmt + req.ExtraPayment

	rec := &rowRecorder{first: req.FirstPaymentDate}
	balance := req.Principal
	var paid, interestPaid float64
	for period := 1; balance > 0 && period <= MaxExtraPaymentPeriods; period++ {
		interest := balance * i
		principal := math.Min(total-interest, balance)
		payment := total
		begin := balance
		balance -= principal
		if balance < payoffEpsilon {
			principal += balance
			balance = 0
			payment = interest + principal
		}
		paid += payment
		interestPaid += interest
		rec.record(period, begin, payment, interest, principal, balance)
	}

	months := len(rec.rows)
	return domain.AmortizationSchedule{
		Rows:           rec.rows,
		MonthlyPayment: money.Cents(pmt),
		ExtraPayment:   money.Cents(req.ExtraPayment),
		Months:         months,
		Years:          float64(months) / 12,
		TotalPaid:      money.Cents(paid),
		TotalInterest:  money.Cents(interestPaid),
		PayoffDate:     rec.payoffDate(),
		Truncated:      balance > 0,
	}, nil
}

// CompareExtraPayment builds both schedules and reports the time and interest saved
func CompareExtraPayment(req domain.LoanRequest) (domain.PayoffComparison, error) {
	standard, err := FixedSchedule(req)
	if err != nil {
		return domain.PayoffComparison{}, err
	}
	accelerated, err := ExtraPaymentSchedule(req)
	if err != nil {
		return domain.PayoffComparison{}, err
	}
	monthsSaved := standard.Months - accelerated.Months
	return domain.PayoffComparison{
		Standard:      standard,
		Accelerated:   accelerated,
		MonthsSaved:   monthsSaved,
		YearsSaved:    float64(monthsSaved) / 12,
		InterestSaved: standard.TotalInterest.Sub(accelerated.TotalInterest),
	}, nil
}
