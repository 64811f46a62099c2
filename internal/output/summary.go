package output

import (
	"fmt"

	"github.com/rpgo/actuarial-calculator/internal/domain"
)

// Summary is the one-line headline of a calculation result, shared by the
// console, CSV and HTML formatters.
type Summary struct {
	Name   string
	Type   domain.CalculationType
	Status string
	Metric string
	Value  string
	Detail string
}

// Summarize picks the headline figure of a result.
func Summarize(r domain.CalculationResult) Summary {
	s := Summary{Name: r.Name, Type: r.Type, Status: "ok"}
	if r.Failed() {
		s.Status = "failed"
		s.Detail = r.Error
		return s
	}

	switch {
	case r.TVM != nil:
		s.Metric, s.Value, s.Detail = summarizeTVM(*r.TVM)
	case r.Annuity != nil:
		s.Metric = "Present value"
		s.Value = FormatAmount(r.Annuity.PresentValue)
		s.Detail = fmt.Sprintf("%s annuity, future value %s", r.Annuity.Kind, FormatAmount(r.Annuity.FutureValue))
	case r.BondYield != nil:
		s.Metric = "Yield to maturity"
		s.Value = FormatRate(r.BondYield.YieldToMaturity)
		s.Detail = fmt.Sprintf("%s after %d iterations", r.BondYield.Method, r.BondYield.Iterations)
	case r.Bond != nil:
		s.Metric = "Price"
		s.Value = FormatAmount(r.Bond.Price)
		s.Detail = fmt.Sprintf("%s, modified duration %.4f", r.Bond.Classification, r.Bond.ModifiedDuration)
	case r.Loan != nil:
		s.Metric = "Monthly payment"
		s.Value = FormatCurrency(r.Loan.MonthlyPayment)
		s.Detail = fmt.Sprintf("%d months, total interest %s", r.Loan.Months, FormatCurrency(r.Loan.TotalInterest))
		if r.Payoff != nil {
			s.Detail = fmt.Sprintf("%d months saved, interest saved %s", r.Payoff.MonthsSaved, FormatCurrency(r.Payoff.InterestSaved))
		}
		if r.Loan.Truncated {
			s.Detail += " (schedule truncated)"
		}
	case r.Retirement != nil:
		s.Metric = "Total funds at retirement"
		s.Value = FormatAmount(r.Retirement.TotalFunds)
		s.Detail = fmt.Sprintf("annual withdrawal %s", FormatAmount(r.Retirement.AnnualWithdrawal))
	case r.Sensitivity != nil:
		s.Metric = "Base value"
		s.Value = FormatMoney(r.Sensitivity.Base)
		s.Detail = fmt.Sprintf("%s over %d points, %d failed", r.Sensitivity.Target, len(r.Sensitivity.Points), r.Sensitivity.Failures())
	}
	return s
}

func summarizeTVM(t domain.TVMResult) (metric, value, detail string) {
	switch t.Solved {
	case domain.SolveForFV:
		return "Future value", tvmAmount(t), ""
	case domain.SolveForPV:
		return "Present value", tvmAmount(t), ""
	case domain.SolveForRate:
		if t.Rate != nil && !t.Rate.Converged {
			detail = fmt.Sprintf("not converged after %d iterations", t.Rate.Iterations)
		}
		return "Annual rate", FormatRate(t.Value), detail
	case domain.SolveForPeriods:
		if t.Periods != nil {
			detail = fmt.Sprintf("%s periods", floatToString(t.Periods.Periods, 2))
		}
		return "Years", floatToString(t.Value, 2), detail
	}
	return string(t.Solved), floatToString(t.Value, 6), ""
}

func tvmAmount(t domain.TVMResult) string {
	if t.Amount != nil {
		return FormatAmount(*t.Amount)
	}
	return FormatMoney(t.Value)
}
