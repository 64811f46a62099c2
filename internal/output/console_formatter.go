package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rpgo/actuarial-calculator/internal/domain"
)

// ConsoleFormatter renders a human-readable summary of a batch run.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(results *domain.BatchResult) ([]byte, error) {
	var buf bytes.Buffer
	title := "FINANCIAL CALCULATIONS"
	if results.Name != "" {
		title += ": " + results.Name
	}
	fmt.Fprintln(&buf, title)
	fmt.Fprintln(&buf, strings.Repeat("=", len(title)))
	if !results.GeneratedAt.IsZero() {
		fmt.Fprintf(&buf, "Generated: %s\n", results.GeneratedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintln(&buf)

	for i, r := range results.Results {
		s := Summarize(r)
		fmt.Fprintf(&buf, "%d. %s [%s]\n", i+1, s.Name, s.Type)
		if r.Failed() {
			fmt.Fprintf(&buf, "   ERROR: %s\n", s.Detail)
			continue
		}
		fmt.Fprintf(&buf, "   %s: %s\n", s.Metric, s.Value)
		if s.Detail != "" {
			fmt.Fprintf(&buf, "   %s\n", s.Detail)
		}
		writeDetail(&buf, r)
	}

	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "%d calculations, %d failed\n", len(results.Results), results.Failures())
	return buf.Bytes(), nil
}

func writeDetail(buf *bytes.Buffer, r domain.CalculationResult) {
	switch {
	case r.Bond != nil && r.BondYield == nil:
		b := r.Bond
		fmt.Fprintf(buf, "   PV coupons %s, PV face %s, Macaulay duration %.4f\n",
			FormatAmount(b.PVCoupons), FormatAmount(b.PVFace), b.MacaulayDuration)
	case r.Retirement != nil:
		p := r.Retirement
		fmt.Fprintf(buf, "   Ages %d to %d: savings grow to %s, contributions to %s\n",
			p.CurrentAge, p.RetirementAge, FormatAmount(p.FVCurrentSavings), FormatAmount(p.FVContributions))
		fmt.Fprintf(buf, "   Monthly withdrawal %s\n", FormatAmount(p.MonthlyWithdrawal))
	case r.Sensitivity != nil:
		for _, p := range r.Sensitivity.Points {
			if !p.OK() {
				fmt.Fprintf(buf, "   %+.4f  %-10s  error: %s\n", p.Shock, floatToString(p.Parameter, 4), p.Error)
				continue
			}
			fmt.Fprintf(buf, "   %+.4f  %-10s  %s\n", p.Shock, floatToString(p.Parameter, 4), FormatMoney(p.Value))
		}
	}
}
