package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/rpgo/actuarial-calculator/internal/calculation"
	"github.com/rpgo/actuarial-calculator/internal/domain"
	"github.com/rpgo/actuarial-calculator/internal/output"
)

const dateLayout = "2006-01-02"

func newTVMCmd(a *app) *cobra.Command {
	var (
		req     domain.TVMRequest
		solve   string
		rate    float64
		payment float64
		timing  string
		series  string
	)
	cmd := &cobra.Command{
		Use:   "tvm",
		Short: "Solve a time-value-of-money problem",
		Example: `  actcalc tvm --solve fv --pv 1000 --rate 5 --years 10 --m 1
  actcalc tvm --solve rate --pv 1000 --fv 2000 --years 10
  actcalc tvm --solve fv --pv 0.01 --pmt 100 --timing begin --rate 6 --years 30`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Solve = domain.TVMUnknown(solve)
			req.AnnualRate = pct(rate)
			if payment != 0 {
				req.Payment = &domain.PaymentStream{Amount: payment, Timing: domain.PaymentTiming(timing)}
			}
			if _, err := a.evaluate(cmd, domain.Calculation{Name: "tvm", Type: domain.CalcTVM, TVM: &req}); err != nil {
				return err
			}
			if series == "" {
				return nil
			}
			points, err := calculation.TVMGrowthSeries(req, domain.GrowthMode(series))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "\nYear  Value")
			for _, p := range points {
				fmt.Fprintf(cmd.OutOrStdout(), "%4s  %s\n", strconv.FormatFloat(p.X, 'f', -1, 64), output.FormatAmount(p.Value))
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&solve, "solve", "fv", "quantity to solve for (fv, pv, rate, periods)")
	f.Float64Var(&req.PresentValue, "pv", 0, "present value")
	f.Float64Var(&req.FutureValue, "fv", 0, "future value")
	f.Float64Var(&rate, "rate", 0, "nominal annual rate in percent")
	f.Float64Var(&req.Years, "years", 0, "term in years")
	f.IntVar(&req.PeriodsPerYear, "m", 12, "compounding periods per year")
	f.Float64Var(&payment, "pmt", 0, "level payment per period")
	f.StringVar(&timing, "timing", string(domain.TimingEnd), "payment timing (end, begin)")
	f.StringVar(&series, "series", "", "also print a yearly growth series (fv, pv)")
	return cmd
}

func newAnnuityCmd(a *app) *cobra.Command {
	var (
		req          domain.AnnuityRequest
		kind         string
		rate, growth float64
	)
	cmd := &cobra.Command{
		Use:   "annuity",
		Short: "Value an immediate, due, growing or deferred annuity",
		Example: `  actcalc annuity --payment 1000 --rate 6 --periods 10
  actcalc annuity --kind growing --payment 1000 --rate 6 --growth 3 --periods 20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Kind = domain.AnnuityKind(kind)
			req.Rate = pct(rate)
			req.Growth = pct(growth)
			_, err := a.evaluate(cmd, domain.Calculation{Name: "annuity", Type: domain.CalcAnnuity, Annuity: &req})
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&kind, "kind", string(domain.AnnuityImmediate), "annuity kind (immediate, due, growing, deferred)")
	f.Float64Var(&req.Payment, "payment", 0, "payment per period")
	f.Float64Var(&rate, "rate", 0, "rate per period in percent")
	f.Float64Var(&growth, "growth", 0, "payment growth per period in percent (growing only)")
	f.IntVar(&req.Periods, "periods", 0, "number of payments")
	f.IntVar(&req.DeferralPeriods, "deferral", 0, "periods before the first payment (deferred only)")
	return cmd
}

func newBondCmd(a *app) *cobra.Command {
	var (
		spec        domain.BondSpec
		coupon, ytm float64
		marketPrice float64
	)
	cmd := &cobra.Command{
		Use:   "bond",
		Short: "Price a bond, or solve its yield from a market price",
		Example: `  actcalc bond --face 1000 --coupon 5 --years 10 --ytm 4
  actcalc bond --face 1000 --coupon 5 --years 10 --price 950`,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec.CouponRate = pct(coupon)
			spec.YieldToMaturity = pct(ytm)
			_, err := a.evaluate(cmd, domain.Calculation{Name: "bond", Type: domain.CalcBond, Bond: &spec, MarketPrice: marketPrice})
			return err
		},
	}
	f := cmd.Flags()
	f.Float64Var(&spec.FaceValue, "face", 1000, "face value")
	f.Float64Var(&coupon, "coupon", 0, "annual coupon rate in percent")
	f.IntVar(&spec.YearsToMaturity, "years", 0, "years to maturity")
	f.Float64Var(&ytm, "ytm", 0, "annual yield to maturity in percent")
	f.IntVar(&spec.CouponFrequency, "freq", 2, "coupons per year (1, 2, 4, 12)")
	f.Float64Var(&marketPrice, "price", 0, "market price; when set the yield is solved")
	return cmd
}

func newLoanCmd(a *app) *cobra.Command {
	var (
		req          domain.LoanRequest
		rate         float64
		firstPayment string
		schedule     bool
		csvPath      string
	)
	cmd := &cobra.Command{
		Use:   "loan",
		Short: "Build a loan amortization schedule",
		Example: `  actcalc loan --principal 100000 --rate 6 --years 30
  actcalc loan --principal 100000 --rate 6 --years 30 --extra 200 --csv schedule.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.AnnualRate = pct(rate)
			if firstPayment != "" {
				t, err := time.Parse(dateLayout, firstPayment)
				if err != nil {
					return fmt.Errorf("invalid --first-payment %q: %w", firstPayment, err)
				}
				req.FirstPaymentDate = &t
			}
			res, err := a.evaluate(cmd, domain.Calculation{Name: "loan", Type: domain.CalcLoan, Loan: &req})
			if err != nil {
				return err
			}
			if !schedule && csvPath == "" {
				return nil
			}
			data, err := output.AmortizationCSV(*res.Loan)
			if err != nil {
				return err
			}
			if csvPath != "" {
				return writeFile(csvPath, data)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	f := cmd.Flags()
	f.Float64Var(&req.Principal, "principal", 0, "amount borrowed")
	f.Float64Var(&rate, "rate", 0, "annual interest rate in percent")
	f.IntVar(&req.Years, "years", 30, "loan term in years")
	f.Float64Var(&req.ExtraPayment, "extra", 0, "extra principal paid every month")
	f.StringVar(&firstPayment, "first-payment", "", "first payment date (YYYY-MM-DD)")
	f.BoolVar(&schedule, "schedule", false, "print the full schedule as CSV")
	f.StringVar(&csvPath, "csv", "", "write the schedule to a CSV file")
	return cmd
}

func newRetireCmd(a *app) *cobra.Command {
	var (
		req          domain.RetirementRequest
		birthDate    string
		annualReturn float64
		withdrawal   float64
		inflation    float64
	)
	cmd := &cobra.Command{
		Use:     "retire",
		Aliases: []string{"retirement"},
		Short:   "Project savings to retirement and the sustainable withdrawal",
		Example: `  actcalc retire --age 35 --retire-age 65 --savings 50000 --contribution 500 --return 7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if birthDate != "" {
				t, err := time.Parse(dateLayout, birthDate)
				if err != nil {
					return fmt.Errorf("invalid --birth-date %q: %w", birthDate, err)
				}
				req.BirthDate = &t
			}
			req.AnnualReturn = pct(annualReturn)
			req.WithdrawalRate = pct(withdrawal)
			req.InflationRate = pct(inflation)
			_, err := a.evaluate(cmd, domain.Calculation{Name: "retirement", Type: domain.CalcRetirement, Retirement: &req})
			return err
		},
	}
	f := cmd.Flags()
	f.IntVar(&req.CurrentAge, "age", 0, "current age")
	f.StringVar(&birthDate, "birth-date", "", "birth date (YYYY-MM-DD), used when --age is not set")
	f.IntVar(&req.RetirementAge, "retire-age", 65, "retirement age")
	f.Float64Var(&req.CurrentSavings, "savings", 0, "current savings")
	f.Float64Var(&req.MonthlyContribution, "contribution", 0, "monthly contribution")
	f.Float64Var(&annualReturn, "return", 7, "expected annual return in percent")
	f.Float64Var(&withdrawal, "withdrawal-rate", 4, "initial withdrawal rate in percent")
	f.Float64Var(&inflation, "inflation", 0, "inflation applied to withdrawals in percent")
	f.IntVar(&req.WithdrawalYears, "withdrawal-years", 0, "years of inflation-adjusted withdrawals to list")
	return cmd
}
