package output

import (
	"strconv"

	money "github.com/rpgo/actuarial-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

// FormatCurrency formats a decimal as USD currency with 2 decimals.
func FormatCurrency(amount decimal.Decimal) string { return "$" + money.NewMoneyFromDecimal(amount).String() }

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// FormatMoney renders a float amount with thousands separators.
func FormatMoney(v float64) string { return money.NewMoney(v).Round().Format() }

// FormatAmount renders a decimal amount with thousands separators.
func FormatAmount(d decimal.Decimal) string { return money.NewMoneyFromDecimal(d).Round().Format() }

// FormatRate renders a fractional rate such as 0.05 as "5.00%".
func FormatRate(rate float64) string {
	return FormatPercentage(decimal.NewFromFloat(rate).Mul(decimal.NewFromInt(100)))
}

func intToString(i int) string { return strconv.Itoa(i) }

func boolToString(b bool) string { return strconv.FormatBool(b) }

func floatToString(f float64, prec int) string { return strconv.FormatFloat(f, 'f', prec, 64) }
