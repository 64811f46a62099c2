//go:build unit

package output

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatCurrency(t *testing.T) {
	v := decimal.NewFromFloat(1234.567)
	got := FormatCurrency(v)
	want := "$1234.57"
	if got != want {
		t.Errorf("FormatCurrency(%v) = %q, want %q", v, got, want)
	}
}

func TestFormatPercentage(t *testing.T) {
	v := decimal.NewFromFloat(12.3456)
	got := FormatPercentage(v)
	want := "12.35%"
	if got != want {
		t.Errorf("FormatPercentage(%v) = %q, want %q", v, got, want)
	}
}

func TestFormatMoneyAndRate(t *testing.T) {
	if got, want := FormatMoney(1628894.6267), "$1,628,894.63"; got != want {
		t.Errorf("FormatMoney = %q, want %q", got, want)
	}
	if got, want := FormatRate(0.055), "5.50%"; got != want {
		t.Errorf("FormatRate = %q, want %q", got, want)
	}
}

func TestFormatAmount(t *testing.T) {
	if got, want := FormatAmount(decimal.RequireFromString("-1081.755")), "-$1,081.76"; got != want {
		t.Errorf("FormatAmount = %q, want %q", got, want)
	}
}
