package decimal

import (
	"testing"

	stddec "github.com/shopspring/decimal"
)

func TestConstructors(t *testing.T) {
	m := NewMoney(12.345)
	if m.String() != "12.35" { // rounded for display
		t.Fatalf("NewMoney display mismatch: got %s", m.String())
	}

	d := stddec.NewFromFloat(10.125)
	m2 := NewMoneyFromDecimal(d)
	if !m2.Decimal.Equal(d) {
		t.Fatalf("NewMoneyFromDecimal mismatch: got %s want %s", m2.Decimal, d)
	}
}

func TestCents(t *testing.T) {
	cases := []struct {
		in  float64
		out string
	}{
		{599.5505251527569, "599.55"},
		{0.004, "0.00"},
		{-0.000000001, "0.00"},
		{1283.3586785035118, "1283.36"},
	}
	for _, c := range cases {
		if got := Cents(c.in).StringFixed(2); got != c.out {
			t.Fatalf("Cents(%v) got %s want %s", c.in, got, c.out)
		}
	}
}

func TestMonthly(t *testing.T) {
	if got := NewMoney(1200).Monthly().String(); got != "100.00" {
		t.Fatalf("Monthly got %s", got)
	}
	if got := NewMoney(448).Monthly().Decimal.StringFixed(4); got != "37.3333" {
		t.Fatalf("Monthly got %s", got)
	}
}

func TestSum(t *testing.T) {
	if got := Sum(stddec.NewFromFloat(10.10), stddec.NewFromFloat(5.05), stddec.NewFromInt(1)).StringFixed(2); got != "16.15" {
		t.Fatalf("Sum got %s", got)
	}
	if !Sum().IsZero() {
		t.Fatalf("empty Sum should be zero")
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		in  float64
		out string
	}{
		{1234.5, "$1,234.50"},
		{13180.7949, "$13,180.79"},
		{999, "$999.00"},
		{1000000, "$1,000,000.00"},
		{-2500.1, "-$2,500.10"},
		{0, "$0.00"},
	}
	for _, c := range cases {
		if got := NewMoney(c.in).Format(); got != c.out {
			t.Fatalf("Format(%v) got %s want %s", c.in, got, c.out)
		}
	}
}
