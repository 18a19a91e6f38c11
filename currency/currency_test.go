package currency

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestDecimals(t *testing.T) {
	if d := Decimals("BTC"); d != 8 {
		t.Errorf("BTC decimals = %d, want 8", d)
	}
	if d := Decimals("USD"); d != 2 {
		t.Errorf("USD decimals = %d, want 2", d)
	}
	if d := Decimals("EUR"); d != 2 {
		t.Errorf("EUR decimals = %d, want 2", d)
	}
}

func TestToSubUnit(t *testing.T) {
	cases := []struct {
		amount   string
		currency string
		want     int64
	}{
		{"0.12345678", "BTC", 12345678},
		{"100.0000010", "BTC", 10000000100},
		{"100.0000000", "BTC", 10000000000},
		{"123.45", "USD", 12345},
		{"2155.325053", "USD", 215533},
		{"0.02", "USD", 2},
		{"0.00", "USD", 0},
		{"-100.00", "EUR", -10000},
	}
	for _, c := range cases {
		got, err := ParseToSubUnit(c.amount, c.currency)
		if err != nil {
			t.Fatalf("ParseToSubUnit(%q, %q): %v", c.amount, c.currency, err)
		}
		if got != c.want {
			t.Errorf("ParseToSubUnit(%q, %q) = %d, want %d", c.amount, c.currency, got, c.want)
		}
	}
}

func TestParseToSubUnitInvalid(t *testing.T) {
	if _, err := ParseToSubUnit("not-a-number", "USD"); err == nil {
		t.Fatal("expected error for invalid decimal")
	}
}

func TestRoundTrip(t *testing.T) {
	amounts := []int64{0, 1, 2, 99, 100, 12345, 12345678, 10000000100, -54321}
	for _, cur := range []string{"BTC", "USD", "EUR"} {
		for _, a := range amounts {
			if got := ToSubUnit(FromSubUnit(a, cur), cur); got != a {
				t.Errorf("round trip %d %s = %d", a, cur, got)
			}
		}
	}
}

func TestFormatSubUnit(t *testing.T) {
	if s := FormatSubUnit(12345678, "BTC"); s != "0.12345678" {
		t.Errorf("FormatSubUnit BTC = %s", s)
	}
	if s := FormatSubUnit(12345, "USD"); s != "123.45" {
		t.Errorf("FormatSubUnit USD = %s", s)
	}
	if s := FormatSubUnit(-10000, "EUR"); s != "-100.00" {
		t.Errorf("FormatSubUnit EUR = %s", s)
	}
}

func TestNormalize(t *testing.T) {
	if c := Normalize("XBT"); c != "BTC" {
		t.Errorf("Normalize(XBT) = %s", c)
	}
	if c := Normalize("USD"); c != "USD" {
		t.Errorf("Normalize(USD) = %s", c)
	}
	if c := ToExchange("BTC"); c != "XBT" {
		t.Errorf("ToExchange(BTC) = %s", c)
	}
	if c := ToExchange("EUR"); c != "EUR" {
		t.Errorf("ToExchange(EUR) = %s", c)
	}
}

func TestTruncateToTradable(t *testing.T) {
	d := decimal.RequireFromString("12.99990000")
	if got := TruncateToTradable(d); got.String() != "12.9999" {
		t.Errorf("TruncateToTradable = %s", got)
	}
	// Truncation never rounds up
	d = decimal.RequireFromString("0.12345678")
	if got := TruncateToTradable(d); got.String() != "0.1234" {
		t.Errorf("TruncateToTradable = %s", got)
	}
}

func TestRoundPrice(t *testing.T) {
	if got := RoundPrice(decimal.RequireFromString("412.119")); got.String() != "412.12" {
		t.Errorf("RoundPrice = %s", got)
	}
	if got := RoundPrice(decimal.RequireFromString("412.12")); got.String() != "412.12" {
		t.Errorf("RoundPrice = %s", got)
	}
}
