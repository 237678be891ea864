package format

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		amount string
		symbol string
		rtl    bool
		want   string
	}{
		{name: "usd prefix", amount: "24", symbol: "$", want: "$24.00"},
		{name: "sar prefix", amount: "90", symbol: "﷼", want: "﷼90.00"},
		{name: "rtl suffix", amount: "90", symbol: "﷼", rtl: true, want: "90.00 ﷼"},
		{name: "rounds half away from zero", amount: "2.345", symbol: "$", want: "$2.35"},
		{name: "thousands", amount: "1234567.5", symbol: "$", want: "$1,234,567.50"},
		{name: "negative", amount: "-3.5", symbol: "$", want: "-$3.50"},
		{name: "zero", amount: "0", symbol: "$", want: "$0.00"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Price(decimal.RequireFromString(tc.amount), tc.symbol, tc.rtl)
			if got != tc.want {
				t.Fatalf("Price(%s) = %q, want %q", tc.amount, got, tc.want)
			}
		})
	}
}

func TestDate(t *testing.T) {
	d := time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC)
	if got := Date(d, "en"); got != "Mar 9, 2025" {
		t.Fatalf("unexpected en date %q", got)
	}
	if got := Date(d, "ar"); got != "2025/03/09" {
		t.Fatalf("unexpected ar date %q", got)
	}
}
