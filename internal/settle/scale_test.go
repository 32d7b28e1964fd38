package settle

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestScaleToMinor(t *testing.T) {
	cases := []struct {
		amount string
		want   string
	}{
		{"100", "100000000"},
		{"0.01", "10000"},
		{"999999.99", "999999990000"},
		{"0", "0"},
		{"0.000001", "1"},
		// Precision beyond the 6th decimal truncates, never rounds up.
		{"0.0000019", "1"},
		{"1.9999999", "1999999"},
		{"12.3456789", "12345678"},
	}
	for _, tc := range cases {
		amount, err := decimal.NewFromString(tc.amount)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.amount, err)
		}
		if got := ScaleToMinor(amount).String(); got != tc.want {
			t.Fatalf("ScaleToMinor(%s) = %s, want %s", tc.amount, got, tc.want)
		}
	}
}
