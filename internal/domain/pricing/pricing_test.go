package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	cases := []struct {
		subtotal string
		tax      string
		total    string
	}{
		{"58.49", "12.28", "70.77"},
		{"0", "0.00", "0.00"},
		{"100", "21.00", "121.00"},
		// 0.5 * 0.21 = 0.105 -> 0.11 (half-up)
		{"0.50", "0.11", "0.61"},
		{"45.99", "9.66", "55.65"},
	}

	for _, tc := range cases {
		t.Run(tc.subtotal, func(t *testing.T) {
			s := Summarize(decimal.RequireFromString(tc.subtotal))
			assert.Equal(t, tc.tax, Format(s.Tax))
			assert.Equal(t, tc.total, Format(s.Total))
			assert.True(t, s.Total.Equal(s.Subtotal.Add(s.Tax)))
		})
	}
}

func TestLineTotal(t *testing.T) {
	got := LineTotal(decimal.RequireFromString("0.10"), 3)
	assert.Equal(t, "0.30", Format(got))
}
