package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"700", "700.00"},
		{"₹700", "700.00"},
		{" 1,250.50 ", "1250.50"},
		{"0.005", "0.01"},
		{"-12.344", "-12.34"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.StringFixed(Places))
		})
	}

	for _, bad := range []string{"", "  ", "abc", "₹"} {
		_, err := Parse(bad)
		assert.ErrorIs(t, err, ErrInvalidAmount, bad)
	}
}

func TestSumAvoidsFloatDrift(t *testing.T) {
	var amounts []decimal.Decimal
	for i := 0; i < 10; i++ {
		amounts = append(amounts, decimal.RequireFromString("0.1"))
	}
	assert.True(t, Sum(amounts...).Equal(decimal.NewFromInt(1)))
	assert.True(t, Sum().IsZero())
}

func TestJSON(t *testing.T) {
	assert.Equal(t, "700.00", JSON(decimal.NewFromInt(700)).String())
	assert.Equal(t, "0.30", JSON(decimal.RequireFromString("0.3")).String())
}
