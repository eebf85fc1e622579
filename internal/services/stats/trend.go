package stats

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Trend is the whole-percent change from prev to curr, halves rounded away
// from zero. A zero base has no percentage, so it saturates at +100 or -100
// by the sign of curr, and is 0 when both are zero.
func Trend(curr, prev decimal.Decimal) int {
	if !prev.IsZero() {
		pct := curr.Sub(prev).Div(prev.Abs()).Mul(hundred)
		return int(pct.Round(0).IntPart())
	}
	switch curr.Sign() {
	case 1:
		return 100
	case -1:
		return -100
	}
	return 0
}
