// Package money holds the decimal helpers shared by every component that
// touches amounts. Binary floating point is never used for money.
package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of decimal places amounts are stored and shown with.
const Places = 2

var ErrInvalidAmount = errors.New("invalid amount")

// Round rounds d to storage precision.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Sum adds the given amounts and rounds the result.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return Round(total)
}

// Parse reads a user supplied amount such as "1,250.50" or "₹700".
func Parse(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "₹")
	clean = strings.ReplaceAll(clean, ",", "")
	if clean == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return Round(d), nil
}

// Positive reports whether d is strictly greater than zero.
func Positive(d decimal.Decimal) bool {
	return d.Sign() > 0
}

// JSON renders d as a bare JSON number with two decimals.
func JSON(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(Places))
}
