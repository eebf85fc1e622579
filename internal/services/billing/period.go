package billing

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Period is a normalised billing month.
type Period struct {
	Month int
	Year  int
}

// ParsePeriod accepts a month as a number ("3", "03") or a name ("March",
// "mar") and a four digit year.
func ParsePeriod(month, year string) (Period, error) {
	m, err := ParseMonth(month)
	if err != nil {
		return Period{}, err
	}
	y, err := ParseYear(year)
	if err != nil {
		return Period{}, err
	}
	return Period{Month: m, Year: y}, nil
}

func ParseMonth(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: month is required", ErrInvalidPeriod)
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > 12 {
			return 0, fmt.Errorf("%w: month %d out of range", ErrInvalidPeriod, n)
		}
		return n, nil
	}

	name := strings.ToLower(s)
	for m := time.January; m <= time.December; m++ {
		full := strings.ToLower(m.String())
		if name == full || (len(name) >= 3 && strings.HasPrefix(full, name)) {
			return int(m), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown month %q", ErrInvalidPeriod, s)
}

func ParseYear(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: year is required", ErrInvalidPeriod)
	}
	y, err := strconv.Atoi(s)
	if err != nil || y < 2000 || y > 9999 {
		return 0, fmt.Errorf("%w: invalid year %q", ErrInvalidPeriod, s)
	}
	return y, nil
}

// ParseStartNumber defaults to 1 when s is empty.
func ParseStartNumber(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidStartNumber, s)
	}
	return n, nil
}

// Start is the first instant of the period, stored as the billing period.
func (p Period) Start() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// DueDate is the given day of the billing month.
func (p Period) DueDate(day int) time.Time {
	return time.Date(p.Year, time.Month(p.Month), day, 0, 0, 0, 0, time.UTC)
}

func (p Period) String() string {
	return fmt.Sprintf("%s %d", time.Month(p.Month), p.Year)
}

// FormatInvoiceNumber renders INV-<year>-<sequence>, sequence padded to three digits.
func FormatInvoiceNumber(year int, seq int64) string {
	return fmt.Sprintf("INV-%d-%03d", year, seq)
}
