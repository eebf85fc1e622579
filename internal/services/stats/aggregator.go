// Package stats derives dashboard figures from the income/expense ledger.
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"society-billing-backend/internal/models"
	"society-billing-backend/internal/money"
	"society-billing-backend/internal/repository"
)

// LedgerTotals is the part of the ledger store the aggregator reads.
type LedgerTotals interface {
	Totals(ctx context.Context, f repository.LedgerFilter) ([]repository.TypeTotal, error)
}

type Statistics struct {
	TotalIncome       decimal.Decimal
	TotalExpense      decimal.Decimal
	MonthlyIncome     decimal.Decimal
	MonthlyExpense    decimal.Decimal
	TotalTransactions int64
	IncomeTrend       int
	ExpenseTrend      int
	BalanceTrend      int
}

// MonthSummary is one month of a yearly report.
type MonthSummary struct {
	Month   int
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
	Count   int64
}

type Aggregator struct {
	ledger LedgerTotals
	loc    *time.Location
	now    func() time.Time
}

func NewAggregator(ledger LedgerTotals, loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{ledger: ledger, loc: loc, now: time.Now}
}

func (a *Aggregator) WithClock(now func() time.Time) *Aggregator {
	a.now = now
	return a
}

// sums is income, expense and entry count over one window.
type sums struct {
	income  decimal.Decimal
	expense decimal.Decimal
	count   int64
}

func (s sums) balance() decimal.Decimal {
	return s.income.Sub(s.expense)
}

func (a *Aggregator) window(ctx context.Context, memberID *uuid.UUID, from, to time.Time) (sums, error) {
	rows, err := a.ledger.Totals(ctx, repository.LedgerFilter{MemberID: memberID, From: from, To: to})
	if err != nil {
		return sums{}, err
	}
	out := sums{income: decimal.Zero, expense: decimal.Zero}
	for _, r := range rows {
		switch r.Type {
		case models.LedgerIncome:
			out.income = out.income.Add(r.Sum)
		case models.LedgerExpense:
			out.expense = out.expense.Add(r.Sum)
		}
		out.count += r.Count
	}
	out.income = money.Round(out.income)
	out.expense = money.Round(out.expense)
	return out, nil
}

// monthStart is the first instant of the month containing t, in the society's zone.
func (a *Aggregator) monthStart(t time.Time) time.Time {
	t = t.In(a.loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, a.loc)
}

// Stats computes all-time totals, this month's figures and the trend of each
// against last month. A nil memberID covers the whole society.
func (a *Aggregator) Stats(ctx context.Context, memberID *uuid.UUID) (*Statistics, error) {
	thisMonth := a.monthStart(a.now())
	nextMonth := thisMonth.AddDate(0, 1, 0)
	lastMonth := thisMonth.AddDate(0, -1, 0)

	all, err := a.window(ctx, memberID, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("failed to total ledger: %w", err)
	}
	curr, err := a.window(ctx, memberID, thisMonth, nextMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to total current month: %w", err)
	}
	prev, err := a.window(ctx, memberID, lastMonth, thisMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to total previous month: %w", err)
	}

	return &Statistics{
		TotalIncome:       all.income,
		TotalExpense:      all.expense,
		MonthlyIncome:     curr.income,
		MonthlyExpense:    curr.expense,
		TotalTransactions: all.count,
		IncomeTrend:       Trend(curr.income, prev.income),
		ExpenseTrend:      Trend(curr.expense, prev.expense),
		BalanceTrend:      Trend(curr.balance(), prev.balance()),
	}, nil
}

// Monthly returns twelve month summaries for year.
func (a *Aggregator) Monthly(ctx context.Context, year int, memberID *uuid.UUID) ([]MonthSummary, error) {
	out := make([]MonthSummary, 0, 12)
	for m := time.January; m <= time.December; m++ {
		from := time.Date(year, m, 1, 0, 0, 0, 0, a.loc)
		s, err := a.window(ctx, memberID, from, from.AddDate(0, 1, 0))
		if err != nil {
			return nil, fmt.Errorf("failed to total %s %d: %w", m, year, err)
		}
		out = append(out, MonthSummary{
			Month:   int(m),
			Income:  s.income,
			Expense: s.expense,
			Balance: s.balance(),
			Count:   s.count,
		})
	}
	return out, nil
}
