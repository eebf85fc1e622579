package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"society-billing-backend/internal/money"
	"society-billing-backend/internal/services/billing"
	"society-billing-backend/internal/services/stats"
)

type StatsHandler struct {
	aggregator *stats.Aggregator
}

func NewStatsHandler(a *stats.Aggregator) *StatsHandler {
	return &StatsHandler{aggregator: a}
}

// Get answers the dashboard statistics, optionally for one member.
func (h *StatsHandler) Get(c *gin.Context) {
	memberID, ok := queryUUID(c, "member_id")
	if !ok {
		return
	}
	s, err := h.aggregator.Stats(c.Request.Context(), memberID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total_income":       money.JSON(s.TotalIncome),
		"total_expense":      money.JSON(s.TotalExpense),
		"monthly_income":     money.JSON(s.MonthlyIncome),
		"monthly_expense":    money.JSON(s.MonthlyExpense),
		"total_transactions": s.TotalTransactions,
		"income_trend":       s.IncomeTrend,
		"expense_trend":      s.ExpenseTrend,
		"balance_trend":      s.BalanceTrend,
	})
}

// Monthly returns the per-month report of ?year= (default: current year).
func (h *StatsHandler) Monthly(c *gin.Context) {
	year, err := billing.ParseYear(c.DefaultQuery("year", time.Now().Format("2006")))
	if err != nil {
		respondError(c, err)
		return
	}
	memberID, ok := queryUUID(c, "member_id")
	if !ok {
		return
	}

	months, err := h.aggregator.Monthly(c.Request.Context(), year, memberID)
	if err != nil {
		respondError(c, err)
		return
	}
	rows := make([]gin.H, 0, len(months))
	for _, m := range months {
		rows = append(rows, gin.H{
			"month":        m.Month,
			"income":       money.JSON(m.Income),
			"expense":      money.JSON(m.Expense),
			"balance":      money.JSON(m.Balance),
			"transactions": m.Count,
		})
	}
	c.JSON(http.StatusOK, gin.H{"year": year, "months": rows})
}
