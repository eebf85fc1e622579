package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"society-billing-backend/internal/models"
	"society-billing-backend/internal/repository"
	"society-billing-backend/internal/testutil"
)

func TestLedgerRepository_Totals(t *testing.T) {
	repo := repository.NewLedgerRepository(testutil.NewDB(t))
	ctx := context.Background()

	entries := []models.LedgerEntry{
		{Type: models.LedgerIncome, Amount: decimal.RequireFromString("0.10"), Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		{Type: models.LedgerIncome, Amount: decimal.RequireFromString("0.20"), Date: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)},
		{Type: models.LedgerExpense, Amount: decimal.RequireFromString("99.99"), Date: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)},
	}
	require.NoError(t, repo.CreateBatch(ctx, entries))

	rows, err := repo.Totals(ctx, repository.LedgerFilter{})
	require.NoError(t, err)

	byType := map[models.LedgerType]repository.TypeTotal{}
	for _, r := range rows {
		byType[r.Type] = r
	}
	assert.Equal(t, int64(2), byType[models.LedgerIncome].Count)
	assert.Equal(t, "0.30", byType[models.LedgerIncome].Sum.StringFixed(2))
	assert.Equal(t, "99.99", byType[models.LedgerExpense].Sum.StringFixed(2))

	march, err := repo.Totals(ctx, repository.LedgerFilter{
		From: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, march, 1, "upper bound is exclusive")
	assert.Equal(t, models.LedgerIncome, march[0].Type)

	n, err := repo.Delete(ctx, entries[2].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
