package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"society-billing-backend/internal/models"
	"society-billing-backend/internal/repository"
	"society-billing-backend/internal/testutil"
)

func newInvoice(seq int64, name, flat string, month time.Month, total string) *models.Invoice {
	amount := decimal.RequireFromString(total)
	return &models.Invoice{
		InvoiceNumber: fmt.Sprintf("INV-2025-%03d", seq),
		BillingYear:   2025,
		Sequence:      seq,
		MemberID:      uuid.New(),
		MemberName:    name,
		Flat:          flat,
		BillingPeriod: time.Date(2025, month, 1, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2025, month, 15, 0, 0, 0, 0, time.UTC),
		TotalAmount:   amount,
		Status:        models.InvoicePending,
		Items:         []models.InvoiceItem{{Description: "Maintenance", Amount: amount}},
	}
}

func TestInvoiceRepository_CreateAndFilter(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewInvoiceRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateWithItems(ctx, newInvoice(1, "Asha", "A-101", time.March, "700")))
	require.NoError(t, repo.CreateWithItems(ctx, newInvoice(2, "Chitra", "C-301", time.March, "700")))
	require.NoError(t, repo.CreateWithItems(ctx, newInvoice(3, "Asha", "A-101", time.April, "700")))

	err := repo.CreateWithItems(ctx, newInvoice(3, "Dev", "D-401", time.April, "700"))
	assert.True(t, repository.IsDuplicateKey(err), "got %v", err)

	bad := newInvoice(4, "Dev", "D-401", time.April, "700")
	bad.TotalAmount = decimal.NewFromInt(800)
	assert.ErrorIs(t, repo.CreateWithItems(ctx, bad), models.ErrTotalMismatch)

	high, err := repo.MaxSequence(ctx, 2025)
	require.NoError(t, err)
	assert.Equal(t, int64(3), high)
	high, err = repo.MaxSequence(ctx, 2024)
	require.NoError(t, err)
	assert.Zero(t, high)

	march, err := repo.List(ctx, repository.InvoiceFilter{Year: 2025, Month: 3})
	require.NoError(t, err)
	require.Len(t, march, 2)
	assert.Equal(t, "INV-2025-002", march[0].InvoiceNumber, "newest first")

	asha, err := repo.List(ctx, repository.InvoiceFilter{Query: "ASH"})
	require.NoError(t, err)
	assert.Len(t, asha, 2)

	byFlat, err := repo.List(ctx, repository.InvoiceFilter{Query: "c-30"})
	require.NoError(t, err)
	assert.Len(t, byFlat, 1)
}

func TestInvoiceRepository_FindTotalMismatches(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewInvoiceRepository(db)
	ctx := context.Background()

	for i := int64(1); i <= 5; i++ {
		require.NoError(t, repo.CreateWithItems(ctx, newInvoice(i, "Asha", "A-101", time.March, "700")))
	}
	// Corrupt one header behind the repository's back.
	require.NoError(t, db.Model(&models.Invoice{}).Where("sequence = ?", 4).Update("total_amount", "650").Error)

	bad, checked, err := repo.FindTotalMismatches(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, checked)
	require.Len(t, bad, 1)
	assert.Equal(t, "INV-2025-004", bad[0].InvoiceNumber)
}
