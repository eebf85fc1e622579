package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestInvoiceCheckTotal(t *testing.T) {
	inv := Invoice{
		InvoiceNumber: "INV-2025-001",
		TotalAmount:   decimal.NewFromInt(700),
		Items: []InvoiceItem{
			{Description: "Maintenance", Amount: decimal.NewFromInt(500)},
			{Description: "Parking", Amount: decimal.NewFromInt(200)},
		},
	}
	assert.NoError(t, inv.CheckTotal())

	inv.TotalAmount = decimal.RequireFromString("700.01")
	err := inv.CheckTotal()
	assert.ErrorIs(t, err, ErrTotalMismatch)
	assert.Contains(t, err.Error(), "INV-2025-001")

	empty := Invoice{TotalAmount: decimal.Zero}
	assert.NoError(t, empty.CheckTotal())
}

func TestMemberBillable(t *testing.T) {
	assert.True(t, Member{Flat: "A-101", Email: "a@example.com"}.Billable())
	assert.False(t, Member{Email: "a@example.com"}.Billable())
	assert.False(t, Member{Flat: "A-101"}.Billable())
	assert.False(t, Member{Flat: "   ", Email: "a@example.com"}.Billable())
	assert.False(t, Member{Flat: "A-101", Email: " \t"}.Billable())
}
