package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"society-billing-backend/internal/money"
)

type InvoiceStatus string

const (
	InvoicePending InvoiceStatus = "pending"
	InvoicePaid    InvoiceStatus = "paid"
	InvoiceOverdue InvoiceStatus = "overdue"
)

var ErrTotalMismatch = errors.New("invoice total does not match line items")

type Invoice struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceNumber string          `gorm:"uniqueIndex;not null" json:"invoice_number"`
	BillingYear   int             `gorm:"uniqueIndex:idx_invoice_year_sequence;not null" json:"billing_year"`
	Sequence      int64           `gorm:"uniqueIndex:idx_invoice_year_sequence;not null" json:"sequence"`
	MemberID      uuid.UUID       `gorm:"type:uuid;index;not null" json:"member_id"`
	MemberName    string          `json:"member_name"`
	Flat          string          `gorm:"index" json:"flat"`
	Email         string          `json:"email"`
	BillingPeriod time.Time       `gorm:"index;not null" json:"billing_period"`
	DueDate       time.Time       `json:"due_date"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Status        InvoiceStatus   `gorm:"type:varchar(16);index;not null" json:"status"`
	BillingRunID  *uuid.UUID      `gorm:"type:uuid;index" json:"billing_run_id,omitempty"`
	GeneratedAt   time.Time       `json:"generated_at"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	Items         []InvoiceItem   `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// InvoiceItem is one expanded standard charge. Immutable once written.
type InvoiceItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;index;not null" json:"invoice_id"`
	Description string          `gorm:"not null" json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
}

// ItemsTotal sums the line items.
func (inv *Invoice) ItemsTotal() decimal.Decimal {
	amounts := make([]decimal.Decimal, 0, len(inv.Items))
	for _, it := range inv.Items {
		amounts = append(amounts, it.Amount)
	}
	return money.Sum(amounts...)
}

// CheckTotal returns ErrTotalMismatch when the header total and the items disagree.
func (inv *Invoice) CheckTotal() error {
	items := inv.ItemsTotal()
	if !money.Round(inv.TotalAmount).Equal(items) {
		return fmt.Errorf("%w: %s has total %s, items sum to %s",
			ErrTotalMismatch, inv.InvoiceNumber, inv.TotalAmount.StringFixed(money.Places), items.StringFixed(money.Places))
	}
	return nil
}

// InvoiceSequence is the per-year invoice number counter. LastValue is the
// high-water mark; Version guards compare-and-swap updates.
type InvoiceSequence struct {
	Year      int   `gorm:"primaryKey;autoIncrement:false"`
	LastValue int64 `gorm:"not null;default:0"`
	Version   int64 `gorm:"not null;default:0"`
	UpdatedAt time.Time
}
