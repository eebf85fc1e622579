package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

type Payment struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceID uuid.UUID       `gorm:"type:uuid;index;not null" json:"invoice_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Method    string          `gorm:"type:varchar(32)" json:"method"`
	PaidOn    time.Time       `json:"paid_on"`
	Reference string          `json:"reference,omitempty"`
	Status    PaymentStatus   `gorm:"type:varchar(16);index;not null" json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
