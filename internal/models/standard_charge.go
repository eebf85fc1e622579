package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type StandardCharge struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Description string          `gorm:"not null" json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Active      bool            `gorm:"index;not null" json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
}
