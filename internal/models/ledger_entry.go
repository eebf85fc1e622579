package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LedgerType string

const (
	LedgerIncome  LedgerType = "income"
	LedgerExpense LedgerType = "expense"
)

func (t LedgerType) Valid() bool {
	return t == LedgerIncome || t == LedgerExpense
}

// LedgerEntry is one row of the flat income/expense log. Amount is always
// positive; direction lives in Type.
type LedgerEntry struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Type        LedgerType      `gorm:"type:varchar(16);index;not null" json:"type"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `gorm:"column:entry_date;index;not null" json:"date"`
	MemberID    *uuid.UUID      `gorm:"type:uuid;index" json:"member_id,omitempty"`
	CreatedBy   string          `json:"created_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
