package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Member is a resident on the society roster. Invoices and ledger entries
// refer to members by ID only.
type Member struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"index;not null" json:"name"`
	Flat      string    `gorm:"index" json:"flat"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Active    bool      `gorm:"index;not null" json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Billable reports whether the record carries what an invoice needs.
func (m Member) Billable() bool {
	return strings.TrimSpace(m.Flat) != "" && strings.TrimSpace(m.Email) != ""
}
