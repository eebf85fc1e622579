package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type BillingRunStatus string

const (
	RunProcessing BillingRunStatus = "processing"
	RunCompleted  BillingRunStatus = "completed"
	RunFailed     BillingRunStatus = "failed"
)

// BillingRun records one invocation of the invoice generator so operators
// can see billed vs skipped members after the fact.
type BillingRun struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Month           int              `gorm:"index:idx_billing_run_period" json:"month"`
	Year            int              `gorm:"index:idx_billing_run_period" json:"year"`
	StartNumber     int64            `json:"start_number"`
	Status          BillingRunStatus `gorm:"type:varchar(16);index" json:"status"`
	ConsideredCount int              `json:"considered_count"`
	BilledCount     int              `json:"billed_count"`
	SkippedCount    int              `json:"skipped_count"`
	FirstNumber     string           `json:"first_number,omitempty"`
	LastNumber      string           `json:"last_number,omitempty"`
	Skipped         datatypes.JSON   `json:"skipped,omitempty"`
	Error           string           `json:"error,omitempty"`
	StartedAt       time.Time        `json:"started_at"`
	CompletedAt     *time.Time       `json:"completed_at,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

// SkippedMember explains why a member got no invoice in a run.
type SkippedMember struct {
	MemberID   uuid.UUID `json:"member_id"`
	MemberName string    `json:"member_name"`
	Reason     string    `json:"reason"`
}
