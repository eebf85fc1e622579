package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"society-billing-backend/internal/models"
)

type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) Create(ctx context.Context, e *models.LedgerEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.Date = e.Date.UTC()
	return r.db.WithContext(ctx).Create(e).Error
}

// CreateBatch inserts entries in one transaction.
func (r *LedgerRepository) CreateBatch(ctx context.Context, entries []models.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	for i := range entries {
		if entries[i].ID == uuid.Nil {
			entries[i].ID = uuid.New()
		}
		entries[i].Date = entries[i].Date.UTC()
	}
	return r.db.WithContext(ctx).CreateInBatches(entries, 100).Error
}

// Delete removes an entry and reports how many rows went away.
func (r *LedgerRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.LedgerEntry{}, "id = ?", id)
	return result.RowsAffected, result.Error
}

// LedgerFilter narrows ledger reads. Zero From/To leave that side open;
// To is exclusive.
type LedgerFilter struct {
	Type     models.LedgerType
	MemberID *uuid.UUID
	From     time.Time
	To       time.Time
	Limit    int
}

func (f LedgerFilter) apply(q *gorm.DB) *gorm.DB {
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.MemberID != nil {
		q = q.Where("member_id = ?", *f.MemberID)
	}
	if !f.From.IsZero() {
		q = q.Where("entry_date >= ?", f.From.UTC())
	}
	if !f.To.IsZero() {
		q = q.Where("entry_date < ?", f.To.UTC())
	}
	return q
}

func (r *LedgerRepository) List(ctx context.Context, f LedgerFilter) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	q := f.apply(r.db.WithContext(ctx).Model(&models.LedgerEntry{}))
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	err := q.Order("entry_date DESC, created_at DESC").Find(&entries).Error
	return entries, err
}

type TypeTotal struct {
	Type  models.LedgerType
	Count int64
	Sum   decimal.Decimal
}

// Totals sums amounts per entry type for entries matching f.
func (r *LedgerRepository) Totals(ctx context.Context, f LedgerFilter) ([]TypeTotal, error) {
	var rows []TypeTotal
	err := f.apply(r.db.WithContext(ctx).Model(&models.LedgerEntry{})).
		Select("type, COUNT(*) as count, COALESCE(SUM(amount),0) as sum").
		Group("type").
		Scan(&rows).Error
	return rows, err
}
