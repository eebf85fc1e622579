package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"society-billing-backend/internal/models"
)

type SequenceRepository struct {
	db *gorm.DB
}

func NewSequenceRepository(db *gorm.DB) *SequenceRepository {
	return &SequenceRepository{db: db}
}

func (r *SequenceRepository) WithTx(tx *gorm.DB) *SequenceRepository {
	return &SequenceRepository{db: tx}
}

func (r *SequenceRepository) Get(ctx context.Context, year int) (*models.InvoiceSequence, error) {
	var seq models.InvoiceSequence
	if err := r.db.WithContext(ctx).First(&seq, "year = ?", year).Error; err != nil {
		return nil, err
	}
	return &seq, nil
}

// CreateIfMissing inserts the counter row for year seeded at lastValue. An
// existing row is left untouched.
func (r *SequenceRepository) CreateIfMissing(ctx context.Context, year int, lastValue int64) error {
	seq := &models.InvoiceSequence{
		Year:      year,
		LastValue: lastValue,
		UpdatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(seq).Error
}

// CompareAndSwap advances the counter to value when its version still equals
// version. It reports false when another writer got there first.
func (r *SequenceRepository) CompareAndSwap(ctx context.Context, year int, version, value int64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.InvoiceSequence{}).
		Where("year = ? AND version = ?", year, version).
		Updates(map[string]interface{}{
			"last_value": value,
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
