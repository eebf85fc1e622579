package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"society-billing-backend/internal/models"
)

type BillingRunRepository struct {
	db *gorm.DB
}

func NewBillingRunRepository(db *gorm.DB) *BillingRunRepository {
	return &BillingRunRepository{db: db}
}

func (r *BillingRunRepository) Create(ctx context.Context, run *models.BillingRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(run).Error
}

// Save persists the final counters and status of a run.
func (r *BillingRunRepository) Save(ctx context.Context, run *models.BillingRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

func (r *BillingRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BillingRun, error) {
	var run models.BillingRun
	if err := r.db.WithContext(ctx).First(&run, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *BillingRunRepository) List(ctx context.Context, limit int) ([]models.BillingRun, error) {
	var runs []models.BillingRun
	q := r.db.WithContext(ctx).Order("started_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&runs).Error
	return runs, err
}
