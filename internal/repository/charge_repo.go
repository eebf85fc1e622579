package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"society-billing-backend/internal/models"
	"society-billing-backend/internal/money"
)

type ChargeRepository struct {
	db *gorm.DB
}

func NewChargeRepository(db *gorm.DB) *ChargeRepository {
	return &ChargeRepository{db: db}
}

func (r *ChargeRepository) Create(ctx context.Context, c *models.StandardCharge) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.Amount = money.Round(c.Amount)
	return r.db.WithContext(ctx).Create(c).Error
}

// Active returns the active catalog in a stable order.
func (r *ChargeRepository) Active(ctx context.Context) ([]models.StandardCharge, error) {
	var charges []models.StandardCharge
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("created_at ASC, description ASC").
		Find(&charges).Error
	return charges, err
}

func (r *ChargeRepository) List(ctx context.Context) ([]models.StandardCharge, error) {
	var charges []models.StandardCharge
	err := r.db.WithContext(ctx).Order("created_at ASC, description ASC").Find(&charges).Error
	return charges, err
}

func (r *ChargeRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).Model(&models.StandardCharge{}).
		Where("id = ?", id).
		Update("active", active).Error
}
