package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"society-billing-backend/internal/models"
)

type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) Create(ctx context.Context, m *models.Member) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(m).Error
}

// List returns the roster in billing order (flat, then name).
func (r *MemberRepository) List(ctx context.Context, activeOnly bool) ([]models.Member, error) {
	var members []models.Member
	q := r.db.WithContext(ctx).Order("flat ASC, name ASC")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	err := q.Find(&members).Error
	return members, err
}

// ListByIDs returns the selected members in billing order. Unknown IDs are
// simply absent from the result.
func (r *MemberRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Member, error) {
	var members []models.Member
	if len(ids) == 0 {
		return members, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("flat ASC, name ASC").
		Find(&members).Error
	return members, err
}
