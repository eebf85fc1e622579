package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"society-billing-backend/internal/models"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *InvoiceRepository) WithTx(tx *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: tx}
}

// CreateWithItems inserts the header and its items. Callers wanting the pair
// to share a wider transaction pass a tx-bound repository.
func (r *InvoiceRepository) CreateWithItems(ctx context.Context, inv *models.Invoice) error {
	if err := inv.CheckTotal(); err != nil {
		return err
	}
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	for i := range inv.Items {
		if inv.Items[i].ID == uuid.Nil {
			inv.Items[i].ID = uuid.New()
		}
		inv.Items[i].InvoiceID = inv.ID
	}
	return r.db.WithContext(ctx).Create(inv).Error
}

// GetByID fetch a single invoice by ID, with its items
func (r *InvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).Preload("Items").First(&invoice, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

type InvoiceFilter struct {
	Year     int
	Month    int
	Statuses []models.InvoiceStatus
	MemberID *uuid.UUID
	Query    string // member name or flat, case-insensitive
	Limit    int
}

// List returns invoices matching f, newest sequence first.
func (r *InvoiceRepository) List(ctx context.Context, f InvoiceFilter) ([]models.Invoice, error) {
	var invoices []models.Invoice

	q := r.db.WithContext(ctx).Model(&models.Invoice{})
	if f.Year > 0 {
		q = q.Where("billing_year = ?", f.Year)
		if f.Month > 0 {
			q = q.Where("billing_period = ?", time.Date(f.Year, time.Month(f.Month), 1, 0, 0, 0, 0, time.UTC))
		}
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	if f.MemberID != nil {
		q = q.Where("member_id = ?", *f.MemberID)
	}
	if f.Query != "" {
		like := "%" + strings.ToLower(f.Query) + "%"
		q = q.Where("LOWER(member_name) LIKE ? OR LOWER(flat) LIKE ?", like, like)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	err := q.Order("billing_year DESC, sequence DESC").Find(&invoices).Error
	return invoices, err
}

// MaxSequence returns the highest sequence issued for year, 0 when none.
func (r *InvoiceRepository) MaxSequence(ctx context.Context, year int) (int64, error) {
	var high int64
	err := r.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("billing_year = ?", year).
		Select("COALESCE(MAX(sequence), 0)").
		Scan(&high).Error
	return high, err
}

// MarkPaid flips an unpaid invoice to paid. Zero rows affected means it was
// already paid or does not exist.
func (r *InvoiceRepository) MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("id = ? AND status IN ?", id, []models.InvoiceStatus{models.InvoicePending, models.InvoiceOverdue}).
		Updates(map[string]interface{}{
			"status":  models.InvoicePaid,
			"paid_at": paidAt,
		})
	return result.RowsAffected, result.Error
}

// MarkOverdue moves pending invoices due before now to overdue.
func (r *InvoiceRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("status = ? AND due_date < ?", models.InvoicePending, now).
		Update("status", models.InvoiceOverdue)
	return result.RowsAffected, result.Error
}

// FindTotalMismatches walks every invoice in batches and returns those whose
// header total differs from the sum of their items.
func (r *InvoiceRepository) FindTotalMismatches(ctx context.Context, batchSize int) ([]models.Invoice, int, error) {
	var (
		batch      []models.Invoice
		mismatches []models.Invoice
		checked    int
	)
	result := r.db.WithContext(ctx).Preload("Items").
		FindInBatches(&batch, batchSize, func(tx *gorm.DB, _ int) error {
			for _, inv := range batch {
				checked++
				if inv.CheckTotal() != nil {
					mismatches = append(mismatches, inv)
				}
			}
			return nil
		})
	return mismatches, checked, result.Error
}
