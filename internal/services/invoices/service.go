// Package invoices is the read side of the invoice store.
package invoices

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"society-billing-backend/internal/models"
	"society-billing-backend/internal/repository"
)

var ErrNotFound = errors.New("invoice not found")

const verifyBatchSize = 200

type Service struct {
	invoices *repository.InvoiceRepository
	payments *repository.PaymentRepository
}

func NewService(invoices *repository.InvoiceRepository, payments *repository.PaymentRepository) *Service {
	return &Service{invoices: invoices, payments: payments}
}

func (s *Service) List(ctx context.Context, f repository.InvoiceFilter) ([]models.Invoice, error) {
	return s.invoices.List(ctx, f)
}

// Detail is an invoice with its items and payment attempts.
type Detail struct {
	Invoice  *models.Invoice
	Payments []models.Payment
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Detail, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	if repository.IsNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.ListByInvoice(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}
	return &Detail{Invoice: inv, Payments: payments}, nil
}

type IntegrityReport struct {
	Checked    int
	Mismatched []models.Invoice
}

// Verify checks every invoice total against the sum of its items.
func (s *Service) Verify(ctx context.Context) (*IntegrityReport, error) {
	bad, checked, err := s.invoices.FindTotalMismatches(ctx, verifyBatchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to verify invoices: %w", err)
	}
	return &IntegrityReport{Checked: checked, Mismatched: bad}, nil
}
