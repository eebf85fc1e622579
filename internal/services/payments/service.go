// Package payments applies payments to invoices.
//
// A payment starts pending and ends either completed or failed. Completing a
// payment marks its invoice paid in the same transaction. An invoice is
// settled by exactly one completed payment for its full total: payments
// against a paid invoice are rejected, and partial or excess amounts are
// refused rather than tracked as a balance.
package payments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"society-billing-backend/internal/logger"
	"society-billing-backend/internal/metrics"
	"society-billing-backend/internal/models"
	"society-billing-backend/internal/money"
	"society-billing-backend/internal/repository"
)

type Service struct {
	db       *gorm.DB
	payments *repository.PaymentRepository
	invoices *repository.InvoiceRepository
	now      func() time.Time
	log      zerolog.Logger
}

func NewService(db *gorm.DB, payments *repository.PaymentRepository, invoices *repository.InvoiceRepository) *Service {
	return &Service{
		db:       db,
		payments: payments,
		invoices: invoices,
		now:      time.Now,
		log:      logger.WithComponent("payments"),
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type NewPayment struct {
	InvoiceID uuid.UUID
	Amount    decimal.Decimal
	Method    string
	PaidOn    time.Time
	Reference string
}

// Create records a pending payment against an unpaid invoice.
func (s *Service) Create(ctx context.Context, in NewPayment) (*models.Payment, error) {
	amount := money.Round(in.Amount)
	if !money.Positive(amount) {
		return nil, ErrInvalidAmount
	}

	inv, err := s.invoices.GetByID(ctx, in.InvoiceID)
	if repository.IsNotFound(err) {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice: %w", err)
	}
	if inv.Status == models.InvoicePaid {
		return nil, ErrInvoiceAlreadyPaid
	}
	if !amount.Equal(money.Round(inv.TotalAmount)) {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrAmountMismatch,
			inv.TotalAmount.StringFixed(money.Places), amount.StringFixed(money.Places))
	}

	paidOn := in.PaidOn
	if paidOn.IsZero() {
		paidOn = s.now()
	}
	p := &models.Payment{
		ID:        uuid.New(),
		InvoiceID: inv.ID,
		Amount:    amount,
		Method:    strings.ToLower(strings.TrimSpace(in.Method)),
		PaidOn:    paidOn.UTC(),
		Reference: strings.TrimSpace(in.Reference),
		Status:    models.PaymentPending,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	p, err := s.payments.GetByID(ctx, id)
	if repository.IsNotFound(err) {
		return nil, ErrPaymentNotFound
	}
	return p, err
}

// UpdateStatus moves a pending payment to completed or failed. Completion
// and the invoice's move to paid commit together or not at all.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status models.PaymentStatus) (*models.Payment, error) {
	switch status {
	case models.PaymentCompleted, models.PaymentFailed:
	default:
		return nil, ErrInvalidStatus
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payments := s.payments.WithTx(tx)

		p, err := payments.GetByID(ctx, id)
		if repository.IsNotFound(err) {
			return ErrPaymentNotFound
		}
		if err != nil {
			return err
		}

		ok, err := payments.Transition(ctx, id, models.PaymentPending, status)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: current status %s", ErrInvalidTransition, p.Status)
		}

		if status != models.PaymentCompleted {
			return nil
		}
		n, err := s.invoices.WithTx(tx).MarkPaid(ctx, p.InvoiceID, s.now().UTC())
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrInvoiceAlreadyPaid
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.PaymentTransitions.WithLabelValues(string(status)).Inc()
	s.log.Info().Str("payment_id", id.String()).Str("status", string(status)).Msg("payment status updated")
	return s.payments.GetByID(ctx, id)
}

// MarkOverdue moves pending invoices whose due date is before today to overdue.
func (s *Service) MarkOverdue(ctx context.Context) (int64, error) {
	today := s.now().UTC().Truncate(24 * time.Hour)
	n, err := s.invoices.MarkOverdue(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue invoices: %w", err)
	}
	if n > 0 {
		s.log.Info().Int64("invoices", n).Msg("invoices marked overdue")
	}
	return n, nil
}
