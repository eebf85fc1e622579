// Package app wires repositories and services for the server and the CLI.
package app

import (
	"gorm.io/gorm"

	"society-billing-backend/internal/config"
	"society-billing-backend/internal/repository"
	"society-billing-backend/internal/services/billing"
	"society-billing-backend/internal/services/invoices"
	"society-billing-backend/internal/services/ledger"
	"society-billing-backend/internal/services/payments"
	"society-billing-backend/internal/services/stats"
)

type Services struct {
	DB       *gorm.DB
	Members  *repository.MemberRepository
	Charges  *repository.ChargeRepository
	Runs     *repository.BillingRunRepository
	Billing  *billing.Generator
	Invoices *invoices.Service
	Payments *payments.Service
	Ledger   *ledger.Service
	Stats    *stats.Aggregator
}

func New(db *gorm.DB, cfg *config.Config) *Services {
	memberRepo := repository.NewMemberRepository(db)
	chargeRepo := repository.NewChargeRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	sequenceRepo := repository.NewSequenceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	runRepo := repository.NewBillingRunRepository(db)

	allocator := billing.NewAllocator(invoiceRepo, sequenceRepo)

	return &Services{
		DB:       db,
		Members:  memberRepo,
		Charges:  chargeRepo,
		Runs:     runRepo,
		Billing:  billing.NewGenerator(db, memberRepo, chargeRepo, invoiceRepo, runRepo, allocator, cfg.InvoiceDueDay),
		Invoices: invoices.NewService(invoiceRepo, paymentRepo),
		Payments: payments.NewService(db, paymentRepo, invoiceRepo),
		Ledger:   ledger.NewService(ledgerRepo, cfg.Location()),
		Stats:    stats.NewAggregator(ledgerRepo, cfg.Location()),
	}
}
