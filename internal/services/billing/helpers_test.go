package billing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"society-billing-backend/internal/models"
	"society-billing-backend/internal/repository"
	"society-billing-backend/internal/testutil"
)

var fixedNow = time.Date(2025, time.March, 2, 9, 30, 0, 0, time.UTC)

type fixture struct {
	db        *gorm.DB
	members   *repository.MemberRepository
	charges   *repository.ChargeRepository
	invoices  *repository.InvoiceRepository
	sequences *repository.SequenceRepository
	runs      *repository.BillingRunRepository
	allocator *Allocator
	gen       *Generator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)

	f := &fixture{
		db:        db,
		members:   repository.NewMemberRepository(db),
		charges:   repository.NewChargeRepository(db),
		invoices:  repository.NewInvoiceRepository(db),
		sequences: repository.NewSequenceRepository(db),
		runs:      repository.NewBillingRunRepository(db),
	}
	f.allocator = NewAllocator(f.invoices, f.sequences)
	f.gen = NewGenerator(db, f.members, f.charges, f.invoices, f.runs, f.allocator, 15).
		WithClock(func() time.Time { return fixedNow })
	return f
}

func (f *fixture) addMember(t *testing.T, name, flat, email string, active bool) models.Member {
	t.Helper()
	m := models.Member{Name: name, Flat: flat, Email: email, Active: active}
	require.NoError(t, f.members.Create(context.Background(), &m))
	return m
}

func (f *fixture) addCharge(t *testing.T, desc, amount string) models.StandardCharge {
	t.Helper()
	c := models.StandardCharge{Description: desc, Amount: decimal.RequireFromString(amount), Active: true}
	require.NoError(t, f.charges.Create(context.Background(), &c))
	return c
}

// standardSociety seeds the A/B/C roster with maintenance and parking charges.
func (f *fixture) standardSociety(t *testing.T) (a, b, c models.Member) {
	t.Helper()
	a = f.addMember(t, "Asha", "A-101", "asha@example.com", true)
	b = f.addMember(t, "Bala", "", "bala@example.com", true)
	c = f.addMember(t, "Chitra", "C-301", "chitra@example.com", true)
	f.addCharge(t, "Maintenance", "500")
	f.addCharge(t, "Parking", "200")
	return a, b, c
}
