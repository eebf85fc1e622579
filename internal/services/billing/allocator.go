package billing

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"society-billing-backend/internal/repository"
)

const defaultAllocateAttempts = 5

// Allocator hands out invoice sequence numbers from a per-year counter row.
// The counter is advanced with a compare-and-swap inside the caller's
// transaction, so a rolled back invoice also gives its number back.
type Allocator struct {
	invoices    *repository.InvoiceRepository
	sequences   *repository.SequenceRepository
	maxAttempts int
}

func NewAllocator(invoices *repository.InvoiceRepository, sequences *repository.SequenceRepository) *Allocator {
	return &Allocator{
		invoices:    invoices,
		sequences:   sequences,
		maxAttempts: defaultAllocateAttempts,
	}
}

// Next reserves max(floor, high-water mark + 1) for year within tx.
func (a *Allocator) Next(ctx context.Context, tx *gorm.DB, year int, floor int64) (int64, error) {
	if floor < 1 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidStartNumber, floor)
	}
	sequences := a.sequences.WithTx(tx)

	for attempt := 0; attempt < a.maxAttempts; attempt++ {
		seq, err := sequences.Get(ctx, year)
		if repository.IsNotFound(err) {
			if err := a.seed(ctx, tx, year); err != nil {
				return 0, err
			}
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read invoice counter: %w", err)
		}

		next := max(floor, seq.LastValue+1)
		ok, err := sequences.CompareAndSwap(ctx, year, seq.Version, next)
		if err != nil {
			return 0, fmt.Errorf("failed to advance invoice counter: %w", err)
		}
		if ok {
			return next, nil
		}
	}
	return 0, fmt.Errorf("%w: year %d", ErrSequenceContention, year)
}

// Peek returns the number Next would hand out right now without reserving it.
func (a *Allocator) Peek(ctx context.Context, year int, floor int64) (int64, error) {
	if floor < 1 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidStartNumber, floor)
	}
	high, err := a.invoices.MaxSequence(ctx, year)
	if err != nil {
		return 0, fmt.Errorf("failed to read high-water mark: %w", err)
	}
	seq, err := a.sequences.Get(ctx, year)
	switch {
	case err == nil:
		high = max(high, seq.LastValue)
	case !repository.IsNotFound(err):
		return 0, fmt.Errorf("failed to read invoice counter: %w", err)
	}
	return max(floor, high+1), nil
}

// seed creates the counter row at the highest sequence already issued, so a
// fresh counter never hands out a number that exists.
func (a *Allocator) seed(ctx context.Context, tx *gorm.DB, year int) error {
	high, err := a.invoices.WithTx(tx).MaxSequence(ctx, year)
	if err != nil {
		return fmt.Errorf("failed to read high-water mark: %w", err)
	}
	if err := a.sequences.WithTx(tx).CreateIfMissing(ctx, year, high); err != nil {
		return fmt.Errorf("failed to create invoice counter: %w", err)
	}
	return nil
}
