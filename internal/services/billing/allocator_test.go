package billing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAllocator_Next(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	next := func(floor int64) int64 {
		t.Helper()
		var n int64
		require.NoError(t, f.db.Transaction(func(tx *gorm.DB) error {
			var err error
			n, err = f.allocator.Next(ctx, tx, 2025, floor)
			return err
		}))
		return n
	}

	assert.Equal(t, int64(1), next(1))
	assert.Equal(t, int64(2), next(1))
	assert.Equal(t, int64(10), next(10), "floor above the counter wins")
	assert.Equal(t, int64(11), next(3), "counter above the floor wins")

	seq, err := f.sequences.Get(ctx, 2025)
	require.NoError(t, err)
	assert.Equal(t, int64(11), seq.LastValue)
	assert.Equal(t, int64(4), seq.Version)
}

func TestAllocator_RollbackReturnsNumber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := f.db.Transaction(func(tx *gorm.DB) error {
		n, err := f.allocator.Next(ctx, tx, 2025, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		return boom
	})
	require.ErrorIs(t, err, boom)

	var n int64
	require.NoError(t, f.db.Transaction(func(tx *gorm.DB) error {
		n, err = f.allocator.Next(ctx, tx, 2025, 1)
		return err
	}))
	assert.Equal(t, int64(1), n, "a rolled back allocation leaves no gap")
}

func TestAllocator_SeedsFromIssuedInvoices(t *testing.T) {
	f := newFixture(t)
	f.standardSociety(t)
	ctx := context.Background()

	_, err := f.gen.Generate(ctx, Request{Month: "3", Year: "2025", StartNumber: "7", IncludeAll: true})
	require.NoError(t, err)

	// Lose the counter; the next allocation must still start past INV-2025-008.
	require.NoError(t, f.db.Exec("DELETE FROM invoice_sequences").Error)

	peek, err := f.allocator.Peek(ctx, 2025, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(9), peek)

	var n int64
	require.NoError(t, f.db.Transaction(func(tx *gorm.DB) error {
		n, err = f.allocator.Next(ctx, tx, 2025, 1)
		return err
	}))
	assert.Equal(t, int64(9), n)
}

func TestAllocator_PeekDoesNotReserve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		n, err := f.allocator.Peek(ctx, 2030, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	}
	n, err := f.allocator.Peek(ctx, 2030, 25)
	require.NoError(t, err)
	assert.Equal(t, int64(25), n)

	_, err = f.allocator.Peek(ctx, 2030, 0)
	assert.ErrorIs(t, err, ErrInvalidStartNumber)
}
