package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"society-billing-backend/internal/repository"
	"society-billing-backend/internal/testutil"
)

func TestSequenceRepository_CompareAndSwap(t *testing.T) {
	repo := repository.NewSequenceRepository(testutil.NewDB(t))
	ctx := context.Background()

	_, err := repo.Get(ctx, 2025)
	assert.True(t, repository.IsNotFound(err))

	require.NoError(t, repo.CreateIfMissing(ctx, 2025, 4))
	require.NoError(t, repo.CreateIfMissing(ctx, 2025, 99), "existing row is left alone")

	seq, err := repo.Get(ctx, 2025)
	require.NoError(t, err)
	assert.Equal(t, int64(4), seq.LastValue)
	assert.Equal(t, int64(0), seq.Version)

	ok, err := repo.CompareAndSwap(ctx, 2025, 0, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.CompareAndSwap(ctx, 2025, 0, 6)
	require.NoError(t, err)
	assert.False(t, ok, "stale version loses")

	seq, err = repo.Get(ctx, 2025)
	require.NoError(t, err)
	assert.Equal(t, int64(5), seq.LastValue)
	assert.Equal(t, int64(1), seq.Version)
}
