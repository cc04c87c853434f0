package adapters

import (
	"context"
	"testing"
	"time"

	"lifecycle-tracker/internal/core/cache"
	"lifecycle-tracker/internal/features/tracking/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) (*RedisSnapshotRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	adapter, err := cache.NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { adapter.Close() })

	return NewRedisSnapshotRepository(adapter, 10*time.Minute), mr
}

// TestRedisSnapshotRepository_SaveGet verifies the round trip per order number.
func TestRedisSnapshotRepository_SaveGet(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	snapshot := &domain.Snapshot{
		OrderNumber: "ORD-1001",
		Status:      "nearby",
		CreatedAt:   time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		TotalAmount: "250.00",
	}

	require.NoError(t, repo.Save(ctx, snapshot))

	stored, err := repo.Get(ctx, "ORD-1001")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "nearby", stored.Status)
	assert.Equal(t, "250.00", stored.TotalAmount)
}

// TestRedisSnapshotRepository_GetMissing verifies (nil, nil) for unknown orders.
func TestRedisSnapshotRepository_GetMissing(t *testing.T) {
	repo, _ := newTestRepository(t)

	stored, err := repo.Get(context.Background(), "ORD-UNKNOWN")
	assert.NoError(t, err)
	assert.Nil(t, stored)
}

// TestRedisSnapshotRepository_TTLExpiry verifies stale snapshots age out.
func TestRedisSnapshotRepository_TTLExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	adapter, err := cache.NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	defer adapter.Close()

	repo := NewRedisSnapshotRepository(adapter, 1*time.Second)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.Snapshot{OrderNumber: "ORD-2", Status: "pending"}))

	mr.FastForward(2 * time.Second)

	stored, err := repo.Get(ctx, "ORD-2")
	assert.NoError(t, err)
	assert.Nil(t, stored)
}
