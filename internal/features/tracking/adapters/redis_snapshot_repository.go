package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lifecycle-tracker/internal/core/cache"
	"lifecycle-tracker/internal/features/tracking/domain"
)

const snapshotKeyPrefix = "tracking:snapshot:"

// RedisSnapshotRepository implements ports.SnapshotRepository on the cache port.
// It keeps the last-known-good snapshot per order with a TTL, so silent
// refresh failures can fall back to what the user last saw.
type RedisSnapshotRepository struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewRedisSnapshotRepository creates a new RedisSnapshotRepository.
func NewRedisSnapshotRepository(c cache.Cache, ttl time.Duration) *RedisSnapshotRepository {
	return &RedisSnapshotRepository{
		cache: c,
		ttl:   ttl,
	}
}

// Save stores the snapshot under its order number.
func (r *RedisSnapshotRepository) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := r.cache.Set(ctx, snapshotKeyPrefix+snapshot.OrderNumber, data, r.ttl); err != nil {
		return fmt.Errorf("failed to save snapshot to cache: %w", err)
	}

	return nil
}

// Get retrieves the stored snapshot, or (nil, nil) when absent.
func (r *RedisSnapshotRepository) Get(ctx context.Context, orderNumber string) (*domain.Snapshot, error) {
	data, err := r.cache.Get(ctx, snapshotKeyPrefix+orderNumber)
	if err != nil {
		if errors.Is(err, cache.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get snapshot from cache: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	var snapshot domain.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}
