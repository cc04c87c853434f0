package ports

import (
	"context"

	"lifecycle-tracker/internal/features/tracking/domain"
)

// Provider retrieves tracking snapshots from the commerce API.
type Provider interface {
	// GetTracking fetches the current snapshot for an order number.
	GetTracking(ctx context.Context, orderNumber string) (*domain.Snapshot, error)
}

// SnapshotRepository stores the last-known-good snapshot per order, so a
// transient upstream failure never blanks out data the user already saw.
type SnapshotRepository interface {
	// Save persists the snapshot.
	Save(ctx context.Context, snapshot *domain.Snapshot) error
	// Get returns the stored snapshot, or (nil, nil) when absent.
	Get(ctx context.Context, orderNumber string) (*domain.Snapshot, error)
}
