package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"lifecycle-tracker/internal/core/httpclient"
	"lifecycle-tracker/internal/core/logger"
	"lifecycle-tracker/internal/core/session"
	"lifecycle-tracker/internal/features/tracking/domain"
	"lifecycle-tracker/internal/features/tracking/ports"

	"go.uber.org/zap"
)

// ErrTrackingNotFound is returned when the order number is unknown upstream.
var ErrTrackingNotFound = errors.New("order tracking not found")

// TrackingService fetches tracking snapshots, keeps the last-known-good copy,
// and manages background watches that poll the upstream on a fixed interval.
type TrackingService struct {
	provider ports.Provider
	// repo may be nil when the snapshot cache is disabled.
	repo     ports.SnapshotRepository
	interval time.Duration

	mu       sync.Mutex
	watchers map[string]*Poller
	closed   bool
}

// NewTrackingService creates a new TrackingService.
func NewTrackingService(provider ports.Provider, repo ports.SnapshotRepository, interval time.Duration) *TrackingService {
	return &TrackingService{
		provider: provider,
		repo:     repo,
		interval: interval,
		watchers: make(map[string]*Poller),
	}
}

// GetTracking fetches the current snapshot for an order. On success the
// snapshot becomes the new last-known-good copy. On a transient upstream
// failure the previous last-known-good snapshot is served instead, so the
// caller keeps seeing data; authentication failures and upstream rejections
// are never masked this way.
func (s *TrackingService) GetTracking(ctx context.Context, orderNumber string) (*domain.Snapshot, error) {
	snapshot, err := s.provider.GetTracking(ctx, orderNumber)
	if err == nil {
		s.saveLastKnownGood(ctx, snapshot)
		return snapshot, nil
	}

	if errors.Is(err, session.ErrExpired) {
		return nil, err
	}

	var apiErr *httpclient.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrTrackingNotFound, orderNumber)
		}
		if apiErr.StatusCode < http.StatusInternalServerError {
			return nil, err
		}
	}

	if cached := s.lastKnownGood(ctx, orderNumber); cached != nil {
		logger.Get().Info("Serving last-known-good tracking snapshot",
			zap.String("order_number", orderNumber),
			zap.Error(err),
		)
		return cached, nil
	}

	return nil, err
}

// Watch starts a background poller for the order. The initial fetch is loud:
// its error is returned and no poller is started. Watching an order twice
// returns the existing poller.
func (s *TrackingService) Watch(ctx context.Context, orderNumber string) (*Poller, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, fmt.Errorf("tracking service is shut down")
	}
	if existing, ok := s.watchers[orderNumber]; ok {
		s.mu.Unlock()
		return existing, nil
	}
	s.mu.Unlock()

	poller := NewPoller(orderNumber, s, s.interval)
	if err := poller.Start(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.watchers[orderNumber]; ok {
		// Lost the race to another Watch call.
		poller.Stop()
		return existing, nil
	}
	s.watchers[orderNumber] = poller
	return poller, nil
}

// Watcher returns the active poller for the order, or nil.
func (s *TrackingService) Watcher(orderNumber string) *Poller {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watchers[orderNumber]
}

// Unwatch stops and removes the poller for the order.
// It reports whether a watch existed.
func (s *TrackingService) Unwatch(orderNumber string) bool {
	s.mu.Lock()
	poller, ok := s.watchers[orderNumber]
	delete(s.watchers, orderNumber)
	s.mu.Unlock()

	if !ok {
		return false
	}
	poller.Stop()
	return true
}

// Close stops every active watch. The service rejects new watches afterwards.
func (s *TrackingService) Close() {
	s.mu.Lock()
	s.closed = true
	pollers := make([]*Poller, 0, len(s.watchers))
	for _, p := range s.watchers {
		pollers = append(pollers, p)
	}
	s.watchers = make(map[string]*Poller)
	s.mu.Unlock()

	for _, p := range pollers {
		p.Stop()
	}
}

// saveLastKnownGood persists the snapshot; cache failures are logged only.
func (s *TrackingService) saveLastKnownGood(ctx context.Context, snapshot *domain.Snapshot) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Save(ctx, snapshot); err != nil {
		logger.Get().Warn("Failed to cache tracking snapshot",
			zap.String("order_number", snapshot.OrderNumber),
			zap.Error(err),
		)
	}
}

// lastKnownGood loads the cached snapshot; cache failures are logged only.
func (s *TrackingService) lastKnownGood(ctx context.Context, orderNumber string) *domain.Snapshot {
	if s.repo == nil {
		return nil
	}
	cached, err := s.repo.Get(ctx, orderNumber)
	if err != nil {
		logger.Get().Warn("Failed to read cached tracking snapshot",
			zap.String("order_number", orderNumber),
			zap.Error(err),
		)
		return nil
	}
	return cached
}
