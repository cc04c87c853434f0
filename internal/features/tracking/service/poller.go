package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"lifecycle-tracker/internal/core/logger"
	"lifecycle-tracker/internal/features/tracking/domain"
	"lifecycle-tracker/internal/features/tracking/ports"

	"go.uber.org/zap"
)

// refreshTimeout bounds a single background fetch.
const refreshTimeout = 10 * time.Second

// Poller keeps one order's tracking snapshot fresh. The initial fetch is
// loud and its failure aborts the poller. After that every refresh is
// silent: failures are logged and the last-known-good snapshot stays
// visible. A refresh already in flight makes new triggers no-ops instead
// of queueing behind it.
type Poller struct {
	orderNumber string
	source      ports.Provider
	interval    time.Duration

	refreshCh chan struct{}
	busy      atomic.Bool

	mu          sync.RWMutex
	snapshot    *domain.Snapshot
	refreshedAt time.Time

	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
}

// NewPoller creates a poller for the given order. It does not fetch
// anything until Start is called.
func NewPoller(orderNumber string, source ports.Provider, interval time.Duration) *Poller {
	return &Poller{
		orderNumber: orderNumber,
		source:      source,
		interval:    interval,
		refreshCh:   make(chan struct{}, 1),
		done:        make(chan struct{}),
	}
}

// Start performs the initial fetch and launches the refresh loop. The
// passed context bounds the initial fetch only; the loop runs until Stop.
func (p *Poller) Start(ctx context.Context) error {
	snapshot, err := p.source.GetTracking(ctx, p.orderNumber)
	if err != nil {
		return err
	}
	p.store(snapshot)

	loopCtx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	go p.loop(loopCtx)

	return nil
}

// Snapshot returns the last-known-good snapshot and when it was fetched.
func (p *Poller) Snapshot() (*domain.Snapshot, time.Time) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot, p.refreshedAt
}

// Refresh triggers an immediate silent refresh. It never blocks; it
// reports false when a refresh is already in flight or queued.
func (p *Poller) Refresh() bool {
	if p.busy.Load() {
		return false
	}
	select {
	case p.refreshCh <- struct{}{}:
		return true
	default:
		return false
	}
}

// Refreshing reports whether a refresh is currently in flight.
func (p *Poller) Refreshing() bool {
	return p.busy.Load()
}

// Stop cancels the refresh loop and waits for it to exit.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		if p.cancel != nil {
			p.cancel()
			<-p.done
		}
	})
}

func (p *Poller) loop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.refresh(ctx)
		case <-p.refreshCh:
			p.refresh(ctx)
		}
	}
}

// refresh runs one silent fetch. Overlapping triggers are dropped.
func (p *Poller) refresh(ctx context.Context) {
	if !p.busy.CompareAndSwap(false, true) {
		return
	}
	defer p.busy.Store(false)

	fetchCtx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	snapshot, err := p.source.GetTracking(fetchCtx, p.orderNumber)
	if err != nil {
		logger.Get().Warn("Tracking refresh failed, keeping last snapshot",
			zap.String("order_number", p.orderNumber),
			zap.Error(err),
		)
		return
	}

	p.store(snapshot)
}

func (p *Poller) store(snapshot *domain.Snapshot) {
	p.mu.Lock()
	p.snapshot = snapshot
	p.refreshedAt = time.Now()
	p.mu.Unlock()
}
