package worker

import (
	"context"
	"sync"
	"time"

	"github.com/lexdesk/casework/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// Warmer loads the user directory into a cache
type Warmer interface {
	Warm(ctx context.Context) (int, error)
}

// RefreshStatus reports the outcome of the latest refresh cycles
type RefreshStatus struct {
	LastRefreshSuccess time.Time
	LastRefreshAttempt time.Time
	UserCount          int
}

// UserCacheRefreshWorker periodically reloads the user cache so that role
// lookups on the request path hit the cache.
//
// Each server instance runs its own worker; the cache entries are idempotent.
type UserCacheRefreshWorker struct {
	warmer   Warmer
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}

	mu     sync.RWMutex
	status RefreshStatus
}

func NewUserCacheRefreshWorker(warmer Warmer, interval time.Duration) *UserCacheRefreshWorker {
	return &UserCacheRefreshWorker{
		warmer:   warmer,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the initial refresh and the periodic loop in the background
func (w *UserCacheRefreshWorker) Start(ctx context.Context) error {
	if w.interval <= 0 {
		return goerr.New("refresh interval must be positive", goerr.V("interval", w.interval))
	}

	logging.Default().Info("User cache refresh worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *UserCacheRefreshWorker) Stop() {
	logging.Default().Info("User cache refresh worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("User cache refresh worker stopped")
}

// Status returns a snapshot of the refresh bookkeeping
func (w *UserCacheRefreshWorker) Status() RefreshStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.status
}

func (w *UserCacheRefreshWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	if err := w.refresh(ctx); err != nil {
		logging.Default().Error("Initial user cache refresh failed (will retry next interval)",
			"error", err.Error())
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.refresh(ctx); err != nil {
				logging.Default().Error("User cache refresh failed (will retry next interval)",
					"error", err.Error())
			}

		case <-w.stopCh:
			return

		case <-ctx.Done():
			logging.Default().Info("User cache refresh worker context cancelled")
			return
		}
	}
}

// refresh performs a single cycle. A failed cycle keeps the previous count and success time.
func (w *UserCacheRefreshWorker) refresh(ctx context.Context) error {
	startTime := time.Now()

	w.mu.Lock()
	w.status.LastRefreshAttempt = startTime
	w.mu.Unlock()

	count, err := w.warmer.Warm(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to warm user cache")
	}

	w.mu.Lock()
	w.status.LastRefreshSuccess = startTime
	w.status.UserCount = count
	w.mu.Unlock()

	logging.Default().Info("User cache refresh completed",
		"count", count,
		"duration", time.Since(startTime).String())

	return nil
}
