package stats

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jokepay/jokebot/internal/store"
)

// Reporter periodically logs how many identities have paid. Purely
// operational; the webhook paths never depend on it.
type Reporter struct {
	paid     store.PaidStore
	interval time.Duration
	logger   *slog.Logger

	running atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewReporter(paid store.PaidStore, interval time.Duration, logger *slog.Logger) (*Reporter, error) {
	if paid == nil {
		return nil, errors.New("store must not be nil")
	}
	if interval <= 0 {
		return nil, errors.New("interval must be > 0")
	}
	return &Reporter{
		paid:     paid,
		interval: interval,
		logger:   logger.With("component", "stats"),
		done:     make(chan struct{}),
	}, nil
}

func (r *Reporter) Start() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running.Load() {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.done = make(chan struct{})
	r.running.Store(true)

	go func() {
		defer close(r.done)

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		r.logger.Info("stats reporter started", "interval", r.interval.String())

		r.report(ctx)

		for {
			select {
			case <-ctx.Done():
				r.logger.Info("stats reporter stopping")
				return
			case <-ticker.C:
				r.report(ctx)
			}
		}
	}()

	return true
}

func (r *Reporter) Stop() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running.Load() {
		return false
	}

	r.cancel()
	<-r.done
	r.running.Store(false)

	return true
}

func (r *Reporter) IsRunning() bool {
	return r.running.Load()
}

func (r *Reporter) report(ctx context.Context) {
	n, err := r.paid.Count(ctx)
	if err != nil {
		r.logger.Error("paid count failed", "error", err)
		return
	}
	r.logger.Info("paid identities", "count", n)
}
