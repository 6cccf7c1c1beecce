// Package tracking runs the order-tracking refresh: a cancellable periodic
// task tied to the visible lifetime of the tracking view. The endpoint is
// polled on a fixed interval with no backoff or jitter; cancellation is
// explicit rather than relying on garbage collection of an abandoned timer.
package tracking

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Zephyrodes/farmacia/internal/api/metrics"
	"github.com/Zephyrodes/farmacia/internal/core/domain"
)

const defaultInterval = 3 * time.Second

// Fetcher retrieves one tracking snapshot for the order being watched.
type Fetcher func(ctx context.Context) (*domain.TrackingInfo, error)

// Poller drives a Fetcher on a fixed interval. An error does not stop
// polling: the view keeps its last good state and the next tick retries
// implicitly. Polling stops when the order is delivered, when Stop is
// called, or when the context is cancelled, whichever comes first.
type Poller struct {
	fetch    Fetcher
	interval time.Duration
	onUpdate func(domain.TrackingInfo)
	onError  func(error)
	log      zerolog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// New builds a Poller. interval <= 0 selects the default 3s. onError may be
// nil; onUpdate must not be.
func New(fetch Fetcher, interval time.Duration, onUpdate func(domain.TrackingInfo), onError func(error), log zerolog.Logger) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Poller{
		fetch:    fetch,
		interval: interval,
		onUpdate: onUpdate,
		onError:  onError,
		log:      log,
	}
}

// Start launches the polling goroutine. The first fetch happens
// immediately, then every interval. Starting a running poller is a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true

	go p.run(ctx)
}

// Stop cancels the polling goroutine and waits for it to exit. Idempotent;
// safe to call from any goroutine and safe to call twice.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	cancel, done := p.cancel, p.done
	p.running = false
	p.mu.Unlock()

	cancel()
	<-done
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	if p.poll(ctx) {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if p.poll(ctx) {
				return
			}
		}
	}
}

// poll performs one fetch and reports whether polling should end.
func (p *Poller) poll(ctx context.Context) (terminal bool) {
	info, err := p.fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return true
		}
		metrics.TrackingPollsTotal.WithLabelValues("error").Inc()
		p.log.Warn().Err(err).Msg("tracking poll failed")
		if p.onError != nil {
			p.onError(err)
		}
		return false
	}

	p.onUpdate(*info)

	if info.Delivered() {
		metrics.TrackingPollsTotal.WithLabelValues("delivered").Inc()
		p.log.Info().Int("order_id", info.OrderID).Msg("order delivered, tracking stopped")
		p.markStopped()
		return true
	}
	metrics.TrackingPollsTotal.WithLabelValues("update").Inc()
	return false
}

// markStopped flips running off when the poller ends on its own, so a later
// Stop does not wait on a goroutine that already exited.
func (p *Poller) markStopped() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = false
}
