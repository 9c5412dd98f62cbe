// Package poller periodically refreshes the window list.
package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/windowstash/internal/model"
)

// DefaultInterval is used when no positive interval is configured.
const DefaultInterval = time.Second

// FetchFunc returns the current window list. It must not fail; errors are
// the fetcher's to log.
type FetchFunc func(ctx context.Context) []model.MinimizedWindow

// Sink receives each fetched list.
type Sink interface {
	Set(windows []model.MinimizedWindow) error
}

// Poller calls a FetchFunc on an interval and publishes the result.
type Poller struct {
	mu     sync.Mutex
	logger *slog.Logger

	fetch    FetchFunc
	sink     Sink
	interval time.Duration

	// gen identifies the current run; publications from an older run are dropped.
	gen     uint64
	running bool
	cancel  context.CancelFunc

	// Control channels
	stopCh    chan struct{}
	doneCh    chan struct{}
	resetCh   chan time.Duration
	triggerCh chan struct{}
}

// New creates a Poller.
func New(fetch FetchFunc, sink Sink, interval time.Duration, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		logger:   logger,
		fetch:    fetch,
		sink:     sink,
		interval: interval,
	}
}

// Start begins polling. The first poll runs immediately. Calling Start on a
// running poller is a no-op.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.gen++
	gen := p.gen

	loopCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	p.resetCh = make(chan time.Duration, 1)
	p.triggerCh = make(chan struct{}, 1)
	interval := p.interval
	stopCh, doneCh, resetCh, triggerCh := p.stopCh, p.doneCh, p.resetCh, p.triggerCh
	p.mu.Unlock()

	go p.loop(loopCtx, gen, interval, stopCh, doneCh, resetCh, triggerCh)

	p.logger.Debug("poller started", "interval", interval)
	return nil
}

// Stop stops polling and waits for the loop to exit. No publication happens
// after Stop returns, even if a fetch was in flight.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stopCh)
	p.cancel()
	doneCh := p.doneCh
	p.mu.Unlock()

	<-doneCh
	p.logger.Debug("poller stopped")
}

// SetInterval changes the polling period, taking effect immediately on a
// running poller.
func (p *Poller) SetInterval(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if interval == p.interval {
		return
	}
	p.interval = interval
	if !p.running {
		return
	}

	// Keep only the newest pending interval
	select {
	case p.resetCh <- interval:
	default:
		select {
		case <-p.resetCh:
		default:
		}
		p.resetCh <- interval
	}
}

// Interval returns the current polling period.
func (p *Poller) Interval() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.interval
}

// Trigger requests an immediate poll. Requests coalesce.
func (p *Poller) Trigger() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	select {
	case p.triggerCh <- struct{}{}:
	default:
	}
}

// IsRunning reports whether the poller is running.
func (p *Poller) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// loop is the main polling loop.
func (p *Poller) loop(ctx context.Context, gen uint64, interval time.Duration,
	stopCh <-chan struct{}, doneCh chan<- struct{}, resetCh <-chan time.Duration, triggerCh <-chan struct{}) {
	defer close(doneCh)
	defer p.exited(gen)

	p.poll(ctx, gen)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case d := <-resetCh:
			ticker.Reset(d)
			p.logger.Debug("poll interval changed", "interval", d)
		case <-triggerCh:
			p.poll(ctx, gen)
		case <-ticker.C:
			p.poll(ctx, gen)
		}
	}
}

// poll fetches once and publishes if this run is still current.
func (p *Poller) poll(ctx context.Context, gen uint64) {
	windows := p.fetch(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	// Holding the lock across Set keeps Stop from returning mid-publication.
	if !p.running || p.gen != gen {
		p.logger.Debug("dropping poll result after stop", "count", len(windows))
		return
	}
	if err := p.sink.Set(windows); err != nil {
		p.logger.Warn("failed to publish window list", "error", err)
	}
}

// exited clears the running flag when the loop ends on its own (context
// cancelled by the caller).
func (p *Poller) exited(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gen == gen {
		p.running = false
	}
}
