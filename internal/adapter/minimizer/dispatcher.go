package minimizer

import (
	"context"
	"log/slog"
	"sync"
)

// Dispatcher issues best-effort restore requests. Failures are logged and
// never returned.
type Dispatcher struct {
	backend Backend
	logger  *slog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(backend Backend, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{backend: backend, logger: logger}
}

// Restore requests restoration of the window at address and waits for the
// script to finish.
func (d *Dispatcher) Restore(ctx context.Context, address string) {
	defer func() {
		if p := recover(); p != nil {
			d.logger.Error("panic restoring window", "address", address, "panic", p)
		}
	}()

	if err := d.backend.Restore(ctx, address); err != nil {
		d.logger.Error("error restoring window", "address", address, "error", err)
		return
	}
	d.logger.Debug("restore requested", "address", address)
}

// RestoreAsync is the fire-and-forget form of Restore.
func (d *Dispatcher) RestoreAsync(address string) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.Restore(context.Background(), address)
	}()
}

// Wait blocks until all RestoreAsync calls have finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
