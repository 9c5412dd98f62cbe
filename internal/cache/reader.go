package cache

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/jmylchreest/windowstash/internal/model"
)

// Source provides raw access to the window cache.
type Source interface {
	ReadCache(ctx context.Context) ([]model.MinimizedWindow, error)
}

// Reader is the error-free view of a Source used by the poll loop.
type Reader struct {
	source Source
	logger *slog.Logger
}

// NewReader wraps source.
func NewReader(source Source, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{source: source, logger: logger}
}

// Windows returns the current minimized windows. Any failure is logged and
// yields an empty list.
func (r *Reader) Windows(ctx context.Context) (windows []model.MinimizedWindow) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("panic reading window cache", "panic", p)
			windows = []model.MinimizedWindow{}
		}
	}()

	windows, err := r.source.ReadCache(ctx)
	if err != nil {
		switch {
		case errors.Is(err, os.ErrNotExist):
			r.logger.Debug("window cache missing", "error", err)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			r.logger.Debug("window cache read cancelled", "error", err)
		default:
			r.logger.Error("error getting minimized windows", "error", err)
		}
		return []model.MinimizedWindow{}
	}
	if windows == nil {
		return []model.MinimizedWindow{}
	}
	return windows
}
