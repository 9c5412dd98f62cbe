package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jmylchreest/windowstash/internal/adapter/minimizer"
	"github.com/jmylchreest/windowstash/internal/cache"
	"github.com/jmylchreest/windowstash/internal/config"
	"github.com/jmylchreest/windowstash/internal/notify"
	"github.com/jmylchreest/windowstash/internal/poller"
	"github.com/jmylchreest/windowstash/internal/shell"
	"github.com/jmylchreest/windowstash/internal/store"
	"github.com/jmylchreest/windowstash/internal/view"
)

// Options configures a Daemon.
type Options struct {
	Config     *config.Config
	ConfigPath string // Empty disables config hot reload
	CacheFile  *cache.FileCache
	Backend    minimizer.Backend // Defaults to a script Client over CacheFile
	Notifier   *notify.Notifier  // Nil disables notifications
	Runner     shell.Runner
	Output     io.Writer // Receives one Waybar JSON line per change
	Logger     *slog.Logger
}

// Daemon is the long-running watch mode: it polls the cache, follows file
// and config changes and streams the bar status.
type Daemon struct {
	mu     sync.Mutex
	cfg    *config.Config
	logger *slog.Logger
	out    io.Writer

	store         *store.Store
	poller        *poller.Poller
	widget        *view.Widget
	notifier      *notify.Notifier
	internal      internalNotifier
	cacheWatcher  *cache.Watcher
	configWatcher *ConfigWatcher

	lastLine []byte
}

// New wires a Daemon from options.
func New(opts Options) (*Daemon, error) {
	if opts.Config == nil {
		return nil, errors.New("daemon: config is required")
	}
	if opts.Output == nil {
		return nil, errors.New("daemon: output is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := opts.Config

	fileCache := opts.CacheFile
	if fileCache == nil {
		fileCache = cache.NewFileCache(cfg.Cache.Path, cfg.Cache.ClearOnStart)
	}
	runner := opts.Runner
	if runner == nil {
		runner = shell.NewExecRunner()
	}
	backend := opts.Backend
	if backend == nil {
		backend = minimizer.NewClient(fileCache, minimizer.ResolveArgs(cfg.RestoreArgs()), cfg.Restore.Timeout.Duration(), runner)
	}

	d := &Daemon{
		cfg:      cfg,
		logger:   logger,
		out:      opts.Output,
		store:    store.NewStore(),
		notifier: opts.Notifier,
	}

	var sender notify.Sender
	if opts.Notifier != nil {
		sender = opts.Notifier
		applyNotifyConfig(opts.Notifier, cfg)
	}
	d.internal = internalNotifier{sender: sender}

	reader := cache.NewReader(backend, logger)
	d.poller = poller.New(reader.Windows, d.store, cfg.Poll.Interval.Duration(), logger)
	d.widget = view.NewWidget(view.SettingsFromConfig(cfg), view.Deps{
		Store:    d.store,
		Restorer: minimizer.NewDispatcher(backend, logger),
		Notifier: sender,
		Runner:   runner,
		Logger:   logger,
	})

	watcher, err := cache.NewWatcher(fileCache.Path(), d.poller.Trigger, logger)
	if err != nil {
		// Polling alone still keeps the list fresh.
		logger.Warn("cache watcher unavailable", "path", fileCache.Path(), "error", err)
	}
	d.cacheWatcher = watcher

	if opts.ConfigPath != "" {
		d.configWatcher = NewConfigWatcher(opts.ConfigPath, logger)
		d.configWatcher.SetReloadCallback(d.applyConfig)
		d.configWatcher.SetErrorCallback(func(err error) {
			if nerr := d.internal.NotifyConfigError(err); nerr != nil {
				logger.Debug("config error notification failed", "error", nerr)
			}
		})
	}

	return d, nil
}

// Store returns the shared window list.
func (d *Daemon) Store() *store.Store {
	return d.store
}

// Widget returns the bar widget.
func (d *Daemon) Widget() *view.Widget {
	return d.widget
}

// Run streams status lines until ctx is cancelled, then tears everything
// down. It returns nil on a clean shutdown.
func (d *Daemon) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	if err := d.writeStatus(d.widget.Status()); err != nil {
		return err
	}

	if err := d.poller.Start(gctx); err != nil {
		return fmt.Errorf("start poller: %w", err)
	}
	if d.cacheWatcher != nil {
		if err := d.cacheWatcher.Start(); err != nil {
			d.logger.Warn("cache watcher failed to start", "error", err)
		}
	}
	if d.configWatcher != nil {
		if err := d.configWatcher.Start(gctx, d.cfg); err != nil {
			d.logger.Warn("config watcher failed to start", "error", err)
		}
	}

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case status := <-d.widget.Updates():
				if err := d.writeStatus(status); err != nil {
					return err
				}
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		d.shutdown()
		return nil
	})

	return g.Wait()
}

func (d *Daemon) shutdown() {
	if d.configWatcher != nil {
		d.configWatcher.Stop()
	}
	if d.cacheWatcher != nil {
		if err := d.cacheWatcher.Stop(); err != nil {
			d.logger.Debug("cache watcher stop", "error", err)
		}
	}
	d.poller.Stop()
	d.widget.Close()
	_ = d.store.Close()
	d.logger.Debug("watch mode stopped")
}

// writeStatus prints status unless it equals the previous line.
func (d *Daemon) writeStatus(status view.Status) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(status); err != nil {
		return fmt.Errorf("encode status: %w", err)
	}
	line := buf.Bytes()

	d.mu.Lock()
	defer d.mu.Unlock()
	if bytes.Equal(line, d.lastLine) {
		return nil
	}
	d.lastLine = line

	if _, err := d.out.Write(line); err != nil {
		return fmt.Errorf("write status: %w", err)
	}
	return nil
}

// applyConfig applies a reloaded config to the running components.
func (d *Daemon) applyConfig(newConfig *config.Config) {
	d.mu.Lock()
	old := d.cfg
	d.cfg = newConfig
	d.mu.Unlock()

	d.poller.SetInterval(newConfig.Poll.Interval.Duration())
	d.widget.UpdateSettings(view.SettingsFromConfig(newConfig))
	if d.notifier != nil {
		applyNotifyConfig(d.notifier, newConfig)
	}

	if old.Cache.Path != newConfig.Cache.Path {
		d.logger.Warn("cache path change requires restart", "old", old.Cache.Path, "new", newConfig.Cache.Path)
		_ = d.internal.NotifyRestartRequired("cache.path")
	}
	if old.Restore.Command != newConfig.Restore.Command {
		d.logger.Warn("restore command change requires restart")
		_ = d.internal.NotifyRestartRequired("restore.command")
	}

	if err := d.internal.NotifyConfigReloaded(); err != nil {
		d.logger.Debug("config reload notification failed", "error", err)
	}
}

func applyNotifyConfig(n *notify.Notifier, cfg *config.Config) {
	n.SetEnabled(cfg.Notify.Enabled)
	n.SetMinInterval(cfg.Notify.RateLimit.Duration())
}
