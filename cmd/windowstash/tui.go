package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/windowstash/internal/adapter/minimizer"
	"github.com/jmylchreest/windowstash/internal/cache"
	"github.com/jmylchreest/windowstash/internal/poller"
	"github.com/jmylchreest/windowstash/internal/shell"
	"github.com/jmylchreest/windowstash/internal/store"
	"github.com/jmylchreest/windowstash/internal/tui"
	"github.com/jmylchreest/windowstash/internal/view"
)

var tuiOpts struct {
	stayOpen bool
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive window picker",
	Long: `Launch the terminal picker for stashed windows.

The list follows the cache file live, so windows minimized or restored
elsewhere appear and disappear while the picker is open.

Key bindings:
  j/k, ↑/↓    Navigate list
  enter       Restore window
  v, tab      View window details
  i           Send window info notification
  c           Copy address to clipboard
  C           Copy all windows as JSON
  alt+c       Copy all windows as YAML
  /           Filter windows
  r           Re-read the cache
  ?           Show help
  q           Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)

	tuiCmd.Flags().BoolVar(&tuiOpts.stayOpen, "stay-open", false,
		"Keep the picker open after restoring a window")
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := shell.NewExecRunner()
	fileCache := newFileCache(false)
	backend := newBackend(fileCache, runner)

	windowStore := store.NewStore()
	defer func() { _ = windowStore.Close() }()

	p := poller.New(cache.NewReader(backend, logger).Windows, windowStore, cfg.Poll.Interval.Duration(), logger)
	if err := p.Start(ctx); err != nil {
		return err
	}
	defer p.Stop()

	watcher, err := cache.NewWatcher(fileCache.Path(), p.Trigger, logger)
	if err != nil {
		logger.Warn("cache watcher unavailable", "path", fileCache.Path(), "error", err)
	} else {
		if err := watcher.Start(); err != nil {
			logger.Warn("failed to start cache watcher", "path", fileCache.Path(), "error", err)
		}
		defer func() { _ = watcher.Stop() }()
	}

	dispatcher := minimizer.NewDispatcher(backend, logger)
	defer dispatcher.Wait()

	widget := view.NewWidget(view.SettingsFromConfig(cfg), view.Deps{
		Store:    windowStore,
		Restorer: dispatcher,
		Notifier: newNotifier(),
		Runner:   runner,
		Logger:   logger,
	})
	defer widget.Close()

	return tui.Run(tui.Options{
		Store:            windowStore,
		Actions:          widget,
		Resolver:         widget.Settings().Resolver,
		Refresh:          p.Trigger,
		Runner:           runner,
		ClipboardCommand: cfg.Clipboard.Command,
		StayOpen:         tuiOpts.stayOpen,
	})
}
