// Package main provides the CLI entrypoint for windowstash.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/windowstash/internal/adapter/minimizer"
	"github.com/jmylchreest/windowstash/internal/cache"
	"github.com/jmylchreest/windowstash/internal/config"
	"github.com/jmylchreest/windowstash/internal/model"
	"github.com/jmylchreest/windowstash/internal/notify"
	"github.com/jmylchreest/windowstash/internal/shell"
	"github.com/jmylchreest/windowstash/internal/store"
	"github.com/jmylchreest/windowstash/internal/view"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose    bool
		cacheFile  string
		configPath string
	}
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "windowstash",
	Short: "Minimized window stash for Hyprland status bars",
	Long: `windowstash shows the windows stashed by hypr-minimizer in your status bar.

Each stashed window appears as an application glyph. Clicking a window
restores it, middle-clicking shows its details and scrolling switches
workspace.

Running windowstash without a subcommand prints the bar status once.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatus(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.cacheFile, "cache-file", "",
		"Path to the hypr-minimizer cache (default: /tmp/hypr-minimizer/windows.json)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/windowstash/config.toml)")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	// Log to stderr so stdout stays clean for the bar
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// configPath returns the config file in use.
func configPath() string {
	if globalOpts.configPath != "" {
		return globalOpts.configPath
	}
	return config.ConfigPath()
}

// cachePath returns the cache file in use, preferring --cache-file.
func cachePath() string {
	if globalOpts.cacheFile != "" {
		return config.ExpandPath(globalOpts.cacheFile)
	}
	return config.ExpandPath(cfg.Cache.Path)
}

// newFileCache opens the cache. Only long-running commands honour
// clear_on_start; one-shot bar handlers must never wipe the stash.
func newFileCache(longRunning bool) *cache.FileCache {
	return cache.NewFileCache(cachePath(), longRunning && cfg.Cache.ClearOnStart)
}

func newBackend(fileCache *cache.FileCache, runner shell.Runner) *minimizer.Client {
	return minimizer.NewClient(fileCache, minimizer.ResolveArgs(cfg.RestoreArgs()), cfg.Restore.Timeout.Duration(), runner)
}

func newNotifier() *notify.Notifier {
	n := notify.New(logger)
	n.SetEnabled(cfg.Notify.Enabled)
	n.SetMinInterval(cfg.Notify.RateLimit.Duration())
	return n
}

// readWindows reads the stash once. Read failures yield an empty list.
func readWindows(ctx context.Context) []model.MinimizedWindow {
	return cache.NewReader(newFileCache(false), logger).Windows(ctx)
}

// session is a one-shot widget over a single cache read, used by the bar
// click and scroll handlers.
type session struct {
	store      *store.Store
	widget     *view.Widget
	dispatcher *minimizer.Dispatcher
}

func newSession(ctx context.Context) (*session, error) {
	runner := shell.NewExecRunner()
	backend := newBackend(newFileCache(false), runner)

	s := &session{
		store:      store.NewStore(),
		dispatcher: minimizer.NewDispatcher(backend, logger),
	}
	if err := s.store.Set(cache.NewReader(backend, logger).Windows(ctx)); err != nil {
		return nil, err
	}
	s.widget = view.NewWidget(view.SettingsFromConfig(cfg), view.Deps{
		Store:    s.store,
		Restorer: s.dispatcher,
		Notifier: newNotifier(),
		Runner:   runner,
		Logger:   logger,
	})
	return s, nil
}

func (s *session) Close() {
	s.widget.Close()
	s.dispatcher.Wait()
	_ = s.store.Close()
}

// recordRestore remembers the last restore request for the next invocation.
func recordRestore(address string) {
	path := config.StatePath()
	state, err := store.LoadRuntimeState(path)
	if err != nil {
		logger.Debug("failed to load runtime state", "path", path, "error", err)
		state = store.DefaultRuntimeState()
	}
	state.RecordRestore(address, time.Now())
	if err := store.SaveRuntimeState(path, state); err != nil {
		logger.Debug("failed to save runtime state", "path", path, "error", err)
	}
}
