package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/windowstash/internal/adapter/output"
	"github.com/jmylchreest/windowstash/internal/config"
	"github.com/jmylchreest/windowstash/internal/store"
	"github.com/jmylchreest/windowstash/internal/view"
)

// cacheCmd represents the cache command group.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or reset the hypr-minimizer cache",
	Long: `Inspect or reset the window cache written by hypr-minimizer.

Use 'windowstash cache info' to see the file state.
Use 'windowstash cache show' to dump the parsed windows as JSON.
Use 'windowstash cache clear' to forget every stashed window.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cacheInfoRun(cmd, args)
	},
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the cache file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(cachePath())
		return nil
	},
}

var cacheShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the cached windows as JSON",
	RunE:  cacheShowRun,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Reset the cache to an empty list",
	Long: `Reset the cache file to an empty list. Windows that are still hidden stay
hidden in the compositor; only the stash bookkeeping is lost.`,
	RunE: cacheClearRun,
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show cache file details",
	RunE:  cacheInfoRun,
}

func init() {
	cacheCmd.AddCommand(cachePathCmd)
	cacheCmd.AddCommand(cacheShowCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheInfoCmd)

	rootCmd.AddCommand(cacheCmd)
}

func cacheShowRun(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := output.FormatterOptions{
		WithIcons: true,
		Resolver:  view.ResolverFromConfig(cfg.Icons),
	}
	return output.NewJSONFormatter(opts).Format(os.Stdout, readWindows(ctx))
}

func cacheClearRun(cmd *cobra.Command, args []string) error {
	fileCache := newFileCache(false)
	if err := fileCache.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	fmt.Printf("Cleared %s\n", fileCache.Path())
	return nil
}

func cacheInfoRun(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	fileCache := newFileCache(false)
	info, err := fileCache.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat cache: %w", err)
	}

	fmt.Printf("Path:     %s\n", info.Path)
	if !info.Exists {
		fmt.Println("Status:   missing (created on first read)")
	} else {
		windows := readWindows(ctx)
		fmt.Printf("Size:     %s\n", humanize.Bytes(uint64(info.Size)))
		fmt.Printf("Modified: %s (%s)\n", humanize.Time(info.ModTime), info.ModTime.Format(time.RFC3339))
		fmt.Printf("Windows:  %d\n", len(windows))
	}

	state, err := store.LoadRuntimeState(config.StatePath())
	if err != nil {
		logger.Debug("failed to load runtime state", "error", err)
		return nil
	}
	fmt.Printf("Restored: %s\n", lastRestoreSummary(state))
	return nil
}

// lastRestoreSummary describes the last restore request recorded by a bar
// click, pick or restore command.
func lastRestoreSummary(state *store.RuntimeState) string {
	addr, at := state.LastRestore()
	if addr == "" || at.IsZero() {
		return "never"
	}
	return fmt.Sprintf("%s %s (%s)", addr, humanize.Time(at), at.Format(time.RFC3339))
}
