package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/windowstash/internal/config"
	"github.com/jmylchreest/windowstash/internal/store"
	"github.com/jmylchreest/windowstash/internal/view"
)

var scrollCmd = &cobra.Command{
	Use:       "scroll up|down",
	Short:     "Switch workspace from a bar scroll event",
	ValidArgs: []string{string(view.ScrollUp), string(view.ScrollDown)},
	Long: `Run the configured workspace command for a scroll direction.

Scroll events arrive much faster than workspaces should switch, so actions
are limited to [scroll] speed per second across invocations. Excess events
are dropped silently.`,
	Args: cobra.ExactArgs(1),
	RunE: runScroll,
}

func init() {
	rootCmd.AddCommand(scrollCmd)
}

func runScroll(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	direction, err := view.ParseDirection(args[0])
	if err != nil {
		return err
	}

	path := config.StatePath()
	state, err := store.LoadRuntimeState(path)
	if err != nil {
		logger.Debug("failed to load runtime state", "path", path, "error", err)
		state = store.DefaultRuntimeState()
	}

	now := time.Now()
	if !scrollAllowed(state.LastScroll(), now, cfg.Scroll.Speed) {
		logger.Debug("scroll throttled", "direction", direction)
		return nil
	}

	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.widget.Scroll(ctx, direction); err != nil {
		if errors.Is(err, view.ErrThrottled) {
			return nil
		}
		return err
	}

	state.RecordScroll(string(direction), now)
	if err := store.SaveRuntimeState(path, state); err != nil {
		logger.Debug("failed to save runtime state", "path", path, "error", err)
	}
	return nil
}

// scrollAllowed reports whether enough time has passed since the last
// accepted scroll for the configured speed.
func scrollAllowed(last, now time.Time, speed int) bool {
	interval := view.ScrollInterval(speed)
	if interval == 0 || last.IsZero() {
		return true
	}
	return now.Sub(last) >= interval || now.Before(last)
}
