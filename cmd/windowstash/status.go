package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/windowstash/internal/view"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Output Waybar-compatible JSON status",
	Long: `Output the stash in Waybar's custom module JSON format.

This is designed to be used with Waybar's custom module:

  "custom/windowstash": {
    "exec": "windowstash status",
    "interval": 1,
    "return-type": "json",
    "on-click": "windowstash restore --last",
    "on-click-middle": "windowstash info --last",
    "on-click-right": "windowstash pick",
    "on-scroll-up": "windowstash scroll up",
    "on-scroll-down": "windowstash scroll down"
  }

For instant updates use 'windowstash watch' as the exec command instead
and drop the interval.

The output includes:
  - text: One glyph per stashed window
  - alt: active or empty
  - tooltip: Title and class of every stashed window
  - class: windowstash, style-<bar style> and active/empty
  - percentage: Number of stashed windows (capped at 100)`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	status := view.RenderStatus(readWindows(ctx), view.SettingsFromConfig(cfg))
	return outputStatus(status)
}

// outputStatus writes the status as a single JSON line.
func outputStatus(status view.Status) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetEscapeHTML(false)
	return encoder.Encode(status)
}
