package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/windowstash/internal/daemon"
)

var watchOpts struct {
	noReload bool
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream Waybar JSON status on every change",
	Long: `Run continuously and print one Waybar JSON line whenever the stash changes.

The cache file is polled at the configured interval and also watched for
writes, so restores and new minimizations show up immediately. The config
file is reloaded on change; cache path and restore command changes need a
restart.

Use it as a Waybar exec module without an interval:

  "custom/windowstash": {
    "exec": "windowstash watch",
    "return-type": "json"
  }`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().BoolVar(&watchOpts.noReload, "no-reload", false,
		"Do not reload the config file when it changes")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := daemon.Options{
		Config:    cfg,
		CacheFile: newFileCache(true),
		Notifier:  newNotifier(),
		Output:    os.Stdout,
		Logger:    logger,
	}
	if !watchOpts.noReload {
		opts.ConfigPath = configPath()
	}

	d, err := daemon.New(opts)
	if err != nil {
		return err
	}

	logger.Debug("watching stash", "cache", opts.CacheFile.Path(), "config", opts.ConfigPath)
	return d.Run(ctx)
}
