package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/windowstash/internal/adapter/output"
	"github.com/jmylchreest/windowstash/internal/config"
	"github.com/jmylchreest/windowstash/internal/core"
	"github.com/jmylchreest/windowstash/internal/shell"
	"github.com/jmylchreest/windowstash/internal/view"
)

var pickOpts struct {
	launcher string
	template string
	oldest   bool
}

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Choose a window to restore with a dmenu-style launcher",
	Long: `Show the stash in a dmenu-compatible launcher and restore the chosen window.

The launcher receives one line per window on stdin and must print the chosen
line on stdout. The most recently minimized window is listed first.

Examples:
  windowstash pick
  windowstash pick --launcher "rofi -dmenu -i -p stash"
  windowstash pick --launcher "wofi --dmenu"`,
	Args: cobra.NoArgs,
	RunE: runPick,
}

func init() {
	rootCmd.AddCommand(pickCmd)

	pickCmd.Flags().StringVarP(&pickOpts.launcher, "launcher", "l", "",
		"Launcher command (default from [launcher] command)")
	pickCmd.Flags().StringVar(&pickOpts.template, "template", "",
		"Custom Go template for launcher lines (must start with {{.Index}})")
	pickCmd.Flags().BoolVar(&pickOpts.oldest, "oldest-first", false,
		"List windows in stash order instead of newest first")
}

func runPick(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	launcher := pickOpts.launcher
	if launcher == "" {
		launcher = cfg.Launcher.Command
	}
	argv := config.SplitCommand(launcher)
	if len(argv) == 0 {
		return errors.New("no launcher configured; set [launcher] command or pass --launcher")
	}

	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	order := core.SortDesc
	if pickOpts.oldest {
		order = core.SortAsc
	}
	windows := core.Sort(s.store.Windows(), core.SortOptions{Field: core.SortByStash, Order: order})
	if len(windows) == 0 {
		logger.Debug("nothing to pick")
		return nil
	}

	opts := output.DefaultFormatterOptions()
	opts.Template = pickOpts.template
	opts.Resolver = s.widget.Settings().Resolver
	formatter := output.NewDmenuFormatter(opts)

	var menu bytes.Buffer
	if err := formatter.Format(&menu, windows); err != nil {
		return err
	}

	choice, err := shell.NewExecRunner().Run(ctx, argv, &menu)
	if err != nil {
		var cmdErr *shell.CommandError
		if errors.As(err, &cmdErr) && cmdErr.ExitCode() > 0 && len(bytes.TrimSpace(choice)) == 0 {
			// Launchers exit non-zero when dismissed.
			logger.Debug("launcher dismissed", "exit_code", cmdErr.ExitCode())
			return nil
		}
		return err
	}
	if strings.TrimSpace(string(choice)) == "" {
		return nil
	}

	win, err := formatter.Selection(string(choice), windows)
	if err != nil {
		return err
	}

	logger.Debug("picked window", "address", win.Address, "class", win.Class)
	if err := s.widget.Click(ctx, win.Address, view.ButtonPrimary); err != nil {
		return err
	}
	recordRestore(win.Address)
	return nil
}
