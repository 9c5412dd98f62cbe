package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/windowstash/internal/adapter/output"
	"github.com/jmylchreest/windowstash/internal/model"
	"github.com/jmylchreest/windowstash/internal/view"
)

var restoreOpts struct {
	first bool
	last  bool
}

var infoOpts struct {
	first bool
	print bool
	field string
}

var clickOpts struct {
	button string
}

var restoreCmd = &cobra.Command{
	Use:   "restore [address|#index|first|last]",
	Short: "Restore a stashed window",
	Long: `Ask hypr-minimizer to bring a stashed window back.

Without an argument the most recently minimized window is restored.
An address that is not in the cache is still passed to the script.

Examples:
  windowstash restore 0x55d1c0a0
  windowstash restore --first
  windowstash restore '#2'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRestore,
}

var infoCmd = &cobra.Command{
	Use:   "info [address|#index|first|last]",
	Short: "Show details of a stashed window",
	Long: `Send a desktop notification with the class and original title of a
stashed window. Without an argument the most recently minimized window is
used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInfo,
}

var clickCmd = &cobra.Command{
	Use:   "click <address>",
	Short: "Handle a bar click on a stashed window",
	Long: `Dispatch a mouse button press on the stash entry for address.

  primary (left, 1)     restore the window
  middle (2)            show window info
  secondary (right, 3)  no action`,
	Args: cobra.ExactArgs(1),
	RunE: runClick,
}

func init() {
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(clickCmd)

	restoreCmd.Flags().BoolVar(&restoreOpts.first, "first", false,
		"Restore the oldest stashed window")
	restoreCmd.Flags().BoolVar(&restoreOpts.last, "last", false,
		"Restore the most recently stashed window (default)")
	restoreCmd.MarkFlagsMutuallyExclusive("first", "last")

	infoCmd.Flags().BoolVar(&infoOpts.first, "first", false,
		"Use the oldest stashed window")
	infoCmd.Flags().BoolVarP(&infoOpts.print, "print", "p", false,
		"Print the details instead of sending a notification")
	infoCmd.Flags().StringVar(&infoOpts.field, "field", "",
		"Print a single field (address, class, title, original_title, icon, info)")

	clickCmd.Flags().StringVarP(&clickOpts.button, "button", "b", "primary",
		"Mouse button (primary, middle, secondary)")
}

func runRestore(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	address, err := restoreTarget(s.store.Windows(), args, restoreOpts.first)
	if err != nil {
		if errors.Is(err, model.ErrNoWindows) {
			logger.Debug("nothing to restore")
			return nil
		}
		return err
	}

	logger.Debug("restoring window", "address", address)
	if err := s.widget.Click(ctx, address, view.ButtonPrimary); err != nil {
		return err
	}
	recordRestore(address)
	return nil
}

// restoreTarget resolves the address to restore. Explicit addresses missing
// from the cache are passed through unchanged.
func restoreTarget(windows []model.MinimizedWindow, args []string, first bool) (string, error) {
	win, err := resolveRef(windows, args, first)
	if err == nil {
		return win.Address, nil
	}
	if len(args) > 0 && errors.Is(err, model.ErrWindowNotFound) && isAddress(args[0]) {
		return strings.TrimSpace(args[0]), nil
	}
	return "", err
}

func isAddress(ref string) bool {
	ref = strings.ToLower(strings.TrimSpace(ref))
	return strings.HasPrefix(ref, "0x") && len(ref) > 2
}

func runInfo(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	win, err := resolveRef(s.store.Windows(), args, infoOpts.first)
	if err != nil {
		return err
	}

	switch {
	case infoOpts.field != "":
		fmt.Println(output.FormatField(&win, infoOpts.field, s.widget.Settings().Resolver))
		return nil
	case infoOpts.print:
		fmt.Println(win.InfoBody())
		return nil
	}
	return s.widget.ShowInfo(win)
}

func runClick(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	button, err := view.ParseButton(clickOpts.button)
	if err != nil {
		return err
	}

	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	address := args[0]
	logger.Debug("click", "address", address, "button", button)
	if err := s.widget.Click(ctx, address, button); err != nil {
		return err
	}
	if button == view.ButtonPrimary {
		recordRestore(address)
	}
	return nil
}
