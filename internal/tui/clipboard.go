package tui

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/jmylchreest/windowstash/internal/config"
	"github.com/jmylchreest/windowstash/internal/shell"
)

const clipboardTimeout = 5 * time.Second

var errNoClipboard = errors.New("no clipboard command available")

// copyText copies text to the system clipboard.
func copyText(runner shell.Runner, command, text string) error {
	cmd := command
	if cmd == "" {
		cmd = detectClipboardCommand()
	}
	if cmd == "" {
		return errNoClipboard
	}

	ctx, cancel := context.WithTimeout(context.Background(), clipboardTimeout)
	defer cancel()

	_, err := runner.Run(ctx, config.SplitCommand(cmd), strings.NewReader(text))
	return err
}

// detectClipboardCommand returns the clipboard command to use.
func detectClipboardCommand() string {
	// Wayland
	if _, err := exec.LookPath("wl-copy"); err == nil {
		return "wl-copy"
	}

	// X11
	if _, err := exec.LookPath("xclip"); err == nil {
		return "xclip -selection clipboard"
	}

	if _, err := exec.LookPath("xsel"); err == nil {
		return "xsel --clipboard --input"
	}

	return ""
}
