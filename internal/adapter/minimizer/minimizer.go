// Package minimizer talks to the hypr-minimizer script and its cache file.
package minimizer

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/jmylchreest/windowstash/internal/model"
)

// Backend is everything windowstash needs from hypr-minimizer.
type Backend interface {
	// ReadCache returns the stashed windows in cache file order.
	ReadCache(ctx context.Context) ([]model.MinimizedWindow, error)

	// Restore asks the script to bring back the window at address.
	Restore(ctx context.Context, address string) error
}

// scriptName is the file name hypr-minimizer is usually installed under.
const scriptName = "hypr-minimizer.py"

// DetectScript returns the path of an installed hypr-minimizer script.
// Returns empty string if none found.
func DetectScript() string {
	if path, err := exec.LookPath("hypr-minimizer"); err == nil {
		return path
	}
	if path, err := exec.LookPath(scriptName); err == nil {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	candidate := filepath.Join(home, ".config", "hypr", "scripts", scriptName)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}

// ResolveArgs returns the restore argv to run. When args name a
// hypr-minimizer script that does not exist, the script found by
// DetectScript takes its place; otherwise args are returned unchanged.
func ResolveArgs(args []string) []string {
	idx := -1
	for i, arg := range args {
		if filepath.Base(arg) == scriptName {
			idx = i
			break
		}
	}
	if idx < 0 {
		return args
	}
	if _, err := os.Stat(args[idx]); err == nil {
		return args
	}

	detected := DetectScript()
	if detected == "" || detected == args[idx] {
		return args
	}

	var resolved []string
	if strings.HasSuffix(detected, ".py") {
		// Keep the interpreter in front of the script.
		resolved = append(resolved, args[:idx]...)
	}
	resolved = append(resolved, detected)
	return append(resolved, args[idx+1:]...)
}
