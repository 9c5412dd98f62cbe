// Package model defines the core data structures for windowstash.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// MinimizedWindow is one stashed window as recorded by hypr-minimizer.
// Records are snapshots; the cache file is the only source of truth.
type MinimizedWindow struct {
	Address       string `json:"address" yaml:"address"`
	DisplayTitle  string `json:"display_title" yaml:"display_title"`
	Class         string `json:"class" yaml:"class"`
	OriginalTitle string `json:"original_title" yaml:"original_title"`
	Icon          string `json:"icon,omitempty" yaml:"icon,omitempty"` // Overrides the resolved glyph when set
}

// IconResolver maps a window class to a glyph.
type IconResolver interface {
	Resolve(className string) string
}

// Lookup errors.
var (
	ErrNoWindows      = errors.New("no minimized windows")
	ErrWindowNotFound = errors.New("window not found")
)

// DisplayIcon returns the window's own icon, or the resolved one.
func (w MinimizedWindow) DisplayIcon(r IconResolver) string {
	if w.Icon != "" {
		return w.Icon
	}
	if r == nil {
		return ""
	}
	return r.Resolve(w.Class)
}

// Tooltip returns the hover text shown for the window.
func (w MinimizedWindow) Tooltip() string {
	return w.OriginalTitle + "\n" + w.Class
}

// InfoBody returns the body of the window info notification.
func (w MinimizedWindow) InfoBody() string {
	return fmt.Sprintf("Class: %s\nTitle: %s", w.Class, w.OriginalTitle)
}

// Title returns the best available label.
func (w MinimizedWindow) Title() string {
	if w.DisplayTitle != "" {
		return w.DisplayTitle
	}
	if w.OriginalTitle != "" {
		return w.OriginalTitle
	}
	return w.Class
}

// FindByAddress returns the window with the given address.
// Addresses compare case-insensitively and with or without the 0x prefix.
func FindByAddress(windows []MinimizedWindow, address string) (MinimizedWindow, error) {
	want := normalizeAddress(address)
	for _, w := range windows {
		if normalizeAddress(w.Address) == want {
			return w, nil
		}
	}
	return MinimizedWindow{}, fmt.Errorf("%w: %s", ErrWindowNotFound, address)
}

// Last returns the most recently minimized window (last in file order).
func Last(windows []MinimizedWindow) (MinimizedWindow, error) {
	if len(windows) == 0 {
		return MinimizedWindow{}, ErrNoWindows
	}
	return windows[len(windows)-1], nil
}

// First returns the oldest minimized window.
func First(windows []MinimizedWindow) (MinimizedWindow, error) {
	if len(windows) == 0 {
		return MinimizedWindow{}, ErrNoWindows
	}
	return windows[0], nil
}

func normalizeAddress(address string) string {
	a := strings.ToLower(strings.TrimSpace(address))
	return strings.TrimPrefix(a, "0x")
}
