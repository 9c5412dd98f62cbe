// Package core provides filtering, sorting, and lookup logic for the
// window list.
package core

import (
	"strings"

	"github.com/jmylchreest/windowstash/internal/model"
)

// FilterOptions specifies criteria for filtering windows.
type FilterOptions struct {
	Class  string // Case-insensitive exact match on class
	Search string // Case-insensitive substring of titles or class
	Limit  int    // Maximum results (0=unlimited)
}

// Filter returns the windows matching opts, in input order.
func Filter(windows []model.MinimizedWindow, opts FilterOptions) []model.MinimizedWindow {
	result := make([]model.MinimizedWindow, 0, len(windows))

	for _, w := range windows {
		if opts.Class != "" && !strings.EqualFold(w.Class, opts.Class) {
			continue
		}
		if opts.Search != "" && !Matches(w, opts.Search) {
			continue
		}

		result = append(result, w)
		if opts.Limit > 0 && len(result) >= opts.Limit {
			break
		}
	}

	return result
}

// Search returns windows whose titles or class contain term, ignoring case.
func Search(windows []model.MinimizedWindow, term string) []model.MinimizedWindow {
	if strings.TrimSpace(term) == "" {
		return windows
	}
	return Filter(windows, FilterOptions{Search: term})
}

// Matches reports whether a window's titles or class contain term,
// ignoring case.
func Matches(w model.MinimizedWindow, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	return strings.Contains(strings.ToLower(w.DisplayTitle), term) ||
		strings.Contains(strings.ToLower(w.OriginalTitle), term) ||
		strings.Contains(strings.ToLower(w.Class), term)
}
