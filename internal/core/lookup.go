package core

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/jmylchreest/windowstash/internal/model"
)

// LookupByIndex finds a window by its 1-based position in the list.
func LookupByIndex(windows []model.MinimizedWindow, index int) (model.MinimizedWindow, error) {
	idx := index - 1
	if idx < 0 || idx >= len(windows) {
		return model.MinimizedWindow{}, fmt.Errorf("%w: index %d", model.ErrWindowNotFound, index)
	}
	return windows[idx], nil
}

// Select resolves a window reference: "last", "first", "#N" (1-based index)
// or an address.
func Select(windows []model.MinimizedWindow, ref string) (model.MinimizedWindow, error) {
	ref = strings.TrimSpace(ref)
	switch strings.ToLower(ref) {
	case "last", "":
		return model.Last(windows)
	case "first":
		return model.First(windows)
	}

	if rest, ok := strings.CutPrefix(ref, "#"); ok {
		index, err := strconv.Atoi(rest)
		if err != nil {
			return model.MinimizedWindow{}, fmt.Errorf("invalid index %q: %w", ref, err)
		}
		return LookupByIndex(windows, index)
	}

	return model.FindByAddress(windows, ref)
}

// UniqueClasses returns the sorted distinct window classes.
func UniqueClasses(windows []model.MinimizedWindow) []string {
	seen := make(map[string]bool)
	var classes []string

	for _, w := range windows {
		if w.Class != "" && !seen[w.Class] {
			seen[w.Class] = true
			classes = append(classes, w.Class)
		}
	}

	slices.SortStableFunc(classes, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return classes
}
