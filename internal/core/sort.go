package core

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jmylchreest/windowstash/internal/model"
)

// SortField represents a field to sort by.
type SortField string

const (
	SortByStash SortField = "stash" // Cache file order, oldest first
	SortByClass SortField = "class"
	SortByTitle SortField = "title"
)

// SortOrder represents ascending or descending order.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortOptions specifies sorting criteria.
type SortOptions struct {
	Field SortField
	Order SortOrder
}

// DefaultSortOptions keeps cache file order.
func DefaultSortOptions() SortOptions {
	return SortOptions{
		Field: SortByStash,
		Order: SortAsc,
	}
}

// Sort returns a sorted copy of windows. Ties keep cache file order.
func Sort(windows []model.MinimizedWindow, opts SortOptions) []model.MinimizedWindow {
	result := slices.Clone(windows)

	switch opts.Field {
	case SortByClass:
		slices.SortStableFunc(result, func(a, b model.MinimizedWindow) int {
			return strings.Compare(strings.ToLower(a.Class), strings.ToLower(b.Class))
		})
	case SortByTitle:
		slices.SortStableFunc(result, func(a, b model.MinimizedWindow) int {
			return strings.Compare(strings.ToLower(a.Title()), strings.ToLower(b.Title()))
		})
	}

	if opts.Order == SortDesc {
		slices.Reverse(result)
	}
	return result
}

// ParseSortField parses a sort field string.
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "stash", "file", "time":
		return SortByStash, nil
	case "class", "c":
		return SortByClass, nil
	case "title", "t":
		return SortByTitle, nil
	default:
		return "", fmt.Errorf("unknown sort field %q", s)
	}
}

// ParseSortOrder parses a sort order string.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending", "a":
		return SortAsc, nil
	case "desc", "descending", "d":
		return SortDesc, nil
	default:
		return "", fmt.Errorf("unknown sort order %q", s)
	}
}
