// Package icon maps window classes to Nerd Font glyphs.
package icon

import (
	"sort"
	"strings"
)

// Pattern pairs a class substring with a glyph.
type Pattern struct {
	Match string
	Glyph string
}

// DefaultPatterns is the built-in pattern table. Order is precedence.
var DefaultPatterns = []Pattern{
	{"terminal", "󰆍"},
	{"code", "󰨞"},
	{"chrome", "󰊯"},
	{"firefox", "󰈹"},
	{"brave", "󰇧"},
	{"discord", "󰙯"},
	{"spotify", "󰓇"},
	{"steam", "󰓓"},
	{"vlc", "󰕼"},
	{"file", "󰉋"},
	{"image", "󰋩"},
	{"video", "󰕧"},
	{"pdf", "󰈦"},
}

// DefaultGlyph is returned when nothing matches.
const DefaultGlyph = "󰖯"

// Options configures a Resolver.
type Options struct {
	// UserMap maps window classes to glyphs. Consulted first.
	UserMap map[string]string
	// Patterns are checked before DefaultPatterns.
	Patterns []Pattern
	// Default is the fallback glyph (DefaultGlyph if empty).
	Default string
	// Fallthrough consults the pattern tables when a non-empty UserMap misses.
	// When false a miss returns Default immediately.
	Fallthrough bool
}

// Resolver resolves glyphs. It is immutable and safe for concurrent use.
type Resolver struct {
	userMap     map[string]string
	lowerMap    map[string]string // lowercase key -> glyph
	patterns    []Pattern
	defaultIcon string
	fallThrough bool
}

// NewResolver builds a Resolver from options.
func NewResolver(opts Options) *Resolver {
	r := &Resolver{
		userMap:     make(map[string]string, len(opts.UserMap)),
		lowerMap:    make(map[string]string, len(opts.UserMap)),
		defaultIcon: opts.Default,
		fallThrough: opts.Fallthrough,
	}
	if r.defaultIcon == "" {
		r.defaultIcon = DefaultGlyph
	}

	keys := make([]string, 0, len(opts.UserMap))
	for k, v := range opts.UserMap {
		r.userMap[k] = v
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		lk := strings.ToLower(k)
		if _, seen := r.lowerMap[lk]; seen {
			continue
		}
		r.lowerMap[lk] = opts.UserMap[k]
	}

	for _, p := range opts.Patterns {
		if p.Match == "" {
			continue
		}
		r.patterns = append(r.patterns, Pattern{Match: strings.ToLower(p.Match), Glyph: p.Glyph})
	}
	r.patterns = append(r.patterns, DefaultPatterns...)

	return r
}

// Resolve returns the glyph for a window class. It always returns a glyph.
func (r *Resolver) Resolve(className string) string {
	if len(r.userMap) > 0 {
		if glyph, ok := r.userMap[className]; ok {
			return glyph
		}
		if glyph, ok := r.lowerMap[strings.ToLower(className)]; ok {
			return glyph
		}
		if !r.fallThrough {
			return r.defaultIcon
		}
	}

	lower := strings.ToLower(className)
	for _, p := range r.patterns {
		if strings.Contains(lower, p.Match) {
			return p.Glyph
		}
	}

	return r.defaultIcon
}

// Default returns the fallback glyph.
func (r *Resolver) Default() string {
	return r.defaultIcon
}
