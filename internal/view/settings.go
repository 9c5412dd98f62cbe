package view

import (
	"github.com/jmylchreest/windowstash/internal/config"
	"github.com/jmylchreest/windowstash/internal/icon"
	"github.com/jmylchreest/windowstash/internal/model"
)

// Settings is the presentation snapshot a Widget renders with.
type Settings struct {
	AutoHide    bool
	Style       config.BarStyle
	Separator   string
	Resolver    model.IconResolver
	ScrollSpeed int      // Scroll actions per second; 0 disables throttling
	ScrollUp    []string // argv run on scroll up
	ScrollDown  []string // argv run on scroll down
}

// DefaultSettings returns settings matching config.DefaultConfig.
func DefaultSettings() Settings {
	return SettingsFromConfig(config.DefaultConfig())
}

// SettingsFromConfig derives widget settings from a loaded configuration.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		AutoHide:    cfg.Bar.AutoHide,
		Style:       config.BarStyle(cfg.Bar.Style),
		Separator:   cfg.Bar.Separator,
		Resolver:    ResolverFromConfig(cfg.Icons),
		ScrollSpeed: cfg.Scroll.Speed,
		ScrollUp:    config.SplitCommand(cfg.Scroll.UpCommand),
		ScrollDown:  config.SplitCommand(cfg.Scroll.DownCommand),
	}
}

// ResolverFromConfig builds an icon resolver from the [icons] section.
func ResolverFromConfig(c config.IconsConfig) *icon.Resolver {
	patterns := make([]icon.Pattern, 0, len(c.Patterns))
	for _, p := range c.Patterns {
		patterns = append(patterns, icon.Pattern{Match: p.Match, Glyph: p.Glyph})
	}
	return icon.NewResolver(icon.Options{
		UserMap:     c.Map,
		Patterns:    patterns,
		Default:     c.Default,
		Fallthrough: c.Fallthrough,
	})
}

func (s Settings) normalized() Settings {
	if s.Style == "" {
		s.Style = config.BarStyleDefault
	}
	if s.Separator == "" {
		s.Separator = config.DefaultSeparator
	}
	if s.Resolver == nil {
		s.Resolver = icon.NewResolver(icon.Options{Fallthrough: true})
	}
	return s
}
