// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultCachePath      = "/tmp/hypr-minimizer/windows.json"
	DefaultPollInterval   = 1 * time.Second
	DefaultRestoreCommand = "python ~/.config/hypr/scripts/hypr-minimizer.py"
	DefaultRestoreTimeout = 5 * time.Second
	DefaultSeparator      = " "
	DefaultGlyph          = "󰖯"
	DefaultScrollSpeed    = 5
	DefaultScrollUp       = "hyprctl dispatch workspace e-1"
	DefaultScrollDown     = "hyprctl dispatch workspace e+1"
	DefaultNotifyLimit    = 1 * time.Second
	DefaultLauncher       = "fuzzel --dmenu"
)

// Config represents the windowstash configuration.
type Config struct {
	Cache     CacheConfig     `toml:"cache"`
	Poll      PollConfig      `toml:"poll"`
	Restore   RestoreConfig   `toml:"restore"`
	Bar       BarConfig       `toml:"bar"`
	Icons     IconsConfig     `toml:"icons"`
	Scroll    ScrollConfig    `toml:"scroll"`
	Notify    NotifyConfig    `toml:"notify"`
	Launcher  LauncherConfig  `toml:"launcher"`
	Clipboard ClipboardConfig `toml:"clipboard"`
}

// CacheConfig points at the hypr-minimizer cache file.
type CacheConfig struct {
	Path         string `toml:"path"`
	ClearOnStart bool   `toml:"clear_on_start"` // Wipe the cache on the first read of a session
}

// PollConfig holds polling options.
type PollConfig struct {
	Interval Duration `toml:"interval"` // e.g. "1s", "500ms", or 1000
}

// RestoreConfig holds the restore script invocation.
type RestoreConfig struct {
	Command string   `toml:"command"` // Invoked as "<command> restore <address>"
	Timeout Duration `toml:"timeout"`
}

// BarConfig holds status bar presentation options.
type BarConfig struct {
	AutoHide  bool   `toml:"auto_hide"` // Hide the module when nothing is stashed
	Style     string `toml:"style"`     // default, split, wave, wave2
	Separator string `toml:"separator"` // Between glyphs in the bar text
}

// IconsConfig holds glyph lookup options.
type IconsConfig struct {
	Default     string            `toml:"default"`
	Fallthrough bool              `toml:"fallthrough"` // Consult patterns when the user map misses
	Map         map[string]string `toml:"map"`         // window class -> glyph
	Patterns    []IconPattern     `toml:"patterns"`    // Checked before the built-in patterns
}

// IconPattern maps a class substring to a glyph.
type IconPattern struct {
	Match string `toml:"match"`
	Glyph string `toml:"glyph"`
}

// ScrollConfig holds scroll-to-switch-workspace options.
type ScrollConfig struct {
	Speed       int    `toml:"speed"` // Max scroll actions per second (0 disables throttling)
	UpCommand   string `toml:"up_command"`
	DownCommand string `toml:"down_command"`
}

// NotifyConfig holds desktop notification options.
type NotifyConfig struct {
	Enabled   bool     `toml:"enabled"`
	RateLimit Duration `toml:"rate_limit"` // Minimum gap between identical notifications
}

// LauncherConfig holds the dmenu-compatible picker command.
type LauncherConfig struct {
	Command string `toml:"command"`
}

// ClipboardConfig holds the clipboard command used by the TUI.
type ClipboardConfig struct {
	Command string `toml:"command"` // Empty auto-detects wl-copy, xclip or xsel
}

// BarStyle is a button style variant.
type BarStyle string

const (
	BarStyleDefault BarStyle = "default"
	BarStyleSplit   BarStyle = "split"
	BarStyleWave    BarStyle = "wave"
	BarStyleWave2   BarStyle = "wave2"
)

// ValidBarStyles returns all valid style values.
func ValidBarStyles() []BarStyle {
	return []BarStyle{BarStyleDefault, BarStyleSplit, BarStyleWave, BarStyleWave2}
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Cache: CacheConfig{
			Path:         DefaultCachePath,
			ClearOnStart: false,
		},
		Poll: PollConfig{
			Interval: Duration(DefaultPollInterval),
		},
		Restore: RestoreConfig{
			Command: DefaultRestoreCommand,
			Timeout: Duration(DefaultRestoreTimeout),
		},
		Bar: BarConfig{
			AutoHide:  true,
			Style:     string(BarStyleDefault),
			Separator: DefaultSeparator,
		},
		Icons: IconsConfig{
			Default:     DefaultGlyph,
			Fallthrough: true,
			Map:         make(map[string]string),
		},
		Scroll: ScrollConfig{
			Speed:       DefaultScrollSpeed,
			UpCommand:   DefaultScrollUp,
			DownCommand: DefaultScrollDown,
		},
		Notify: NotifyConfig{
			Enabled:   true,
			RateLimit: Duration(DefaultNotifyLimit),
		},
		Launcher: LauncherConfig{
			Command: DefaultLauncher,
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "windowstash", "config.toml")
}

// RuntimePath returns the directory for per-session state.
// Uses XDG_RUNTIME_DIR if set, otherwise the system temp directory.
func RuntimePath() string {
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		runtimeDir = os.TempDir()
	}
	return filepath.Join(runtimeDir, "windowstash")
}

// StatePath returns the path to the runtime state file.
func StatePath() string {
	return filepath.Join(RuntimePath(), "state.json")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Icons.Map == nil {
		cfg.Icons.Map = make(map[string]string)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Cache.Path) == "" {
		return errors.New("cache path cannot be empty")
	}

	if c.Poll.Interval.Duration() < 50*time.Millisecond {
		return fmt.Errorf("poll interval must be at least 50ms, got %s", c.Poll.Interval.Duration())
	}

	if len(strings.Fields(c.Restore.Command)) == 0 {
		return errors.New("restore command cannot be empty")
	}
	if c.Restore.Timeout.Duration() < 0 {
		return fmt.Errorf("restore timeout cannot be negative, got %s", c.Restore.Timeout.Duration())
	}

	validStyle := false
	for _, s := range ValidBarStyles() {
		if c.Bar.Style == string(s) {
			validStyle = true
			break
		}
	}
	if !validStyle {
		return fmt.Errorf("invalid bar style %q, must be one of: %v", c.Bar.Style, ValidBarStyles())
	}

	if c.Scroll.Speed < 0 || c.Scroll.Speed > 100 {
		return fmt.Errorf("scroll speed must be between 0 and 100, got %d", c.Scroll.Speed)
	}

	for i, p := range c.Icons.Patterns {
		if p.Match == "" {
			return fmt.Errorf("icon pattern %d has an empty match", i)
		}
	}

	return nil
}

// RestoreArgs returns the restore command split into argv with ~ expanded.
func (c *Config) RestoreArgs() []string {
	return SplitCommand(c.Restore.Command)
}

// SplitCommand splits a command line on whitespace and expands a leading ~/
// in every argument.
func SplitCommand(command string) []string {
	parts := strings.Fields(command)
	for i, p := range parts {
		parts[i] = ExpandPath(p)
	}
	return parts
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
