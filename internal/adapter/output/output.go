// Package output provides output formatters for the window list.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/jmylchreest/windowstash/internal/model"
)

// Formatter formats windows for output.
type Formatter interface {
	// Format writes formatted windows to the writer.
	Format(w io.Writer, windows []model.MinimizedWindow) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatDmenu     FormatType = "dmenu"
	FormatJSON      FormatType = "json"
	FormatYAML      FormatType = "yaml"
	FormatPlain     FormatType = "plain"
	FormatAddresses FormatType = "addresses"
)

// ValidFormats returns every supported format.
func ValidFormats() []FormatType {
	return []FormatType{FormatPlain, FormatJSON, FormatYAML, FormatDmenu, FormatAddresses}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (FormatType, error) {
	for _, f := range ValidFormats() {
		if string(f) == strings.ToLower(s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) Formatter {
	switch format {
	case FormatJSON:
		return NewJSONFormatter(opts)
	case FormatYAML:
		return NewYAMLFormatter(opts)
	case FormatDmenu:
		return NewDmenuFormatter(opts)
	case FormatAddresses:
		return NewAddressFormatter()
	case FormatPlain:
		fallthrough
	default:
		return NewPlainFormatter(opts)
	}
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template  string             // Custom template for dmenu/plain format
	ShowIndex bool               // Show 1-based index prefix
	ShowIcon  bool               // Show the resolved glyph
	ShowClass bool               // Show the window class
	TitleMax  int                // Maximum title length (0 = unlimited)
	Separator string             // Field separator for dmenu format
	Resolver  model.IconResolver // Resolves glyphs; nil shows only icon overrides
	WithIcons bool               // Include resolved glyphs in JSON/YAML records
}

// DefaultFormatterOptions returns sensible defaults for dmenu output.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{
		ShowIndex: true,
		ShowIcon:  true,
		ShowClass: true,
		TitleMax:  80,
		Separator: " | ",
	}
}
