package output

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/windowstash/internal/model"
)

// record is a window as written by the structured formatters.
type record struct {
	model.MinimizedWindow `yaml:",inline"`
	Glyph                 string `json:"glyph,omitempty" yaml:"glyph,omitempty"`
}

func records(windows []model.MinimizedWindow, opts FormatterOptions) []record {
	out := make([]record, 0, len(windows))
	for _, win := range windows {
		r := record{MinimizedWindow: win}
		if opts.WithIcons {
			r.Glyph = win.DisplayIcon(opts.Resolver)
		}
		out = append(out, r)
	}
	return out
}

// JSONFormatter formats windows as JSON.
type JSONFormatter struct {
	opts FormatterOptions
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(opts FormatterOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Format writes windows as a JSON array.
func (f *JSONFormatter) Format(w io.Writer, windows []model.MinimizedWindow) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(records(windows, f.opts))
}

// FormatSingle writes a single window as JSON.
func (f *JSONFormatter) FormatSingle(w io.Writer, win *model.MinimizedWindow) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(records([]model.MinimizedWindow{*win}, f.opts)[0])
}

// YAMLFormatter formats windows as YAML.
type YAMLFormatter struct {
	opts FormatterOptions
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(opts FormatterOptions) *YAMLFormatter {
	return &YAMLFormatter{opts: opts}
}

// Format writes windows as a YAML sequence.
func (f *YAMLFormatter) Format(w io.Writer, windows []model.MinimizedWindow) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(records(windows, f.opts)); err != nil {
		return err
	}
	return encoder.Close()
}
