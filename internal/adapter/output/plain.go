package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/jmylchreest/windowstash/internal/model"
)

// PlainFormatter formats windows as plain text.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewPlainFormatter creates a new plain text formatter.
func NewPlainFormatter(opts FormatterOptions) *PlainFormatter {
	f := &PlainFormatter{opts: opts}

	if opts.Template != "" {
		tmpl, err := template.New("plain").Funcs(templateFuncs()).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// Format writes windows as plain text.
func (f *PlainFormatter) Format(w io.Writer, windows []model.MinimizedWindow) error {
	if len(windows) == 0 {
		_, err := fmt.Fprintln(w, "No minimized windows")
		return err
	}
	for i, win := range windows {
		if err := f.formatWindow(w, i+1, &win); err != nil {
			return err
		}
	}
	return nil
}

// formatWindow formats a single window.
func (f *PlainFormatter) formatWindow(w io.Writer, index int, win *model.MinimizedWindow) error {
	if f.template != nil {
		if err := f.template.Execute(w, newTemplateData(index, win, f.opts.Resolver)); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	}

	var sb strings.Builder

	if f.opts.ShowIndex {
		sb.WriteString(fmt.Sprintf("[%d] ", index))
	}

	if f.opts.ShowIcon {
		if icon := win.DisplayIcon(f.opts.Resolver); icon != "" {
			sb.WriteString(icon + " ")
		}
	}

	sb.WriteString(sanitizeTitle(win.Title(), f.opts.TitleMax))

	if f.opts.ShowClass && win.Class != "" {
		sb.WriteString(fmt.Sprintf(" <%s>", win.Class))
	}

	sb.WriteString("\n")
	sb.WriteString("    " + win.Address + "\n")

	_, err := w.Write([]byte(sb.String()))
	return err
}

// FormatField outputs a specific field from a window.
func FormatField(win *model.MinimizedWindow, field string, r model.IconResolver) string {
	switch strings.ToLower(field) {
	case "address", "addr":
		return win.Address
	case "class":
		return win.Class
	case "title", "display_title":
		return win.Title()
	case "original_title":
		return win.OriginalTitle
	case "icon", "glyph":
		return win.DisplayIcon(r)
	case "info", "all", "full":
		return win.InfoBody()
	default:
		return win.Title()
	}
}
