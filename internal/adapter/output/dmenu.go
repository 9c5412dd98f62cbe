package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/jmylchreest/windowstash/internal/model"
)

// DmenuFormatter formats windows for dmenu/rofi/fuzzel.
type DmenuFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewDmenuFormatter creates a new dmenu formatter.
func NewDmenuFormatter(opts FormatterOptions) *DmenuFormatter {
	f := &DmenuFormatter{opts: opts}

	if opts.Template != "" {
		tmpl, err := template.New("dmenu").Funcs(templateFuncs()).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// Format writes windows in dmenu format (one per line).
func (f *DmenuFormatter) Format(w io.Writer, windows []model.MinimizedWindow) error {
	for i, win := range windows {
		line := f.formatLine(i+1, &win)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// formatLine formats a single window line.
func (f *DmenuFormatter) formatLine(index int, win *model.MinimizedWindow) string {
	if f.template != nil {
		var buf strings.Builder
		if err := f.template.Execute(&buf, newTemplateData(index, win, f.opts.Resolver)); err == nil {
			return buf.String()
		}
	}

	// Default format: index | icon | title | class
	var parts []string
	sep := f.separator()

	if f.opts.ShowIndex {
		parts = append(parts, strconv.Itoa(index))
	}

	if f.opts.ShowIcon {
		if icon := win.DisplayIcon(f.opts.Resolver); icon != "" {
			parts = append(parts, icon)
		}
	}

	parts = append(parts, sanitizeTitle(win.Title(), f.opts.TitleMax))

	if f.opts.ShowClass && win.Class != "" {
		parts = append(parts, win.Class)
	}

	return strings.Join(parts, sep)
}

func (f *DmenuFormatter) separator() string {
	if f.opts.Separator == "" {
		return " | "
	}
	return f.opts.Separator
}

// Selection maps a line chosen in the launcher back to its window. Lines
// must have been produced with ShowIndex enabled.
func (f *DmenuFormatter) Selection(line string, windows []model.MinimizedWindow) (model.MinimizedWindow, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return model.MinimizedWindow{}, model.ErrNoWindows
	}

	var head string
	if sep := strings.TrimSpace(f.separator()); sep != "" {
		head, _, _ = strings.Cut(line, sep)
	} else {
		head = strings.Fields(line)[0]
	}
	index, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil || index < 1 || index > len(windows) {
		return model.MinimizedWindow{}, fmt.Errorf("%w: %q", model.ErrWindowNotFound, line)
	}
	return windows[index-1], nil
}

// templateData provides data for custom templates.
type templateData struct {
	Index  int
	Window *model.MinimizedWindow
	Icon   string
}

func newTemplateData(index int, win *model.MinimizedWindow, r model.IconResolver) templateData {
	return templateData{
		Index:  index,
		Window: win,
		Icon:   win.DisplayIcon(r),
	}
}

// templateFuncs returns template helper functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"truncate": truncate,
		"upper":    strings.ToUpper,
		"lower":    strings.ToLower,
	}
}

// sanitizeTitle cleans up a title for single-line display.
func sanitizeTitle(title string, maxLen int) string {
	title = strings.ReplaceAll(title, "\n", " ")
	title = strings.ReplaceAll(title, "\r", "")
	title = strings.Join(strings.Fields(title), " ")
	return truncate(title, maxLen)
}

// truncate shortens s to maxLen runes, marking the cut with "...".
func truncate(s string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
