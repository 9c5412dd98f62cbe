package view

import (
	"fmt"
	"strings"

	"github.com/jmylchreest/windowstash/internal/model"
)

// Status is the Waybar custom module JSON format.
type Status struct {
	Text       string   `json:"text"`
	Alt        string   `json:"alt,omitempty"`
	Tooltip    string   `json:"tooltip,omitempty"`
	Class      []string `json:"class,omitempty"`
	Percentage int      `json:"percentage,omitempty"`
}

// Status values for Alt and the last CSS class.
const (
	StateActive = "active"
	StateEmpty  = "empty"
)

// Status renders the current list for the bar.
func (w *Widget) Status() Status {
	return RenderStatus(w.store.Windows(), w.Settings())
}

// RenderStatus renders windows with the given settings.
func RenderStatus(windows []model.MinimizedWindow, settings Settings) Status {
	settings = settings.normalized()

	state := StateEmpty
	if len(windows) > 0 {
		state = StateActive
	}
	classes := []string{"windowstash", "style-" + string(settings.Style), state}

	if !IsVisible(len(windows), settings.AutoHide) {
		return Status{Text: "", Alt: state, Class: classes}
	}

	glyphs := make([]string, 0, len(windows))
	lines := make([]string, 0, len(windows))
	for _, win := range windows {
		glyphs = append(glyphs, win.DisplayIcon(settings.Resolver))
		lines = append(lines, fmt.Sprintf("%s (%s)", win.OriginalTitle, win.Class))
	}

	tooltip := "No minimized windows"
	if len(lines) > 0 {
		tooltip = strings.Join(lines, "\n")
	}

	text := strings.Join(glyphs, settings.Separator)
	if text == "" {
		text = settings.Resolver.Resolve("")
	}

	return Status{
		Text:       text,
		Alt:        state,
		Tooltip:    tooltip,
		Class:      classes,
		Percentage: min(len(windows), 100),
	}
}
