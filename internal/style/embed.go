package style

import (
	"embed"
	"io/fs"
	"path/filepath"
	"strings"
)

// EmbeddedStyles contains all bundled stylesheets.
//
//go:embed styles/*.css
var EmbeddedStyles embed.FS

// DefaultStyleName is the name of the built-in default style.
const DefaultStyleName = "default"

// GetEmbeddedStyle retrieves a bundled stylesheet by name without resolving
// its imports.
func GetEmbeddedStyle(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	data, err := EmbeddedStyles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", false
	}
	return string(data), true
}

// GetEmbeddedPartial retrieves a bundled partial (files starting with _).
func GetEmbeddedPartial(name string) (string, bool) {
	if !strings.HasPrefix(name, "_") {
		name = "_" + name
	}
	if !strings.HasSuffix(name, ".css") {
		name += ".css"
	}
	data, err := EmbeddedStyles.ReadFile("styles/" + name)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// ListEmbeddedStyles returns the names of all bundled stylesheets, excluding
// partials.
func ListEmbeddedStyles() []string {
	var names []string

	entries, err := fs.ReadDir(EmbeddedStyles, "styles")
	if err != nil {
		return nil
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "_") {
			continue
		}
		if ext := filepath.Ext(name); ext == ".css" {
			names = append(names, strings.TrimSuffix(name, ext))
		}
	}
	return names
}
