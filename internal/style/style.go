package style

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// importRegex matches @import "file.css"; or @import 'file.css'; or @import url("file.css");
var importRegex = regexp.MustCompile(`@import\s+(?:url\s*\(\s*)?["']([^"']+)["']\s*\)?;?`)

// Stylesheet is a resolved stylesheet with its imports inlined.
type Stylesheet struct {
	Name    string
	Path    string // Empty for bundled stylesheets
	CSS     string
	ModTime time.Time
	Bundled bool
}

// Dir returns the directory holding user stylesheets.
func Dir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "windowstash", "styles"), nil
}

// Loader resolves stylesheets by name. A file in the user directory
// overrides the bundled stylesheet of the same name.
type Loader struct {
	dir    string
	logger *slog.Logger
}

// NewLoader creates a loader for the user directory dir. An empty dir only
// serves bundled stylesheets.
func NewLoader(dir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{dir: dir, logger: logger}
}

// Load returns the stylesheet called name, or the default when name is empty.
func (l *Loader) Load(name string) (*Stylesheet, error) {
	if name == "" {
		name = DefaultStyleName
	}

	if l.dir != "" {
		path := filepath.Join(l.dir, name+".css")
		if info, err := os.Stat(path); err == nil {
			data, err := os.ReadFile(path)
			if err == nil {
				l.logger.Debug("loaded user style", "name", name, "path", path)
				return &Stylesheet{
					Name:    name,
					Path:    path,
					CSS:     ProcessImports(string(data), l.dir, nil),
					ModTime: info.ModTime(),
				}, nil
			}
			l.logger.Warn("failed to read user style, trying bundled", "name", name, "error", err)
		}
	}

	css, found := GetEmbeddedStyle(name)
	if !found {
		return nil, fmt.Errorf("style %q not found", name)
	}
	return &Stylesheet{
		Name:    name,
		CSS:     ProcessImports(css, "", nil),
		Bundled: true,
	}, nil
}

// List returns bundled and user stylesheet names, bundled first, without
// duplicates.
func (l *Loader) List() []string {
	seen := make(map[string]bool)
	var names []string

	for _, name := range ListEmbeddedStyles() {
		seen[name] = true
		names = append(names, name)
	}

	if l.dir == "" {
		return names
	}
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			l.logger.Debug("failed to read styles directory", "error", err)
		}
		return names
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "_") || filepath.Ext(name) != ".css" {
			continue
		}
		name = strings.TrimSuffix(name, ".css")
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// ProcessImports resolves and inlines @import statements in CSS.
// Imports are resolved relative to baseDir, falling back to bundled files.
// The seen map prevents circular imports.
func ProcessImports(css string, baseDir string, seen map[string]bool) string {
	if seen == nil {
		seen = make(map[string]bool)
	}

	return importRegex.ReplaceAllStringFunc(css, func(match string) string {
		submatch := importRegex.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match
		}
		importPath := submatch[1]

		fullPath := importPath
		if !filepath.IsAbs(importPath) && baseDir != "" {
			fullPath = filepath.Join(baseDir, importPath)
		}

		if seen[fullPath] {
			return "/* circular import prevented: " + importPath + " */"
		}
		seen[fullPath] = true

		// Relative imports of bundled stylesheets never touch the disk.
		var data []byte
		err := os.ErrNotExist
		if baseDir != "" || filepath.IsAbs(importPath) {
			data, err = os.ReadFile(fullPath)
		}
		if err != nil {
			baseName := filepath.Base(importPath)
			if strings.HasPrefix(baseName, "_") {
				if partial, found := GetEmbeddedPartial(baseName); found {
					return "/* imported (embedded): " + importPath + " */\n" + ProcessImports(partial, "", seen)
				}
			}
			if bundled, found := GetEmbeddedStyle(strings.TrimSuffix(baseName, ".css")); found {
				return "/* imported (embedded): " + importPath + " */\n" + ProcessImports(bundled, "", seen)
			}
			return "/* import failed: " + importPath + " - " + err.Error() + " */"
		}

		return "/* imported: " + importPath + " */\n" + ProcessImports(string(data), filepath.Dir(fullPath), seen)
	})
}
