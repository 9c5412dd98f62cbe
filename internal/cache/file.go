// Package cache reads the hypr-minimizer window cache file.
package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jmylchreest/windowstash/internal/model"
)

// emptyCache is the canonical "no windows" content.
var emptyCache = []byte("[]\n")

// FileCache reads and resets the JSON cache file written by hypr-minimizer.
type FileCache struct {
	path         string
	clearOnStart bool

	once sync.Once
	mu   sync.Mutex // serializes writes
}

// NewFileCache creates a FileCache for path. When clearOnStart is set the
// first read wipes whatever a previous session left behind.
func NewFileCache(path string, clearOnStart bool) *FileCache {
	return &FileCache{path: path, clearOnStart: clearOnStart}
}

// Path returns the cache file path.
func (c *FileCache) Path() string {
	return c.path
}

// ReadCache returns the windows in the cache file, in file order.
// Empty and whitespace-only files yield an empty list. A missing file is
// recreated on every call; with clearOnStart the first call also clears it.
func (c *FileCache) ReadCache(ctx context.Context) ([]model.MinimizedWindow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Init failures are not fatal: the read below reports the real problem.
	if c.clearOnStart {
		c.once.Do(func() { _ = c.Clear() })
	}
	_ = c.Ensure()

	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.path, err)
	}

	return ParseWindows(data)
}

// ParseWindows decodes cache file content.
func ParseWindows(data []byte) ([]model.MinimizedWindow, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []model.MinimizedWindow{}, nil
	}

	var windows []model.MinimizedWindow
	if err := json.Unmarshal(trimmed, &windows); err != nil {
		return nil, &ParseError{Err: err}
	}
	if windows == nil {
		windows = []model.MinimizedWindow{}
	}
	return windows, nil
}

// Ensure creates the cache directory and an empty cache file if missing.
func (c *FileCache) Ensure() error {
	if _, err := os.Stat(c.path); err == nil {
		return nil
	}
	return c.Clear()
}

// Clear resets the cache file to an empty array.
func (c *FileCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}

	// Write atomically via temp file
	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, emptyCache, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return os.Rename(tmpPath, c.path)
}

// Info describes the cache file on disk.
type Info struct {
	Path    string
	Exists  bool
	Size    int64
	ModTime time.Time
}

// Stat returns information about the cache file.
func (c *FileCache) Stat() (Info, error) {
	info := Info{Path: c.path}
	fi, err := os.Stat(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return info, nil
		}
		return info, err
	}
	info.Exists = true
	info.Size = fi.Size()
	info.ModTime = fi.ModTime()
	return info, nil
}

// ParseError reports malformed cache content.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "malformed window cache: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
