package minimizer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/windowstash/internal/cache"
	"github.com/jmylchreest/windowstash/internal/model"
	"github.com/jmylchreest/windowstash/internal/shell"
)

// recordingRunner records every invocation and returns err.
type recordingRunner struct {
	mu    sync.Mutex
	calls [][]string
	err   error
	ctxOK bool
}

func (r *recordingRunner) Run(ctx context.Context, argv []string, _ io.Reader) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, argv)
	_, r.ctxOK = ctx.Deadline()
	return nil, r.err
}

func (r *recordingRunner) Calls() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]string{}, r.calls...)
}

// fakeBackend is an in-memory Backend.
type fakeBackend struct {
	mu       sync.Mutex
	windows  []model.MinimizedWindow
	restored []string
	err      error
}

func (b *fakeBackend) ReadCache(context.Context) ([]model.MinimizedWindow, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.windows, nil
}

func (b *fakeBackend) Restore(_ context.Context, address string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.restored = append(b.restored, address)
	return b.err
}

func newTestClient(t *testing.T, runner shell.Runner) *Client {
	t.Helper()
	path := filepath.Join(t.TempDir(), "windows.json")
	return NewClient(cache.NewFileCache(path, false),
		[]string{"python", "/home/u/.config/hypr/scripts/hypr-minimizer.py"}, time.Second, runner)
}

func TestClient_Restore(t *testing.T) {
	runner := &recordingRunner{}
	c := newTestClient(t, runner)

	require.NoError(t, c.Restore(context.Background(), "0x1234"))

	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"python", "/home/u/.config/hypr/scripts/hypr-minimizer.py", "restore", "0x1234"}, calls[0])
	assert.True(t, runner.ctxOK, "restore should run under a timeout")
}

func TestClient_RestoreDoesNotAliasArgs(t *testing.T) {
	runner := &recordingRunner{}
	args := make([]string, 1, 8)
	args[0] = "hypr-minimizer"
	c := NewClient(cache.NewFileCache(filepath.Join(t.TempDir(), "w.json"), false), args, 0, runner)

	require.NoError(t, c.Restore(context.Background(), "0x1"))
	require.NoError(t, c.Restore(context.Background(), "0x2"))

	calls := runner.Calls()
	assert.Equal(t, []string{"hypr-minimizer", "restore", "0x1"}, calls[0])
	assert.Equal(t, []string{"hypr-minimizer", "restore", "0x2"}, calls[1])
}

func TestClient_RestoreEmptyCommand(t *testing.T) {
	c := NewClient(cache.NewFileCache(filepath.Join(t.TempDir(), "w.json"), false), nil, 0, &recordingRunner{})
	assert.ErrorIs(t, c.Restore(context.Background(), "0x1"), shell.ErrEmptyCommand)
}

func TestClient_ReadCache(t *testing.T) {
	c := newTestClient(t, &recordingRunner{})
	require.NoError(t, os.WriteFile(c.Cache().Path(),
		[]byte(`[{"address":"0x1","class":"kitty","display_title":"k","original_title":"k"}]`), 0644))

	windows, err := c.ReadCache(context.Background())
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, "kitty", windows[0].Class)
}

func TestDispatcher_RestoreInvokesOnce(t *testing.T) {
	runner := &recordingRunner{}
	d := NewDispatcher(newTestClient(t, runner), nil)

	d.Restore(context.Background(), "0x1234")

	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"restore", "0x1234"}, calls[0][len(calls[0])-2:])
}

func TestDispatcher_FailureIsSwallowed(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	runner := &recordingRunner{err: &shell.CommandError{Command: "python", Err: errors.New("exit status 1")}}
	d := NewDispatcher(newTestClient(t, runner), logger)

	assert.NotPanics(t, func() {
		d.Restore(context.Background(), "0x1234")
	})
	assert.Len(t, runner.Calls(), 1)
	assert.Contains(t, logs.String(), "error restoring window")
	assert.Contains(t, logs.String(), "0x1234")
}

func TestDispatcher_RestoreAsync(t *testing.T) {
	backend := &fakeBackend{err: errors.New("script missing")}
	d := NewDispatcher(backend, slog.New(slog.NewTextHandler(io.Discard, nil)))

	d.RestoreAsync("0xabc")
	d.Wait()

	backend.mu.Lock()
	defer backend.mu.Unlock()
	assert.Equal(t, []string{"0xabc"}, backend.restored)
}

type panicBackend struct{ fakeBackend }

func (*panicBackend) Restore(context.Context, string) error { panic("boom") }

func TestDispatcher_PanicIsContained(t *testing.T) {
	d := NewDispatcher(&panicBackend{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.NotPanics(t, func() {
		d.Restore(context.Background(), "0x1")
	})
}

func writeExecutable(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0755))
	return path
}

func TestDetectScript(t *testing.T) {
	t.Run("executable on PATH", func(t *testing.T) {
		bin := t.TempDir()
		t.Setenv("PATH", bin)
		t.Setenv("HOME", t.TempDir())
		want := writeExecutable(t, bin, "hypr-minimizer")

		assert.Equal(t, want, DetectScript())
	})

	t.Run("script in hypr config", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("PATH", t.TempDir())
		t.Setenv("HOME", home)
		want := writeExecutable(t, filepath.Join(home, ".config", "hypr", "scripts"), scriptName)

		assert.Equal(t, want, DetectScript())
	})

	t.Run("not installed", func(t *testing.T) {
		t.Setenv("PATH", t.TempDir())
		t.Setenv("HOME", t.TempDir())

		assert.Empty(t, DetectScript())
	})
}

func TestResolveArgs(t *testing.T) {
	missing := func(home string) []string {
		return []string{"python", filepath.Join(home, ".config", "hypr", "scripts", scriptName)}
	}

	t.Run("missing default falls back to PATH executable", func(t *testing.T) {
		bin, home := t.TempDir(), t.TempDir()
		t.Setenv("PATH", bin)
		t.Setenv("HOME", home)
		exe := writeExecutable(t, bin, "hypr-minimizer")

		assert.Equal(t, []string{exe}, ResolveArgs(missing(home)))
	})

	t.Run("missing default falls back to PATH script", func(t *testing.T) {
		bin, home := t.TempDir(), t.TempDir()
		t.Setenv("PATH", bin)
		t.Setenv("HOME", home)
		script := writeExecutable(t, bin, scriptName)

		assert.Equal(t, []string{"python", script}, ResolveArgs(missing(home)))
	})

	t.Run("existing script is kept", func(t *testing.T) {
		bin, home := t.TempDir(), t.TempDir()
		t.Setenv("PATH", bin)
		t.Setenv("HOME", home)
		writeExecutable(t, bin, "hypr-minimizer")
		args := missing(home)
		writeExecutable(t, filepath.Dir(args[1]), scriptName)

		assert.Equal(t, args, ResolveArgs(args))
	})

	t.Run("nothing installed keeps args", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("PATH", t.TempDir())
		t.Setenv("HOME", home)

		assert.Equal(t, missing(home), ResolveArgs(missing(home)))
	})

	t.Run("custom command is untouched", func(t *testing.T) {
		bin := t.TempDir()
		t.Setenv("PATH", bin)
		writeExecutable(t, bin, "hypr-minimizer")
		args := []string{"/opt/stash/restore.sh", "--quiet"}

		assert.Equal(t, args, ResolveArgs(args))
	})
}
