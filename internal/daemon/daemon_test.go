package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/windowstash/internal/cache"
	"github.com/jmylchreest/windowstash/internal/config"
	"github.com/jmylchreest/windowstash/internal/model"
	"github.com/jmylchreest/windowstash/internal/notify"
	"github.com/jmylchreest/windowstash/internal/view"
)

// syncBuffer is a goroutine-safe bytes.Buffer.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Split(strings.TrimSpace(b.buf.String()), "\n")
}

type memBackend struct {
	mu       sync.Mutex
	windows  []model.MinimizedWindow
	restored []string
}

func (b *memBackend) ReadCache(context.Context) ([]model.MinimizedWindow, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.MinimizedWindow{}, b.windows...), nil
}

func (b *memBackend) Restore(_ context.Context, address string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.restored = append(b.restored, address)
	return nil
}

func (b *memBackend) set(windows []model.MinimizedWindow) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.windows = windows
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// lastStatus decodes the most recent line, if any.
func lastStatus(out *syncBuffer) (view.Status, bool) {
	lines := out.Lines()
	var status view.Status
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &status); err != nil {
		return status, false
	}
	return status, true
}

func TestDaemon_StreamsStatus(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Poll.Interval = config.Duration(50 * time.Millisecond)

	backend := &memBackend{}
	out := &syncBuffer{}
	d, err := New(Options{
		Config:    cfg,
		CacheFile: cache.NewFileCache(filepath.Join(t.TempDir(), "windows.json"), false),
		Backend:   backend,
		Output:    out,
		Logger:    testLogger(),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	require.Eventually(t, func() bool {
		status, ok := lastStatus(out)
		return ok && status.Alt == view.StateEmpty
	}, 2*time.Second, 10*time.Millisecond)

	backend.set([]model.MinimizedWindow{{Address: "0x1", Class: "firefox", OriginalTitle: "Docs"}})

	require.Eventually(t, func() bool {
		status, ok := lastStatus(out)
		return ok && status.Alt == view.StateActive
	}, 2*time.Second, 10*time.Millisecond)
	status, _ := lastStatus(out)
	assert.Equal(t, "󰈹", status.Text)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestDaemon_DeduplicatesLines(t *testing.T) {
	cfg := config.DefaultConfig()
	out := &syncBuffer{}
	d, err := New(Options{Config: cfg, Backend: &memBackend{}, Output: out, Logger: testLogger(),
		CacheFile: cache.NewFileCache(filepath.Join(t.TempDir(), "w.json"), false)})
	require.NoError(t, err)
	t.Cleanup(d.shutdown)

	status := view.Status{Text: "x", Alt: view.StateActive}
	require.NoError(t, d.writeStatus(status))
	require.NoError(t, d.writeStatus(status))
	assert.Len(t, out.Lines(), 1)
}

func TestDaemon_RequiresConfigAndOutput(t *testing.T) {
	_, err := New(Options{Output: io.Discard})
	assert.Error(t, err)

	_, err = New(Options{Config: config.DefaultConfig()})
	assert.Error(t, err)
}

func TestDaemon_ApplyConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Notify.RateLimit = 0

	var sent []notify.Message
	var sentMu sync.Mutex
	notifier := notify.NewWithSender(func(msg notify.Message) (uint32, error) {
		sentMu.Lock()
		defer sentMu.Unlock()
		sent = append(sent, msg)
		return 1, nil
	}, testLogger())

	d, err := New(Options{Config: cfg, Backend: &memBackend{}, Output: io.Discard, Notifier: notifier,
		Logger: testLogger(), CacheFile: cache.NewFileCache(filepath.Join(t.TempDir(), "w.json"), false)})
	require.NoError(t, err)
	t.Cleanup(d.shutdown)

	next := config.DefaultConfig()
	next.Notify.RateLimit = 0
	next.Poll.Interval = config.Duration(3 * time.Second)
	next.Bar.AutoHide = false
	next.Bar.Style = string(config.BarStyleWave2)
	d.applyConfig(next)

	assert.Equal(t, 3*time.Second, d.poller.Interval())
	assert.False(t, d.widget.Settings().AutoHide)
	assert.Equal(t, config.BarStyleWave2, d.widget.Settings().Style)

	sentMu.Lock()
	defer sentMu.Unlock()
	require.NotEmpty(t, sent)
	assert.Equal(t, "Configuration Reloaded", sent[len(sent)-1].Summary)
}

func TestConfigWatcher_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[bar]\nauto_hide = true\n"), 0644))

	w := NewConfigWatcher(path, testLogger())
	w.SetPollInterval(10 * time.Millisecond)

	reloaded := make(chan *config.Config, 1)
	w.SetReloadCallback(func(c *config.Config) { reloaded <- c })

	require.NoError(t, w.Start(context.Background(), config.DefaultConfig()))
	t.Cleanup(w.Stop)

	require.NoError(t, os.WriteFile(path, []byte("[bar]\nauto_hide = false\n"), 0644))
	future := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, future, future))

	select {
	case c := <-reloaded:
		assert.False(t, c.Bar.AutoHide)
		assert.Same(t, c, w.CurrentConfig())
	case <-time.After(2 * time.Second):
		t.Fatal("config was not reloaded")
	}
}

func TestConfigWatcher_InvalidKeepsPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0644))

	initial := config.DefaultConfig()
	w := NewConfigWatcher(path, testLogger())
	w.SetPollInterval(10 * time.Millisecond)

	failed := make(chan error, 1)
	w.SetErrorCallback(func(err error) { failed <- err })
	w.SetReloadCallback(func(*config.Config) { t.Error("invalid config must not be applied") })

	require.NoError(t, w.Start(context.Background(), initial))
	t.Cleanup(w.Stop)

	require.NoError(t, os.WriteFile(path, []byte("[bar]\nstyle = \"zigzag\"\n"), 0644))
	future := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, future, future))

	select {
	case err := <-failed:
		assert.Error(t, err)
		assert.Same(t, initial, w.CurrentConfig())
	case <-time.After(2 * time.Second):
		t.Fatal("error callback not invoked")
	}
}

func TestConfigWatcher_StopIdempotent(t *testing.T) {
	w := NewConfigWatcher(filepath.Join(t.TempDir(), "missing.toml"), testLogger())
	w.Stop()
	require.NoError(t, w.Start(context.Background(), config.DefaultConfig()))
	require.NoError(t, w.Start(context.Background(), config.DefaultConfig()))
	w.Stop()
	w.Stop()
}
