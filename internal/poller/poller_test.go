package poller

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/windowstash/internal/model"
	"github.com/jmylchreest/windowstash/internal/store"
)

func fixedFetch(calls *atomic.Int32, windows ...model.MinimizedWindow) FetchFunc {
	return func(context.Context) []model.MinimizedWindow {
		calls.Add(1)
		return windows
	}
}

func TestPoller_PublishesImmediately(t *testing.T) {
	s := store.NewStore()
	defer s.Close()

	var calls atomic.Int32
	p := New(fixedFetch(&calls, model.MinimizedWindow{Address: "0x1"}), s, time.Hour, nil)
	require.NoError(t, p.Start(context.Background()))
	defer p.Stop()

	require.Eventually(t, func() bool { return s.Count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "0x1", s.Windows()[0].Address)
}

func TestPoller_Ticks(t *testing.T) {
	s := store.NewStore()
	defer s.Close()

	var calls atomic.Int32
	p := New(fixedFetch(&calls), s, 10*time.Millisecond, nil)
	require.NoError(t, p.Start(context.Background()))
	defer p.Stop()

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, s.Revision(), uint64(3))
}

func TestPoller_StartIsIdempotent(t *testing.T) {
	s := store.NewStore()
	defer s.Close()

	var calls atomic.Int32
	p := New(fixedFetch(&calls), s, time.Hour, nil)
	require.NoError(t, p.Start(context.Background()))
	require.NoError(t, p.Start(context.Background()))
	defer p.Stop()

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load(), "a second Start must not launch another loop")
}

func TestPoller_Trigger(t *testing.T) {
	s := store.NewStore()
	defer s.Close()

	var calls atomic.Int32
	p := New(fixedFetch(&calls), s, time.Hour, nil)
	require.NoError(t, p.Start(context.Background()))
	defer p.Stop()

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	p.Trigger()
	require.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestPoller_SetInterval(t *testing.T) {
	s := store.NewStore()
	defer s.Close()

	var calls atomic.Int32
	p := New(fixedFetch(&calls), s, time.Hour, nil)
	require.NoError(t, p.Start(context.Background()))
	defer p.Stop()

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	p.SetInterval(10 * time.Millisecond)
	assert.Equal(t, 10*time.Millisecond, p.Interval())
	require.Eventually(t, func() bool { return calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
}

func TestPoller_SetIntervalNonPositive(t *testing.T) {
	p := New(nil, nil, 0, nil)
	assert.Equal(t, DefaultInterval, p.Interval())

	p.SetInterval(-time.Second)
	assert.Equal(t, DefaultInterval, p.Interval())
}

func TestPoller_StopIsIdempotent(t *testing.T) {
	s := store.NewStore()
	defer s.Close()

	var calls atomic.Int32
	p := New(fixedFetch(&calls), s, time.Hour, nil)

	p.Stop() // never started
	require.NoError(t, p.Start(context.Background()))
	p.Stop()
	p.Stop()
	assert.False(t, p.IsRunning())
}

func TestPoller_NoPublicationAfterStop(t *testing.T) {
	s := store.NewStore()
	defer s.Close()

	release := make(chan struct{})
	entered := make(chan struct{})
	var once sync.Once

	var calls atomic.Int32
	fetch := func(context.Context) []model.MinimizedWindow {
		if calls.Add(1) == 1 {
			return nil
		}
		once.Do(func() { close(entered) })
		// Ignore cancellation to simulate a slow read that is already in flight
		<-release
		return []model.MinimizedWindow{{Address: "0xlate"}}
	}

	p := New(fetch, s, time.Hour, nil)
	require.NoError(t, p.Start(context.Background()))
	require.Eventually(t, func() bool { return s.Revision() == 1 }, time.Second, 5*time.Millisecond)

	p.Trigger()
	<-entered

	stopped := make(chan struct{})
	go func() {
		p.Stop()
		close(stopped)
	}()

	require.Eventually(t, func() bool { return !p.IsRunning() }, time.Second, 5*time.Millisecond)
	close(release)
	<-stopped

	assert.Equal(t, uint64(1), s.Revision(), "in-flight result must be dropped")
	assert.Empty(t, s.Windows())

	// Nothing fires later either
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, uint64(1), s.Revision())
}

func TestPoller_ContextCancelEndsRun(t *testing.T) {
	s := store.NewStore()
	defer s.Close()

	var calls atomic.Int32
	p := New(fixedFetch(&calls), s, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, p.Start(ctx))
	cancel()

	require.Eventually(t, func() bool { return !p.IsRunning() }, time.Second, 5*time.Millisecond)

	// Restart works after the context ended the previous run
	require.NoError(t, p.Start(context.Background()))
	defer p.Stop()
	assert.True(t, p.IsRunning())
}

func TestPoller_RestartAfterStop(t *testing.T) {
	s := store.NewStore()
	defer s.Close()

	var calls atomic.Int32
	p := New(fixedFetch(&calls), s, time.Hour, nil)
	require.NoError(t, p.Start(context.Background()))
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	p.Stop()

	require.NoError(t, p.Start(context.Background()))
	defer p.Stop()
	require.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 5*time.Millisecond)
}
