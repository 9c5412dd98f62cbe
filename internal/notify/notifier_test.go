package notify

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	sent []Message
	err  error
}

func (r *recorder) send(msg Message) (uint32, error) {
	r.sent = append(r.sent, msg)
	return uint32(len(r.sent)), r.err
}

func newTestNotifier(r *recorder) (*Notifier, *time.Time) {
	n := NewWithSender(r.send, slog.New(slog.NewTextHandler(io.Discard, nil)))
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return clock }
	return n, &clock
}

func TestNotifier_Send(t *testing.T) {
	r := &recorder{}
	n, _ := newTestNotifier(r)

	msg := Message{Summary: "Window Info", Body: "Class: kitty\nTitle: shell"}
	require.NoError(t, n.Send("info", msg))
	require.Len(t, r.sent, 1)
	assert.Equal(t, msg, r.sent[0])
}

func TestNotifier_RateLimit(t *testing.T) {
	r := &recorder{}
	n, clock := newTestNotifier(r)

	require.NoError(t, n.Send("info", Message{Summary: "a"}))
	require.NoError(t, n.Send("info", Message{Summary: "b"}))
	assert.Len(t, r.sent, 1, "second send within the interval should be suppressed")

	// Different keys are limited independently.
	require.NoError(t, n.Send("other", Message{Summary: "c"}))
	assert.Len(t, r.sent, 2)

	*clock = clock.Add(DefaultRateLimit)
	require.NoError(t, n.Send("info", Message{Summary: "d"}))
	assert.Len(t, r.sent, 3)
}

func TestNotifier_ZeroIntervalDisablesLimit(t *testing.T) {
	r := &recorder{}
	n, _ := newTestNotifier(r)
	n.SetMinInterval(0)

	for i := 0; i < 3; i++ {
		require.NoError(t, n.Send("info", Message{Summary: "x"}))
	}
	assert.Len(t, r.sent, 3)
}

func TestNotifier_Disabled(t *testing.T) {
	r := &recorder{}
	n, _ := newTestNotifier(r)
	n.SetEnabled(false)

	require.NoError(t, n.Send("info", Message{Summary: "x"}))
	assert.Empty(t, r.sent)
}

func TestNotifier_SendError(t *testing.T) {
	r := &recorder{err: errors.New("no bus")}
	n, _ := newTestNotifier(r)

	err := n.Send("info", Message{Summary: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no bus")
}

func TestLevel(t *testing.T) {
	tests := []struct {
		level   Level
		urgency byte
		icon    string
	}{
		{LevelInfo, 0, "dialog-information"},
		{LevelWarning, 1, "dialog-warning"},
		{LevelError, 2, "dialog-error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.urgency, tt.level.Urgency())
		assert.Equal(t, tt.icon, tt.level.Icon())
	}
}
