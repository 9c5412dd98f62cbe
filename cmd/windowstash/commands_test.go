package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/windowstash/internal/model"
	"github.com/jmylchreest/windowstash/internal/store"
)

func TestScrollAllowed(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name  string
		last  time.Time
		speed int
		want  bool
	}{
		{"first scroll", time.Time{}, 5, true},
		{"unthrottled", now.Add(-time.Millisecond), 0, true},
		{"too soon", now.Add(-100 * time.Millisecond), 5, false},
		{"exactly on interval", now.Add(-200 * time.Millisecond), 5, true},
		{"long ago", now.Add(-time.Hour), 5, true},
		{"clock went backwards", now.Add(time.Minute), 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scrollAllowed(tt.last, now, tt.speed))
		})
	}
}

func TestRestoreTarget(t *testing.T) {
	windows := []model.MinimizedWindow{
		{Address: "0xa1", Class: "firefox"},
		{Address: "0xb2", Class: "kitty"},
	}

	got, err := restoreTarget(windows, nil, false)
	require.NoError(t, err)
	assert.Equal(t, "0xb2", got)

	got, err = restoreTarget(windows, nil, true)
	require.NoError(t, err)
	assert.Equal(t, "0xa1", got)

	got, err = restoreTarget(windows, []string{"#1"}, false)
	require.NoError(t, err)
	assert.Equal(t, "0xa1", got)

	got, err = restoreTarget(windows, []string{"0xdead"}, false)
	require.NoError(t, err)
	assert.Equal(t, "0xdead", got)

	_, err = restoreTarget(windows, []string{"#9"}, false)
	assert.ErrorIs(t, err, model.ErrWindowNotFound)

	_, err = restoreTarget(nil, nil, false)
	assert.ErrorIs(t, err, model.ErrNoWindows)
}

func TestLastRestoreSummary(t *testing.T) {
	state := store.DefaultRuntimeState()
	assert.Equal(t, "never", lastRestoreSummary(state))

	at := time.Now().Add(-3 * time.Minute)
	state.RecordRestore("0x1234", at)
	summary := lastRestoreSummary(state)
	assert.Contains(t, summary, "0x1234")
	assert.Contains(t, summary, "3 minutes ago")
	assert.Contains(t, summary, time.Unix(at.Unix(), 0).Format(time.RFC3339))
}
