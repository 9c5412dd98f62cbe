package daemon

import (
	"github.com/jmylchreest/windowstash/internal/notify"
)

// internalNotifier reports watch-mode events as desktop notifications.
type internalNotifier struct {
	sender notify.Sender
}

func (n internalNotifier) send(key, summary, body string, level notify.Level) error {
	if n.sender == nil {
		return nil
	}
	return n.sender.Send(key, notify.Message{Summary: summary, Body: body, Level: level})
}

// NotifyConfigReloaded sends a notification about config being reloaded.
func (n internalNotifier) NotifyConfigReloaded() error {
	return n.send(
		"config-reload",
		"Configuration Reloaded",
		"windowstash configuration has been successfully reloaded.",
		notify.LevelInfo,
	)
}

// NotifyConfigError sends a notification about config validation error.
func (n internalNotifier) NotifyConfigError(err error) error {
	return n.send(
		"config-error",
		"Configuration Error",
		"Failed to reload configuration: "+err.Error(),
		notify.LevelWarning,
	)
}

// NotifyRestartRequired sends a notification that a changed setting only
// applies after a restart.
func (n internalNotifier) NotifyRestartRequired(setting string) error {
	return n.send(
		"restart-required",
		"Restart Required",
		"Changing "+setting+" takes effect after windowstash watch is restarted.",
		notify.LevelInfo,
	)
}
