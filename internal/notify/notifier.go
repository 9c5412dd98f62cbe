// Package notify sends desktop notifications over the session D-Bus.
package notify

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	godbus "github.com/godbus/dbus/v5"
)

const (
	busName       = "org.freedesktop.Notifications"
	busPath       = "/org/freedesktop/Notifications"
	notifyMethod  = busName + ".Notify"
	appName       = "windowstash"
	expireTimeout = int32(5000)
)

// DefaultRateLimit is the minimum time between two notifications with the
// same key.
const DefaultRateLimit = time.Second

// Level indicates the urgency of a notification.
type Level int

const (
	// LevelInfo maps to low urgency.
	LevelInfo Level = iota
	// LevelWarning maps to normal urgency.
	LevelWarning
	// LevelError maps to critical urgency.
	LevelError
)

// Urgency returns the freedesktop urgency byte for the level.
func (l Level) Urgency() byte {
	switch l {
	case LevelInfo:
		return 0
	case LevelError:
		return 2
	default:
		return 1
	}
}

// Icon returns the themed icon name for the level.
func (l Level) Icon() string {
	switch l {
	case LevelWarning:
		return "dialog-warning"
	case LevelError:
		return "dialog-error"
	default:
		return "dialog-information"
	}
}

// Message is a single Notify call.
type Message struct {
	Summary string
	Body    string
	Level   Level
}

// SendFunc delivers a message and returns the server-assigned id.
type SendFunc func(msg Message) (uint32, error)

// Sender is anything that can show a notification.
type Sender interface {
	Send(key string, msg Message) error
}

// Notifier sends rate-limited notifications.
type Notifier struct {
	mu     sync.Mutex
	logger *slog.Logger

	send SendFunc

	lastSent    map[string]time.Time
	minInterval time.Duration
	enabled     bool
	now         func() time.Time
}

// New creates a Notifier that sends over the session bus.
func New(logger *slog.Logger) *Notifier {
	return NewWithSender(SessionBusSender, logger)
}

// NewWithSender creates a Notifier with a custom delivery function.
func NewWithSender(send SendFunc, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		logger:      logger,
		send:        send,
		lastSent:    make(map[string]time.Time),
		minInterval: DefaultRateLimit,
		enabled:     true,
		now:         time.Now,
	}
}

// SetEnabled enables or disables notifications.
func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// SetMinInterval sets the minimum interval between notifications sharing a key.
func (n *Notifier) SetMinInterval(interval time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.minInterval = interval
}

// Send delivers msg unless disabled or a notification with the same key was
// sent within the minimum interval. Suppressed messages are not errors.
func (n *Notifier) Send(key string, msg Message) error {
	n.mu.Lock()
	if !n.enabled {
		n.mu.Unlock()
		n.logger.Debug("notification skipped: disabled", "key", key)
		return nil
	}

	now := n.now()
	if last, ok := n.lastSent[key]; ok && now.Sub(last) < n.minInterval {
		n.mu.Unlock()
		n.logger.Debug("notification rate-limited", "key", key, "summary", msg.Summary)
		return nil
	}
	n.lastSent[key] = now
	send := n.send
	n.mu.Unlock()

	if send == nil {
		return nil
	}

	n.logger.Debug("sending notification", "key", key, "summary", msg.Summary, "level", msg.Level)
	if _, err := send(msg); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}

// SessionBusSender calls org.freedesktop.Notifications.Notify on the session bus.
func SessionBusSender(msg Message) (uint32, error) {
	conn, err := godbus.SessionBus()
	if err != nil {
		return 0, fmt.Errorf("failed to connect to session bus: %w", err)
	}

	hints := map[string]godbus.Variant{
		"urgency":       godbus.MakeVariant(msg.Level.Urgency()),
		"transient":     godbus.MakeVariant(true),
		"desktop-entry": godbus.MakeVariant(appName),
	}

	var id uint32
	obj := conn.Object(busName, godbus.ObjectPath(busPath))
	call := obj.Call(notifyMethod, 0,
		appName,
		uint32(0),
		msg.Level.Icon(),
		msg.Summary,
		msg.Body,
		[]string{},
		hints,
		expireTimeout,
	)
	if call.Err != nil {
		return 0, call.Err
	}
	if err := call.Store(&id); err != nil {
		return 0, err
	}
	return id, nil
}
