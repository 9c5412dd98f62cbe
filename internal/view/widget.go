// Package view renders the stash list for the status bar and dispatches
// clicks and scrolls on it.
package view

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/jmylchreest/windowstash/internal/model"
	"github.com/jmylchreest/windowstash/internal/notify"
	"github.com/jmylchreest/windowstash/internal/shell"
	"github.com/jmylchreest/windowstash/internal/store"
)

// Dispatch errors.
var (
	ErrInvalidButton    = errors.New("invalid button")
	ErrInvalidDirection = errors.New("invalid scroll direction")
	ErrThrottled        = errors.New("scroll throttled")
)

// InfoSummary is the summary of the middle-click notification.
const InfoSummary = "Window Info"

// Button is a mouse button on a stash entry.
type Button string

const (
	ButtonPrimary   Button = "primary"
	ButtonMiddle    Button = "middle"
	ButtonSecondary Button = "secondary"
)

// ParseButton accepts button names and X11 button numbers.
func ParseButton(s string) (Button, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "primary", "left", "1":
		return ButtonPrimary, nil
	case "middle", "2":
		return ButtonMiddle, nil
	case "secondary", "right", "3":
		return ButtonSecondary, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidButton, s)
	}
}

// Direction is a scroll direction.
type Direction string

const (
	ScrollUp   Direction = "up"
	ScrollDown Direction = "down"
)

// ParseDirection parses "up" or "down".
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case ScrollUp:
		return ScrollUp, nil
	case ScrollDown:
		return ScrollDown, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}

// ScrollInterval returns the minimum gap between scroll actions for a speed
// in actions per second. Zero means unthrottled.
func ScrollInterval(speed int) time.Duration {
	if speed <= 0 {
		return 0
	}
	return time.Second / time.Duration(speed)
}

// Restorer requests restoration of a window.
type Restorer interface {
	Restore(ctx context.Context, address string)
}

// Entry is one rendered stash button.
type Entry struct {
	Address string `json:"address"`
	Icon    string `json:"icon"`
	Tooltip string `json:"tooltip"`
}

// Widget is the headless stash module. It follows the store and renders the
// current list on demand.
type Widget struct {
	mu       sync.RWMutex
	settings Settings
	limiter  *rate.Limiter

	store    *store.Store
	restorer Restorer
	notifier notify.Sender
	runner   shell.Runner
	logger   *slog.Logger

	sub       <-chan store.ChangeEvent
	pubMu     sync.Mutex // orders render and send across publishers
	updates   chan Status
	done      chan struct{}
	exited    chan struct{}
	closeOnce sync.Once
}

// Deps are the collaborators of a Widget. Nil Notifier and Runner disable
// middle-click info and scrolling respectively.
type Deps struct {
	Store    *store.Store
	Restorer Restorer
	Notifier notify.Sender
	Runner   shell.Runner
	Logger   *slog.Logger
}

// NewWidget creates a Widget subscribed to deps.Store.
func NewWidget(settings Settings, deps Deps) *Widget {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	settings = settings.normalized()

	w := &Widget{
		settings: settings,
		limiter:  newLimiter(settings.ScrollSpeed),
		store:    deps.Store,
		restorer: deps.Restorer,
		notifier: deps.Notifier,
		runner:   deps.Runner,
		logger:   logger,
		sub:      deps.Store.Subscribe(),
		updates:  make(chan Status, 1),
		done:     make(chan struct{}),
		exited:   make(chan struct{}),
	}
	go w.follow()
	return w
}

func newLimiter(speed int) *rate.Limiter {
	if speed <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(speed), 1)
}

// follow re-renders on every store change.
func (w *Widget) follow() {
	defer close(w.exited)
	for {
		select {
		case <-w.done:
			return
		case _, ok := <-w.sub:
			if !ok {
				return
			}
			w.publish()
		}
	}
}

// publish offers the current status, replacing any unread one.
func (w *Widget) publish() {
	w.pubMu.Lock()
	defer w.pubMu.Unlock()

	status := w.Status()
	select {
	case <-w.updates:
	default:
	}
	select {
	case w.updates <- status:
	default:
	}
}

// Updates delivers a fresh Status after every list or settings change.
// Only the most recent unread status is kept.
func (w *Widget) Updates() <-chan Status {
	return w.updates
}

// Settings returns the current settings snapshot.
func (w *Widget) Settings() Settings {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.settings
}

// UpdateSettings swaps the settings snapshot and re-renders.
func (w *Widget) UpdateSettings(settings Settings) {
	settings = settings.normalized()

	w.mu.Lock()
	if settings.ScrollSpeed != w.settings.ScrollSpeed {
		w.limiter = newLimiter(settings.ScrollSpeed)
	}
	w.settings = settings
	w.mu.Unlock()

	w.publish()
}

// Windows returns the current list.
func (w *Widget) Windows() []model.MinimizedWindow {
	return w.store.Windows()
}

// Visible reports whether the module should be shown.
func (w *Widget) Visible() bool {
	w.mu.RLock()
	autoHide := w.settings.AutoHide
	w.mu.RUnlock()
	return IsVisible(w.store.Count(), autoHide)
}

// IsVisible is the visibility rule: shown when anything is stashed or
// auto-hide is off.
func IsVisible(count int, autoHide bool) bool {
	return count > 0 || !autoHide
}

// Entries returns one entry per window in list order. It is empty when the
// module is hidden.
func (w *Widget) Entries() []Entry {
	windows := w.store.Windows()
	settings := w.Settings()
	if !IsVisible(len(windows), settings.AutoHide) {
		return []Entry{}
	}
	return buildEntries(windows, settings.Resolver)
}

func buildEntries(windows []model.MinimizedWindow, r model.IconResolver) []Entry {
	entries := make([]Entry, 0, len(windows))
	for _, win := range windows {
		entries = append(entries, Entry{
			Address: win.Address,
			Icon:    win.DisplayIcon(r),
			Tooltip: win.Tooltip(),
		})
	}
	return entries
}

// Click dispatches a button press on the entry for address.
func (w *Widget) Click(ctx context.Context, address string, button Button) error {
	switch button {
	case ButtonPrimary:
		if w.restorer != nil {
			w.restorer.Restore(ctx, address)
		}
		return nil

	case ButtonMiddle:
		win, err := model.FindByAddress(w.store.Windows(), address)
		if err != nil {
			return err
		}
		return w.ShowInfo(win)

	case ButtonSecondary:
		return nil

	default:
		return fmt.Errorf("%w: %q", ErrInvalidButton, button)
	}
}

// ShowInfo sends the window info notification.
func (w *Widget) ShowInfo(win model.MinimizedWindow) error {
	if w.notifier == nil {
		w.logger.Debug("window info skipped: no notifier", "address", win.Address)
		return nil
	}
	err := w.notifier.Send("info:"+win.Address, notify.Message{
		Summary: InfoSummary,
		Body:    win.InfoBody(),
		Level:   notify.LevelInfo,
	})
	if err != nil {
		w.logger.Error("error showing window info", "address", win.Address, "error", err)
	}
	return err
}

// Scroll runs the workspace command for direction unless the scroll rate is
// exceeded, in which case ErrThrottled is returned and nothing runs.
func (w *Widget) Scroll(ctx context.Context, direction Direction) error {
	w.mu.RLock()
	limiter := w.limiter
	settings := w.settings
	w.mu.RUnlock()

	var argv []string
	switch direction {
	case ScrollUp:
		argv = settings.ScrollUp
	case ScrollDown:
		argv = settings.ScrollDown
	default:
		return fmt.Errorf("%w: %q", ErrInvalidDirection, direction)
	}

	if !limiter.Allow() {
		return ErrThrottled
	}
	if w.runner == nil || len(argv) == 0 {
		return nil
	}

	if _, err := w.runner.Run(ctx, argv, nil); err != nil {
		return fmt.Errorf("scroll %s: %w", direction, err)
	}
	return nil
}

// Close stops following the store. It is safe to call more than once.
func (w *Widget) Close() {
	w.closeOnce.Do(func() {
		close(w.done)
		<-w.exited
		w.store.Unsubscribe(w.sub)
	})
}
