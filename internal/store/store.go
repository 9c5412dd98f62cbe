// Package store holds the shared list of minimized windows.
package store

import (
	"sync"

	"github.com/jmylchreest/windowstash/internal/model"
)

// ChangeEvent signals that the window list was replaced.
type ChangeEvent struct {
	Revision uint64
	Count    int
}

// Store is the single-writer, multi-reader window list. The poller writes it
// wholesale; views subscribe and re-read on every event.
type Store struct {
	mu       sync.RWMutex
	windows  []model.MinimizedWindow
	revision uint64

	subscribers []chan ChangeEvent
	closed      bool
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		windows:     make([]model.MinimizedWindow, 0),
		subscribers: make([]chan ChangeEvent, 0),
	}
}

// Set replaces the window list and notifies subscribers.
func (s *Store) Set(windows []model.MinimizedWindow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	s.windows = make([]model.MinimizedWindow, len(windows))
	copy(s.windows, windows)
	s.revision++

	s.notifyChange(ChangeEvent{
		Revision: s.revision,
		Count:    len(s.windows),
	})
	return nil
}

// Windows returns a copy of the current list in cache file order.
func (s *Store) Windows() []model.MinimizedWindow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.MinimizedWindow, len(s.windows))
	copy(result, s.windows)
	return result
}

// Count returns the number of windows.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.windows)
}

// Revision returns the number of times the list has been replaced.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Subscribe returns a channel that receives change events.
func (s *Store) Subscribe() <-chan ChangeEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan ChangeEvent, 10)
	if s.closed {
		close(ch)
		return ch
	}
	s.subscribers = append(s.subscribers, ch)
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (s *Store) Unsubscribe(ch <-chan ChangeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.subscribers {
		if sub == ch {
			s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
			close(sub)
			return
		}
	}
}

// Close closes all subscriber channels. Later writes fail with ErrStoreClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	for _, ch := range s.subscribers {
		close(ch)
	}
	s.subscribers = nil
	return nil
}

// notifyChange sends a change event to all subscribers (non-blocking).
// Must be called with s.mu held.
func (s *Store) notifyChange(event ChangeEvent) {
	for _, ch := range s.subscribers {
		select {
		case ch <- event:
		default:
			// Channel full, subscriber will catch up on the next event
		}
	}
}

// Errors
var (
	ErrStoreClosed = storeError("store is closed")
)

type storeError string

func (e storeError) Error() string {
	return string(e)
}
