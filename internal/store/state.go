package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// RuntimeState is per-session state shared between windowstash invocations.
// Bar click and scroll handlers each run a fresh process, so anything that
// must survive between them lives here.
type RuntimeState struct {
	LastScrollAt     int64  `json:"last_scroll_at,omitempty"` // Unix milliseconds
	LastScrollDir    string `json:"last_scroll_dir,omitempty"`
	LastRestoredAddr string `json:"last_restored_address,omitempty"`
	LastRestoredAt   int64  `json:"last_restored_at,omitempty"` // Unix seconds

	SchemaVersion int `json:"schema_version"`
}

const (
	// CurrentStateSchemaVersion is the current version of the state schema.
	CurrentStateSchemaVersion = 1
)

// stateFileMutex protects concurrent access to the state file.
var stateFileMutex sync.RWMutex

// DefaultRuntimeState returns an empty state.
func DefaultRuntimeState() *RuntimeState {
	return &RuntimeState{SchemaVersion: CurrentStateSchemaVersion}
}

// LoadRuntimeState loads the state at path.
// A missing or corrupted file yields a default state.
func LoadRuntimeState(path string) (*RuntimeState, error) {
	stateFileMutex.RLock()
	defer stateFileMutex.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultRuntimeState(), nil
		}
		return nil, err
	}

	var state RuntimeState
	if err := json.Unmarshal(data, &state); err != nil {
		return DefaultRuntimeState(), nil
	}

	if state.SchemaVersion == 0 {
		state.SchemaVersion = CurrentStateSchemaVersion
	}

	return &state, nil
}

// SaveRuntimeState writes the state to path atomically.
func SaveRuntimeState(path string, state *RuntimeState) error {
	stateFileMutex.Lock()
	defer stateFileMutex.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	if state.SchemaVersion == 0 {
		state.SchemaVersion = CurrentStateSchemaVersion
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}

// LastScroll returns the time of the last accepted scroll action.
func (s *RuntimeState) LastScroll() time.Time {
	if s.LastScrollAt == 0 {
		return time.Time{}
	}
	return time.UnixMilli(s.LastScrollAt)
}

// RecordScroll stores an accepted scroll action.
func (s *RuntimeState) RecordScroll(direction string, at time.Time) {
	s.LastScrollAt = at.UnixMilli()
	s.LastScrollDir = direction
}

// RecordRestore stores the last restore request.
func (s *RuntimeState) RecordRestore(address string, at time.Time) {
	s.LastRestoredAddr = address
	s.LastRestoredAt = at.Unix()
}

// LastRestore returns the last restore request, or a zero time if none.
func (s *RuntimeState) LastRestore() (string, time.Time) {
	if s.LastRestoredAt == 0 {
		return s.LastRestoredAddr, time.Time{}
	}
	return s.LastRestoredAddr, time.Unix(s.LastRestoredAt, 0)
}
