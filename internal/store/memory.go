// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Sessions are ephemeral by design: nothing is written to disk and all state
// is lost when the process restarts.
//
// Characteristics:
//   - Stores *game.Session objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - The map lock guards membership only; callers serialize work on a session.
//   - Sweep evicts sessions idle for longer than a given duration.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/colorguess/internal/game"
)

// ErrNotFound is returned for unknown session IDs.
var ErrNotFound = errors.New("session not found")

// Store defines the holding interface for live sessions.
type Store interface {
	// Save adds or replaces a session.
	Save(ctx context.Context, s *game.Session) error

	// Get retrieves a session by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*game.Session, error)

	// Delete discards a session. Deleting an unknown ID returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Sweep removes sessions whose last activity is older than idle and
	// returns how many were removed.
	Sweep(ctx context.Context, idle time.Duration) int

	// Len reports the number of live sessions.
	Len() int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex             // guards sessions map
	sessions map[string]*game.Session // keyed by Session.ID
	now      func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return newMemory(time.Now)
}

func newMemory(now func() time.Time) *memory {
	return &memory{sessions: make(map[string]*game.Session), now: now}
}

func (m *memory) Save(ctx context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *memory) Sweep(ctx context.Context, idle time.Duration) int {
	cutoff := m.now().Add(-idle)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.LastActive().Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
