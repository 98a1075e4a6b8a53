// Package state provides the external run-state store the runner core pushes
// into. Hosts read it for HUD overlays, scoreboards and persistence.
package state

import (
	"sync"

	"github.com/vovakirdan/career-runner/internal/core"
)

// Listener is notified with the merged state after every push.
type Listener func(core.GameState)

// Store is a merge-update state sink. Pushes only overwrite the fields they
// carry. It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	state     core.GameState
	initial   core.GameState
	listeners []Listener
	pushes    int
}

// NewStore creates a store holding initial.
func NewStore(initial core.GameState) *Store {
	return &Store{state: initial, initial: initial}
}

// DefaultState is the state of a fresh run.
func DefaultState() core.GameState {
	return core.GameState{Score: 0, Level: 1, Health: 100}
}

// PushState merges p into the stored state and notifies listeners.
func (s *Store) PushState(p core.StatePatch) {
	if p.Empty() {
		return
	}

	s.mu.Lock()
	s.state = p.Apply(s.state)
	s.pushes++
	snapshot := s.state
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() core.GameState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Pushes returns how many non-empty patches have been applied.
func (s *Store) Pushes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pushes
}

// Subscribe registers a listener. Listeners run on the pushing goroutine.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Reset restores the state the store was created with.
func (s *Store) Reset() {
	s.mu.Lock()
	s.state = s.initial
	snapshot := s.state
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}
