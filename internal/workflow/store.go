package workflow

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"visit-route-service/internal/domain"
)

// Store holds the workflow State and serializes dispatches.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners []func(State)
}

func NewStore(initial State) *Store {
	return &Store{state: initial}
}

// Dispatch applies a and returns the resulting state. Listeners run after the
// lock is released.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	next := s.state
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
	return next
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to run after every dispatch.
func (s *Store) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Notify records n in the state, so the store can sit behind ports.Notifier.
func (s *Store) Notify(ctx context.Context, n domain.Notification) {
	s.Dispatch(Notified{Notification: n})
}

// Snapshot serializes the current state.
func (s *Store) Snapshot() ([]byte, error) {
	return json.Marshal(s.State())
}

// Restore replaces the state with a snapshot.
func (s *Store) Restore(b []byte) error {
	var st State
	if err := json.Unmarshal(b, &st); err != nil {
		return err
	}
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	return nil
}
