package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Loader produces a full remote snapshot.
type Loader interface {
	Load(ctx context.Context) (Loaded, error)
}

// Store owns the dashboard state. Dispatches are serialised; remote writes
// made outside the store are still last-write-wins.
type Store struct {
	mu     sync.RWMutex
	state  State
	loaded bool
	loader Loader
}

func NewStore(loader Loader) *Store {
	return &Store{state: Initial(), loader: loader}
}

// Dispatch applies a and returns the resulting state.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, a)
	return s.state
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Refresh replaces the records with a fresh load. On failure the previous
// state is kept.
func (s *Store) Refresh(ctx context.Context) (State, error) {
	snapshot, err := s.loader.Load(ctx)
	if err != nil {
		return s.State(), fmt.Errorf("refresh dashboard: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, snapshot)
	s.loaded = true

	slog.InfoContext(ctx, "dashboard refreshed",
		"patients", len(s.state.Patients),
		"appointments", len(s.state.Appointments),
		"reports", len(s.state.Reports),
		"prescriptions", len(s.state.Prescriptions))
	return s.state, nil
}

// Ensure loads the state once.
func (s *Store) Ensure(ctx context.Context) (State, error) {
	s.mu.RLock()
	loaded, st := s.loaded, s.state
	s.mu.RUnlock()
	if loaded {
		return st, nil
	}
	return s.Refresh(ctx)
}
