package state

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage is a map-backed Storage used in tests and single-process
// deployments without Redis.
type MemoryStorage struct {
	mu     sync.RWMutex
	states map[int64]UserState
}

// NewMemoryStorage creates an empty in-memory Storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{states: make(map[int64]UserState)}
}

// GetState returns the stored chat state or ErrStateNotFound when absent.
func (s *MemoryStorage) GetState(_ context.Context, chatID int64) (*UserState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.states[chatID]
	if !ok {
		return nil, ErrStateNotFound
	}

	copied := stored
	return &copied, nil
}

// SetState saves the provided chat state.
func (s *MemoryStorage) SetState(_ context.Context, chatID int64, state *UserState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state.UpdatedAt = time.Now().UTC()
	s.states[chatID] = *state
	return nil
}

// ClearState removes the stored state for the given chat.
func (s *MemoryStorage) ClearState(_ context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, chatID)
	return nil
}
