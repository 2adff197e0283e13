// Package state manages dialog state for the registration form and admin flows.
package state

import "context"

// Storage defines the persistence contract for dialog FSM state.
type Storage interface {
	// GetState returns the current state for the specified chat.
	GetState(ctx context.Context, chatID int64) (*UserState, error)
	// SetState saves the provided state for the specified chat.
	SetState(ctx context.Context, chatID int64, state *UserState) error
	// ClearState removes the state for the specified chat.
	ClearState(ctx context.Context, chatID int64) error
}
