package state

import "time"

// State represents a dialog finite-state machine state.
type State string

const (
	// StateIdle indicates that the bot is waiting for the next menu action.
	StateIdle State = "idle"
	// StateAwaitName indicates the registration form is waiting for a name.
	StateAwaitName State = "await_name"
	// StateAwaitAge indicates the registration form is waiting for an age.
	StateAwaitAge State = "await_age"
	// StateAwaitWeight indicates the registration form is waiting for a weight.
	StateAwaitWeight State = "await_weight"
	// StateAwaitHeight indicates the registration form is waiting for a height.
	StateAwaitHeight State = "await_height"
	// StateAwaitIssue indicates the registration form is waiting for an issue category.
	StateAwaitIssue State = "await_issue"
	// StateAwaitProduct indicates the registration form is waiting for a product choice.
	StateAwaitProduct State = "await_product"
	// StateAwaitBroadcast indicates an administrator is about to send an announcement.
	StateAwaitBroadcast State = "await_broadcast"
)

// UserState captures the current FSM state for a Telegram chat.
type UserState struct {
	ChatID       int64     `json:"chat_id"`
	CurrentState State     `json:"current_state"`
	UpdatedAt    time.Time `json:"updated_at"`
}
