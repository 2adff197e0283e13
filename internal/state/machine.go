package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	chatLockKeyPattern = "chat:lock:%d"
	lockTTL            = 5 * time.Second
)

var (
	// ErrInvalidTransition indicates that a requested FSM transition is not allowed.
	ErrInvalidTransition = errors.New("invalid state transition")
	// ErrStateNotFound indicates that a chat state record does not exist.
	ErrStateNotFound = errors.New("chat state not found")
	// ErrStateLocked indicates that a concurrent operation already holds the lock.
	ErrStateLocked = errors.New("state is locked, try again later")
)

// StateMachine describes the operations supported by the dialog FSM controller.
type StateMachine interface {
	GetState(ctx context.Context, chatID int64) (*UserState, error)
	Current(ctx context.Context, chatID int64) (State, error)
	SetState(ctx context.Context, chatID int64, state State) error
	TransitionTo(ctx context.Context, chatID int64, newState State) error
	ClearState(ctx context.Context, chatID int64) error
}

// machine is a concrete implementation of StateMachine backed by Storage and
// an optional Redis lock.
type machine struct {
	storage     Storage
	log         *slog.Logger
	redisClient redis.Cmdable
}

// NewStateMachine creates a FSM controller using the provided storage backend.
// redisClient may be nil, which skips cross-process locking.
func NewStateMachine(storage Storage, log *slog.Logger, redisClient redis.Cmdable) StateMachine {
	if log == nil {
		log = slog.Default()
	}

	return &machine{
		storage:     storage,
		log:         log,
		redisClient: redisClient,
	}
}

// GetState proxies to the underlying storage implementation.
func (m *machine) GetState(ctx context.Context, chatID int64) (*UserState, error) {
	return m.storage.GetState(ctx, chatID)
}

// Current returns the chat's state, mapping a missing record to idle.
func (m *machine) Current(ctx context.Context, chatID int64) (State, error) {
	stored, err := m.storage.GetState(ctx, chatID)
	if err != nil {
		if errors.Is(err, ErrStateNotFound) {
			return StateIdle, nil
		}
		return StateIdle, err
	}

	if stored == nil || stored.CurrentState == "" {
		return StateIdle, nil
	}

	return stored.CurrentState, nil
}

// SetState persists the state unconditionally, guarded by the lock.
func (m *machine) SetState(ctx context.Context, chatID int64, state State) error {
	if err := m.lock(ctx, chatID); err != nil {
		return err
	}
	defer m.unlock(ctx, chatID)

	return m.saveState(ctx, chatID, state)
}

// TransitionTo changes the state if the transition is allowed, guarded by the lock.
func (m *machine) TransitionTo(ctx context.Context, chatID int64, newState State) error {
	if err := m.lock(ctx, chatID); err != nil {
		return err
	}
	defer m.unlock(ctx, chatID)

	current := StateIdle

	stored, err := m.storage.GetState(ctx, chatID)
	if err != nil {
		if !errors.Is(err, ErrStateNotFound) {
			return err
		}
	} else if stored != nil {
		current = stored.CurrentState
	}

	if !IsTransitionAllowed(current, newState) {
		m.log.Warn("invalid state transition", "chat_id", chatID, "from", current, "to", newState)
		return ErrInvalidTransition
	}

	return m.saveState(ctx, chatID, newState)
}

// ClearState removes the stored state while holding the lock.
func (m *machine) ClearState(ctx context.Context, chatID int64) error {
	if err := m.lock(ctx, chatID); err != nil {
		return err
	}
	defer m.unlock(ctx, chatID)

	return m.storage.ClearState(ctx, chatID)
}

func (m *machine) saveState(ctx context.Context, chatID int64, state State) error {
	return m.storage.SetState(ctx, chatID, &UserState{
		ChatID:       chatID,
		CurrentState: state,
	})
}

func (m *machine) lock(ctx context.Context, chatID int64) error {
	if m.redisClient == nil {
		return nil
	}

	key := fmt.Sprintf(chatLockKeyPattern, chatID)
	acquired, err := m.redisClient.SetNX(ctx, key, 1, lockTTL).Result()
	if err != nil {
		m.log.Error("failed to acquire chat state lock", "chat_id", chatID, "error", err)
		return err
	}

	if !acquired {
		m.log.Warn("chat state lock already held", "chat_id", chatID)
		return ErrStateLocked
	}

	return nil
}

func (m *machine) unlock(ctx context.Context, chatID int64) {
	if m.redisClient == nil {
		return
	}

	key := fmt.Sprintf(chatLockKeyPattern, chatID)
	if err := m.redisClient.Del(ctx, key).Err(); err != nil {
		m.log.Error("failed to release chat state lock", "chat_id", chatID, "error", err)
	}
}
