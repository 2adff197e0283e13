package bot

import (
	"context"
	"log/slog"
	"sync"

	telebot "gopkg.in/telebot.v3"

	"github.com/painnoll/painnoll-bot/internal/bot/handlers"
	"github.com/painnoll/painnoll-bot/internal/state"
)

// Dispatcher resolves incoming messages to the handler registered for the
// chat's current dialog state.
type Dispatcher struct {
	fsm           state.StateMachine
	stateHandlers map[state.State]handlers.Handler
	log           *slog.Logger
	mu            sync.RWMutex
}

// NewDispatcher creates a Dispatcher with an empty handlers registry.
func NewDispatcher(fsm state.StateMachine, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}

	return &Dispatcher{
		fsm:           fsm,
		stateHandlers: make(map[state.State]handlers.Handler),
		log:           log,
	}
}

// RegisterStateHandler registers a handler for the provided state.
func (d *Dispatcher) RegisterStateHandler(s state.State, h handlers.Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stateHandlers[s] = h
}

// Resolve returns the handler for the chat's current state. The idle state
// resolves to nil so that regular button and fallback routing continues.
func (d *Dispatcher) Resolve(c telebot.Context) (handlers.Handler, error) {
	if c == nil || c.Sender() == nil {
		d.log.Warn("cannot dispatch without sender information")
		return nil, nil
	}

	ctx := context.Background()
	chatID := c.Sender().ID

	current, err := d.fsm.Current(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if current == state.StateIdle {
		return nil, nil
	}

	handler := d.getHandler(current)
	if handler == nil {
		d.log.Info("no handler registered for state", "state", current, "chat_id", chatID)
		return nil, nil
	}

	return handler, nil
}

func (d *Dispatcher) getHandler(s state.State) handlers.Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.stateHandlers[s]
}
