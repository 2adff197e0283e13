package state

import (
	"context"
	"errors"
	"testing"
)

func TestMachineRegistrationFlow(t *testing.T) {
	ctx := context.Background()
	m := NewStateMachine(NewMemoryStorage(), nil, nil)

	current, err := m.Current(ctx, 1)
	if err != nil {
		t.Fatalf("Current on fresh chat: %v", err)
	}
	if current != StateIdle {
		t.Fatalf("fresh chat state = %s, expected idle", current)
	}

	steps := []State{
		StateAwaitName,
		StateAwaitAge,
		StateAwaitWeight,
		StateAwaitHeight,
		StateAwaitIssue,
		StateAwaitProduct,
		StateIdle,
	}
	for _, next := range steps {
		if err := m.TransitionTo(ctx, 1, next); err != nil {
			t.Fatalf("TransitionTo(%s): %v", next, err)
		}
	}

	current, _ = m.Current(ctx, 1)
	if current != StateIdle {
		t.Fatalf("state after full flow = %s, expected idle", current)
	}
}

func TestMachineRejectsInvalidTransition(t *testing.T) {
	ctx := context.Background()
	m := NewStateMachine(NewMemoryStorage(), nil, nil)

	if err := m.TransitionTo(ctx, 1, StateAwaitName); err != nil {
		t.Fatalf("TransitionTo(await_name): %v", err)
	}

	err := m.TransitionTo(ctx, 1, StateAwaitWeight)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("skipping a step: err = %v, expected ErrInvalidTransition", err)
	}

	// The failed attempt must not have moved the state.
	current, _ := m.Current(ctx, 1)
	if current != StateAwaitName {
		t.Fatalf("state after rejected transition = %s, expected await_name", current)
	}
}

func TestMachineClearState(t *testing.T) {
	ctx := context.Background()
	m := NewStateMachine(NewMemoryStorage(), nil, nil)

	if err := m.SetState(ctx, 1, StateAwaitBroadcast); err != nil {
		t.Fatalf("SetState: %v", err)
	}

	if err := m.ClearState(ctx, 1); err != nil {
		t.Fatalf("ClearState: %v", err)
	}

	current, err := m.Current(ctx, 1)
	if err != nil {
		t.Fatalf("Current after clear: %v", err)
	}
	if current != StateIdle {
		t.Fatalf("state after clear = %s, expected idle", current)
	}
}
