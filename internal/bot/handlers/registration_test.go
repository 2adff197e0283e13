package handlers

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	telebot "gopkg.in/telebot.v3"

	"github.com/painnoll/painnoll-bot/internal/bot/keyboard"
	"github.com/painnoll/painnoll-bot/internal/domain"
	"github.com/painnoll/painnoll-bot/internal/state"
	"github.com/painnoll/painnoll-bot/internal/user"
)

type fakeUserRepo struct {
	fields  map[domain.ProfileField]any
	upserts []*domain.UserProfile
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{fields: make(map[domain.ProfileField]any)}
}

func (f *fakeUserRepo) FindByID(context.Context, int64) (*domain.UserProfile, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) Upsert(_ context.Context, profile *domain.UserProfile) error {
	f.upserts = append(f.upserts, profile)
	return nil
}

func (f *fakeUserRepo) SetField(_ context.Context, _ int64, field domain.ProfileField, value any) error {
	f.fields[field] = value
	return nil
}

func (f *fakeUserRepo) SetConsultMode(context.Context, int64, bool) error { return nil }

func (f *fakeUserRepo) ConsultMode(context.Context, int64) (bool, error) { return false, nil }

func (f *fakeUserRepo) ListIDs(context.Context) ([]int64, error) { return nil, nil }

type fakeStateMachine struct {
	states      map[int64]state.State
	transitions []state.State
	cleared     []int64
}

func newFakeStateMachine() *fakeStateMachine {
	return &fakeStateMachine{states: make(map[int64]state.State)}
}

func (f *fakeStateMachine) GetState(_ context.Context, chatID int64) (*state.UserState, error) {
	s, ok := f.states[chatID]
	if !ok {
		return nil, state.ErrStateNotFound
	}
	return &state.UserState{ChatID: chatID, CurrentState: s}, nil
}

func (f *fakeStateMachine) Current(_ context.Context, chatID int64) (state.State, error) {
	s, ok := f.states[chatID]
	if !ok {
		return state.StateIdle, nil
	}
	return s, nil
}

func (f *fakeStateMachine) SetState(_ context.Context, chatID int64, s state.State) error {
	f.states[chatID] = s
	return nil
}

func (f *fakeStateMachine) TransitionTo(_ context.Context, chatID int64, s state.State) error {
	f.states[chatID] = s
	f.transitions = append(f.transitions, s)
	return nil
}

func (f *fakeStateMachine) ClearState(_ context.Context, chatID int64) error {
	delete(f.states, chatID)
	f.cleared = append(f.cleared, chatID)
	return nil
}

func formAnswer(chatID int64, text string) *stubContext {
	return &stubContext{
		sender: &telebot.User{ID: chatID},
		text:   text,
	}
}

func TestNumericStepsRepromptWithoutAdvancing(t *testing.T) {
	testCases := []struct {
		name     string
		build    func(*user.Service, *fakeStateMachine) Handler
		input    string
		reprompt string
	}{
		{
			name: "age",
			build: func(users *user.Service, fsm *fakeStateMachine) Handler {
				return NewAwaitAgeHandler(users, fsm, stubTranslator{})
			},
			input:    "o'ttiz to'rt",
			reprompt: "msg.bad_age",
		},
		{
			name: "weight",
			build: func(users *user.Service, fsm *fakeStateMachine) Handler {
				return NewAwaitWeightHandler(users, fsm, stubTranslator{})
			},
			input:    "og'ir",
			reprompt: "msg.bad_weight",
		},
		{
			name: "height",
			build: func(users *user.Service, fsm *fakeStateMachine) Handler {
				return NewAwaitHeightHandler(users, fsm, keyboard.NewBuilder(stubTranslator{}), stubTranslator{})
			},
			input:    "baland",
			reprompt: "msg.bad_height",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeUserRepo()
			fsm := newFakeStateMachine()
			handler := tc.build(user.NewService(repo, nil, nil), fsm)

			c := formAnswer(7, tc.input)
			require.NoError(t, handler(c))

			assert.Empty(t, repo.fields, "bad input must not persist anything")
			assert.Empty(t, fsm.transitions, "bad input must not advance the form")
			require.Len(t, c.sent, 1)
			assert.Equal(t, tc.reprompt, c.sent[0])
		})
	}
}

func TestNumericStepsPersistAndAdvance(t *testing.T) {
	testCases := []struct {
		name      string
		build     func(*user.Service, *fakeStateMachine) Handler
		input     string
		field     domain.ProfileField
		wantValue any
		wantState state.State
		wantAsk   string
	}{
		{
			name: "age",
			build: func(users *user.Service, fsm *fakeStateMachine) Handler {
				return NewAwaitAgeHandler(users, fsm, stubTranslator{})
			},
			input:     "34",
			field:     domain.FieldAge,
			wantValue: 34,
			wantState: state.StateAwaitWeight,
			wantAsk:   "msg.ask_weight",
		},
		{
			name: "weight with comma separator",
			build: func(users *user.Service, fsm *fakeStateMachine) Handler {
				return NewAwaitWeightHandler(users, fsm, stubTranslator{})
			},
			input:     "70,5",
			field:     domain.FieldWeight,
			wantValue: 70.5,
			wantState: state.StateAwaitHeight,
			wantAsk:   "msg.ask_height",
		},
		{
			name: "height",
			build: func(users *user.Service, fsm *fakeStateMachine) Handler {
				return NewAwaitHeightHandler(users, fsm, keyboard.NewBuilder(stubTranslator{}), stubTranslator{})
			},
			input:     "178",
			field:     domain.FieldHeight,
			wantValue: 178.0,
			wantState: state.StateAwaitIssue,
			wantAsk:   "msg.choose_issue",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeUserRepo()
			fsm := newFakeStateMachine()
			handler := tc.build(user.NewService(repo, nil, nil), fsm)

			c := formAnswer(7, tc.input)
			require.NoError(t, handler(c))

			assert.Equal(t, tc.wantValue, repo.fields[tc.field])
			require.Equal(t, []state.State{tc.wantState}, fsm.transitions)
			require.Len(t, c.sent, 1)
			assert.Equal(t, tc.wantAsk, c.sent[0])
		})
	}
}

func TestAwaitNameRestartsProgram(t *testing.T) {
	repo := newFakeUserRepo()
	fsm := newFakeStateMachine()
	handler := NewAwaitNameHandler(user.NewService(repo, nil, nil), fsm, stubTranslator{})

	c := formAnswer(7, "Aziz")
	require.NoError(t, handler(c))

	require.Len(t, repo.upserts, 1)
	assert.Equal(t, "Aziz", repo.upserts[0].Name)
	assert.Equal(t, 1, repo.upserts[0].Week)
	require.Equal(t, []state.State{state.StateAwaitAge}, fsm.transitions)
	require.Len(t, c.sent, 1)
	assert.Equal(t, "msg.ask_age", c.sent[0])
}
