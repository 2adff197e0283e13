package handlers

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/painnoll/painnoll-bot/internal/bot/keyboard"
	errs "github.com/painnoll/painnoll-bot/internal/errors"
	"github.com/painnoll/painnoll-bot/internal/i18n"
	"github.com/painnoll/painnoll-bot/internal/state"
	"github.com/painnoll/painnoll-bot/internal/user"
)

// NewRegistrationStartHandler begins the question flow. Any previous state is
// dropped first so the button always restarts the form from the name question.
func NewRegistrationStartHandler(fsm state.StateMachine, t i18n.Translator, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			return nil
		}

		ctx := context.Background()
		chatID := c.Sender().ID

		if err := fsm.ClearState(ctx, chatID); err != nil {
			if log != nil {
				log.Warn("failed to clear state before registration", slog.Int64("chat_id", chatID), slog.Any("error", err))
			}
		}

		if err := fsm.TransitionTo(ctx, chatID, state.StateAwaitName); err != nil {
			return err
		}

		return c.Send(t.T("msg.ask_name"))
	}
}

// NewAwaitNameHandler consumes the name answer. Saving the name restarts the
// program: the profile row is rebuilt and the week counter returns to one.
func NewAwaitNameHandler(users *user.Service, fsm state.StateMachine, t i18n.Translator) Handler {
	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			return nil
		}

		ctx := context.Background()
		chatID := c.Sender().ID

		if err := users.Register(ctx, chatID, c.Text()); err != nil {
			return errs.NewDatabaseError(err)
		}

		if err := fsm.TransitionTo(ctx, chatID, state.StateAwaitAge); err != nil {
			return err
		}

		return c.Send(t.T("msg.ask_age"))
	}
}

// NewAwaitAgeHandler consumes the age answer. A non-numeric answer re-prompts
// without advancing the flow.
func NewAwaitAgeHandler(users *user.Service, fsm state.StateMachine, t i18n.Translator) Handler {
	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			return nil
		}

		ctx := context.Background()
		chatID := c.Sender().ID

		age, err := strconv.Atoi(strings.TrimSpace(c.Text()))
		if err != nil {
			return c.Send(t.T("msg.bad_age"))
		}

		if err := users.SetAge(ctx, chatID, age); err != nil {
			return errs.NewDatabaseError(err)
		}

		if err := fsm.TransitionTo(ctx, chatID, state.StateAwaitWeight); err != nil {
			return err
		}

		return c.Send(t.T("msg.ask_weight"))
	}
}

// NewAwaitWeightHandler consumes the weight answer in kilograms.
func NewAwaitWeightHandler(users *user.Service, fsm state.StateMachine, t i18n.Translator) Handler {
	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			return nil
		}

		ctx := context.Background()
		chatID := c.Sender().ID

		weight, err := parseDecimal(c.Text())
		if err != nil {
			return c.Send(t.T("msg.bad_weight"))
		}

		if err := users.SetWeight(ctx, chatID, weight); err != nil {
			return errs.NewDatabaseError(err)
		}

		if err := fsm.TransitionTo(ctx, chatID, state.StateAwaitHeight); err != nil {
			return err
		}

		return c.Send(t.T("msg.ask_height"))
	}
}

// NewAwaitHeightHandler consumes the height answer in centimeters and moves
// on to the issue selection keyboard.
func NewAwaitHeightHandler(users *user.Service, fsm state.StateMachine, kb *keyboard.Builder, t i18n.Translator) Handler {
	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			return nil
		}

		ctx := context.Background()
		chatID := c.Sender().ID

		height, err := parseDecimal(c.Text())
		if err != nil {
			return c.Send(t.T("msg.bad_height"))
		}

		if err := users.SetHeight(ctx, chatID, height); err != nil {
			return errs.NewDatabaseError(err)
		}

		if err := fsm.TransitionTo(ctx, chatID, state.StateAwaitIssue); err != nil {
			return err
		}

		return c.Send(t.T("msg.choose_issue"), kb.IssueMenu())
	}
}

// NewAwaitIssueHandler consumes the issue button. Free text that is not one of
// the offered buttons re-shows the keyboard.
func NewAwaitIssueHandler(users *user.Service, fsm state.StateMachine, kb *keyboard.Builder, t i18n.Translator) Handler {
	issues := issueByButton(t)

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			return nil
		}

		ctx := context.Background()
		chatID := c.Sender().ID

		if c.Text() == t.T("menu.back") {
			return abandonForm(ctx, fsm, chatID, c, kb, t)
		}

		issue, ok := issues[c.Text()]
		if !ok {
			return c.Send(t.T("msg.choose_issue"), kb.IssueMenu())
		}

		if err := users.SetIssue(ctx, chatID, issue); err != nil {
			return errs.NewDatabaseError(err)
		}

		if err := fsm.TransitionTo(ctx, chatID, state.StateAwaitProduct); err != nil {
			return err
		}

		return c.Send(t.T("msg.choose_product"), kb.ProductMenu())
	}
}

// NewAwaitProductHandler consumes the final product answer, closes the form
// and switches the reminder schedule on.
func NewAwaitProductHandler(
	users *user.Service,
	fsm state.StateMachine,
	sched ReminderScheduler,
	kb *keyboard.Builder,
	t i18n.Translator,
) Handler {
	products := productByButton(t)

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			return nil
		}

		ctx := context.Background()
		chatID := c.Sender().ID

		if c.Text() == t.T("menu.back") {
			return abandonForm(ctx, fsm, chatID, c, kb, t)
		}

		product, ok := products[c.Text()]
		if !ok {
			return c.Send(t.T("msg.choose_product"), kb.ProductMenu())
		}

		if err := users.SetProduct(ctx, chatID, product); err != nil {
			return errs.NewDatabaseError(err)
		}

		if err := fsm.ClearState(ctx, chatID); err != nil {
			return err
		}

		if sched != nil {
			sched.InstallSchedule(chatID)
		}

		return c.Send(t.T("msg.registration_done"), kb.MainMenu())
	}
}

// abandonForm exits a keyboard-driven form step back to the main menu.
func abandonForm(ctx context.Context, fsm state.StateMachine, chatID int64, c telebot.Context, kb *keyboard.Builder, t i18n.Translator) error {
	if err := fsm.ClearState(ctx, chatID); err != nil {
		return err
	}
	return c.Send(t.T("msg.main_menu"), kb.MainMenu())
}

// parseDecimal accepts both "72.5" and "72,5" since phone keyboards in the
// target locale default to a comma separator.
func parseDecimal(text string) (float64, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	return strconv.ParseFloat(normalized, 64)
}
