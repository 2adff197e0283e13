package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/painnoll/painnoll-bot/internal/advice"
	"github.com/painnoll/painnoll-bot/internal/bot/keyboard"
	errs "github.com/painnoll/painnoll-bot/internal/errors"
	"github.com/painnoll/painnoll-bot/internal/i18n"
	"github.com/painnoll/painnoll-bot/internal/progress"
	"github.com/painnoll/painnoll-bot/internal/state"
	"github.com/painnoll/painnoll-bot/internal/user"
)

// NewProfileHandler renders the stored profile card. Answering with the issue
// keyboard lets the user adjust their concern right from the card.
func NewProfileHandler(users *user.Service, kb *keyboard.Builder, t i18n.Translator) Handler {
	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			return nil
		}

		ctx := context.Background()

		profile, err := users.Profile(ctx, c.Sender().ID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return c.Send(t.T("msg.profile_missing"))
			}
			return errs.NewDatabaseError(err)
		}

		card := fmt.Sprintf(
			"Ism: %s\nYosh: %s\nVazn: %s\nBo'y: %s\nMahsulot: %s\nMuammo: %s\nHafta: %d",
			profile.Name,
			intOrDash(profile.Age),
			floatOrDash(profile.Weight),
			floatOrDash(profile.Height),
			orDash(profile.Product),
			orDash(profile.Issue),
			weekOrDefault(profile.Week),
		)

		return c.Send(card, kb.IssueMenu())
	}
}

// NewMealsHandler sends today's meal suggestion for the user's issue category.
func NewMealsHandler(users *user.Service, kb *keyboard.Builder) Handler {
	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			return nil
		}

		ctx := context.Background()

		issue := ""
		if profile, err := users.Profile(ctx, c.Sender().ID); err == nil {
			issue = profile.Issue
		}

		return c.Send(fmt.Sprintf("Bugungi tavsiya: %s", advice.MealSuggestion(issue)), kb.MainMenu())
	}
}

// NewStatsHandler reports the user's completed/total reminder counts.
func NewStatsHandler(progressSvc *progress.Service) Handler {
	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			return nil
		}

		ctx := context.Background()

		completed, total, err := progressSvc.StatsFor(ctx, c.Sender().ID)
		if err != nil {
			return errs.NewDatabaseError(err)
		}

		return c.Send(fmt.Sprintf("Bajarilgan amal: %d/%d", completed, total))
	}
}

// NewContactHandler switches the chat into consultation mode so that free
// text is answered by the nutritionist persona.
func NewContactHandler(users *user.Service, t i18n.Translator) Handler {
	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			return nil
		}

		ctx := context.Background()

		if err := users.SetConsultMode(ctx, c.Sender().ID, true); err != nil {
			return errs.NewDatabaseError(err)
		}

		return c.Send(t.T("msg.consult_intro"))
	}
}

// NewPromoHandler sends the current promotion text.
func NewPromoHandler(t i18n.Translator) Handler {
	return func(c telebot.Context) error {
		if c == nil {
			return nil
		}
		return c.Send(t.T("msg.promo"))
	}
}

// NewBackHandler returns to the main menu: consultation mode is switched off
// and any half-finished form state is dropped.
func NewBackHandler(users *user.Service, fsm state.StateMachine, kb *keyboard.Builder, t i18n.Translator, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			return nil
		}

		ctx := context.Background()
		chatID := c.Sender().ID

		if err := users.SetConsultMode(ctx, chatID, false); err != nil {
			if log != nil {
				log.Warn("failed to disable consultation mode", slog.Int64("chat_id", chatID), slog.Any("error", err))
			}
		}

		if err := fsm.ClearState(ctx, chatID); err != nil {
			if log != nil {
				log.Warn("failed to clear state on back", slog.Int64("chat_id", chatID), slog.Any("error", err))
			}
		}

		return c.Send(t.T("msg.main_menu"), kb.MainMenu())
	}
}

// NewProductsMenuHandler shows the product selection keyboard.
func NewProductsMenuHandler(kb *keyboard.Builder, t i18n.Translator) Handler {
	return func(c telebot.Context) error {
		if c == nil {
			return nil
		}
		return c.Send(t.T("msg.choose_product"), kb.ProductMenu())
	}
}

// NewProductSelectHandler stores a product picked outside the registration
// flow and reinstalls the reminder schedule.
func NewProductSelectHandler(users *user.Service, sched ReminderScheduler, kb *keyboard.Builder, t i18n.Translator) Handler {
	products := productByButton(t)

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			return nil
		}

		product, ok := products[c.Text()]
		if !ok {
			return nil
		}

		ctx := context.Background()
		chatID := c.Sender().ID

		if err := users.SetProduct(ctx, chatID, product); err != nil {
			return errs.NewDatabaseError(err)
		}

		if sched != nil {
			sched.InstallSchedule(chatID)
		}

		return c.Send(t.T("msg.registration_done"), kb.MainMenu())
	}
}

// NewIssueSelectHandler stores an issue picked outside the registration flow
// and continues to the product keyboard.
func NewIssueSelectHandler(users *user.Service, kb *keyboard.Builder, t i18n.Translator) Handler {
	issues := issueByButton(t)

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			return nil
		}

		issue, ok := issues[c.Text()]
		if !ok {
			return nil
		}

		ctx := context.Background()

		if err := users.SetIssue(ctx, c.Sender().ID, issue); err != nil {
			return errs.NewDatabaseError(err)
		}

		return c.Send(t.T("msg.choose_product"), kb.ProductMenu())
	}
}

func intOrDash(value *int) string {
	if value == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *value)
}

func floatOrDash(value *float64) string {
	if value == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *value)
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func weekOrDefault(week int) int {
	if week < 1 {
		return 1
	}
	return week
}
