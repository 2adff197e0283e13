package handlers

import (
	"context"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/painnoll/painnoll-bot/internal/bot/keyboard"
	errs "github.com/painnoll/painnoll-bot/internal/errors"
	"github.com/painnoll/painnoll-bot/internal/i18n"
	"github.com/painnoll/painnoll-bot/internal/user"
)

// NewStartHandler returns the /start handler: it ensures a profile exists,
// installs the user's daily reminder triggers and shows the main menu.
func NewStartHandler(
	users *user.Service,
	sched ReminderScheduler,
	kb *keyboard.Builder,
	t i18n.Translator,
	log *slog.Logger,
) Handler {
	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			if log != nil {
				log.Warn("start handler invoked without sender")
			}
			return nil
		}

		ctx := context.Background()

		profile, err := users.GetOrCreate(ctx, c.Sender())
		if err != nil {
			return errs.NewDatabaseError(err)
		}

		if sched != nil {
			sched.InstallSchedule(profile.ChatID)
		}

		return c.Send(t.T("msg.welcome"), kb.MainMenu())
	}
}
