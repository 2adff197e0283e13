package handlers

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/painnoll/painnoll-bot/internal/advice"
	"github.com/painnoll/painnoll-bot/internal/user"
)

// NewConsultationHandler is the fallback for free text. It only answers when
// the chat is in consultation mode; anything else is silently ignored so
// stray messages do not produce noise.
func NewConsultationHandler(users *user.Service, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			return nil
		}

		ctx := context.Background()
		chatID := c.Sender().ID

		on, err := users.ConsultMode(ctx, chatID)
		if err != nil || !on {
			return nil
		}

		profile, err := users.Profile(ctx, chatID)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) && log != nil {
				log.Error("consultation profile lookup failed", slog.Int64("chat_id", chatID), slog.Any("error", err))
			}
			return nil
		}

		return c.Send(advice.Reply(c.Text(), profile))
	}
}
