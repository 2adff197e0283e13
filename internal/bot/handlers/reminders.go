package handlers

import (
	"context"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/painnoll/painnoll-bot/internal/domain"
	"github.com/painnoll/painnoll-bot/internal/i18n"
	"github.com/painnoll/painnoll-bot/internal/progress"
	"github.com/painnoll/painnoll-bot/pkg/metrics"
)

// NewDoneCallbackHandler handles the "done" button on a reminder: the outcome
// is logged against the slot named in the reminder text.
func NewDoneCallbackHandler(progressSvc *progress.Service, t i18n.Translator, log *slog.Logger) CallbackHandler {
	return func(c telebot.Context) error {
		chatID, label, ok := reminderContext(c)
		if !ok {
			return nil
		}

		ctx := context.Background()

		if err := progressSvc.Record(ctx, chatID, label, true); err != nil && log != nil {
			log.Error("failed to record completed reminder", slog.Int64("chat_id", chatID), slog.Any("error", err))
		}

		metrics.RecordReminderResponse("done")

		return c.Respond(&telebot.CallbackResponse{Text: t.T("msg.done_ack")})
	}
}

// NewRemindLaterHandler handles the "remind later" button: a skipped outcome
// is logged and a one-shot trigger re-sends the reminder after the delay.
func NewRemindLaterHandler(progressSvc *progress.Service, sched ReminderScheduler, t i18n.Translator, log *slog.Logger) CallbackHandler {
	return func(c telebot.Context) error {
		chatID, label, ok := reminderContext(c)
		if !ok {
			return nil
		}

		ctx := context.Background()

		if err := progressSvc.Record(ctx, chatID, label, false); err != nil && log != nil {
			log.Error("failed to record deferred reminder", slog.Int64("chat_id", chatID), slog.Any("error", err))
		}

		if sched != nil {
			sched.DeferOneShot(chatID, label)
		}

		metrics.RecordReminderResponse("remind_later")

		return c.Respond(&telebot.CallbackResponse{Text: t.T("msg.later_ack")})
	}
}

// reminderContext extracts the chat and the slot label from the reminder
// message the button is attached to.
func reminderContext(c telebot.Context) (int64, string, bool) {
	if c == nil || c.Chat() == nil {
		return 0, "", false
	}

	text := ""
	if msg := c.Message(); msg != nil {
		text = msg.Text
	}

	return c.Chat().ID, domain.LabelFromText(text), true
}
