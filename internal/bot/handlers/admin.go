package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/painnoll/painnoll-bot/internal/admin"
	"github.com/painnoll/painnoll-bot/internal/bot/keyboard"
	errs "github.com/painnoll/painnoll-bot/internal/errors"
	"github.com/painnoll/painnoll-bot/internal/i18n"
	"github.com/painnoll/painnoll-bot/internal/state"
)

// NewAdminPanelHandler handles /admin: the allow-list decides between the
// panel keyboard and a refusal.
func NewAdminPanelHandler(adminSvc *admin.Service, kb *keyboard.Builder, t i18n.Translator) Handler {
	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			return nil
		}

		if !adminSvc.IsAdmin(c.Sender().ID) {
			return c.Send(t.T("msg.access_denied"))
		}

		return c.Send(t.T("msg.admin_panel"), kb.AdminMenu())
	}
}

// NewAdminUsersHandler lists the user base: a count line followed by one line
// per user, capped by the service.
func NewAdminUsersHandler(adminSvc *admin.Service) Handler {
	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil || !adminSvc.IsAdmin(c.Sender().ID) {
			return nil
		}

		ctx := context.Background()

		count, lines, err := adminSvc.UserLines(ctx)
		if err != nil {
			return errs.NewDatabaseError(err)
		}

		if err := c.Send(fmt.Sprintf("Foydalanuvchilar soni: %d", count)); err != nil {
			return err
		}

		for _, line := range lines {
			if err := c.Send(line); err != nil {
				return err
			}
		}

		return nil
	}
}

// NewAdminStatsHandler reports aggregate usage counters.
func NewAdminStatsHandler(adminSvc *admin.Service) Handler {
	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil || !adminSvc.IsAdmin(c.Sender().ID) {
			return nil
		}

		ctx := context.Background()

		stats, err := adminSvc.Stats(ctx)
		if err != nil {
			return errs.NewDatabaseError(err)
		}

		return c.Send(stats)
	}
}

// NewBroadcastStartHandler arms the broadcast state so that the admin's next
// message becomes the announcement text.
func NewBroadcastStartHandler(adminSvc *admin.Service, fsm state.StateMachine, t i18n.Translator) Handler {
	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil || !adminSvc.IsAdmin(c.Sender().ID) {
			return nil
		}

		ctx := context.Background()

		if err := fsm.TransitionTo(ctx, c.Sender().ID, state.StateAwaitBroadcast); err != nil {
			return err
		}

		return c.Send(t.T("msg.broadcast_prompt"))
	}
}

// NewAwaitBroadcastHandler delivers the armed announcement to every user and
// reports how many deliveries went through.
func NewAwaitBroadcastHandler(
	adminSvc *admin.Service,
	sender admin.Broadcaster,
	fsm state.StateMachine,
	log *slog.Logger,
) Handler {
	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			return nil
		}

		ctx := context.Background()
		chatID := c.Sender().ID

		if !adminSvc.IsAdmin(chatID) {
			// Should not happen: the state is only armed for admins.
			return fsm.ClearState(ctx, chatID)
		}

		delivered, err := adminSvc.Broadcast(ctx, c.Text(), sender)
		if err != nil {
			var appErr *errs.AppError
			if errors.As(err, &appErr) {
				return err
			}
			return errs.NewDatabaseError(err)
		}

		if err := fsm.ClearState(ctx, chatID); err != nil {
			if log != nil {
				log.Warn("failed to clear broadcast state", slog.Int64("chat_id", chatID), slog.Any("error", err))
			}
		}

		return c.Send(fmt.Sprintf("Yuborildi: %d", delivered))
	}
}
