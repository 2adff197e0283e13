package handlers

import (
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/painnoll/painnoll-bot/internal/i18n"
)

// NewPhotoHandler forwards user-submitted photos (result pictures, payment
// receipts) to the administrator chats and acknowledges the sender.
func NewPhotoHandler(forwarder Forwarder, adminIDs []int64, t i18n.Translator, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		if c == nil || c.Message() == nil || c.Message().Photo == nil {
			return nil
		}

		msg := c.Message()
		caption := fmt.Sprintf("Rasm: %d | %s | %s", msg.Chat.ID, senderName(c), msg.Caption)

		for _, adminID := range adminIDs {
			if err := forwarder.ForwardPhoto(adminID, msg.Photo.FileID, caption); err != nil && log != nil {
				log.Warn("failed to forward photo to admin",
					slog.Int64("admin_id", adminID),
					slog.Int64("chat_id", msg.Chat.ID),
					slog.Any("error", err),
				)
			}
		}

		return c.Send(t.T("msg.photo_ack"))
	}
}

// NewVideoHandler forwards user-submitted videos to the administrator chats.
func NewVideoHandler(forwarder Forwarder, adminIDs []int64, t i18n.Translator, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		if c == nil || c.Message() == nil || c.Message().Video == nil {
			return nil
		}

		msg := c.Message()
		caption := fmt.Sprintf("Video: %d | %s | %s", msg.Chat.ID, senderName(c), msg.Caption)

		for _, adminID := range adminIDs {
			if err := forwarder.ForwardVideo(adminID, msg.Video.FileID, caption); err != nil && log != nil {
				log.Warn("failed to forward video to admin",
					slog.Int64("admin_id", adminID),
					slog.Int64("chat_id", msg.Chat.ID),
					slog.Any("error", err),
				)
			}
		}

		return c.Send(t.T("msg.video_ack"))
	}
}

func senderName(c telebot.Context) string {
	if c.Sender() == nil {
		return ""
	}
	return c.Sender().FirstName
}
