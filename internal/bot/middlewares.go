package bot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	telebot "gopkg.in/telebot.v3"

	"github.com/painnoll/painnoll-bot/internal/bot/handlers"
	errs "github.com/painnoll/painnoll-bot/internal/errors"
	"github.com/painnoll/painnoll-bot/internal/user"
	"github.com/painnoll/painnoll-bot/pkg/logger"
	"github.com/painnoll/painnoll-bot/pkg/metrics"
)

// RecoveryMiddleware catches panics, reports them via the centralized handler
// and notifies the user.
func RecoveryMiddleware(log *slog.Logger, errHandler *errs.Handler) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error("panic recovered in handler", slog.Any("panic", r), slog.String("stack", string(debug.Stack())))

					userMsg := "Xatolik yuz berdi. Keyinroq urinib ko'ring."
					if errHandler != nil {
						appErr := errs.NewDatabaseError(fmt.Errorf("panic recovered: %v", r))
						if msg := errHandler.Handle(context.Background(), appErr); msg != "" {
							userMsg = msg
						}
					}

					if c != nil {
						if sendErr := c.Send(userMsg); sendErr != nil {
							log.Error("failed to notify user about panic", slog.Any("error", sendErr))
						}
					}

					err = nil
				}
			}()

			return next(c)
		}
	}
}

// ErrorHandlingMiddleware centralizes error reporting and user messaging for
// handler failures. Errors never leak past it.
func ErrorHandlingMiddleware(errHandler *errs.Handler) handlers.Middleware {
	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			userMsg := "Xatolik yuz berdi. Keyinroq urinib ko'ring."
			if errHandler != nil {
				ctx := logger.WithCorrelationID(context.Background(), "")
				if msg := errHandler.Handle(ctx, err); msg != "" {
					userMsg = msg
				}
			}

			if c != nil {
				_ = c.Send(userMsg)
			}

			return nil
		}
	}
}

// LoggingMiddleware logs basic telemetry about incoming updates under a fresh
// correlation identifier.
func LoggingMiddleware(log *slog.Logger) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			start := time.Now()
			chatID := int64(0)
			if c != nil && c.Sender() != nil {
				chatID = c.Sender().ID
			}

			action := ""
			if c != nil {
				if cb := c.Callback(); cb != nil {
					action = cb.Data
				} else {
					action = c.Text()
				}
			}

			correlationID := uuid.NewString()

			log.Info("handling update",
				slog.Int64("chat_id", chatID),
				slog.String("action", action),
				slog.String("correlation_id", correlationID),
			)
			err := next(c)
			log.Info("handled update",
				slog.Int64("chat_id", chatID),
				slog.String("action", action),
				slog.String("correlation_id", correlationID),
				slog.Duration("duration", time.Since(start)),
				slog.Any("error", err),
			)

			return err
		}
	}
}

// MetricsMiddleware measures execution time and status for bot handlers.
func MetricsMiddleware(next handlers.Handler) handlers.Handler {
	if next == nil {
		return nil
	}

	return func(c telebot.Context) error {
		start := time.Now()
		err := next(c)

		status := "ok"
		if err != nil {
			status = "error"
		}

		metrics.RecordUpdate(status, time.Since(start))

		return err
	}
}

// ProvisionMiddleware ensures that each incoming update is associated with a
// profile row, creating a minimal one on first contact.
func ProvisionMiddleware(users *user.Service, log *slog.Logger) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			if users == nil || c == nil || c.Sender() == nil {
				return next(c)
			}

			ctx := context.Background()

			if _, err := users.GetOrCreate(ctx, c.Sender()); err != nil {
				log.Error("failed to provision profile", slog.Int64("chat_id", c.Sender().ID), slog.Any("error", err))
				return errs.NewDatabaseError(err)
			}

			return next(c)
		}
	}
}
