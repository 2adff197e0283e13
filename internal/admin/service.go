// Package admin implements the operator panel behind the allow-list.
package admin

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/painnoll/painnoll-bot/internal/domain"
	errs "github.com/painnoll/painnoll-bot/internal/errors"
	"github.com/painnoll/painnoll-bot/pkg/config"
	"github.com/painnoll/painnoll-bot/pkg/metrics"
)

// userListLimit caps the per-user lines sent back to the admin chat.
const userListLimit = 20

// ProfileDirectory is the read-side of the profile store the panel needs.
type ProfileDirectory interface {
	Profile(ctx context.Context, chatID int64) (*domain.UserProfile, error)
	ListIDs(ctx context.Context) ([]int64, error)
}

// ProgressStats aggregates reminder outcomes across all users.
type ProgressStats interface {
	StatsAll(ctx context.Context) (int64, int64, error)
}

// Broadcaster delivers a plain text message to a chat.
type Broadcaster interface {
	SendText(chatID int64, text string) error
}

// Service implements the admin panel operations.
type Service struct {
	cfg      config.BotConfig
	users    ProfileDirectory
	progress ProgressStats
	log      *slog.Logger
}

// NewService constructs a new Service instance.
func NewService(cfg config.BotConfig, users ProfileDirectory, progress ProgressStats, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}

	return &Service{cfg: cfg, users: users, progress: progress, log: log}
}

// IsAdmin reports whether the chat belongs to the administrator allow-list.
func (s *Service) IsAdmin(chatID int64) bool {
	return s.cfg.IsAdmin(chatID)
}

// UserLines returns the total user count and a "id | name | product | issue"
// line for each of the first users, mirroring what operators expect to skim.
func (s *Service) UserLines(ctx context.Context) (int, []string, error) {
	ids, err := s.users.ListIDs(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("list users: %w", err)
	}

	limit := len(ids)
	if limit > userListLimit {
		limit = userListLimit
	}

	lines := make([]string, 0, limit)
	for _, id := range ids[:limit] {
		profile, err := s.users.Profile(ctx, id)
		if err != nil {
			s.log.Warn("skipping unreadable profile in user list", slog.Int64("chat_id", id), slog.Any("error", err))
			continue
		}

		lines = append(lines, fmt.Sprintf("%d | %s | %s | %s", profile.ChatID, profile.Name, orDash(profile.Product), orDash(profile.Issue)))
	}

	return len(ids), lines, nil
}

// Stats renders the aggregate counters for the admin chat.
func (s *Service) Stats(ctx context.Context) (string, error) {
	ids, err := s.users.ListIDs(ctx)
	if err != nil {
		return "", fmt.Errorf("list users: %w", err)
	}

	completed, total, err := s.progress.StatsAll(ctx)
	if err != nil {
		return "", fmt.Errorf("aggregate progress: %w", err)
	}

	return fmt.Sprintf("Umumiy foydalanuvchilar: %d\nAmallar: %d/%d", len(ids), completed, total), nil
}

// Broadcast delivers text to every stored user and returns the number of
// successful deliveries. A failed recipient never aborts the rest.
func (s *Service) Broadcast(ctx context.Context, text string, sender Broadcaster) (int, error) {
	if strings.TrimSpace(text) == "" {
		return 0, errs.NewValidationError("empty broadcast text")
	}

	ids, err := s.users.ListIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	broadcastID := uuid.NewString()
	s.log.Info("starting broadcast", slog.String("broadcast_id", broadcastID), slog.Int("recipients", len(ids)))

	delivered := 0
	for _, id := range ids {
		if err := sender.SendText(id, text); err != nil {
			metrics.RecordBroadcastDelivery("error")
			s.log.Warn("broadcast delivery failed",
				slog.String("broadcast_id", broadcastID),
				slog.Int64("chat_id", id),
				slog.Any("error", err),
			)
			continue
		}

		metrics.RecordBroadcastDelivery("ok")
		delivered++
	}

	s.log.Info("broadcast finished",
		slog.String("broadcast_id", broadcastID),
		slog.Int("delivered", delivered),
		slog.Int("recipients", len(ids)),
	)

	return delivered, nil
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
