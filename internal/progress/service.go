// Package progress provides business operations over the reminder outcome log.
package progress

import (
	"context"
	"log/slog"

	"github.com/painnoll/painnoll-bot/internal/repository"
)

// Service wraps the progress repository with scoped error logging.
type Service struct {
	repo repository.ProgressRepository
	log  *slog.Logger
}

// NewService constructs a new Service instance.
func NewService(repo repository.ProgressRepository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Record appends one reminder outcome for the chat.
func (s *Service) Record(ctx context.Context, chatID int64, label string, done bool) error {
	if err := s.repo.Append(ctx, chatID, label, done); err != nil {
		s.logError("record", chatID, err)
		return err
	}

	return nil
}

// StatsFor returns the all-time (completed, total) counts for one user.
func (s *Service) StatsFor(ctx context.Context, chatID int64) (int64, int64, error) {
	completed, total, err := s.repo.StatsFor(ctx, chatID)
	if err != nil {
		s.logError("stats_for", chatID, err)
		return 0, 0, err
	}

	return completed, total, nil
}

// StatsAll returns the all-time (completed, total) counts across every user.
func (s *Service) StatsAll(ctx context.Context) (int64, int64, error) {
	completed, total, err := s.repo.StatsAll(ctx)
	if err != nil {
		s.logError("stats_all", 0, err)
		return 0, 0, err
	}

	return completed, total, nil
}

func (s *Service) logError(operation string, chatID int64, err error) {
	if s == nil || s.log == nil || err == nil {
		return
	}

	s.log.Error("progress service operation failed",
		slog.String("operation", operation),
		slog.Int64("chat_id", chatID),
		slog.Any("error", err),
	)
}
