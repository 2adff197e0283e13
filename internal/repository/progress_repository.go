package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// ProgressRepository records reminder outcomes and answers aggregate queries.
// The log is append-only: every reminder tap produces exactly one row and rows
// are never mutated or removed.
type ProgressRepository interface {
	Append(ctx context.Context, chatID int64, label string, done bool) error
	StatsFor(ctx context.Context, chatID int64) (completed, total int64, err error)
	StatsAll(ctx context.Context) (completed, total int64, err error)
}

type progressRepository struct {
	db  *sql.DB
	log *slog.Logger
}

// NewProgressRepository creates a new SQL-backed progress log.
func NewProgressRepository(db *sql.DB, log *slog.Logger) ProgressRepository {
	return &progressRepository{
		db:  db,
		log: log,
	}
}

// Append records one reminder outcome dated by the current UTC calendar day.
func (r *progressRepository) Append(ctx context.Context, chatID int64, label string, done bool) error {
	const query = `
		INSERT INTO progress_events (chat_id, date, label, done)
		VALUES ($1, $2, $3, $4)
	`

	day := time.Now().UTC().Truncate(24 * time.Hour)

	if _, err := r.db.ExecContext(ctx, query, chatID, day, label, done); err != nil {
		if r.log != nil {
			r.log.Error("failed to append progress event",
				slog.Int64("chat_id", chatID),
				slog.String("label", label),
				slog.Any("error", err),
			)
		}
		return fmt.Errorf("insert progress event: %w", err)
	}

	return nil
}

// StatsFor returns the all-time (completed, total) event counts for one user.
func (r *progressRepository) StatsFor(ctx context.Context, chatID int64) (int64, int64, error) {
	const query = `
		SELECT COUNT(*) FILTER (WHERE done), COUNT(*)
		FROM progress_events
		WHERE chat_id = $1
	`

	var completed, total int64
	if err := r.db.QueryRowContext(ctx, query, chatID).Scan(&completed, &total); err != nil {
		if r.log != nil {
			r.log.Error("failed to query user stats", slog.Int64("chat_id", chatID), slog.Any("error", err))
		}
		return 0, 0, fmt.Errorf("select user stats: %w", err)
	}

	return completed, total, nil
}

// StatsAll returns the all-time (completed, total) event counts across every user.
func (r *progressRepository) StatsAll(ctx context.Context) (int64, int64, error) {
	const query = `
		SELECT COUNT(*) FILTER (WHERE done), COUNT(*)
		FROM progress_events
	`

	var completed, total int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&completed, &total); err != nil {
		if r.log != nil {
			r.log.Error("failed to query global stats", slog.Any("error", err))
		}
		return 0, 0, fmt.Errorf("select global stats: %w", err)
	}

	return completed, total, nil
}
