package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/painnoll/painnoll-bot/internal/domain"
)

// ErrUnknownField is returned when SetField receives a field outside the
// enumerated set of updatable columns.
var ErrUnknownField = errors.New("unknown profile field")

// UserRepository defines persistence operations for user profiles.
type UserRepository interface {
	FindByID(ctx context.Context, chatID int64) (*domain.UserProfile, error)
	Upsert(ctx context.Context, profile *domain.UserProfile) error
	SetField(ctx context.Context, chatID int64, field domain.ProfileField, value any) error
	SetConsultMode(ctx context.Context, chatID int64, on bool) error
	ConsultMode(ctx context.Context, chatID int64) (bool, error)
	ListIDs(ctx context.Context) ([]int64, error)
}

type userRepository struct {
	db  *sql.DB
	log *slog.Logger
}

// NewUserRepository creates a new SQL-backed user repository.
func NewUserRepository(db *sql.DB, log *slog.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log,
	}
}

// FindByID retrieves a profile by chat identifier. Returns sql.ErrNoRows when
// no profile exists.
func (r *userRepository) FindByID(ctx context.Context, chatID int64) (*domain.UserProfile, error) {
	const query = `
		SELECT chat_id, name, age, weight, height, product, issue, start_date, week, created_at, consult_mode
		FROM users
		WHERE chat_id = $1
	`

	row := r.db.QueryRowContext(ctx, query, chatID)

	var (
		profile domain.UserProfile
		age     sql.NullInt64
		weight  sql.NullFloat64
		height  sql.NullFloat64
		issue   sql.NullString
	)

	if err := row.Scan(
		&profile.ChatID,
		&profile.Name,
		&age,
		&weight,
		&height,
		&profile.Product,
		&issue,
		&profile.StartDate,
		&profile.Week,
		&profile.CreatedAt,
		&profile.ConsultMode,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}

		if r.log != nil {
			r.log.Error("failed to fetch user profile", slog.Int64("chat_id", chatID), slog.Any("error", err))
		}
		return nil, fmt.Errorf("select user by chat id: %w", err)
	}

	if age.Valid {
		v := int(age.Int64)
		profile.Age = &v
	}
	if weight.Valid {
		v := weight.Float64
		profile.Weight = &v
	}
	if height.Valid {
		v := height.Float64
		profile.Height = &v
	}
	if issue.Valid {
		profile.Issue = issue.String
	}

	return &profile, nil
}

// Upsert inserts the profile or fully replaces an existing row. Re-registering
// a known user resets week, start_date and created_at and discards any field
// the caller did not re-supply. That mirrors the registration flow contract:
// starting over means starting the program over.
func (r *userRepository) Upsert(ctx context.Context, profile *domain.UserProfile) error {
	const query = `
		INSERT INTO users (chat_id, name, age, weight, height, product, issue, start_date, week, created_at, consult_mode)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (chat_id) DO UPDATE SET
			name = EXCLUDED.name,
			age = EXCLUDED.age,
			weight = EXCLUDED.weight,
			height = EXCLUDED.height,
			product = EXCLUDED.product,
			issue = EXCLUDED.issue,
			start_date = EXCLUDED.start_date,
			week = EXCLUDED.week,
			created_at = EXCLUDED.created_at,
			consult_mode = EXCLUDED.consult_mode
	`

	var issue any
	if profile.Issue != "" {
		issue = profile.Issue
	}

	if _, err := r.db.ExecContext(
		ctx,
		query,
		profile.ChatID,
		profile.Name,
		nullableInt(profile.Age),
		nullableFloat(profile.Weight),
		nullableFloat(profile.Height),
		profile.Product,
		issue,
		profile.StartDate,
		profile.Week,
		profile.CreatedAt,
		profile.ConsultMode,
	); err != nil {
		if r.log != nil {
			r.log.Error("failed to upsert user profile", slog.Int64("chat_id", profile.ChatID), slog.Any("error", err))
		}
		return fmt.Errorf("upsert user: %w", err)
	}

	return nil
}

// profileColumns maps the enumerated updatable fields to their columns. The
// indirection keeps arbitrary strings out of the generated SQL.
var profileColumns = map[domain.ProfileField]string{
	domain.FieldAge:     "age",
	domain.FieldWeight:  "weight",
	domain.FieldHeight:  "height",
	domain.FieldIssue:   "issue",
	domain.FieldProduct: "product",
}

// SetField updates a single column without touching the rest of the row.
func (r *userRepository) SetField(ctx context.Context, chatID int64, field domain.ProfileField, value any) error {
	column, ok := profileColumns[field]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	query := fmt.Sprintf("UPDATE users SET %s = $1 WHERE chat_id = $2", column)

	if _, err := r.db.ExecContext(ctx, query, value, chatID); err != nil {
		if r.log != nil {
			r.log.Error("failed to update profile field",
				slog.Int64("chat_id", chatID),
				slog.String("field", string(field)),
				slog.Any("error", err),
			)
		}
		return fmt.Errorf("update user field %s: %w", field, err)
	}

	return nil
}

// SetConsultMode toggles the consultation-mode flag.
func (r *userRepository) SetConsultMode(ctx context.Context, chatID int64, on bool) error {
	const query = `UPDATE users SET consult_mode = $1 WHERE chat_id = $2`

	if _, err := r.db.ExecContext(ctx, query, on, chatID); err != nil {
		if r.log != nil {
			r.log.Error("failed to set consult mode", slog.Int64("chat_id", chatID), slog.Any("error", err))
		}
		return fmt.Errorf("set consult mode: %w", err)
	}

	return nil
}

// ConsultMode reads the consultation-mode flag. Unknown chats report false,
// matching the dispatcher's treatment of strangers.
func (r *userRepository) ConsultMode(ctx context.Context, chatID int64) (bool, error) {
	const query = `SELECT consult_mode FROM users WHERE chat_id = $1`

	var on bool
	if err := r.db.QueryRowContext(ctx, query, chatID).Scan(&on); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		if r.log != nil {
			r.log.Error("failed to read consult mode", slog.Int64("chat_id", chatID), slog.Any("error", err))
		}
		return false, fmt.Errorf("read consult mode: %w", err)
	}

	return on, nil
}

// ListIDs returns every known chat identifier.
func (r *userRepository) ListIDs(ctx context.Context) ([]int64, error) {
	const query = `SELECT chat_id FROM users ORDER BY chat_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		if r.log != nil {
			r.log.Error("failed to list user ids", slog.Any("error", err))
		}
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user ids: %w", err)
	}

	return ids, nil
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
