// Package user provides business operations over user profiles.
package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/painnoll/painnoll-bot/internal/domain"
	"github.com/painnoll/painnoll-bot/internal/repository"
)

const fallbackName = "Do'st"

// Service provides business operations over user profiles.
type Service struct {
	repo  repository.UserRepository
	cache *Cache
	log   *slog.Logger
}

// NewService constructs a new Service instance. cache may be nil.
func NewService(repo repository.UserRepository, cache *Cache, log *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, log: log}
}

// Profile returns the stored profile for the chat, or sql.ErrNoRows.
func (s *Service) Profile(ctx context.Context, chatID int64) (*domain.UserProfile, error) {
	if cached, err := s.cache.Get(ctx, chatID); err == nil && cached != nil {
		return cached, nil
	}

	profile, err := s.repo.FindByID(ctx, chatID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logError("profile.find", chatID, err)
		}
		return nil, err
	}

	if err := s.cache.Set(ctx, profile); err != nil {
		s.logError("profile.cache", chatID, err)
	}

	return profile, nil
}

// GetOrCreate fetches the profile for a Telegram user, creating a minimal one
// (name from Telegram, default product, week 1) on first contact.
func (s *Service) GetOrCreate(ctx context.Context, telegramUser *telebot.User) (*domain.UserProfile, error) {
	if telegramUser == nil {
		return nil, errors.New("telegram user is nil")
	}

	profile, err := s.Profile(ctx, telegramUser.ID)
	if err == nil {
		return profile, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	name := strings.TrimSpace(telegramUser.FirstName)
	if name == "" {
		name = fallbackName
	}

	now := time.Now().UTC()
	created := &domain.UserProfile{
		ChatID:    telegramUser.ID,
		Name:      name,
		Product:   domain.DefaultProduct,
		StartDate: now,
		Week:      1,
		CreatedAt: now,
	}

	if err := s.repo.Upsert(ctx, created); err != nil {
		s.logError("get_or_create.upsert", telegramUser.ID, err)
		return nil, fmt.Errorf("create profile: %w", err)
	}

	return created, nil
}

// Register starts the program over for the chat: the profile row is fully
// replaced with just the name and the default product, and week resets to 1.
// Prior age/weight/height/issue are discarded unless the flow re-supplies them.
func (s *Service) Register(ctx context.Context, chatID int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		name = fallbackName
	}

	now := time.Now().UTC()
	profile := &domain.UserProfile{
		ChatID:    chatID,
		Name:      name,
		Product:   domain.DefaultProduct,
		StartDate: now,
		Week:      1,
		CreatedAt: now,
	}

	if err := s.repo.Upsert(ctx, profile); err != nil {
		s.logError("register.upsert", chatID, err)
		return err
	}

	return s.invalidate(ctx, chatID)
}

// SetAge stores the registration age answer.
func (s *Service) SetAge(ctx context.Context, chatID int64, age int) error {
	return s.setField(ctx, chatID, domain.FieldAge, age)
}

// SetWeight stores the registration weight answer.
func (s *Service) SetWeight(ctx context.Context, chatID int64, weight float64) error {
	return s.setField(ctx, chatID, domain.FieldWeight, weight)
}

// SetHeight stores the registration height answer.
func (s *Service) SetHeight(ctx context.Context, chatID int64, height float64) error {
	return s.setField(ctx, chatID, domain.FieldHeight, height)
}

// SetIssue stores the selected issue category.
func (s *Service) SetIssue(ctx context.Context, chatID int64, issue string) error {
	return s.setField(ctx, chatID, domain.FieldIssue, issue)
}

// SetProduct stores the selected product.
func (s *Service) SetProduct(ctx context.Context, chatID int64, product string) error {
	return s.setField(ctx, chatID, domain.FieldProduct, product)
}

// ConsultMode reports whether the chat is in consultation mode. Reads go to
// the repository directly; the flag flips often enough that caching it would
// only add staleness.
func (s *Service) ConsultMode(ctx context.Context, chatID int64) (bool, error) {
	on, err := s.repo.ConsultMode(ctx, chatID)
	if err != nil {
		s.logError("consult_mode", chatID, err)
		return false, err
	}

	return on, nil
}

// SetConsultMode toggles consultation mode for the chat.
func (s *Service) SetConsultMode(ctx context.Context, chatID int64, on bool) error {
	if err := s.repo.SetConsultMode(ctx, chatID, on); err != nil {
		s.logError("set_consult_mode", chatID, err)
		return err
	}

	return s.invalidate(ctx, chatID)
}

// ListIDs returns every known chat identifier.
func (s *Service) ListIDs(ctx context.Context) ([]int64, error) {
	ids, err := s.repo.ListIDs(ctx)
	if err != nil {
		s.logError("list_ids", 0, err)
		return nil, err
	}

	return ids, nil
}

func (s *Service) setField(ctx context.Context, chatID int64, field domain.ProfileField, value any) error {
	if err := s.repo.SetField(ctx, chatID, field, value); err != nil {
		s.logError("set_"+string(field), chatID, err)
		return err
	}

	return s.invalidate(ctx, chatID)
}

func (s *Service) invalidate(ctx context.Context, chatID int64) error {
	if err := s.cache.Invalidate(ctx, chatID); err != nil {
		s.logError("cache.invalidate", chatID, err)
	}
	return nil
}

func (s *Service) logError(operation string, chatID int64, err error) {
	if s == nil || s.log == nil || err == nil {
		return
	}

	s.log.Error("user service operation failed",
		slog.String("operation", operation),
		slog.Int64("chat_id", chatID),
		slog.Any("error", err),
	)
}
