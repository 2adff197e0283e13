// Package scheduler owns all timing-based firing of reminder notifications.
package scheduler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/painnoll/painnoll-bot/internal/advice"
	"github.com/painnoll/painnoll-bot/internal/domain"
	"github.com/painnoll/painnoll-bot/pkg/metrics"
)

// Sender delivers a composed reminder to a chat. The bot transport implements
// it by attaching the done/remind-later buttons.
type Sender interface {
	SendReminder(chatID int64, body string) error
}

// ProfileSource is the read-side of the profile store the scheduler needs.
type ProfileSource interface {
	FindByID(ctx context.Context, chatID int64) (*domain.UserProfile, error)
	ListIDs(ctx context.Context) ([]int64, error)
}

// triggerKey identifies one recurring slot trigger. Reinstalling a schedule
// replaces the entry sharing the key instead of stacking a duplicate.
type triggerKey struct {
	ChatID int64
	Hour   int
}

// Scheduler drives the three recurring daily reminders per user plus one-shot
// "remind me later" deferrals. Recurring triggers live in a single cron
// runner; deferrals are plain timers that discard themselves after firing.
type Scheduler struct {
	cron       *cron.Cron
	profiles   ProfileSource
	log        *slog.Logger
	tzOffset   int
	deferDelay time.Duration

	mu       sync.Mutex
	sender   Sender
	entries  map[triggerKey]cron.EntryID
	oneShots map[*time.Timer]struct{}
	stopped  bool
}

// New constructs a Scheduler. The sender is attached separately because the
// transport needs the scheduler's consumer side wired first.
func New(profiles ProfileSource, log *slog.Logger, tzOffset int, deferDelay time.Duration) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	if deferDelay <= 0 {
		deferDelay = 30 * time.Minute
	}

	return &Scheduler{
		cron:       cron.New(),
		profiles:   profiles,
		log:        log,
		tzOffset:   tzOffset,
		deferDelay: deferDelay,
		entries:    make(map[triggerKey]cron.EntryID),
		oneShots:   make(map[*time.Timer]struct{}),
	}
}

// SetSender attaches the delivery transport.
func (s *Scheduler) SetSender(sender Sender) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sender = sender
}

// Start begins firing recurring triggers.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("reminder scheduler started", slog.Int("timezone_offset", s.tzOffset))
}

// Stop cancels every trigger and waits for running firings to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	for timer := range s.oneShots {
		timer.Stop()
	}
	s.oneShots = make(map[*time.Timer]struct{})
	s.mu.Unlock()

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.log.Info("reminder scheduler stopped")
}

// InstallSchedule installs the three recurring daily triggers for a user.
// Safe to call repeatedly: an existing trigger for the same (user, hour) is
// cancelled before the replacement is installed.
func (s *Scheduler) InstallSchedule(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, slot := range domain.Slots {
		hour := s.adjustHour(slot.Hour)
		key := triggerKey{ChatID: chatID, Hour: slot.Hour}

		if existing, ok := s.entries[key]; ok {
			s.cron.Remove(existing)
			delete(s.entries, key)
		}

		label := slot.Label
		spec := fmt.Sprintf("0 %d * * *", hour)
		id, err := s.cron.AddFunc(spec, func() {
			s.fire(chatID, label)
		})
		if err != nil {
			s.log.Error("failed to install recurring trigger",
				slog.Int64("chat_id", chatID),
				slog.Int("hour", hour),
				slog.Any("error", err),
			)
			continue
		}

		s.entries[key] = id
	}
}

// InstallAll installs schedules for every stored user. Called once at startup.
func (s *Scheduler) InstallAll(ctx context.Context) error {
	ids, err := s.profiles.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("list user ids: %w", err)
	}

	for _, id := range ids {
		s.InstallSchedule(id)
	}

	s.log.Info("installed reminder schedules", slog.Int("users", len(ids)))
	return nil
}

// DeferOneShot installs a single trigger firing after the configured delay,
// carrying the same label. Deferrals are not deduplicated: repeated
// remind-later taps stack independent firings.
func (s *Scheduler) DeferOneShot(chatID int64, label string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	var timer *time.Timer
	timer = time.AfterFunc(s.deferDelay, func() {
		s.mu.Lock()
		delete(s.oneShots, timer)
		s.mu.Unlock()

		s.fire(chatID, label)
	})
	s.oneShots[timer] = struct{}{}

	s.log.Info("deferred reminder",
		slog.Int64("chat_id", chatID),
		slog.String("label", label),
		slog.Duration("delay", s.deferDelay),
	)
}

// RecurringCount reports the number of active recurring triggers for a user.
func (s *Scheduler) RecurringCount(chatID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for key := range s.entries {
		if key.ChatID == chatID {
			count++
		}
	}
	return count
}

// PendingOneShots reports the number of deferred triggers not yet fired.
func (s *Scheduler) PendingOneShots() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.oneShots)
}

// fire composes and delivers one reminder. A missing profile makes the firing
// a silent no-op: the user may have been purged outside the bot. Delivery
// failures are logged and never abort other triggers.
func (s *Scheduler) fire(chatID int64, label string) {
	ctx := context.Background()

	profile, err := s.profiles.FindByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.log.Debug("skipping reminder for unknown user", slog.Int64("chat_id", chatID))
			return
		}

		s.log.Error("failed to load profile for reminder", slog.Int64("chat_id", chatID), slog.Any("error", err))
		return
	}

	s.mu.Lock()
	sender := s.sender
	s.mu.Unlock()

	if sender == nil {
		s.log.Warn("reminder sender not attached", slog.Int64("chat_id", chatID))
		return
	}

	body := Compose(profile, label)
	if err := sender.SendReminder(chatID, body); err != nil {
		metrics.RecordReminderSendFailure()
		s.log.Error("failed to deliver reminder",
			slog.Int64("chat_id", chatID),
			slog.String("label", label),
			slog.Any("error", err),
		)
		return
	}

	metrics.RecordReminderSent(label)
}

// Compose renders the reminder body for a profile and slot label: greeting,
// product, dose for the current program week, and the daily meal suggestion.
func Compose(profile *domain.UserProfile, label string) string {
	name := profile.Name
	if name == "" {
		name = "Do'st"
	}

	dose := domain.DoseForWeek(profile.Week)
	meal := advice.MealSuggestion(profile.Issue)

	return fmt.Sprintf(
		"🌿 Assalomu alaykum, %s!\n\n"+
			"%s tavsiya:\n"+
			"• Mahsulotingiz: %s\n"+
			"• Muvaffaqiyat uchun doz: %d kapsula (har doim ko'rsatilgan vaqtda)\n\n"+
			"🍽 Bugungi ovqatlanish tavsiyasi: %s\n\n"+
			"👇 Amalni belgilang yoki keyinroq eslatishni so'rang.",
		name, label, profile.Product, dose, meal,
	)
}

func (s *Scheduler) adjustHour(hour int) int {
	return ((hour+s.tzOffset)%24 + 24) % 24
}
