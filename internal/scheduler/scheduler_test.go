package scheduler

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/painnoll/painnoll-bot/internal/domain"
)

type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[int64]*domain.UserProfile
}

func newFakeProfiles(profiles ...*domain.UserProfile) *fakeProfiles {
	m := make(map[int64]*domain.UserProfile, len(profiles))
	for _, p := range profiles {
		m[p.ChatID] = p
	}
	return &fakeProfiles{profiles: m}
}

func (f *fakeProfiles) FindByID(_ context.Context, chatID int64) (*domain.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	profile, ok := f.profiles[chatID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return profile, nil
}

func (f *fakeProfiles) ListIDs(context.Context) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := make([]int64, 0, len(f.profiles))
	for id := range f.profiles {
		ids = append(ids, id)
	}
	return ids, nil
}

type recordingSender struct {
	mu    sync.Mutex
	sends []string
}

func (r *recordingSender) SendReminder(_ int64, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sends = append(r.sends, body)
	return nil
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sends)
}

func (r *recordingSender) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sends) == 0 {
		return ""
	}
	return r.sends[len(r.sends)-1]
}

func testProfile(chatID int64, week int, issue string) *domain.UserProfile {
	return &domain.UserProfile{
		ChatID:  chatID,
		Name:    "Aziz",
		Product: domain.DefaultProduct,
		Issue:   issue,
		Week:    week,
	}
}

func TestInstallScheduleIsIdempotent(t *testing.T) {
	s := New(newFakeProfiles(testProfile(1, 1, "")), nil, 0, time.Minute)

	s.InstallSchedule(1)
	s.InstallSchedule(1)

	assert.Equal(t, 3, s.RecurringCount(1), "reinstall must replace triggers, not stack them")
	assert.Len(t, s.cron.Entries(), 3)
}

func TestInstallScheduleSeparateUsers(t *testing.T) {
	s := New(newFakeProfiles(testProfile(1, 1, ""), testProfile(2, 1, "")), nil, 0, time.Minute)

	require.NoError(t, s.InstallAll(context.Background()))

	assert.Equal(t, 3, s.RecurringCount(1))
	assert.Equal(t, 3, s.RecurringCount(2))
	assert.Equal(t, 0, s.RecurringCount(3))
}

func TestAdjustHourWrapsAround(t *testing.T) {
	testCases := []struct {
		name     string
		offset   int
		hour     int
		expected int
	}{
		{name: "no offset", offset: 0, hour: 8, expected: 8},
		{name: "positive offset", offset: 5, hour: 19, expected: 0},
		{name: "negative offset", offset: -9, hour: 8, expected: 23},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			s := New(newFakeProfiles(), nil, tc.offset, time.Minute)
			assert.Equal(t, tc.expected, s.adjustHour(tc.hour))
		})
	}
}

func TestFireMissingProfileIsSilent(t *testing.T) {
	sender := &recordingSender{}
	s := New(newFakeProfiles(), nil, 0, time.Minute)
	s.SetSender(sender)

	s.fire(42, domain.LabelMorning)

	assert.Equal(t, 0, sender.count(), "no notification for a purged profile")
}

func TestFireComposesAndSends(t *testing.T) {
	sender := &recordingSender{}
	s := New(newFakeProfiles(testProfile(1, 2, "Oshqozon / hazm")), nil, 0, time.Minute)
	s.SetSender(sender)

	s.fire(1, domain.LabelMidday)

	require.Equal(t, 1, sender.count())
	body := sender.last()
	assert.Contains(t, body, "Aziz")
	assert.Contains(t, body, domain.LabelMidday)
	assert.Contains(t, body, "2 kapsula")
	assert.Contains(t, body, "Yengil sho'rva")
}

func TestDeferOneShotFiresOnce(t *testing.T) {
	sender := &recordingSender{}
	s := New(newFakeProfiles(testProfile(1, 1, "")), nil, 0, 10*time.Millisecond)
	s.SetSender(sender)

	s.DeferOneShot(1, domain.LabelEvening)
	assert.Equal(t, 1, s.PendingOneShots())

	assert.Eventually(t, func() bool {
		return sender.count() == 1 && s.PendingOneShots() == 0
	}, time.Second, 5*time.Millisecond, "deferred trigger must fire exactly once and discard itself")

	assert.True(t, strings.Contains(sender.last(), domain.LabelEvening))
}

func TestDeferOneShotStacks(t *testing.T) {
	s := New(newFakeProfiles(testProfile(1, 1, "")), nil, 0, time.Hour)
	s.SetSender(&recordingSender{})

	s.DeferOneShot(1, domain.LabelMorning)
	s.DeferOneShot(1, domain.LabelMorning)

	assert.Equal(t, 2, s.PendingOneShots(), "deferrals are not deduplicated")

	s.Stop()
	assert.Equal(t, 0, s.PendingOneShots())
}

func TestComposeDoseByWeek(t *testing.T) {
	first := Compose(testProfile(1, 1, ""), domain.LabelMorning)
	later := Compose(testProfile(1, 3, ""), domain.LabelMorning)

	assert.Contains(t, first, "1 kapsula")
	assert.Contains(t, later, "2 kapsula")
}

func TestComposeLabelRoundTrip(t *testing.T) {
	for _, slot := range domain.Slots {
		body := Compose(testProfile(1, 1, ""), slot.Label)
		assert.Equal(t, slot.Label, domain.LabelFromText(body))
	}
}
