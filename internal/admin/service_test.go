package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/painnoll/painnoll-bot/internal/domain"
	errs "github.com/painnoll/painnoll-bot/internal/errors"
	"github.com/painnoll/painnoll-bot/pkg/config"
)

type fakeDirectory struct {
	profiles map[int64]*domain.UserProfile
	order    []int64
}

func (f *fakeDirectory) Profile(_ context.Context, chatID int64) (*domain.UserProfile, error) {
	profile, ok := f.profiles[chatID]
	if !ok {
		return nil, errors.New("not found")
	}
	return profile, nil
}

func (f *fakeDirectory) ListIDs(_ context.Context) ([]int64, error) {
	return f.order, nil
}

type fakeStats struct {
	completed int64
	total     int64
}

func (f *fakeStats) StatsAll(_ context.Context) (int64, int64, error) {
	return f.completed, f.total, nil
}

type recordingBroadcaster struct {
	sent    []int64
	failFor map[int64]bool
}

func (r *recordingBroadcaster) SendText(chatID int64, _ string) error {
	if r.failFor[chatID] {
		return errors.New("blocked by user")
	}
	r.sent = append(r.sent, chatID)
	return nil
}

func newTestService(dir *fakeDirectory, stats *fakeStats) *Service {
	cfg := config.BotConfig{AdminIDs: []int64{851458432}}
	return NewService(cfg, dir, stats, slog.Default())
}

func TestIsAdmin(t *testing.T) {
	svc := newTestService(&fakeDirectory{}, &fakeStats{})

	require.True(t, svc.IsAdmin(851458432))
	require.False(t, svc.IsAdmin(12345))
}

func TestUserLines(t *testing.T) {
	dir := &fakeDirectory{
		profiles: map[int64]*domain.UserProfile{
			1: {ChatID: 1, Name: "Aziz", Product: "Painnoll", Issue: "Prostata"},
			2: {ChatID: 2, Name: "Dilnoza", Product: "BioDetox"},
		},
		order: []int64{1, 2},
	}
	svc := newTestService(dir, &fakeStats{})

	count, lines, err := svc.UserLines(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, count)
	require.Equal(t, []string{
		"1 | Aziz | Painnoll | Prostata",
		"2 | Dilnoza | BioDetox | -",
	}, lines)
}

func TestUserLinesCapped(t *testing.T) {
	dir := &fakeDirectory{profiles: map[int64]*domain.UserProfile{}}
	for i := int64(1); i <= 30; i++ {
		dir.profiles[i] = &domain.UserProfile{ChatID: i, Name: fmt.Sprintf("user-%d", i)}
		dir.order = append(dir.order, i)
	}
	svc := newTestService(dir, &fakeStats{})

	count, lines, err := svc.UserLines(context.Background())
	require.NoError(t, err)
	require.Equal(t, 30, count)
	require.Len(t, lines, 20)
}

func TestStats(t *testing.T) {
	dir := &fakeDirectory{order: []int64{1, 2, 3}}
	svc := newTestService(dir, &fakeStats{completed: 7, total: 12})

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Umumiy foydalanuvchilar: 3\nAmallar: 7/12", stats)
}

func TestBroadcastRejectsEmptyText(t *testing.T) {
	dir := &fakeDirectory{order: []int64{1, 2}}
	svc := newTestService(dir, &fakeStats{})

	sender := &recordingBroadcaster{}

	delivered, err := svc.Broadcast(context.Background(), "   ", sender)
	require.Error(t, err)
	require.Equal(t, 0, delivered)
	require.Empty(t, sender.sent)

	var appErr *errs.AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, "E100", appErr.Code)
}

func TestBroadcastIsolatesFailures(t *testing.T) {
	dir := &fakeDirectory{order: []int64{1, 2, 3}}
	svc := newTestService(dir, &fakeStats{})

	sender := &recordingBroadcaster{failFor: map[int64]bool{2: true}}

	delivered, err := svc.Broadcast(context.Background(), "Yangilik!", sender)
	require.NoError(t, err)
	require.Equal(t, 2, delivered)
	require.Equal(t, []int64{1, 3}, sender.sent)
}
