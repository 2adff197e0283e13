package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	telebot "gopkg.in/telebot.v3"

	"github.com/painnoll/painnoll-bot/internal/domain"
	"github.com/painnoll/painnoll-bot/internal/progress"
)

// stubContext implements the fraction of telebot.Context the handlers touch
// and records outgoing traffic. Unimplemented methods panic on use.
type stubContext struct {
	telebot.Context

	chat    *telebot.Chat
	sender  *telebot.User
	message *telebot.Message
	text    string

	sent     []string
	responds []*telebot.CallbackResponse
}

func (s *stubContext) Chat() *telebot.Chat       { return s.chat }
func (s *stubContext) Sender() *telebot.User     { return s.sender }
func (s *stubContext) Message() *telebot.Message { return s.message }
func (s *stubContext) Text() string              { return s.text }

func (s *stubContext) Send(what interface{}, _ ...interface{}) error {
	if text, ok := what.(string); ok {
		s.sent = append(s.sent, text)
	}
	return nil
}

func (s *stubContext) Respond(resp ...*telebot.CallbackResponse) error {
	s.responds = append(s.responds, resp...)
	return nil
}

type stubTranslator struct{}

func (stubTranslator) T(key string) string { return key }
func (stubTranslator) Lang() string        { return "uz" }

type outcomeRecord struct {
	chatID int64
	label  string
	done   bool
}

type fakeProgressRepo struct {
	events []outcomeRecord
}

func (f *fakeProgressRepo) Append(_ context.Context, chatID int64, label string, done bool) error {
	f.events = append(f.events, outcomeRecord{chatID: chatID, label: label, done: done})
	return nil
}

func (f *fakeProgressRepo) StatsFor(context.Context, int64) (int64, int64, error) {
	return 0, 0, nil
}

func (f *fakeProgressRepo) StatsAll(context.Context) (int64, int64, error) {
	return 0, 0, nil
}

type deferredCall struct {
	chatID int64
	label  string
}

type countingScheduler struct {
	installs []int64
	defers   []deferredCall
}

func (c *countingScheduler) InstallSchedule(chatID int64) {
	c.installs = append(c.installs, chatID)
}

func (c *countingScheduler) DeferOneShot(chatID int64, label string) {
	c.defers = append(c.defers, deferredCall{chatID: chatID, label: label})
}

func reminderTap(chatID int64, messageText string) *stubContext {
	return &stubContext{
		chat:    &telebot.Chat{ID: chatID},
		message: &telebot.Message{Text: messageText},
	}
}

func TestReminderTapOutcomes(t *testing.T) {
	testCases := []struct {
		name       string
		build      func(*progress.Service, *countingScheduler) CallbackHandler
		wantDone   bool
		wantDefers int
		wantAck    string
	}{
		{
			name: "done logs a completion and leaves the schedule alone",
			build: func(p *progress.Service, _ *countingScheduler) CallbackHandler {
				return NewDoneCallbackHandler(p, stubTranslator{}, nil)
			},
			wantDone:   true,
			wantDefers: 0,
			wantAck:    "msg.done_ack",
		},
		{
			name: "remind later logs a skip and defers once",
			build: func(p *progress.Service, s *countingScheduler) CallbackHandler {
				return NewRemindLaterHandler(p, s, stubTranslator{}, nil)
			},
			wantDone:   false,
			wantDefers: 1,
			wantAck:    "msg.later_ack",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeProgressRepo{}
			sched := &countingScheduler{}
			handler := tc.build(progress.NewService(repo, nil), sched)

			c := reminderTap(7, "Aziz, Tushlik vaqti bo'ldi!")
			require.NoError(t, handler(c))

			require.Len(t, repo.events, 1, "exactly one outcome per tap")
			assert.Equal(t, outcomeRecord{chatID: 7, label: domain.LabelMidday, done: tc.wantDone}, repo.events[0])

			require.Len(t, sched.defers, tc.wantDefers)
			if tc.wantDefers > 0 {
				assert.Equal(t, deferredCall{chatID: 7, label: domain.LabelMidday}, sched.defers[0])
			}
			assert.Empty(t, sched.installs)

			require.Len(t, c.responds, 1)
			assert.Equal(t, tc.wantAck, c.responds[0].Text)
		})
	}
}

func TestRemindLaterFallsBackToAdHocLabel(t *testing.T) {
	repo := &fakeProgressRepo{}
	sched := &countingScheduler{}
	handler := NewRemindLaterHandler(progress.NewService(repo, nil), sched, stubTranslator{}, nil)

	c := reminderTap(7, "Dori ichishni unutmang!")
	require.NoError(t, handler(c))

	require.Len(t, repo.events, 1)
	assert.Equal(t, domain.LabelAdHoc, repo.events[0].label)
	require.Len(t, sched.defers, 1)
	assert.Equal(t, domain.LabelAdHoc, sched.defers[0].label)
}

func TestReminderTapWithoutChatIsIgnored(t *testing.T) {
	repo := &fakeProgressRepo{}
	handler := NewDoneCallbackHandler(progress.NewService(repo, nil), stubTranslator{}, nil)

	c := &stubContext{message: &telebot.Message{Text: "Tushlik"}}
	require.NoError(t, handler(c))

	assert.Empty(t, repo.events)
	assert.Empty(t, c.responds)
}
