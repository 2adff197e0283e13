package handlers

import (
	telebot "gopkg.in/telebot.v3"
)

// Handler processes bot messages and commands.
type Handler func(c telebot.Context) error

// CallbackHandler processes inline callback events.
type CallbackHandler func(c telebot.Context) error

// Middleware wraps handlers with additional behavior.
type Middleware func(Handler) Handler

// ReminderScheduler is the slice of the scheduler the handlers drive: menu and
// registration actions (re)install a user's daily triggers, and the
// remind-later button defers one firing.
type ReminderScheduler interface {
	InstallSchedule(chatID int64)
	DeferOneShot(chatID int64, label string)
}

// Forwarder relays user-submitted media to the administrator chats.
type Forwarder interface {
	ForwardPhoto(chatID int64, fileID, caption string) error
	ForwardVideo(chatID int64, fileID, caption string) error
}
