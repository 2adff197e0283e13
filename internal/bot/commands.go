package bot

// Command constants for Telegram bot commands.
const (
	CommandStart = "/start"
	CommandAdmin = "/admin"
)

// Callback data constants for the reminder inline buttons.
const (
	CallbackDone        = "done"
	CallbackRemindLater = "remind_later"
)
