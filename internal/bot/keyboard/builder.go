package keyboard

import (
	telebot "gopkg.in/telebot.v3"

	"github.com/painnoll/painnoll-bot/internal/i18n"
)

// Builder creates the bot's reply and inline keyboards from the catalog of
// localized button labels.
type Builder struct {
	t i18n.Translator
}

// NewBuilder returns a new Builder using the provided translator.
func NewBuilder(t i18n.Translator) *Builder {
	return &Builder{t: t}
}

func (b *Builder) lookup(key string) string {
	if b == nil || b.t == nil {
		return key
	}
	return b.t.T(key)
}

// MainMenu builds the reply keyboard shown in the idle state.
func (b *Builder) MainMenu() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{
		ResizeKeyboard:  true,
		OneTimeKeyboard: false,
	}

	profileBtn := markup.Text(b.lookup("menu.profile"))
	mealsBtn := markup.Text(b.lookup("menu.meals"))
	productsBtn := markup.Text(b.lookup("menu.products"))
	statsBtn := markup.Text(b.lookup("menu.stats"))
	contactBtn := markup.Text(b.lookup("menu.contact"))
	promoBtn := markup.Text(b.lookup("menu.promo"))
	registerBtn := markup.Text(b.lookup("menu.register"))

	markup.Reply(
		markup.Row(profileBtn, mealsBtn),
		markup.Row(productsBtn, statsBtn),
		markup.Row(contactBtn, promoBtn),
		markup.Row(registerBtn),
	)

	return markup
}

// ProductMenu builds the product selection keyboard, one product per row.
func (b *Builder) ProductMenu() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{
		ResizeKeyboard:  true,
		OneTimeKeyboard: false,
	}

	markup.Reply(
		markup.Row(markup.Text(b.lookup("product.painnoll"))),
		markup.Row(markup.Text(b.lookup("product.biodetox"))),
		markup.Row(markup.Text(b.lookup("product.vitapro"))),
		markup.Row(markup.Text(b.lookup("product.nutramax"))),
		markup.Row(markup.Text(b.lookup("menu.back"))),
	)

	return markup
}

// IssueMenu builds the health concern selection keyboard.
func (b *Builder) IssueMenu() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{
		ResizeKeyboard:  true,
		OneTimeKeyboard: false,
	}

	markup.Reply(
		markup.Row(markup.Text(b.lookup("issue.joints"))),
		markup.Row(markup.Text(b.lookup("issue.digestion"))),
		markup.Row(markup.Text(b.lookup("issue.prostate"))),
		markup.Row(markup.Text(b.lookup("issue.detox"))),
		markup.Row(markup.Text(b.lookup("menu.back"))),
	)

	return markup
}

// AdminMenu builds the admin panel keyboard.
func (b *Builder) AdminMenu() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{
		ResizeKeyboard:  true,
		OneTimeKeyboard: false,
	}

	usersBtn := markup.Text(b.lookup("admin.users"))
	statsBtn := markup.Text(b.lookup("admin.stats"))
	broadcastBtn := markup.Text(b.lookup("admin.broadcast"))
	backBtn := markup.Text(b.lookup("menu.back"))

	markup.Reply(
		markup.Row(usersBtn, statsBtn),
		markup.Row(broadcastBtn),
		markup.Row(backBtn),
	)

	return markup
}

// DailyActions builds the inline buttons attached to every reminder message.
func (b *Builder) DailyActions() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = [][]telebot.InlineButton{
		{
			{
				Text: b.lookup("action.done"),
				Data: "done",
			},
			{
				Text: b.lookup("action.later"),
				Data: "remind_later",
			},
		},
	}
	return markup
}
