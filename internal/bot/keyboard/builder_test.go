package keyboard_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/painnoll/painnoll-bot/internal/bot/keyboard"
)

type mockTranslator struct {
	translations map[string]string
}

func (m *mockTranslator) T(key string) string {
	if value, ok := m.translations[key]; ok {
		return value
	}
	return key
}

func (m *mockTranslator) Lang() string { return "uz" }

func TestMainMenu(t *testing.T) {
	translator := &mockTranslator{
		translations: map[string]string{
			"menu.profile":  "Profil",
			"menu.meals":    "Ovqatlanish",
			"menu.products": "Mahsulotlar",
			"menu.stats":    "Natijam",
			"menu.contact":  "Bog'lanish",
			"menu.promo":    "Aksiya",
			"menu.register": "Registratsiya",
		},
	}

	markup := keyboard.NewBuilder(translator).MainMenu()

	require.True(t, markup.ResizeKeyboard)

	expectedRows := [][]string{
		{"Profil", "Ovqatlanish"},
		{"Mahsulotlar", "Natijam"},
		{"Bog'lanish", "Aksiya"},
		{"Registratsiya"},
	}

	require.Len(t, markup.ReplyKeyboard, len(expectedRows))
	for i, row := range expectedRows {
		require.Len(t, markup.ReplyKeyboard[i], len(row))
		for j, text := range row {
			require.Equal(t, text, markup.ReplyKeyboard[i][j].Text)
		}
	}
}

func TestProductMenuHasBackButton(t *testing.T) {
	markup := keyboard.NewBuilder(nil).ProductMenu()

	require.Len(t, markup.ReplyKeyboard, 5)
	last := markup.ReplyKeyboard[len(markup.ReplyKeyboard)-1]
	require.Len(t, last, 1)
	require.Equal(t, "menu.back", last[0].Text)
}

func TestDailyActions(t *testing.T) {
	translator := &mockTranslator{
		translations: map[string]string{
			"action.done":  "✅ Amal bajarildi",
			"action.later": "⏰ Keyinroq eslat",
		},
	}

	markup := keyboard.NewBuilder(translator).DailyActions()

	require.Len(t, markup.InlineKeyboard, 1)
	require.Len(t, markup.InlineKeyboard[0], 2)
	require.Equal(t, "done", markup.InlineKeyboard[0][0].Data)
	require.Equal(t, "✅ Amal bajarildi", markup.InlineKeyboard[0][0].Text)
	require.Equal(t, "remind_later", markup.InlineKeyboard[0][1].Data)
}
