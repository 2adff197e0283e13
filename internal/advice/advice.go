// Package advice holds the canned consultation replies and meal suggestions.
package advice

import (
	"fmt"
	"strings"

	"github.com/painnoll/painnoll-bot/internal/domain"
)

const fallbackName = "Do'st"

// consultationRule pairs a keyword set with a response template. Templates take
// the user's name as %[1]s and their product as %[2]s.
type consultationRule struct {
	keywords []string
	template string
}

// Rules are evaluated top to bottom and the first match wins. Keywords overlap
// across rules, so the order is part of the contract; do not reorder.
var consultationRules = []consultationRule{
	{
		keywords: []string{"oshqozon", "hazm", "kislota", "gaz", "qorin"},
		template: "Assalomu alaykum, %[1]s. Men Nutresolog Sardor Xasanovich. Oshqozon va hazm uchun kunlik ovqatni yengil tuting, ko'p yog'li va achchiq ovqatlardan saqlaning. %[2]s ni belgilangan vaqtda qabul qiling, suvni yetarli iching.",
	},
	{
		keywords: []string{"bo'g'im", "suyak", "og'riq", "artrit"},
		template: "%[1]s, bo'g'imlar uchun mikroharakatlar va cho'zilish mashqlari tavsiya etaman. Kalsiy va D vitamini boy ovqatlar iste'mol qiling. %[2]s ni 08:00, 13:00, 19:00 da muntazam iching.",
	},
	{
		keywords: []string{"prostata", "siydik", "erkak"},
		template: "%[1]s, prostata salomatligi uchun yurish va to'yimli oqsil manbalari foydali. Suvni ko'proq iching, kechqurun tuz va yog'ni kamaytiring. %[2]s qabulini davom ettiring.",
	},
	{
		keywords: []string{"detoks", "vazn", "semirish", "parhez"},
		template: "%[1]s, vazn nazorati uchun shakarni cheklang, tola va oqsilni ko'paytiring, har kuni 8-10 ming qadam yuring. %[2]s ni jadval bo'yicha iching.",
	},
	{
		keywords: []string{"qon bosim", "bosim", "gipertoniya"},
		template: "%[1]s, qon bosimi uchun tuzni kamaytiring, stressni boshqarishga e'tibor bering, kundalik yurish qiling. %[2]s ni belgilangan dozada qabul qiling.",
	},
	{
		keywords: []string{"shakar", "qand", "diabet"},
		template: "%[1]s, shakarni barqaror ushlab turish uchun porsiya nazorati va past glikemik indeksli ovqatlar tanlang. %[2]s ni ovqat oldi suv bilan iching.",
	},
}

const defaultReplyTemplate = "%[1]s, savolingiz uchun rahmat. Men Nutresolog Sardor Xasanovich. Siz uchun umumiy tavsiya: %[2]s. Agar aniq alomat bo'lsa, batafsil yozing."

// Reply matches the question against the consultation rules and renders the
// first matching template; unmatched questions get the general advice built
// from the user's issue category.
func Reply(question string, profile *domain.UserProfile) string {
	name := fallbackName
	product := domain.DefaultProduct
	issue := ""
	if profile != nil {
		if strings.TrimSpace(profile.Name) != "" {
			name = profile.Name
		}
		if profile.Product != "" {
			product = profile.Product
		}
		issue = profile.Issue
	}

	lowered := strings.ToLower(question)
	for _, rule := range consultationRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lowered, keyword) {
				return fmt.Sprintf(rule.template, name, product)
			}
		}
	}

	return fmt.Sprintf(defaultReplyTemplate, name, MealSuggestion(issue))
}

// Meal suggestions keyed off the issue category, checked in order.
var mealSuggestions = []struct {
	marker     string
	suggestion string
}{
	{marker: "Oshqozon", suggestion: "Yengil sho'rva, jo'xori, kam yog'li ovqatlar."},
	{marker: "Prostata", suggestion: "Suvni ko'proq iching, to'yimli oqsil (baliq, tovuq)."},
	{marker: "Detoks", suggestion: "Sabzavot, meva, kam yog'li ovqatlar."},
	{marker: "Suyak", suggestion: "Kalsiyga boy ovqatlar, yog'siz sut mahsulotlari, yashil bargli sabzavotlar."},
}

const defaultMealSuggestion = "Muvozanatli ovqatlaning: oqsil, tolalar va suv."

// MealSuggestion returns the daily meal advice for an issue category.
func MealSuggestion(issue string) string {
	for _, entry := range mealSuggestions {
		if issue != "" && strings.Contains(issue, entry.marker) {
			return entry.suggestion
		}
	}
	return defaultMealSuggestion
}
