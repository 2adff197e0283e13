package handlers

import (
	"github.com/painnoll/painnoll-bot/internal/i18n"
)

// Catalog values are stored without the emoji that decorates the button label,
// so profile rows stay readable in the admin listing and in SQL.
var (
	productValues = map[string]string{
		"product.painnoll": "Painnoll",
		"product.biodetox": "BioDetox",
		"product.vitapro":  "VitaPro",
		"product.nutramax": "NutraMax",
	}

	issueValues = map[string]string{
		"issue.joints":    "Suyak va bo'g'imlar",
		"issue.digestion": "Oshqozon / hazm",
		"issue.prostate":  "Prostata",
		"issue.detox":     "Detoks / vazn",
	}
)

// productByButton maps localized product button labels to stored values.
func productByButton(t i18n.Translator) map[string]string {
	return byButton(t, productValues)
}

// issueByButton maps localized issue button labels to stored values.
func issueByButton(t i18n.Translator) map[string]string {
	return byButton(t, issueValues)
}

func byButton(t i18n.Translator, values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for key, value := range values {
		label := key
		if t != nil {
			label = t.T(key)
		}
		out[label] = value
	}
	return out
}
