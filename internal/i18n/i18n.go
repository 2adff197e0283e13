package i18n

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultDir = "internal/i18n"

// Translator resolves localized strings using dot-separated keys.
type Translator interface {
	T(key string) string
	Lang() string
}

// Manager stores all loaded language catalogs.
type Manager struct {
	translations map[string]map[string]string
	defaultLang  string
}

// Load loads translations from the default directory.
func Load(defaultLang string) (*Manager, error) {
	return LoadFromDir(defaultDir, defaultLang)
}

// LoadFromDir loads translations from a directory of YAML files. Each file
// maps a language code to a nested map of strings, which is flattened into
// dot-separated keys.
func LoadFromDir(dir, defaultLang string) (*Manager, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("i18n: read dir %s: %w", dir, err)
	}

	catalog := make(map[string]map[string]string)
	var processed bool

	for _, entry := range entries {
		if entry.IsDir() || !isYAML(entry) {
			continue
		}

		processed = true

		path := filepath.Join(dir, entry.Name())
		fileCatalog, err := parseFile(path)
		if err != nil {
			return nil, err
		}

		for lang, translations := range fileCatalog {
			if _, ok := catalog[lang]; !ok {
				catalog[lang] = make(map[string]string)
			}
			for key, value := range translations {
				catalog[lang][key] = value
			}
		}
	}

	if !processed {
		return nil, fmt.Errorf("i18n: no yaml files found in %s", dir)
	}

	if defaultLang == "" {
		defaultLang = "uz"
	}

	if _, ok := catalog[defaultLang]; !ok {
		return nil, fmt.Errorf("i18n: default language %q is missing", defaultLang)
	}

	return &Manager{translations: catalog, defaultLang: defaultLang}, nil
}

// Translator returns a translator for the requested language, falling back to
// the default language for unknown codes and missing keys.
func (m *Manager) Translator(lang string) Translator {
	if m == nil {
		return translator{}
	}

	norm := strings.ToLower(strings.TrimSpace(lang))
	if norm == "" || m.translations[norm] == nil {
		norm = m.defaultLang
	}

	return translator{
		lang:         norm,
		fallback:     m.defaultLang,
		translations: m.translations,
	}
}

type translator struct {
	lang         string
	fallback     string
	translations map[string]map[string]string
}

func (t translator) Lang() string {
	return t.lang
}

// T resolves key in the translator's language, then in the fallback language.
// Unknown keys are returned verbatim so a missing translation stays visible.
func (t translator) T(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}

	if value := t.lookup(t.lang, key); value != "" {
		return value
	}

	if value := t.lookup(t.fallback, key); value != "" {
		return value
	}

	return key
}

func (t translator) lookup(lang, key string) string {
	if lang == "" || t.translations == nil {
		return ""
	}

	if entries := t.translations[lang]; entries != nil {
		if value, ok := entries[key]; ok {
			return value
		}
	}

	return ""
}

func isYAML(entry fs.DirEntry) bool {
	name := strings.ToLower(entry.Name())
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

func parseFile(path string) (map[string]map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("i18n: read file %s: %w", path, err)
	}

	if strings.TrimSpace(string(data)) == "" {
		return map[string]map[string]string{}, nil
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("i18n: parse file %s: %w", path, err)
	}

	catalog := make(map[string]map[string]string)
	for lang, value := range raw {
		langKey := strings.ToLower(strings.TrimSpace(lang))
		if langKey == "" {
			continue
		}

		nested, ok := value.(map[string]any)
		if !ok {
			continue
		}

		flattened := make(map[string]string)
		flatten("", nested, flattened)
		if len(flattened) == 0 {
			continue
		}

		catalog[langKey] = flattened
	}

	return catalog, nil
}

func flatten(prefix string, in map[string]any, out map[string]string) {
	for key, value := range in {
		if key == "" {
			continue
		}

		nextKey := key
		if prefix != "" {
			nextKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			out[nextKey] = v
		case map[string]any:
			flatten(nextKey, v, out)
		}
	}
}
