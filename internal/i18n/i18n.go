package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
)

//go:embed locales/*.json
var embeddedLocales embed.FS

// EmbeddedLocales returns the locale files shipped with the binary.
func EmbeddedLocales() fs.FS {
	locales, err := fs.Sub(embeddedLocales, "locales")
	if err != nil {
		panic(err)
	}
	return locales
}

const (
	LangRU = "ru"
	LangEN = "en"
)

var requiredLanguages = []string{LangRU, LangEN}

// Manager translates message keys. Keys missing in a language fall back to
// the default language and then to the key itself.
type Manager struct {
	defaultLanguage string
	catalogs        map[string]map[string]string
}

// NewManager loads every <language>.json file at the root of locales.
func NewManager(defaultLanguage string, locales fs.FS) (*Manager, error) {
	names, err := fs.Glob(locales, "*.json")
	if err != nil {
		return nil, fmt.Errorf("list locales: %w", err)
	}

	catalogs := make(map[string]map[string]string, len(names))
	for _, name := range names {
		language := languageTag(strings.TrimSuffix(name, path.Ext(name)))
		raw, err := fs.ReadFile(locales, name)
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", name, err)
		}
		var messages map[string]string
		if err := json.Unmarshal(raw, &messages); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", name, err)
		}
		if len(messages) == 0 {
			return nil, fmt.Errorf("locale %s is empty", name)
		}
		catalogs[language] = messages
	}

	for _, language := range requiredLanguages {
		if _, ok := catalogs[language]; !ok {
			return nil, fmt.Errorf("required locale %q missing", language)
		}
	}

	manager := &Manager{defaultLanguage: LangRU, catalogs: catalogs}
	if language := languageTag(defaultLanguage); manager.supports(language) {
		manager.defaultLanguage = language
	}
	return manager, nil
}

func (manager *Manager) DefaultLanguage() string {
	return manager.defaultLanguage
}

// NormalizeLanguage reduces raw to a supported base language such as "en".
func (manager *Manager) NormalizeLanguage(raw string) string {
	if language := languageTag(raw); manager.supports(language) {
		return language
	}
	return manager.defaultLanguage
}

// DetectFromAcceptLanguage returns the supported language with the highest
// q-value in an Accept-Language header. Ties keep header order.
func (manager *Manager) DetectFromAcceptLanguage(header string) string {
	type candidate struct {
		language string
		weight   float64
	}

	var candidates []candidate
	for _, part := range strings.Split(header, ",") {
		tag, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		language := languageTag(tag)
		if !manager.supports(language) {
			continue
		}
		weight := 1.0
		if value, ok := strings.CutPrefix(strings.TrimSpace(params), "q="); ok {
			parsed, err := strconv.ParseFloat(value, 64)
			if err != nil {
				continue
			}
			weight = parsed
		}
		if weight > 0 {
			candidates = append(candidates, candidate{language: language, weight: weight})
		}
	}
	if len(candidates) == 0 {
		return manager.defaultLanguage
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].weight > candidates[j].weight
	})
	return candidates[0].language
}

func (manager *Manager) Translate(language string, key string) string {
	if value := strings.TrimSpace(manager.catalogs[manager.NormalizeLanguage(language)][key]); value != "" {
		return value
	}
	if value := strings.TrimSpace(manager.catalogs[manager.defaultLanguage][key]); value != "" {
		return value
	}
	return key
}

func (manager *Manager) supports(language string) bool {
	_, ok := manager.catalogs[language]
	return ok
}

// languageTag keeps the primary subtag: "en_US" and "EN-us" become "en".
func languageTag(raw string) string {
	language := strings.ToLower(strings.TrimSpace(raw))
	if separator := strings.IndexAny(language, "-_"); separator >= 0 {
		language = language[:separator]
	}
	return language
}
