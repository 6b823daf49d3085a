// Package i18n отвечает за перевод текстов ошибок API.
// Таблицы переводов встраиваются в бинарь и разбираются один раз при старте;
// после инициализации Bundle неизменяем и безопасен для конкурентного чтения.
package i18n

import (
	"embed"
	"encoding/json"
	"io/fs"
	"path"
	"strings"

	"github.com/eshop-tech/store-backend/pkg/e"
)

//go:embed locales/*.json
var localeFS embed.FS

// Bundle — набор таблиц переводов, ключ — код локали (en, ru).
type Bundle struct {
	defaultLocale string
	tables        map[string]map[string]string
}

// NewBundle загружает все встроенные локали.
// Возвращает ошибку, если локаль по умолчанию отсутствует среди загруженных.
func NewBundle(defaultLocale string) (*Bundle, error) {
	const op = "i18n.NewBundle"

	entries, err := fs.Glob(localeFS, "locales/*.json")
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	tables := make(map[string]map[string]string, len(entries))
	for _, name := range entries {
		data, err := localeFS.ReadFile(name)
		if err != nil {
			return nil, e.Wrap(op, err)
		}

		var nested map[string]any
		if err := json.Unmarshal(data, &nested); err != nil {
			return nil, e.Wrap(op, err)
		}

		locale := strings.TrimSuffix(path.Base(name), ".json")
		flat := make(map[string]string)
		flatten("", nested, flat)
		tables[locale] = flat
	}

	if _, ok := tables[defaultLocale]; !ok {
		return nil, e.Wrap(op, e.ErrNotFound)
	}

	return &Bundle{
		defaultLocale: defaultLocale,
		tables:        tables,
	}, nil
}

// Translate возвращает перевод ключа для указанной локали.
// Неизвестная локаль откатывается к локали по умолчанию,
// отсутствующий ключ возвращается как есть.
func (b *Bundle) Translate(key, locale string) string {
	table, ok := b.tables[locale]
	if !ok {
		table = b.tables[b.defaultLocale]
	}

	if msg, ok := table[key]; ok {
		return msg
	}

	return key
}

// DefaultLocale возвращает локаль, используемую при откате.
func (b *Bundle) DefaultLocale() string {
	return b.defaultLocale
}

// Supported сообщает, загружена ли таблица переводов для локали.
func (b *Bundle) Supported(locale string) bool {
	_, ok := b.tables[locale]
	return ok
}

// flatten разворачивает вложенные объекты в ключи вида "errors.cart_empty".
func flatten(prefix string, nested map[string]any, out map[string]string) {
	for k, v := range nested {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch val := v.(type) {
		case string:
			out[key] = val
		case map[string]any:
			flatten(key, val, out)
		}
	}
}
