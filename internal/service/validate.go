package service

import (
	"net/url"
	"strings"
)

// IsValidURL синтаксическая проверка: нужны схема и хост.
// Список допустимых схем не ограничивается.
func IsValidURL(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}

	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	return u.Scheme != "" && u.Host != ""
}
