// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: русская плюрализация, форматирование чисел, часовые пояса, ошибки.
package common

import (
	"strconv"
	"time"
)

// DefaultTimezone: часовой пояс по умолчанию для всего бота.
const DefaultTimezone = "Europe/Moscow"

// FormatNumber форматирует число с разделителями разрядов.
// Пример: FormatNumber(2350) → "2 350"
func FormatNumber(n int64) string {
	return GroupDigits(strconv.FormatInt(n, 10))
}

// LoadLocation загружает часовой пояс по имени.
// Для Europe/Moscow при отсутствии tzdata используем UTC+3 вручную.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		if name == DefaultTimezone {
			return time.FixedZone("MSK", 3*60*60), nil
		}
		return nil, err
	}
	return loc, nil
}

// MoscowLocation возвращает часовой пояс Москвы (никогда не nil).
func MoscowLocation() *time.Location {
	loc, _ := LoadLocation(DefaultTimezone)
	return loc
}

// TruncateRunes обрезает строку до n символов, добавляя многоточие.
func TruncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
