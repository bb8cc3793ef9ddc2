package instant

import (
	"fmt"

	"serotonyl.ru/kogda-bot/internal/locale"
)

var russian = locale.Russian()

// Format возвращает канонический формат обмена: "2006-01-02 15:04:05.000000".
func (i *Instant) Format() string {
	return i.t.Format(LayoutSeconds) + fmt.Sprintf(".%06d", i.micro)
}

// FormatSeconds: канонический формат без микросекунд.
func (i *Instant) FormatSeconds() string {
	return i.t.Format(LayoutSeconds)
}

// FormatDigits: "02.01.2006 15:04".
func (i *Instant) FormatDigits() string {
	return i.t.Format("02.01.2006 15:04")
}

// Layout форматирует по произвольному шаблону time.Format (с микросекундами).
func (i *Instant) Layout(layout string) string {
	return i.Time().Format(layout)
}

// String: "02 января 2006 г. в 15:04".
func (i *Instant) String() string {
	return i.Localized(russian)
}

// Localized: то же, что String, с названием месяца из таблицы l.
func (i *Instant) Localized(l *locale.Locale) string {
	return fmt.Sprintf("%02d %s %d г. в %s",
		i.Day(), l.Month(i.Month(), true), i.Year(), i.t.Format("15:04"))
}
