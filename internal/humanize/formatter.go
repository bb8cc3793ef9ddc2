// Package humanize превращает разницу двух меток в русскую фразу
// («только что», «вчера», «через 2 недели») и выводит диапазоны дат
// («с 10 по 12 января»).
//
// Formatter не хранит изменяемого состояния и безопасен для
// одновременного использования из нескольких горутин.
package humanize

import (
	"time"

	"serotonyl.ru/kogda-bot/internal/common"
	"serotonyl.ru/kogda-bot/internal/instant"
	"serotonyl.ru/kogda-bot/internal/locale"
)

// Config: настройки форматтера.
type Config struct {
	// Locale: таблица языка (по умолчанию русская)
	Locale *locale.Locale
	// Clock: текущее время для сравнения «с сейчас»
	Clock instant.Clock
	// Location: пояс текущего времени (по умолчанию Europe/Moscow)
	Location *time.Location
	// TrackMicroseconds: учитывать микросекунды текущего времени
	TrackMicroseconds bool
	// OmitCurrentYear: не писать текущий год в дате
	OmitCurrentYear bool
}

// Formatter строит фразы о времени.
type Formatter struct {
	l   *locale.Locale
	cfg Config
}

// New создаёт форматтер.
func New(cfg Config) *Formatter {
	if cfg.Locale == nil {
		cfg.Locale = locale.Russian()
	}
	if cfg.Clock == nil {
		cfg.Clock = instant.SystemClock
	}
	if cfg.Location == nil {
		cfg.Location = common.MoscowLocation()
	}
	return &Formatter{l: cfg.Locale, cfg: cfg}
}

// Locale возвращает таблицу языка форматтера.
func (f *Formatter) Locale() *locale.Locale {
	return f.l
}

// Options возвращает настройки создания меток, согласованные с форматтером.
func (f *Formatter) Options() instant.Options {
	return instant.Options{
		Location:          f.cfg.Location,
		TrackMicroseconds: f.cfg.TrackMicroseconds,
		Clock:             f.cfg.Clock,
	}
}

// Now: текущее время по часам форматтера.
func (f *Formatter) Now() *instant.Instant {
	return instant.Now(f.Options())
}
