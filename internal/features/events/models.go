// Package events хранит события пользователей и напоминает о них.
// Время события хранится в TIMESTAMPTZ, отметка о напоминании: в формате
// обмена меток ("0000-00-00 00:00:00.000000": ещё не напоминали).
package events

import (
	"time"

	"serotonyl.ru/kogda-bot/internal/instant"
)

// Event: событие пользователя.
type Event struct {
	ID         int64        `db:"id"`
	UserID     int64        `db:"user_id"`
	ChatID     int64        `db:"chat_id"` // куда отправлять напоминание
	Title      string       `db:"title"`
	StartsAt   time.Time    `db:"starts_at"`
	DateOnly   bool         `db:"date_only"` // событие на весь день
	RemindedAt instant.Null `db:"reminded_at"`
	CreatedAt  time.Time    `db:"created_at"`
}

// Instant возвращает начало события как метку в поясе loc.
func (e *Event) Instant(loc *time.Location) *instant.Instant {
	i := instant.FromTime(e.StartsAt, instant.Options{Location: loc})
	if e.DateOnly {
		return i.AsDate()
	}
	return i
}

// Reminded: отправлено ли напоминание.
func (e *Event) Reminded() bool {
	return e.RemindedAt.Valid
}
