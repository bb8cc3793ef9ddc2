// Package instant содержит временную метку с календарными полями,
// микросекундами и часовым поясом.
//
// Метки, созданные разбором строки или из текущего времени, неизменяемые:
// SetTime, SetDate, Modify и прочие мутаторы вернут ErrImmutableState.
// Для изменения сначала Clone() или методы With*, которые клонируют сами.
package instant

import (
	"fmt"
	"time"

	"serotonyl.ru/kogda-bot/internal/common"
)

const (
	// Layout: канонический формат обмена (с 6 знаками микросекунд)
	Layout = "2006-01-02 15:04:05.000000"
	// LayoutSeconds: канонический формат без микросекунд
	LayoutSeconds = "2006-01-02 15:04:05"
	// Zero: нулевая метка, которую хранилища используют вместо NULL
	Zero = "0000-00-00 00:00:00.000000"

	microPerSecond = 1_000_000
)

// Options: настройки создания меток.
type Options struct {
	// Location: часовой пояс (по умолчанию Europe/Moscow)
	Location *time.Location
	// TrackMicroseconds: брать микросекунды у текущего времени
	TrackMicroseconds bool
	// Clock: источник текущего времени (по умолчанию системные часы)
	Clock Clock
}

func (o Options) location() *time.Location {
	if o.Location != nil {
		return o.Location
	}
	return common.MoscowLocation()
}

func (o Options) clock() Clock {
	if o.Clock != nil {
		return o.Clock
	}
	return SystemClock
}

// Instant: временная метка.
// t всегда без долей секунды; доли хранятся в micro.
type Instant struct {
	t          time.Time
	micro      int
	changeable bool
	dateOnly   bool
}

// Now возвращает текущее время (неизменяемое).
func Now(opts Options) *Instant {
	now := opts.clock().Now().In(opts.location())
	micro := 0
	if opts.TrackMicroseconds {
		micro = now.Nanosecond() / 1000
	}
	return &Instant{t: now.Truncate(time.Second), micro: micro}
}

// FromTime создаёт метку из time.Time, сохраняя микросекунды.
// Пояс берётся из opts.Location, если задан, иначе из t.
func FromTime(t time.Time, opts Options) *Instant {
	if opts.Location != nil {
		t = t.In(opts.Location)
	}
	return &Instant{t: t.Truncate(time.Second), micro: t.Nanosecond() / 1000}
}

// Date собирает метку из календарных полей.
// Переполнения нормализуются так же, как в time.Date.
func Date(year int, month time.Month, day, hour, min, sec, micro int, loc *time.Location) (*Instant, error) {
	if micro < 0 || micro >= microPerSecond {
		return nil, fmt.Errorf("%w: микросекунды %d", common.ErrRange, micro)
	}
	if loc == nil {
		loc = common.MoscowLocation()
	}
	return &Instant{t: time.Date(year, month, day, hour, min, sec, 0, loc), micro: micro}, nil
}

// Clone возвращает изменяемую копию.
func (i *Instant) Clone() *Instant {
	c := *i
	c.changeable = true
	return &c
}

// CloneKeep возвращает копию с тем же признаком изменяемости.
func (i *Instant) CloneKeep() *Instant {
	c := *i
	return &c
}

// SetChangeable разрешает или запрещает изменения.
func (i *Instant) SetChangeable(changeable bool) *Instant {
	i.changeable = changeable
	return i
}

func (i *Instant) IsChangeable() bool { return i.changeable }
func (i *Instant) IsDateOnly() bool   { return i.dateOnly }

// AsDate возвращает неизменяемую копию-дату (время обнулено).
func (i *Instant) AsDate() *Instant {
	y, m, d := i.t.Date()
	return &Instant{t: time.Date(y, m, d, 0, 0, 0, 0, i.t.Location()), dateOnly: true}
}

// AsDateTime возвращает неизменяемую копию без признака «только дата».
func (i *Instant) AsDateTime() *Instant {
	c := *i
	c.dateOnly = false
	c.changeable = false
	return &c
}

// In возвращает копию того же момента в другом поясе.
func (i *Instant) In(loc *time.Location) *Instant {
	c := *i
	c.t = i.t.In(loc)
	return &c
}

// Time возвращает time.Time с микросекундами.
func (i *Instant) Time() time.Time {
	return i.t.Add(time.Duration(i.micro) * time.Microsecond)
}

func (i *Instant) Year() int                { return i.t.Year() }
func (i *Instant) Month() time.Month        { return i.t.Month() }
func (i *Instant) Day() int                 { return i.t.Day() }
func (i *Instant) Hour() int                { return i.t.Hour() }
func (i *Instant) Minute() int              { return i.t.Minute() }
func (i *Instant) Second() int              { return i.t.Second() }
func (i *Instant) Microsecond() int         { return i.micro }
func (i *Instant) Weekday() time.Weekday    { return i.t.Weekday() }
func (i *Instant) Location() *time.Location { return i.t.Location() }

// Unix возвращает целые секунды эпохи.
func (i *Instant) Unix() int64 { return i.t.Unix() }

// ISOWeekday: номер дня недели от 1 (понедельник) до 7 (воскресенье).
func (i *Instant) ISOWeekday() int {
	return (int(i.t.Weekday())+6)%7 + 1
}

func (i *Instant) checkChangeable() error {
	if !i.changeable {
		return fmt.Errorf("%w: «%s»", common.ErrImmutableState, i.Format())
	}
	return nil
}

// set заменяет время, сохраняя инвариант «t без долей секунды».
func (i *Instant) set(t time.Time, micro int) {
	i.t = t.Truncate(time.Second)
	i.micro = micro
	if i.dateOnly {
		y, m, d := i.t.Date()
		i.t = time.Date(y, m, d, 0, 0, 0, 0, i.t.Location())
		i.micro = 0
	}
}
