package instant

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"serotonyl.ru/kogda-bot/internal/common"
)

type unit int

const (
	unitMicro unit = iota
	unitSecond
	unitMinute
	unitHour
	unitDay
	unitWeek
	unitFortnight
	unitMonth
	unitYear
)

var units = map[string]unit{
	"µs": unitMicro, "usec": unitMicro, "usecs": unitMicro,
	"micro": unitMicro, "micros": unitMicro, "microsecond": unitMicro, "microseconds": unitMicro,
	"sec": unitSecond, "secs": unitSecond, "second": unitSecond, "seconds": unitSecond,
	"min": unitMinute, "mins": unitMinute, "minute": unitMinute, "minutes": unitMinute,
	"hour": unitHour, "hours": unitHour,
	"day": unitDay, "days": unitDay,
	"week": unitWeek, "weeks": unitWeek,
	"fortnight": unitFortnight, "fortnights": unitFortnight,
	"month": unitMonth, "months": unitMonth,
	"year": unitYear, "years": unitYear,
}

var weekdays = map[string]time.Weekday{
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
	"sunday": time.Sunday, "sun": time.Sunday,
}

// число со слитной или отдельной единицей: "+2", "-15min", "3days"
var amountRe = regexp.MustCompile(`^([+-]?\d+)([a-zµ]*)$`)

// Modify применяет относительное выражение к метке.
//
// Грамматика (токены через пробел, регистр не важен):
//
//	[+|-]N unit             unit = µs/usec/micro[second[s]], sec[ond[s]], min[ute[s]],
//	                         hour[s], day[s], week[s], fortnight[s], month[s], year[s]
//	next|last|previous|this unit
//	[next|last|previous|this] monday … sunday    (время обнуляется)
//	first|last day of [next|last|previous|this] month|year
//	now, today, midnight, noon, tomorrow, yesterday
//
// Сдвиг в микросекундах переносится через границу секунды.
func (i *Instant) Modify(expr string) error {
	if err := i.checkChangeable(); err != nil {
		return err
	}

	tokens := strings.Fields(strings.ToLower(expr))
	t, micro := i.t, i.micro

	for p := 0; p < len(tokens); p++ {
		tok := tokens[p]

		switch tok {
		case "now":
			continue
		case "today", "midnight":
			t, micro = dayStart(t), 0
			continue
		case "noon":
			t, micro = dayStart(t).Add(12*time.Hour), 0
			continue
		case "tomorrow":
			t, micro = dayStart(t.AddDate(0, 0, 1)), 0
			continue
		case "yesterday":
			t, micro = dayStart(t.AddDate(0, 0, -1)), 0
			continue
		}

		// first|last day of …
		if (tok == "first" || tok == "last") && p+2 < len(tokens) && tokens[p+1] == "day" && tokens[p+2] == "of" {
			rest := tokens[p+3:]
			shift, used := 0, 3
			if len(rest) > 0 {
				if s, ok := relativeWord(rest[0]); ok {
					shift = s
					rest = rest[1:]
					used++
				}
			}
			if len(rest) == 0 {
				return fmt.Errorf("%w: ожидалось month или year в %q", common.ErrFormat, expr)
			}

			y, m, _ := t.Date()
			hh, mm, ss := t.Clock()
			switch units[rest[0]] {
			case unitMonth:
				m += time.Month(shift)
				day := 1
				if tok == "last" {
					day = daysIn(y, m)
				}
				t = time.Date(y, m, day, hh, mm, ss, 0, t.Location())
			case unitYear:
				y += shift
				if tok == "first" {
					t = time.Date(y, time.January, 1, hh, mm, ss, 0, t.Location())
				} else {
					t = time.Date(y, time.December, 31, hh, mm, ss, 0, t.Location())
				}
			default:
				return fmt.Errorf("%w: ожидалось month или year в %q", common.ErrFormat, expr)
			}
			// последний токен (month|year) пропустит p++ цикла
			p += used
			continue
		}

		// next|last|previous|this + единица или день недели
		if shift, ok := relativeWord(tok); ok {
			if p+1 >= len(tokens) {
				return fmt.Errorf("%w: нет единицы после %q", common.ErrFormat, tok)
			}
			p++
			next := tokens[p]
			if wd, ok := weekdays[next]; ok {
				t, micro = toWeekday(t, wd, tok), 0
				continue
			}
			u, ok := units[next]
			if !ok {
				return fmt.Errorf("%w: неизвестная единица %q", common.ErrFormat, next)
			}
			t, micro = shiftBy(t, micro, int64(shift), u)
			continue
		}

		if wd, ok := weekdays[tok]; ok {
			t, micro = toWeekday(t, wd, "this"), 0
			continue
		}

		// [+|-]N unit
		m := amountRe.FindStringSubmatch(tok)
		if m == nil {
			return fmt.Errorf("%w: непонятное выражение %q", common.ErrFormat, tok)
		}
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return fmt.Errorf("%w: число %q", common.ErrFormat, m[1])
		}
		name := m[2]
		if name == "" {
			if p+1 >= len(tokens) {
				return fmt.Errorf("%w: нет единицы после %q", common.ErrFormat, tok)
			}
			p++
			name = tokens[p]
		}
		u, ok := units[name]
		if !ok {
			return fmt.Errorf("%w: неизвестная единица %q", common.ErrFormat, name)
		}
		t, micro = shiftBy(t, micro, n, u)
	}

	i.set(t, micro)
	return nil
}

// WithModify: Modify на копии. Исходная метка не меняется.
func (i *Instant) WithModify(expr string) (*Instant, error) {
	c := i.Clone()
	if err := c.Modify(expr); err != nil {
		return nil, err
	}
	return c, nil
}

func relativeWord(tok string) (int, bool) {
	switch tok {
	case "next":
		return 1, true
	case "last", "previous":
		return -1, true
	case "this":
		return 0, true
	}
	return 0, false
}

func shiftBy(t time.Time, micro int, n int64, u unit) (time.Time, int) {
	switch u {
	case unitMicro:
		total := int64(micro) + n
		secs := floorDiv(total, microPerSecond)
		return t.Add(time.Duration(secs) * time.Second), int(total - secs*microPerSecond)
	case unitSecond:
		return t.Add(time.Duration(n) * time.Second), micro
	case unitMinute:
		return t.Add(time.Duration(n) * time.Minute), micro
	case unitHour:
		return t.Add(time.Duration(n) * time.Hour), micro
	case unitDay:
		return t.AddDate(0, 0, int(n)), micro
	case unitWeek:
		return t.AddDate(0, 0, int(n)*7), micro
	case unitFortnight:
		return t.AddDate(0, 0, int(n)*14), micro
	case unitMonth:
		return t.AddDate(0, int(n), 0), micro
	case unitYear:
		return t.AddDate(int(n), 0, 0), micro
	}
	return t, micro
}

// toWeekday переводит на день недели:
// this: ближайший начиная с сегодняшнего, next: строго после, last: строго до.
func toWeekday(t time.Time, wd time.Weekday, rel string) time.Time {
	diff := (int(wd) - int(t.Weekday()) + 7) % 7
	switch rel {
	case "next":
		if diff == 0 {
			diff = 7
		}
	case "last", "previous":
		diff -= 7
	}
	return dayStart(t.AddDate(0, 0, diff))
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// SetTime устанавливает время суток. Переполнения нормализуются.
func (i *Instant) SetTime(hour, min, sec, micro int) error {
	if err := i.checkChangeable(); err != nil {
		return err
	}
	if micro < 0 || micro >= microPerSecond {
		return fmt.Errorf("%w: микросекунды %d", common.ErrRange, micro)
	}
	y, m, d := i.t.Date()
	i.set(time.Date(y, m, d, hour, min, sec, 0, i.t.Location()), micro)
	return nil
}

// WithTime: SetTime на копии.
func (i *Instant) WithTime(hour, min, sec, micro int) (*Instant, error) {
	c := i.Clone()
	if err := c.SetTime(hour, min, sec, micro); err != nil {
		return nil, err
	}
	return c, nil
}

// SetDate устанавливает дату, сохраняя время. Переполнения нормализуются.
func (i *Instant) SetDate(year int, month time.Month, day int) error {
	if err := i.checkChangeable(); err != nil {
		return err
	}
	hh, mm, ss := i.t.Clock()
	i.set(time.Date(year, month, day, hh, mm, ss, 0, i.t.Location()), i.micro)
	return nil
}

// WithDate: SetDate на копии.
func (i *Instant) WithDate(year int, month time.Month, day int) (*Instant, error) {
	c := i.Clone()
	if err := c.SetDate(year, month, day); err != nil {
		return nil, err
	}
	return c, nil
}

// SetMicrosecond устанавливает микросекунды.
func (i *Instant) SetMicrosecond(micro int) error {
	if err := i.checkChangeable(); err != nil {
		return err
	}
	if micro < 0 || micro >= microPerSecond {
		return fmt.Errorf("%w: микросекунды %d", common.ErrRange, micro)
	}
	i.set(i.t, micro)
	return nil
}

// SetWeekNumber сдвигает метку на нужную ISO-неделю того же года.
func (i *Instant) SetWeekNumber(week int) error {
	if err := i.checkChangeable(); err != nil {
		return err
	}
	if week < 0 || week > 53 {
		return fmt.Errorf("%w: в году не более 53 недель, передано %d", common.ErrRange, week)
	}
	_, current := i.t.ISOWeek()
	if diff := week - current; diff != 0 {
		i.set(i.t.AddDate(0, 0, diff*7), i.micro)
	}
	return nil
}

// SetDayOfWeek сдвигает метку на день недели текущей недели (1: понедельник, 7: воскресенье).
func (i *Instant) SetDayOfWeek(day int) error {
	if err := i.checkChangeable(); err != nil {
		return err
	}
	if day < 1 || day > 7 {
		return fmt.Errorf("%w: день недели %d", common.ErrRange, day)
	}
	if diff := day - i.ISOWeekday(); diff != 0 {
		i.set(i.t.AddDate(0, 0, diff), i.micro)
	}
	return nil
}

func (i *Instant) ToDayStart() error {
	return i.SetTime(0, 0, 0, 0)
}

func (i *Instant) ToDayEnd() error {
	return i.SetTime(23, 59, 59, 0)
}

// ToWeekStart: понедельник 00:00:00.
func (i *Instant) ToWeekStart() error {
	if err := i.SetDayOfWeek(1); err != nil {
		return err
	}
	return i.ToDayStart()
}

// ToWeekEnd: воскресенье 23:59:59.
func (i *Instant) ToWeekEnd() error {
	if err := i.SetDayOfWeek(7); err != nil {
		return err
	}
	return i.ToDayEnd()
}

func (i *Instant) ToMonthStart() error {
	if err := i.SetDate(i.Year(), i.Month(), 1); err != nil {
		return err
	}
	return i.ToDayStart()
}

func (i *Instant) ToMonthEnd() error {
	if err := i.SetDate(i.Year(), i.Month(), daysIn(i.Year(), i.Month())); err != nil {
		return err
	}
	return i.ToDayEnd()
}

func (i *Instant) ToYearStart() error {
	if err := i.SetDate(i.Year(), time.January, 1); err != nil {
		return err
	}
	return i.ToDayStart()
}

func (i *Instant) ToYearEnd() error {
	if err := i.SetDate(i.Year(), time.December, 31); err != nil {
		return err
	}
	return i.ToDayEnd()
}
