package instant

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"serotonyl.ru/kogda-bot/internal/common"
)

var (
	isoRe    = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})(?:[ T](\d{2}):(\d{2})(?::(\d{2})(?:\.(\d{1,9}))?)?)?$`)
	isoHead  = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}(?:[ T]\d{2}:\d{2}(?::\d{2}(?:\.\d{1,9})?)?)?)\s+(.+)$`)
	dottedRe = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{4})(?:\s+(\d{1,2}):(\d{2})(?::(\d{2}))?)?$`)
	unixRe   = regexp.MustCompile(`^@(-?\d+)(?:\.(\d{1,6}))?$`)
	zeroRe   = regexp.MustCompile(`^0000-00-00(?: 00:00:00(?:\.0*)?)?$`)
)

// Parse разбирает строку в неизменяемую метку.
//
// Поддерживаются:
//   - "2006-01-02 15:04:05.000000" и короче (до "2006-01-02"), разделитель " " или "T"
//   - RFC 3339 со смещением
//   - "02.01.2006 15:04[:05]"
//   - "@1700000000[.123456]"
//   - "", "now", "today", "tomorrow", "+2 hours", "next monday" и прочее из Modify
//   - "2006-01-02 +1 day": абсолютная дата и относительные правки
func Parse(source string, opts Options) (*Instant, error) {
	s := strings.TrimSpace(source)
	loc := opts.location()

	if i, ok, err := parseAbsolute(s, loc); ok {
		if err != nil {
			return nil, err
		}
		return i, nil
	}

	if m := unixRe.FindStringSubmatch(s); m != nil {
		sec, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", common.ErrFormat, source)
		}
		return &Instant{t: time.Unix(sec, 0).In(loc), micro: fraction(m[2])}, nil
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return FromTime(t, Options{Location: loc}), nil
	}

	// Абсолютная дата + относительные правки
	if m := isoHead.FindStringSubmatch(s); m != nil {
		base, ok, err := parseAbsolute(m[1], loc)
		if ok && err == nil {
			i := base.Clone()
			if err := i.Modify(m[2]); err != nil {
				return nil, fmt.Errorf("%w: %q", common.ErrFormat, source)
			}
			return i.SetChangeable(false), nil
		}
	}

	// Всё остальное: относительное выражение от текущего момента
	now := Now(opts).Clone()
	if err := now.Modify(s); err != nil {
		return nil, fmt.Errorf("%w: %q", common.ErrFormat, source)
	}
	return now.SetChangeable(false), nil
}

// MustParse: Parse, который паникует при ошибке. Для тестов и констант.
func MustParse(source string, opts Options) *Instant {
	i, err := Parse(source, opts)
	if err != nil {
		panic(err)
	}
	return i
}

// IsZero сообщает, что строка: нулевая метка хранилища ("0000-00-00 …").
func IsZero(source string) bool {
	return zeroRe.MatchString(strings.TrimSpace(source))
}

// ParseNullable: как Parse, но нулевая метка даёт (nil, nil).
func ParseNullable(source string, opts Options) (*Instant, error) {
	if IsZero(source) {
		return nil, nil
	}
	return Parse(source, opts)
}

// From приводит значение к метке: *Instant, Instant, time.Time или строка.
// Пояс метки наследуется, если opts.Location не задан.
func From(v any, opts Options) (*Instant, error) {
	switch x := v.(type) {
	case *Instant:
		if x == nil {
			return nil, fmt.Errorf("%w: nil вместо временной метки", common.ErrType)
		}
		return inherit(x, opts), nil
	case Instant:
		return inherit(&x, opts), nil
	case time.Time:
		return FromTime(x, opts), nil
	case string:
		return Parse(x, opts)
	}
	return nil, fmt.Errorf("%w: %T нельзя привести к временной метке", common.ErrType, v)
}

func inherit(i *Instant, opts Options) *Instant {
	if opts.Location != nil {
		return i.In(opts.Location)
	}
	return i.CloneKeep()
}

// parseAbsolute разбирает абсолютные форматы. ok == false: формат не подошёл.
func parseAbsolute(s string, loc *time.Location) (*Instant, bool, error) {
	var (
		y, mon, d, h, min, sec int
		frac                   string
	)

	if m := isoRe.FindStringSubmatch(s); m != nil {
		y, mon, d = atoi(m[1]), atoi(m[2]), atoi(m[3])
		h, min, sec = atoi(m[4]), atoi(m[5]), atoi(m[6])
		frac = m[7]
	} else if m := dottedRe.FindStringSubmatch(s); m != nil {
		d, mon, y = atoi(m[1]), atoi(m[2]), atoi(m[3])
		h, min, sec = atoi(m[4]), atoi(m[5]), atoi(m[6])
	} else {
		return nil, false, nil
	}

	if mon < 1 || mon > 12 || d < 1 || d > daysIn(y, time.Month(mon)) ||
		h > 23 || min > 59 || sec > 59 {
		return nil, true, fmt.Errorf("%w: %q", common.ErrFormat, s)
	}

	t := time.Date(y, time.Month(mon), d, h, min, sec, 0, loc)
	return &Instant{t: t, micro: fraction(frac)}, true, nil
}

// fraction переводит дробную часть секунды в микросекунды (лишние знаки отбрасываются).
func fraction(digits string) int {
	if digits == "" {
		return 0
	}
	if len(digits) > 6 {
		digits = digits[:6]
	}
	digits += strings.Repeat("0", 6-len(digits))
	return atoi(digits)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
