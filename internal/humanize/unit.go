package humanize

import (
	"fmt"
	"strconv"
	"strings"

	"serotonyl.ru/kogda-bot/internal/common"
)

// Unit: битовая маска единиц времени.
type Unit uint

const (
	Seconds Unit = 1 << iota
	Minutes
	Hours
	Days
	Months
	Years
	Centuries
	Millennia
	Microseconds
)

const (
	// DefaultRangeMask: секунды, минуты, часы, дни, месяцы, годы (63)
	DefaultRangeMask = Seconds | Minutes | Hours | Days | Months | Years
	// DateRangeMask: дни, месяцы, годы (56)
	DateRangeMask = Days | Months | Years
	// AllUnits: все единицы, кроме микросекунд (255)
	AllUnits = DefaultRangeMask | Centuries | Millennia
)

var unitNames = []struct {
	unit  Unit
	names []string
}{
	{Microseconds, []string{"microseconds", "micro", "мкс", "микросекунды"}},
	{Seconds, []string{"seconds", "sec", "s", "сек", "секунды"}},
	{Minutes, []string{"minutes", "min", "m", "мин", "минуты"}},
	{Hours, []string{"hours", "h", "ч", "часы"}},
	{Days, []string{"days", "d", "дн", "дни"}},
	{Months, []string{"months", "мес", "месяцы"}},
	{Years, []string{"years", "y", "г", "годы"}},
	{Centuries, []string{"centuries", "века"}},
	{Millennia, []string{"millennia", "тысячелетия"}},
}

// Has: установлен ли хотя бы один бит f.
func (u Unit) Has(f Unit) bool {
	return u&f != 0
}

// ParseUnits разбирает маску: число ("63") или список имён ("days,months,years").
func ParseUnits(s string) (Unit, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.ParseUint(s, 10, 16); err == nil {
		if Unit(n) > AllUnits|Microseconds {
			return 0, fmt.Errorf("%w: маска единиц %d", common.ErrRange, n)
		}
		return Unit(n), nil
	}

	var mask Unit
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '|' || r == ' ' || r == '+' }) {
		part = strings.ToLower(part)
		found := false
		for _, un := range unitNames {
			for _, name := range un.names {
				if part == name {
					mask |= un.unit
					found = true
				}
			}
		}
		if !found {
			return 0, fmt.Errorf("%w: неизвестная единица %q", common.ErrInvalidArgument, part)
		}
	}
	return mask, nil
}

// Bucket: разряд разницы, по которому строится фраза.
type Bucket int

const (
	BucketSeconds Bucket = iota
	BucketMinutes
	BucketHours
	BucketDays
	BucketMonths
	BucketYears
	BucketCenturies
	BucketMillennia
)

func (b Bucket) String() string {
	switch b {
	case BucketSeconds:
		return "seconds"
	case BucketMinutes:
		return "minutes"
	case BucketHours:
		return "hours"
	case BucketDays:
		return "days"
	case BucketMonths:
		return "months"
	case BucketYears:
		return "years"
	case BucketCenturies:
		return "centuries"
	case BucketMillennia:
		return "millennia"
	}
	return "unknown"
}
