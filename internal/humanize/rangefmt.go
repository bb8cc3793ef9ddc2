package humanize

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"serotonyl.ru/kogda-bot/internal/instant"
)

var (
	startsWithTwo = regexp.MustCompile(`\b2(?:[\s\x{00a0}]|$)`)
	singleYear    = regexp.MustCompile(`^(\d{4})\x{00a0}(\S+)$`)
)

// rangeSide хранит части одной границы диапазона.
type rangeSide struct {
	hour, minutes, seconds, day, month, year, century, millennium string
}

func (s rangeSide) String() string {
	return strings.Trim(s.hour+s.minutes+s.seconds+s.day+s.month+s.year+s.century+s.millennium, " "+sp)
}

// Range выводит диапазон между метками: «с 10 по 12 января», «с 12:00:00 по 15:30:00 10 января».
//
// mask задаёт выводимые единицы; 0 означает DefaultRangeMask, а для дат DateRangeMask.
// Совпадающие у обеих границ крупные единицы пропускаются слева, начиная
// с тысячелетий; текущий год справа убирается при suppressCurrentYear.
// glue заменяет «с … по …», если не пуст.
func (f *Formatter) Range(from, to *instant.Instant, mask Unit, suppressCurrentYear bool, glue string) string {
	if instant.Compare(from, to, false) > 0 {
		from, to = to, from
	}
	if mask == 0 {
		mask = DefaultRangeMask
		if from.IsDateOnly() && to.IsDateOnly() {
			mask = DateRangeMask
		}
	}

	a, b := f.rangeSide(from, mask, glue), f.rangeSide(to, mask, glue)

	// Без дня и при совпадении месяца и года месяц пишется один раз
	if !mask.Has(Days) && a.month == b.month && from.Year() == to.Year() {
		a.month = ""
	}
	if mask == Years && a.year == b.year {
		a.year, b.year = "", ""
	}

	if a.millennium == b.millennium {
		a.millennium = ""
		if a.century == b.century {
			a.century = ""
			if a.year == b.year {
				a.year = ""
				if suppressCurrentYear && b.year != "" && to.Year() == f.Now().In(to.Location()).Year() {
					b.year = ""
				}
				if a.month == b.month {
					a.month = ""
					if a.day == b.day {
						a.day = ""
						if a.hour == b.hour && a.minutes == b.minutes && a.seconds == b.seconds {
							a.hour, a.minutes, a.seconds = "", "", ""
						}
					}
				}
			}
		}
	}

	left, right := a.String(), b.String()

	var text string
	switch {
	case left == "":
		text = right
	case glue != "":
		text = left + glue + right
	default:
		prep := f.l.Words.From
		if startsWithTwo.MatchString(left) {
			prep = f.l.Words.FromBeforeTwo
		}
		text = prep + " " + left + " " + f.l.Words.To + " " + right
	}

	// Один год: «2024 года» → «2024 год»
	if m := singleYear.FindStringSubmatch(text); m != nil && m[2] == f.l.Words.YearOf {
		text = m[1] + sp + f.l.Words.Year
	}
	return text
}

func (f *Formatter) rangeSide(i *instant.Instant, mask Unit, glue string) rangeSide {
	l := f.l
	var s rangeSide

	if mask.Has(Seconds) {
		s.seconds = fmt.Sprintf(":%02d", i.Second())
	}
	s.minutes = fmt.Sprintf(":%02d", i.Minute())
	if !mask.Has(Minutes) {
		s.minutes = ":00"
	}
	s.hour = fmt.Sprintf("%02d", i.Hour())
	if !mask.Has(Hours) {
		s.hour, s.minutes = "", ""
	}

	if mask.Has(Days) {
		s.day = fmt.Sprintf(" %d", i.Day())
	}
	if mask.Has(Months) {
		if s.day != "" || glue == "" {
			s.month = sp + l.Month(i.Month(), true)
		} else {
			s.month = sp + capitalize(l.Month(i.Month(), false))
		}
	}
	if mask.Has(Years) {
		s.year = fmt.Sprintf(" %d%s%s", i.Year(), sp, l.Words.YearOf)
	}
	if mask.Has(Centuries) {
		s.century = fmt.Sprintf(" %d%s%s", i.Year()/100, sp, l.Words.CenturyOf)
	}
	if mask.Has(Millennia) {
		s.millennium = fmt.Sprintf(" %d%s%s", i.Year()/1000, sp, l.Words.MillenniumOf)
	}
	return s
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
