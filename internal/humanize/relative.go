package humanize

import (
	"fmt"
	"regexp"
	"strings"

	"serotonyl.ru/kogda-bot/internal/common"
	"serotonyl.ru/kogda-bot/internal/instant"
)

const sp = common.NBSP

// Дробные символы для «5¼ часов», «3½ дня»
const (
	quarter       = "¼"
	half          = "½"
	threeQuarters = "¾"
)

var leadingNumber = regexp.MustCompile(`^(\d+)`)

// Totals хранит полные величины разницы прописью, например «через 159 069 615 секунд».
type Totals struct {
	Seconds   string
	Minutes   string
	Hours     string
	Days      string
	Months    string
	Years     string
	Centuries string
	Millennia string
}

// Result: всё, что известно о разнице двух меток.
type Result struct {
	// Фраза по разряду («через 12 дней», «5 минут и 20 секунд назад»)
	Text string
	// Фраза с оборотами и датой («вчера, 9 января в 15:00 (вторник)»)
	Smart string
	// Дата метки («в 15:04:05» или «9 января 2024 года в 15:04 (вторник)»)
	DateString string
	Interval   instant.Interval
	Bucket     Bucket
	Totals     Totals

	counters counters
}

// TextWithDate: Text и дата через запятую.
func (r Result) TextWithDate() string {
	return r.Text + ", " + r.DateString
}

// AllCounters перечисляет все ненулевые разряды от тысячелетий до min
// включительно («2 месяца 15 дней 11 часов»). min == 0: до секунд.
func (r Result) AllCounters(min Unit) string {
	if min == 0 {
		min = Seconds
	}
	var parts []string
	for _, c := range r.counters.descending() {
		if c.text != "" {
			parts = append(parts, c.text)
		}
		if c.unit == min {
			break
		}
	}
	return strings.Join(parts, " ")
}

// CountersByMask: ненулевые разряды, указанные в маске, от крупных к мелким.
func (r Result) CountersByMask(mask Unit) string {
	var parts []string
	for _, c := range r.counters.descending() {
		if mask.Has(c.unit) && c.text != "" {
			parts = append(parts, c.text)
		}
	}
	return strings.Join(parts, " ")
}

// counters: каждый разряд интервала прописью ("" для нулевых).
type counters struct {
	micro, seconds, minutes, hours, days, months, years, centuries, millennia string
}

type counter struct {
	unit Unit
	text string
}

func (c counters) descending() []counter {
	return []counter{
		{Millennia, c.millennia},
		{Centuries, c.centuries},
		{Years, c.years},
		{Months, c.months},
		{Days, c.days},
		{Hours, c.hours},
		{Minutes, c.minutes},
		{Seconds, c.seconds},
		{Microseconds, c.micro},
	}
}

func (f *Formatter) counters(iv instant.Interval) counters {
	u := f.l.Units
	field := func(p common.Paradigm, n int) string {
		if n == 0 {
			return ""
		}
		return p.Format(int64(n), true)
	}
	return counters{
		micro:     field(u.Microseconds, iv.Microseconds),
		seconds:   field(u.Seconds, iv.Seconds),
		minutes:   field(u.Minutes, iv.Minutes),
		hours:     field(u.Hours, iv.Hours),
		days:      field(u.Days, iv.Days),
		months:    field(u.Months, iv.Months),
		years:     field(u.Years, iv.Years),
		centuries: field(u.Centuries, iv.Centuries()),
		millennia: field(u.Millennia, iv.Millennia()),
	}
}

// Smart возвращает умную фразу относительно текущего момента.
func (f *Formatter) Smart(subject *instant.Instant) string {
	return f.Describe(subject, nil, 0).Smart
}

// Describe описывает метку subject относительно ref.
// При ref == nil сравнение идёт с текущим моментом, и фразы получают
// направление («назад», «через») и дату. Для фиксированного ref фраза :
// разряды из punctuality и диапазон между метками.
// punctuality перечисляет разряды, которые дописываются к фразе («3 дня 4 часа и 5 минут»).
func (f *Formatter) Describe(subject, ref *instant.Instant, punctuality Unit) Result {
	toNow := ref == nil
	if toNow {
		ref = f.Now()
	}

	iv := subject.Diff(ref)
	c := f.counters(iv)
	res := Result{Interval: iv, counters: c, Totals: f.totals(iv, toNow)}

	var (
		l       = f.l
		past    = iv.WasPast
		s       = iv.Seconds
		m       = iv.Minutes
		h       = iv.Hours
		d       = iv.Days
		mo      = iv.Months
		y       = iv.Years
		text    string
		smart   string
		justNow bool
	)
	crossed := crossesMidnight(ref.In(subject.Location()), iv)

	switch {
	case iv.TotalMinutes() == 0:
		res.Bucket = BucketSeconds
		text = c.seconds
		if iv.TotalSeconds() <= 3 {
			text = l.Words.JustNow
			justNow = true
		}

	case iv.TotalHours() == 0:
		res.Bucket = BucketMinutes
		text = c.minutes
		if s >= 10 && m < 10 {
			text = text + sp + l.Words.And + sp + c.seconds
		}
		switch {
		case m > 25 && m < 35:
			smart = l.Idioms.HalfHour.Pick(past)
		case m >= 45:
			smart = l.Idioms.LessThanHour.Pick(past)
		}

	case iv.TotalDays() == 0:
		res.Bucket = BucketHours
		if h == 0 {
			// Календарные сутки короче 24 часов (переход на летнее время)
			h = int(iv.TotalHours())
			c.hours = l.Units.Hours.Format(int64(h), true)
			res.counters.hours = c.hours
		}
		smart = l.Words.Today
		text = c.hours
		if h == 1 {
			switch {
			case m >= 29 && m <= 31:
				text = l.Words.HourAndHalf
			case m > 4:
				text = text + sp + l.Words.And + sp + c.minutes
			}
			smart = l.Direct(text, past)
			if m >= 32 {
				smart = l.Idioms.LessThanTwoHours.Pick(past)
			}
		} else {
			switch {
			case m >= 45:
				text = withGlyph(c.hours, threeQuarters)
			case m >= 30:
				text = withGlyph(c.hours, half)
			case m >= 15:
				text = withGlyph(c.hours, quarter)
			}
			if h >= 20 {
				smart = l.Idioms.LessThanDay.Pick(past)
			}
		}
		if crossed {
			smart = l.Idioms.AdjacentDay.Pick(past)
		}

	case iv.TotalMonths() == 0:
		res.Bucket = BucketDays
		text = l.Words.Day
		if d == 1 {
			if h > 2 {
				text = l.Words.Day + sp + l.Words.And + sp + c.hours
			}
			if h >= 11 && h <= 13 {
				text = l.Words.DayAndHalf
			}
			smart = l.Idioms.AdjacentDay.Pick(past)
			if h > 14 {
				smart = l.Idioms.LessThanTwoDays.Pick(past)
			}
			if crossed {
				smart = l.Idioms.SecondDay.Pick(past)
			}
		} else {
			text = c.days
			if h >= 11 && h <= 13 {
				text = withGlyph(c.days, half)
			}
			// Ровно два календарных дня
			if d == 2 && !crossed {
				smart = l.Idioms.SecondDay.Pick(past)
			}
		}
		switch d {
		case 7:
			smart = l.Direct(l.Words.Week, past)
		case 14:
			smart = l.Direct(l.Words.TwoWeeks, past)
		}

	case iv.TotalYears() == 0:
		res.Bucket = BucketMonths
		switch {
		case mo == 0:
			// 30 дней внутри 31-дневного месяца
			text = l.Words.Month
		case mo == 1:
			text = l.Words.Month
			if d > 2 {
				text = l.Words.OneMonth + sp + l.Words.And + sp + c.days
				switch {
				case d >= 14 && d <= 17:
					text = l.Words.MonthAndHalf
				case d < 14:
					smart = l.Direct(text, past)
				default:
					smart = l.Idioms.LessThanTwoMonths.Pick(past)
				}
			}
		default:
			text = c.months
			if d > 13 && d < 18 {
				text = withGlyph(c.months, half)
			}
		}

	case iv.TotalYears() < 100:
		res.Bucket = BucketYears
		if y == 1 {
			text = l.Words.Year
			if mo > 2 {
				text = l.Words.Year + sp + l.Words.And + sp + c.months
			}
			switch {
			case mo < 5:
				smart = l.Idioms.MoreThanYear.Pick(past)
			case mo <= 7:
				text = l.Words.YearAndHalf
			default:
				smart = l.Idioms.LessThanTwoYears.Pick(past)
			}
		} else {
			text = c.years
		}

	case iv.TotalYears() <= 1500:
		res.Bucket = BucketCenturies
		text = l.Units.Centuries.Format(iv.TotalCenturies(), true)

	default:
		res.Bucket = BucketMillennia
		text = l.Units.Millennia.Format(iv.TotalMillennia(), true)
	}

	if !justNow {
		text = f.appendUnits(text, c, punctuality)
		text = l.Direct(text, past)
	}

	res.Text = text
	res.DateString = f.dateString(subject, iv, toNow)

	if smart == "" {
		smart = text
	}
	switch {
	case justNow:
	case subject.Hour() == 0 && subject.Minute() <= 5:
		smart = smart + " " + l.Words.Midnight + f.midnightSuffix(subject, iv, toNow)
	default:
		smart = smart + ", " + res.DateString
	}
	res.Smart = smart

	if !toNow {
		fixed := strings.Trim(res.CountersByMask(punctuality)+sp+f.Range(subject, ref, punctuality, true, ""), " "+sp)
		res.Text, res.Smart = fixed, fixed
	}
	return res
}

// appendUnits дописывает запрошенные разряды: «3 дня 4 часа и 5 минут».
func (f *Formatter) appendUnits(text string, c counters, punctuality Unit) string {
	if punctuality == 0 {
		return text
	}
	var extra []string
	for _, cn := range c.descending() {
		if cn.text == "" || !punctuality.Has(cn.unit) || cn.text == text {
			continue
		}
		extra = append(extra, cn.text)
	}
	if len(extra) == 0 {
		return text
	}

	last := extra[len(extra)-1]
	parts := append([]string{text}, extra[:len(extra)-1]...)
	return strings.Join(parts, sp) + sp + f.l.Words.And + sp + last
}

func (f *Formatter) totals(iv instant.Interval, toNow bool) Totals {
	u := f.l.Units
	wrap := func(s string) string {
		if !toNow {
			return s
		}
		return f.l.Direct(s, iv.WasPast)
	}
	return Totals{
		Seconds:   wrap(u.Seconds.Format(iv.TotalSeconds(), true)),
		Minutes:   wrap(u.Minutes.Format(iv.TotalMinutes(), true)),
		Hours:     wrap(u.Hours.Format(iv.TotalHours(), true)),
		Days:      wrap(u.Days.Format(iv.TotalDays(), true)),
		Months:    wrap(u.Months.Format(iv.TotalMonths(), true)),
		Years:     wrap(u.Years.Format(iv.TotalYears(), true)),
		Centuries: wrap(u.Centuries.Format(iv.TotalCenturies(), true)),
		Millennia: wrap(u.Millennia.Format(iv.TotalMillennia(), true)),
	}
}

// dateString: «в 15:04:05 (вторник)» для разницы меньше суток,
// иначе «9 января 2024 года в 15:04 (вторник)».
func (f *Formatter) dateString(subject *instant.Instant, iv instant.Interval, toNow bool) string {
	l := f.l
	weekday := l.Weekday(subject.Weekday())

	if iv.TotalDays() == 0 {
		s := fmt.Sprintf("%s%s%d:%02d:%02d", l.Words.At, sp, subject.Hour(), subject.Minute(), subject.Second())
		if weekday != f.todayWeekday(subject) {
			s += " (" + weekday + ")"
		}
		return s
	}

	return fmt.Sprintf("%s %s%s%d:%02d (%s)",
		f.calendarDate(subject, toNow), l.Words.At, sp, subject.Hour(), subject.Minute(), weekday)
}

// midnightSuffix возвращает дату без времени для «в полночь», например «, 11 января (четверг)».
func (f *Formatter) midnightSuffix(subject *instant.Instant, iv instant.Interval, toNow bool) string {
	weekday := f.l.Weekday(subject.Weekday())
	if iv.TotalDays() == 0 {
		if weekday != f.todayWeekday(subject) {
			return " (" + weekday + ")"
		}
		return ""
	}
	return ", " + f.calendarDate(subject, toNow) + " (" + weekday + ")"
}

// calendarDate: «9 января 2024 года» или «9 января», если год текущий и его просили не писать.
func (f *Formatter) calendarDate(subject *instant.Instant, toNow bool) string {
	l := f.l
	date := fmt.Sprintf("%d%s%s", subject.Day(), sp, l.Month(subject.Month(), true))
	if toNow && f.cfg.OmitCurrentYear && subject.Year() == f.currentYear(subject) {
		return date
	}
	return fmt.Sprintf("%s %d%s%s", date, subject.Year(), sp, l.Words.YearOf)
}

func (f *Formatter) todayWeekday(subject *instant.Instant) string {
	return f.l.Weekday(f.Now().In(subject.Location()).Weekday())
}

func (f *Formatter) currentYear(subject *instant.Instant) int {
	return f.Now().In(subject.Location()).Year()
}

// crossesMidnight проверяет, переходит ли разница через полночь
// от часов ref: назад ниже 00:00:00 или вперёд до 24:00:00.
func crossesMidnight(ref *instant.Instant, iv instant.Interval) bool {
	H, M, S := ref.Hour(), ref.Minute(), ref.Second()
	h, m, s := iv.Hours, iv.Minutes, iv.Seconds

	if iv.WasPast {
		return H-h < 0 || (H-h <= 0 && (M-m < 0 || (M-m <= 0 && S-s < 0)))
	}
	return H+h >= 24 || (H+h >= 23 && (M+m >= 60 || (M+m >= 59 && S+s >= 60)))
}

// withGlyph вставляет дробь после ведущего числа: «5 часов» → «5½ часов».
func withGlyph(s, glyph string) string {
	return leadingNumber.ReplaceAllString(s, "${1}"+glyph)
}
