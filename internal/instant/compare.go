package instant

import (
	"time"
)

// Compare возвращает -1, 0 или 1.
// Сравниваются целые секунды эпохи; при withMicro к ним добавляется разница
// микросекунд. Арифметика целочисленная, знак результата устойчив.
func Compare(a, b *Instant, withMicro bool) int {
	d := a.Unix() - b.Unix()
	if withMicro {
		d = d*microPerSecond + int64(a.micro-b.micro)
	}
	return sign(d)
}

// CompareIn: как Compare, но если хотя бы одна метка «только дата»,
// сравниваются календарные дни в поясе loc.
func CompareIn(a, b *Instant, loc *time.Location, withMicro bool) int {
	if !a.dateOnly && !b.dateOnly {
		return Compare(a, b, withMicro)
	}
	if loc == nil {
		loc = a.Location()
	}
	ay, am, ad := a.t.In(loc).Date()
	by, bm, bd := b.t.In(loc).Date()
	switch {
	case ay != by:
		return sign(int64(ay - by))
	case am != bm:
		return sign(int64(am - bm))
	}
	return sign(int64(ad - bd))
}

// CompareAny сравнивает значения, приводимые через From.
// Неприводимые операнды дают ErrType, нераспознанные строки: ErrFormat.
func CompareAny(a, b any, opts Options, withMicro bool) (int, error) {
	ia, err := From(a, opts)
	if err != nil {
		return 0, err
	}
	ib, err := From(b, opts)
	if err != nil {
		return 0, err
	}
	return CompareIn(ia, ib, opts.Location, withMicro), nil
}

// Max возвращает наибольшую метку (nil для пустого списка).
func Max(items ...*Instant) *Instant {
	var max *Instant
	for _, it := range items {
		if it == nil {
			continue
		}
		if max == nil || Compare(it, max, true) > 0 {
			max = it
		}
	}
	return max
}

func (i *Instant) IsBefore(o *Instant) bool { return Compare(i, o, false) < 0 }
func (i *Instant) IsAfter(o *Instant) bool  { return Compare(i, o, false) > 0 }
func (i *Instant) IsEqual(o *Instant) bool  { return Compare(i, o, false) == 0 }

// IsBetween: begin <= i <= end; nil-граница не ограничивает.
func (i *Instant) IsBetween(begin, end *Instant) bool {
	return (begin == nil || Compare(i, begin, false) >= 0) &&
		(end == nil || Compare(i, end, false) <= 0)
}

// InPast: метка раньше текущего момента часов c (nil: системные часы).
func (i *Instant) InPast(c Clock) bool {
	return Compare(i, Now(Options{Clock: c, Location: i.Location()}), false) < 0
}

// InFuture: метка позже текущего момента часов c.
func (i *Instant) InFuture(c Clock) bool {
	return Compare(i, Now(Options{Clock: c, Location: i.Location()}), false) > 0
}

// IsToday: метка приходится на сегодняшний календарный день в своём поясе.
func (i *Instant) IsToday(c Clock) bool {
	now := Now(Options{Clock: c, Location: i.Location()})
	return CompareIn(i.AsDate(), now, i.Location(), false) == 0
}

func sign(d int64) int {
	switch {
	case d < 0:
		return -1
	case d > 0:
		return 1
	}
	return 0
}
