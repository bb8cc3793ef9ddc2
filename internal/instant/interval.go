package instant

import "time"

// Interval: календарная разница двух меток.
// Все поля неотрицательные, направление: в WasPast.
type Interval struct {
	Years        int
	Months       int
	Days         int
	Hours        int
	Minutes      int
	Seconds      int
	Microseconds int
	// WasPast: метка раньше той, с которой сравнивали
	WasPast bool

	totalSeconds int64
}

// TotalSeconds: полное число секунд между метками (без микросекунд).
func (iv Interval) TotalSeconds() int64 { return iv.totalSeconds }
func (iv Interval) TotalMinutes() int64 { return iv.totalSeconds / 60 }
func (iv Interval) TotalHours() int64   { return iv.TotalMinutes() / 60 }
func (iv Interval) TotalDays() int64    { return iv.TotalHours() / 24 }

// TotalMonths: дни / 30. В феврале (28–29 дней) деление даёт 0
// при ненулевом месяце, тогда берётся календарное значение.
func (iv Interval) TotalMonths() int64 {
	months := iv.TotalDays() / 30
	if months == 0 && iv.Months != 0 {
		return int64(iv.Months)
	}
	return months
}

func (iv Interval) TotalYears() int64     { return int64(iv.Years) }
func (iv Interval) TotalCenturies() int64 { return int64(iv.Years / 100) }
func (iv Interval) TotalMillennia() int64 { return int64(iv.Years / 1000) }

// Centuries: число веков внутри тысячелетия (для перечисления разрядов).
func (iv Interval) Centuries() int { return (iv.Years / 100) % 10 }

// Millennia: полные тысячелетия.
func (iv Interval) Millennia() int { return iv.Years / 1000 }

// IsZero: метки совпадают до микросекунды.
func (iv Interval) IsZero() bool {
	return iv.totalSeconds == 0 && iv.Microseconds == 0
}

// Diff считает разницу метки i относительно ref.
//
// Поля считаются по целым секундам в поясе i с календарным заимствованием:
// отрицательные дни занимают длину предыдущих месяцев (сколько нужно раз),
// отрицательные месяцы занимают 12 у лет. Микросекунды: |µi − µref| отдельно.
// WasPast == Compare(ref, i) > 0.
func (i *Instant) Diff(ref *Instant) Interval {
	loc := i.Location()
	lo, hi := i.t.In(loc), ref.t.In(loc)
	wasPast := Compare(ref, i, false) > 0
	if !wasPast {
		lo, hi = hi, lo
	}

	iv := Interval{WasPast: wasPast, totalSeconds: hi.Unix() - lo.Unix()}

	micro := i.micro - ref.micro
	if micro < 0 {
		micro = -micro
	}
	iv.Microseconds = micro

	y1, m1, d1 := lo.Date()
	h1, mi1, s1 := lo.Clock()
	y2, m2, d2 := hi.Date()
	h2, mi2, s2 := hi.Clock()

	sec := s2 - s1
	if sec < 0 {
		sec += 60
		mi2--
	}
	min := mi2 - mi1
	if min < 0 {
		min += 60
		h2--
	}
	hour := h2 - h1
	if hour < 0 {
		hour += 24
		d2--
	}

	day := d2 - d1
	// Занимаем у предыдущих месяцев, начиная с месяца перед m2
	by, bm := y2, m2
	for day < 0 {
		bm--
		if bm < time.January {
			bm = time.December
			by--
		}
		day += daysIn(by, bm)
		m2--
	}

	month := int(m2) - int(m1)
	for month < 0 {
		month += 12
		y2--
	}

	iv.Years = y2 - y1
	iv.Months = month
	iv.Days = day
	iv.Hours = hour
	iv.Minutes = min
	iv.Seconds = sec
	return iv
}
