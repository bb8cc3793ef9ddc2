package instant

import "time"

// Clock: источник текущего времени.
type Clock interface {
	Now() time.Time
}

// ClockFunc позволяет использовать функцию как Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock: системные часы.
var SystemClock Clock = ClockFunc(time.Now)

// Fixed возвращает часы, которые всегда показывают t. Для тестов.
func Fixed(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}
