package instant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/kogda-bot/internal/common"
)

var msk = time.FixedZone("MSK", 3*60*60)

// Среда, 10 января 2024, 12:00:00 по Москве
func testOptions() Options {
	return Options{
		Location: msk,
		Clock:    Fixed(time.Date(2024, time.January, 10, 12, 0, 0, 0, msk)),
	}
}

func mustDate(t *testing.T, y int, m time.Month, d, hh, mm, ss, us int) *Instant {
	t.Helper()
	i, err := Date(y, m, d, hh, mm, ss, us, msk)
	require.NoError(t, err)
	return i
}

func TestParseRoundTrip(t *testing.T) {
	for _, s := range []string{
		"2024-01-10 12:00:00.123456",
		"1999-12-31 23:59:59.000001",
		"2024-02-29 00:00:00.000000",
		"0001-01-01 00:00:00.999999",
	} {
		i, err := Parse(s, testOptions())
		require.NoError(t, err, s)
		assert.Equal(t, s, i.Format())
	}

	x := mustDate(t, 2031, time.July, 4, 5, 6, 7, 89)
	back, err := Parse(x.Format(), testOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, Compare(x, back, true))
	assert.Equal(t, x.Microsecond(), back.Microsecond())
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"2024-01-10", "2024-01-10 00:00:00.000000"},
		{"2024-01-10 12:30", "2024-01-10 12:30:00.000000"},
		{"2024-01-10T12:30:05.5", "2024-01-10 12:30:05.500000"},
		{"2024-01-10 12:30:05.123456789", "2024-01-10 12:30:05.123456"},
		{"10.01.2024", "2024-01-10 00:00:00.000000"},
		{"10.01.2024 9:05", "2024-01-10 09:05:00.000000"},
		{"@0", "1970-01-01 03:00:00.000000"},
		{"@1704877200.25", "2024-01-10 12:00:00.250000"},
		{"2024-01-10T12:00:00Z", "2024-01-10 15:00:00.000000"},
		{"  2024-01-10 12:00:00  ", "2024-01-10 12:00:00.000000"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			i, err := Parse(tt.source, testOptions())
			require.NoError(t, err)
			assert.Equal(t, tt.want, i.Format())
			assert.False(t, i.IsChangeable())
		})
	}
}

func TestParseRelative(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"", "2024-01-10 12:00:00.000000"},
		{"now", "2024-01-10 12:00:00.000000"},
		{"today", "2024-01-10 00:00:00.000000"},
		{"noon", "2024-01-10 12:00:00.000000"},
		{"tomorrow", "2024-01-11 00:00:00.000000"},
		{"yesterday", "2024-01-09 00:00:00.000000"},
		{"+2 hours", "2024-01-10 14:00:00.000000"},
		{"-1 day", "2024-01-09 12:00:00.000000"},
		{"now -15min", "2024-01-10 11:45:00.000000"},
		{"+1 week 2 days", "2024-01-19 12:00:00.000000"},
		{"next monday", "2024-01-15 00:00:00.000000"},
		{"last monday", "2024-01-08 00:00:00.000000"},
		{"friday", "2024-01-12 00:00:00.000000"},
		{"wednesday", "2024-01-10 00:00:00.000000"},
		{"next wednesday", "2024-01-17 00:00:00.000000"},
		{"next month", "2024-02-10 12:00:00.000000"},
		{"first day of next month", "2024-02-01 12:00:00.000000"},
		{"last day of this month", "2024-01-31 12:00:00.000000"},
		{"last day of next year", "2025-12-31 12:00:00.000000"},
		{"last day of next month", "2024-02-29 12:00:00.000000"},
		{"first day of previous year", "2023-01-01 12:00:00.000000"},
		{"first day of month", "2024-01-01 12:00:00.000000"},
		{"first day of next month +1 day", "2024-02-02 12:00:00.000000"},
		{"2024-01-31 +1 month", "2024-03-02 00:00:00.000000"},
		{"2024-01-10 23:00 +2 hours", "2024-01-11 01:00:00.000000"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			i, err := Parse(tt.source, testOptions())
			require.NoError(t, err)
			assert.Equal(t, tt.want, i.Format())
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, s := range []string{
		"bogus",
		"2024-13-01",
		"2024-02-30",
		"2024-01-10 24:00",
		"+2 lightyears",
		"next",
		"first day of",
		"first day of next",
		"last day of next week",
	} {
		_, err := Parse(s, testOptions())
		assert.ErrorIs(t, err, common.ErrFormat, s)
	}
}

func TestParseNullable(t *testing.T) {
	for _, s := range []string{
		"0000-00-00",
		"0000-00-00 00:00:00",
		"0000-00-00 00:00:00.000000",
		"0000-00-00 00:00:00.0",
		Zero,
	} {
		i, err := ParseNullable(s, testOptions())
		require.NoError(t, err, s)
		assert.Nil(t, i, s)
	}

	i, err := ParseNullable("2024-01-10", testOptions())
	require.NoError(t, err)
	require.NotNil(t, i)

	_, err = ParseNullable("0000-00-00 00:00:01", testOptions())
	assert.ErrorIs(t, err, common.ErrFormat)
}

func TestNowTrackMicroseconds(t *testing.T) {
	opts := testOptions()
	opts.Clock = Fixed(time.Date(2024, time.January, 10, 12, 0, 0, 123456789, msk))

	assert.Equal(t, 0, Now(opts).Microsecond())

	opts.TrackMicroseconds = true
	assert.Equal(t, 123456, Now(opts).Microsecond())
}

func TestImmutability(t *testing.T) {
	i := MustParse("2024-01-10 12:00:00", testOptions())

	assert.ErrorIs(t, i.SetTime(1, 2, 3, 0), common.ErrImmutableState)
	assert.ErrorIs(t, i.SetDate(2020, time.May, 1), common.ErrImmutableState)
	assert.ErrorIs(t, i.Modify("+1 day"), common.ErrImmutableState)
	assert.ErrorIs(t, i.SetMicrosecond(5), common.ErrImmutableState)
	assert.ErrorIs(t, i.ToDayStart(), common.ErrImmutableState)

	keep := i.CloneKeep()
	assert.ErrorIs(t, keep.Modify("+1 day"), common.ErrImmutableState)

	c := i.Clone()
	require.NoError(t, c.Modify("+1 day"))
	assert.Equal(t, "2024-01-11 12:00:00.000000", c.Format())
	assert.Equal(t, "2024-01-10 12:00:00.000000", i.Format())

	w, err := i.WithModify("-1 hour")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-10 11:00:00.000000", w.Format())
	assert.Equal(t, "2024-01-10 12:00:00.000000", i.Format())

	w, err = i.WithTime(8, 30, 0, 250)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-10 08:30:00.000250", w.Format())

	w, err = i.WithDate(2023, time.December, 31)
	require.NoError(t, err)
	assert.Equal(t, "2023-12-31 12:00:00.000000", w.Format())
}

func TestModifyMicroseconds(t *testing.T) {
	i := mustDate(t, 2024, time.January, 10, 12, 0, 0, 999999).Clone()

	require.NoError(t, i.Modify("+1 microsecond"))
	assert.Equal(t, "2024-01-10 12:00:01.000000", i.Format())

	require.NoError(t, i.Modify("-2 usec"))
	assert.Equal(t, "2024-01-10 12:00:00.999998", i.Format())

	require.NoError(t, i.Modify("+1500000 micro"))
	assert.Equal(t, "2024-01-10 12:00:02.499998", i.Format())

	require.NoError(t, i.Modify("-499999 microseconds"))
	assert.Equal(t, "2024-01-10 12:00:01.999999", i.Format())
}

func TestSetters(t *testing.T) {
	base := mustDate(t, 2024, time.January, 10, 12, 34, 56, 7)

	i := base.Clone()
	assert.ErrorIs(t, i.SetWeekNumber(54), common.ErrRange)
	assert.ErrorIs(t, i.SetWeekNumber(-1), common.ErrRange)
	require.NoError(t, i.SetWeekNumber(2))
	assert.Equal(t, 10, i.Day())
	require.NoError(t, i.SetWeekNumber(3))
	assert.Equal(t, 17, i.Day())

	i = base.Clone()
	assert.ErrorIs(t, i.SetDayOfWeek(8), common.ErrRange)
	require.NoError(t, i.SetDayOfWeek(7))
	assert.Equal(t, "2024-01-14 12:34:56.000007", i.Format())

	i = base.Clone()
	assert.ErrorIs(t, i.SetMicrosecond(1_000_000), common.ErrRange)
	assert.ErrorIs(t, i.SetTime(1, 0, 0, -1), common.ErrRange)

	tests := []struct {
		name string
		op   func(*Instant) error
		want string
	}{
		{"day start", (*Instant).ToDayStart, "2024-01-10 00:00:00.000000"},
		{"day end", (*Instant).ToDayEnd, "2024-01-10 23:59:59.000000"},
		{"week start", (*Instant).ToWeekStart, "2024-01-08 00:00:00.000000"},
		{"week end", (*Instant).ToWeekEnd, "2024-01-14 23:59:59.000000"},
		{"month start", (*Instant).ToMonthStart, "2024-01-01 00:00:00.000000"},
		{"month end", (*Instant).ToMonthEnd, "2024-01-31 23:59:59.000000"},
		{"year start", (*Instant).ToYearStart, "2024-01-01 00:00:00.000000"},
		{"year end", (*Instant).ToYearEnd, "2024-12-31 23:59:59.000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := base.Clone()
			require.NoError(t, tt.op(i))
			assert.Equal(t, tt.want, i.Format())
		})
	}
}

func TestDateOnly(t *testing.T) {
	d := mustDate(t, 2024, time.January, 10, 23, 0, 0, 5).AsDate()
	assert.True(t, d.IsDateOnly())
	assert.Equal(t, "2024-01-10 00:00:00.000000", d.Format())

	c := d.Clone()
	require.NoError(t, c.Modify("+3 hours"))
	assert.Equal(t, "2024-01-10 00:00:00.000000", c.Format())

	other := mustDate(t, 2024, time.January, 10, 1, 0, 0, 0)
	assert.Equal(t, 0, CompareIn(d, other, msk, false))
	assert.Equal(t, -1, Compare(d, other, false))
	assert.False(t, d.AsDateTime().IsDateOnly())
}

func TestCompare(t *testing.T) {
	a := mustDate(t, 2024, time.January, 10, 12, 0, 0, 900000)
	b := mustDate(t, 2024, time.January, 10, 12, 0, 1, 100000)
	assert.Equal(t, -1, Compare(a, b, false))
	assert.Equal(t, -1, Compare(a, b, true))
	assert.Equal(t, 1, Compare(b, a, true))

	c := mustDate(t, 2024, time.January, 10, 12, 0, 1, 0)
	d := mustDate(t, 2024, time.January, 10, 12, 0, 0, 999999)
	assert.Equal(t, 1, Compare(c, d, false))
	assert.Equal(t, 1, Compare(c, d, true))

	e := mustDate(t, 2024, time.January, 10, 12, 0, 0, 1)
	f := mustDate(t, 2024, time.January, 10, 12, 0, 0, 0)
	assert.Equal(t, 0, Compare(e, f, false))
	assert.Equal(t, 1, Compare(e, f, true))
	assert.Equal(t, -1, Compare(f, e, true))

	// один и тот же момент в разных поясах
	assert.Equal(t, 0, Compare(f, f.In(time.UTC), true))

	assert.True(t, a.IsBefore(b))
	assert.True(t, b.IsAfter(a))
	assert.True(t, e.IsEqual(f))
	assert.True(t, e.IsBetween(f, c))
	assert.True(t, e.IsBetween(nil, nil))
	assert.False(t, c.IsBetween(nil, f))
	assert.Same(t, b, Max(a, nil, b, d))
	assert.Nil(t, Max())
}

func TestCompareAny(t *testing.T) {
	n, err := CompareAny("2024-01-10", "2024-01-09", testOptions(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = CompareAny(time.Date(2024, time.January, 10, 9, 0, 0, 0, msk), mustDate(t, 2024, time.January, 10, 9, 0, 0, 0), testOptions(), true)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = CompareAny(1, "2024-01-09", testOptions(), false)
	assert.ErrorIs(t, err, common.ErrType)

	_, err = CompareAny("2024-01-09", "вчера вечером", testOptions(), false)
	assert.ErrorIs(t, err, common.ErrFormat)

	_, err = From((*Instant)(nil), testOptions())
	assert.ErrorIs(t, err, common.ErrType)
}

func TestNowRelations(t *testing.T) {
	clock := testOptions().Clock
	assert.True(t, mustDate(t, 2024, time.January, 10, 11, 0, 0, 0).InPast(clock))
	assert.True(t, mustDate(t, 2024, time.January, 10, 13, 0, 0, 0).InFuture(clock))
	assert.True(t, mustDate(t, 2024, time.January, 10, 0, 0, 0, 0).IsToday(clock))
	assert.False(t, mustDate(t, 2024, time.January, 11, 0, 0, 0, 0).IsToday(clock))
}

func TestDiffBorrowing(t *testing.T) {
	subject := mustDate(t, 2021, time.March, 15, 8, 30, 15, 0)
	ref := mustDate(t, 2024, time.January, 10, 12, 0, 0, 0)

	iv := subject.Diff(ref)
	assert.True(t, iv.WasPast)
	assert.Equal(t, Interval{
		Years: 2, Months: 9, Days: 26, Hours: 3, Minutes: 29, Seconds: 45,
		WasPast: true, totalSeconds: ref.Unix() - subject.Unix(),
	}, iv)

	// обратное направление даёт те же величины
	back := ref.Diff(subject)
	assert.False(t, back.WasPast)
	assert.Equal(t, iv.Years, back.Years)
	assert.Equal(t, iv.Days, back.Days)

	// 31 января → 1 марта: заём через февраль и январь
	iv = mustDate(t, 2023, time.January, 31, 0, 0, 0, 0).Diff(mustDate(t, 2023, time.March, 1, 0, 0, 0, 0))
	assert.Equal(t, 0, iv.Months)
	assert.Equal(t, 29, iv.Days)
}

func TestIntervalTotals(t *testing.T) {
	// февраль: 28 дней, но календарно месяц
	iv := mustDate(t, 2023, time.February, 1, 0, 0, 0, 0).Diff(mustDate(t, 2023, time.March, 1, 0, 0, 0, 0))
	assert.Equal(t, int64(28), iv.TotalDays())
	assert.Equal(t, int64(1), iv.TotalMonths())

	iv = mustDate(t, 2024, time.January, 10, 12, 0, 0, 250000).Diff(mustDate(t, 2024, time.January, 10, 12, 0, 0, 750000))
	assert.Equal(t, 500000, iv.Microseconds)
	assert.Equal(t, int64(0), iv.TotalSeconds())
	assert.False(t, iv.IsZero())

	iv = mustDate(t, 2024, time.January, 10, 14, 0, 0, 0).Diff(mustDate(t, 2024, time.January, 10, 12, 30, 0, 0))
	assert.Equal(t, int64(5400), iv.TotalSeconds())
	assert.Equal(t, int64(90), iv.TotalMinutes())
	assert.Equal(t, int64(1), iv.TotalHours())
	assert.Equal(t, int64(0), iv.TotalDays())

	iv = Interval{Years: 2345}
	assert.Equal(t, int64(23), iv.TotalCenturies())
	assert.Equal(t, int64(2), iv.TotalMillennia())
	assert.Equal(t, 3, iv.Centuries())
	assert.Equal(t, 2, iv.Millennia())
}

func TestDiffWasPastMatchesCompare(t *testing.T) {
	points := []*Instant{
		mustDate(t, 1999, time.December, 31, 23, 59, 59, 0),
		mustDate(t, 2000, time.January, 1, 0, 0, 0, 0),
		mustDate(t, 2024, time.February, 29, 12, 0, 0, 0),
		mustDate(t, 2024, time.February, 29, 12, 0, 0, 500),
		mustDate(t, 2024, time.March, 1, 0, 0, 0, 0).In(time.UTC),
		mustDate(t, 1812, time.September, 7, 6, 0, 0, 0),
	}

	for _, a := range points {
		for _, b := range points {
			assert.Equal(t, Compare(b, a, false) > 0, a.Diff(b).WasPast, "%s vs %s", a.Format(), b.Format())
		}
	}
}

func TestFormatting(t *testing.T) {
	i := mustDate(t, 2024, time.January, 5, 9, 7, 3, 42)

	assert.Equal(t, "2024-01-05 09:07:03.000042", i.Format())
	assert.Equal(t, "2024-01-05 09:07:03", i.FormatSeconds())
	assert.Equal(t, "05.01.2024 09:07", i.FormatDigits())
	assert.Equal(t, "05 января 2024 г. в 09:07", i.String())
	assert.Equal(t, 5, i.ISOWeekday())
}

func TestNull(t *testing.T) {
	var n Null
	require.NoError(t, n.Scan("0000-00-00 00:00:00"))
	assert.False(t, n.Valid)
	v, err := n.Value()
	require.NoError(t, err)
	assert.Equal(t, Zero, v)

	n = Null{Location: msk}
	require.NoError(t, n.Scan([]byte("2024-01-10 12:00:00.000001")))
	require.True(t, n.Valid)
	assert.Equal(t, 1, n.Instant.Microsecond())
	v, err = n.Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-01-10 12:00:00.000001", v)

	require.NoError(t, n.Scan(nil))
	assert.False(t, n.Valid)

	assert.ErrorIs(t, n.Scan(42), common.ErrType)

	n = NewNull(mustDate(t, 2024, time.January, 10, 12, 0, 0, 0))
	v, err = n.Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-01-10 12:00:00.000000", v)
}
