package humanize

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/kogda-bot/internal/common"
	"serotonyl.ru/kogda-bot/internal/instant"
)

var msk = time.FixedZone("MSK", 3*60*60)

// newFormatter: форматтер с часами, остановленными на moment (по Москве).
func newFormatter(moment string) *Formatter {
	now, err := time.ParseInLocation("2006-01-02 15:04:05", moment, msk)
	if err != nil {
		panic(err)
	}
	return New(Config{Clock: instant.Fixed(now), Location: msk})
}

func at(t *testing.T, s string) *instant.Instant {
	t.Helper()
	i, err := instant.Parse(s, instant.Options{Location: msk})
	require.NoError(t, err)
	return i
}

// plain заменяет неразрывные и узкие пробелы обычными, чтобы сравнивать глазами.
func plain(s string) string {
	return strings.NewReplacer(common.NBSP, " ", common.GroupSeparator, " ").Replace(s)
}

func TestJustNow(t *testing.T) {
	f := newFormatter("2024-01-10 12:00:02")

	r := f.Describe(at(t, "2024-01-10 12:00:00"), nil, 0)
	assert.Equal(t, BucketSeconds, r.Bucket)
	assert.Equal(t, "только что", plain(r.Smart))
	assert.Equal(t, "только что", plain(r.Text))
}

func TestSecondsBoundary(t *testing.T) {
	f := newFormatter("2024-01-10 12:00:00")

	r := f.Describe(at(t, "2024-01-10 11:59:57"), nil, 0)
	assert.Equal(t, "только что", plain(r.Smart))

	r = f.Describe(at(t, "2024-01-10 11:59:56"), nil, 0)
	assert.Equal(t, "4 секунды назад", plain(r.Text))
	assert.Equal(t, "4 секунды назад, в 11:59:56", plain(r.Smart))
}

func TestDescribe(t *testing.T) {
	f := newFormatter("2024-01-10 12:00:00")

	tests := []struct {
		name    string
		subject string
		bucket  Bucket
		text    string
		smart   string
	}{
		{"минуты", "2024-01-10 11:55:00", BucketMinutes, "5 минут назад", "5 минут назад, в 11:55:00"},
		{"минуты и секунды", "2024-01-10 11:54:45", BucketMinutes, "5 минут и 15 секунд назад", "5 минут и 15 секунд назад, в 11:54:45"},
		{"полчаса", "2024-01-10 11:30:00", BucketMinutes, "30 минут назад", "полчаса назад, в 11:30:00"},
		{"менее часа", "2024-01-10 12:50:00", BucketMinutes, "через 50 минут", "менее чем через час, в 12:50:00"},

		{"часы", "2024-01-10 09:00:00", BucketHours, "3 часа назад", "сегодня, в 9:00:00"},
		{"четверть", "2024-01-10 08:40:00", BucketHours, "3¼ часа назад", "сегодня, в 8:40:00"},
		{"три четверти", "2024-01-10 07:15:00", BucketHours, "4¾ часа назад", "сегодня, в 7:15:00"},
		{"половина", "2024-01-10 06:30:00", BucketHours, "5½ часов назад", "сегодня, в 6:30:00"},
		{"полтора часа", "2024-01-10 10:30:00", BucketHours, "полтора часа назад", "полтора часа назад, в 10:30:00"},
		{"полтора часа вперёд", "2024-01-10 13:30:00", BucketHours, "через полтора часа", "через полтора часа, в 13:30:00"},
		{"час и минуты", "2024-01-10 10:50:00", BucketHours, "1 час и 10 минут назад", "1 час и 10 минут назад, в 10:50:00"},
		{"менее двух часов", "2024-01-10 10:20:00", BucketHours, "1 час и 40 минут назад", "менее 2-х часов назад, в 10:20:00"},
		{"вчера через полночь", "2024-01-09 15:00:00", BucketHours, "21 час назад", "вчера, в 15:00:00 (вторник)"},
		{"завтра через полночь", "2024-01-11 02:00:00", BucketHours, "через 14 часов", "завтра, в 2:00:00 (четверг)"},
		{"полночь сегодня", "2024-01-10 00:03:00", BucketHours, "11¾ часов назад", "сегодня в полночь"},

		{"вчера", "2024-01-09 10:00:00", BucketDays, "день назад", "вчера, 9 января 2024 года в 10:00 (вторник)"},
		{"позавчера через полночь", "2024-01-08 20:00:00", BucketDays, "день и 16 часов назад", "позавчера, 8 января 2024 года в 20:00 (понедельник)"},
		{"вчера в полночь", "2024-01-09 00:00:00", BucketDays, "полтора дня назад", "вчера в полночь, 9 января 2024 года (вторник)"},
		{"позавчера", "2024-01-08 09:00:00", BucketDays, "2 дня назад", "позавчера, 8 января 2024 года в 9:00 (понедельник)"},
		{"послезавтра", "2024-01-12 12:00:00", BucketDays, "через 2 дня", "послезавтра, 12 января 2024 года в 12:00 (пятница)"},
		{"дни с половиной", "2024-01-05 00:30:00", BucketDays, "5½ дней назад", "5½ дней назад, 5 января 2024 года в 0:30 (пятница)"},
		{"неделя", "2024-01-17 12:00:00", BucketDays, "через 7 дней", "через неделю, 17 января 2024 года в 12:00 (среда)"},
		{"две недели", "2023-12-27 12:00:00", BucketDays, "14 дней назад", "2 недели назад, 27 декабря 2023 года в 12:00 (среда)"},

		{"месяц", "2023-12-10 12:00:00", BucketMonths, "месяц назад", "месяц назад, 10 декабря 2023 года в 12:00 (воскресенье)"},
		{"месяц и дни", "2023-12-05 12:00:00", BucketMonths, "один месяц и 5 дней назад", "один месяц и 5 дней назад, 5 декабря 2023 года в 12:00 (вторник)"},
		{"полтора месяца", "2023-11-25 12:00:00", BucketMonths, "полтора месяца назад", "полтора месяца назад, 25 ноября 2023 года в 12:00 (суббота)"},
		{"менее двух месяцев", "2023-11-20 12:00:00", BucketMonths, "один месяц и 21 день назад", "менее 2-х месяцев назад, 20 ноября 2023 года в 12:00 (понедельник)"},
		{"месяцы с половиной", "2023-09-25 12:00:00", BucketMonths, "3½ месяца назад", "3½ месяца назад, 25 сентября 2023 года в 12:00 (понедельник)"},

		{"более года", "2023-01-10 12:00:00", BucketYears, "год назад", "более года назад, 10 января 2023 года в 12:00 (вторник)"},
		{"полтора года", "2022-07-10 12:00:00", BucketYears, "полтора года назад", "полтора года назад, 10 июля 2022 года в 12:00 (воскресенье)"},
		{"менее двух лет", "2022-03-10 12:00:00", BucketYears, "год и 10 месяцев назад", "менее 2-х лет назад, 10 марта 2022 года в 12:00 (четверг)"},
		{"годы", "2014-01-10 12:00:00", BucketYears, "10 лет назад", "10 лет назад, 10 января 2014 года в 12:00 (пятница)"},

		{"века", "1812-01-10 12:00:00", BucketCenturies, "2 века назад", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := f.Describe(at(t, tt.subject), nil, 0)
			assert.Equal(t, tt.bucket, r.Bucket)
			assert.Equal(t, tt.text, plain(r.Text))
			if tt.smart != "" {
				assert.Equal(t, tt.smart, plain(r.Smart))
			}
		})
	}
}

func TestMillennia(t *testing.T) {
	f := newFormatter("2024-01-10 12:00:00")

	old, err := instant.Date(24, time.January, 10, 12, 0, 0, 0, msk)
	require.NoError(t, err)

	r := f.Describe(old, nil, 0)
	assert.Equal(t, BucketMillennia, r.Bucket)
	assert.Equal(t, "2 тысячелетия назад", plain(r.Text))
}

func TestOmitCurrentYear(t *testing.T) {
	now := time.Date(2024, time.January, 10, 12, 0, 0, 0, msk)
	f := New(Config{Clock: instant.Fixed(now), Location: msk, OmitCurrentYear: true})

	r := f.Describe(at(t, "2024-01-09 10:00:00"), nil, 0)
	assert.Equal(t, "вчера, 9 января в 10:00 (вторник)", plain(r.Smart))

	// прошлый год пишется всегда
	r = f.Describe(at(t, "2023-12-27 12:00:00"), nil, 0)
	assert.Equal(t, "27 декабря 2023 года в 12:00 (среда)", plain(r.DateString))
}

func TestPunctuality(t *testing.T) {
	f := newFormatter("2024-01-10 12:00:00")
	subject := at(t, "2024-01-07 07:55:00")

	r := f.Describe(subject, nil, Hours|Minutes)
	assert.Equal(t, "3 дня 4 часа и 5 минут назад", plain(r.Text))

	// разряд, совпадающий с основной фразой, не повторяется
	r = f.Describe(subject, nil, Days|Hours|Minutes)
	assert.Equal(t, "3 дня 4 часа и 5 минут назад", plain(r.Text))

	r = f.Describe(subject, nil, Hours)
	assert.Equal(t, "3 дня и 4 часа назад", plain(r.Text))

	r = f.Describe(subject, nil, Seconds)
	assert.Equal(t, "3 дня назад", plain(r.Text))

	micro, err := instant.Date(2024, time.January, 10, 11, 59, 50, 250, msk)
	require.NoError(t, err)
	r = f.Describe(micro, nil, Microseconds)
	assert.Equal(t, "10 секунд и 250 микросекунд назад", plain(r.Text))
}

func TestFixedReference(t *testing.T) {
	f := newFormatter("2024-01-10 12:00:00")
	subject := at(t, "2024-01-10 12:00:00")
	ref := at(t, "2024-01-12 12:00:00")

	r := f.Describe(subject, ref, Days)
	assert.Equal(t, "2 дня с 10 по 12", plain(r.Text))
	assert.Equal(t, r.Text, r.Smart)

	r = f.Describe(subject, ref, 0)
	assert.Equal(t, "с 12:00:00 10 по 12:00:00 12 января", plain(r.Text))
}

func TestCountersAndTotals(t *testing.T) {
	f := newFormatter("2024-01-10 12:00:00")

	r := f.Describe(at(t, "2021-03-15 08:30:15"), nil, 0)
	assert.Equal(t, "2 года 9 месяцев 26 дней 3 часа 29 минут 45 секунд", plain(r.AllCounters(0)))
	assert.Equal(t, "2 года 9 месяцев 26 дней", plain(r.AllCounters(Days)))
	assert.Equal(t, "9 месяцев 3 часа", plain(r.CountersByMask(Months|Hours)))

	r = f.Describe(at(t, "2024-01-10 10:30:00"), nil, 0)
	assert.Equal(t, "5 400 секунд назад", plain(r.Totals.Seconds))
	assert.Equal(t, "90 минут назад", plain(r.Totals.Minutes))
	assert.Equal(t, "1 час назад", plain(r.Totals.Hours))
	assert.Equal(t, "0 дней назад", plain(r.Totals.Days))

	r = f.Describe(at(t, "2024-01-10 11:55:00"), nil, 0)
	assert.Equal(t, "5 минут назад, в 11:55:00", plain(r.TextWithDate()))
}

func TestDescribeDoesNotMutate(t *testing.T) {
	f := newFormatter("2024-01-10 12:00:00")
	subject := at(t, "2024-01-09 10:00:00")
	ref := at(t, "2024-01-12 12:00:00")

	f.Describe(subject, ref, AllUnits)
	assert.Equal(t, "2024-01-09 10:00:00.000000", subject.Format())
	assert.Equal(t, "2024-01-12 12:00:00.000000", ref.Format())
}

func TestParseUnits(t *testing.T) {
	u, err := ParseUnits("63")
	require.NoError(t, err)
	assert.Equal(t, DefaultRangeMask, u)

	u, err = ParseUnits("days,months, years")
	require.NoError(t, err)
	assert.Equal(t, DateRangeMask, u)

	u, err = ParseUnits("часы|мин")
	require.NoError(t, err)
	assert.Equal(t, Hours|Minutes, u)

	u, err = ParseUnits("")
	require.NoError(t, err)
	assert.Equal(t, Unit(0), u)

	_, err = ParseUnits("parsecs")
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = ParseUnits("1000")
	assert.ErrorIs(t, err, common.ErrRange)

	assert.Equal(t, "days", BucketDays.String())
	assert.Equal(t, "unknown", Bucket(42).String())
}

func TestThirtyDaysInLongMonth(t *testing.T) {
	f := newFormatter("2024-01-31 12:00:00")

	r := f.Describe(at(t, "2024-01-01 12:00:00"), nil, 0)
	assert.Equal(t, BucketMonths, r.Bucket)
	assert.Equal(t, 0, r.Interval.Months)
	assert.Equal(t, "месяц назад", plain(r.Text))
	assert.True(t, strings.HasPrefix(plain(r.Smart), "месяц назад, 1 января"), r.Smart)

	f = newFormatter("2024-01-01 12:00:00")
	r = f.Describe(at(t, "2024-01-31 12:00:00"), nil, 0)
	assert.Equal(t, "через месяц", plain(r.Text))
}

func TestShortDayAcrossDST(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("нет базы часовых поясов")
	}
	now := time.Date(2024, time.March, 31, 12, 0, 0, 0, berlin)
	f := New(Config{Clock: instant.Fixed(now), Location: berlin})

	subject, err := instant.Parse("2024-03-30 12:00:00", f.Options())
	require.NoError(t, err)

	r := f.Describe(subject, nil, 0)
	assert.Equal(t, BucketHours, r.Bucket)
	assert.Equal(t, "23 часа назад", plain(r.Text))
	assert.NotEqual(t, " назад", r.Text)
}
