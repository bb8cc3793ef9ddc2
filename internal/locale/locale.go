// Package locale содержит таблицы языка: названия месяцев и дней недели,
// парадигмы единиц времени и готовые обороты («вчера», «полчаса назад»).
// Русская таблица идёт по умолчанию; её можно переопределить YAML-файлом.
package locale

import (
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v2"

	"serotonyl.ru/kogda-bot/internal/common"
)

// Directed хранит оборот в двух вариантах, о прошлом и о будущем.
type Directed struct {
	Past   string `yaml:"past"`
	Future string `yaml:"future"`
}

// Pick возвращает вариант по направлению.
func (d Directed) Pick(wasPast bool) string {
	if wasPast {
		return d.Past
	}
	return d.Future
}

// Units: парадигмы единиц времени.
type Units struct {
	Microseconds common.Paradigm `yaml:"microseconds"`
	Seconds      common.Paradigm `yaml:"seconds"`
	Minutes      common.Paradigm `yaml:"minutes"`
	Hours        common.Paradigm `yaml:"hours"`
	Days         common.Paradigm `yaml:"days"`
	Months       common.Paradigm `yaml:"months"`
	Years        common.Paradigm `yaml:"years"`
	Centuries    common.Paradigm `yaml:"centuries"`
	Millennia    common.Paradigm `yaml:"millennia"`
}

// Words: отдельные слова и неизменяемые фразы.
type Words struct {
	Ago      string `yaml:"ago"`
	In       string `yaml:"in"`
	And      string `yaml:"and"`
	At       string `yaml:"at"`
	JustNow  string `yaml:"just_now"`
	Today    string `yaml:"today"`
	Midnight string `yaml:"midnight"`

	HourAndHalf  string `yaml:"hour_and_half"`
	Day          string `yaml:"day"`
	DayAndHalf   string `yaml:"day_and_half"`
	Month        string `yaml:"month"`
	OneMonth     string `yaml:"one_month"`
	MonthAndHalf string `yaml:"month_and_half"`
	Year         string `yaml:"year"`
	YearAndHalf  string `yaml:"year_and_half"`
	Week         string `yaml:"week"`
	TwoWeeks     string `yaml:"two_weeks"`

	// Подписи в диапазонах: «2024 года», «21 века»
	YearOf        string `yaml:"year_of"`
	CenturyOf     string `yaml:"century_of"`
	MillenniumOf  string `yaml:"millennium_of"`
	From          string `yaml:"from"`
	FromBeforeTwo string `yaml:"from_before_two"`
	To            string `yaml:"to"`
}

// Idioms: обороты, которые сами несут направление.
type Idioms struct {
	HalfHour          Directed `yaml:"half_hour"`
	LessThanHour      Directed `yaml:"less_than_hour"`
	LessThanTwoHours  Directed `yaml:"less_than_two_hours"`
	LessThanDay       Directed `yaml:"less_than_day"`
	AdjacentDay       Directed `yaml:"adjacent_day"`
	SecondDay         Directed `yaml:"second_day"`
	LessThanTwoDays   Directed `yaml:"less_than_two_days"`
	LessThanTwoMonths Directed `yaml:"less_than_two_months"`
	MoreThanYear      Directed `yaml:"more_than_year"`
	LessThanTwoYears  Directed `yaml:"less_than_two_years"`
}

// Locale: полная таблица языка.
// Пробелы внутри фраз после Prepare заменены на неразрывные.
type Locale struct {
	Tag              string   `yaml:"tag"`
	MonthsNominative []string `yaml:"months_nominative"`
	MonthsGenitive   []string `yaml:"months_genitive"`
	// Дни недели начиная с понедельника
	Weekdays []string `yaml:"weekdays"`
	Units    Units    `yaml:"units"`
	Words    Words    `yaml:"words"`
	Idioms   Idioms   `yaml:"idioms"`

	lang language.Tag
}

// Russian возвращает русскую таблицу (новая копия на каждый вызов).
func Russian() *Locale {
	l := &Locale{
		Tag: "ru",
		MonthsNominative: []string{
			"январь", "февраль", "март", "апрель", "май", "июнь",
			"июль", "август", "сентябрь", "октябрь", "ноябрь", "декабрь",
		},
		MonthsGenitive: []string{
			"января", "февраля", "марта", "апреля", "мая", "июня",
			"июля", "августа", "сентября", "октября", "ноября", "декабря",
		},
		Weekdays: []string{
			"понедельник", "вторник", "среда", "четверг", "пятница", "суббота", "воскресенье",
		},
		Units: Units{
			Microseconds: common.Paradigm{Stem: "микросекунд", One: "у", Few: "ы", Many: ""},
			Seconds:      common.Paradigm{Stem: "секунд", One: "у", Few: "ы", Many: ""},
			Minutes:      common.Paradigm{Stem: "минут", One: "у", Few: "ы", Many: ""},
			Hours:        common.Paradigm{Stem: "час", One: "", Few: "а", Many: "ов"},
			Days:         common.Paradigm{One: "день", Few: "дня", Many: "дней"},
			Months:       common.Paradigm{Stem: "месяц", One: "", Few: "а", Many: "ев"},
			Years:        common.Paradigm{One: "год", Few: "года", Many: "лет"},
			Centuries:    common.Paradigm{Stem: "век", One: "", Few: "а", Many: "ов"},
			Millennia:    common.Paradigm{Stem: "тысячелети", One: "е", Few: "я", Many: "й"},
		},
		Words: Words{
			Ago:      "назад",
			In:       "через",
			And:      "и",
			At:       "в",
			JustNow:  "только что",
			Today:    "сегодня",
			Midnight: "в полночь",

			HourAndHalf:  "полтора часа",
			Day:          "день",
			DayAndHalf:   "полтора дня",
			Month:        "месяц",
			OneMonth:     "один месяц",
			MonthAndHalf: "полтора месяца",
			Year:         "год",
			YearAndHalf:  "полтора года",
			Week:         "неделю",
			TwoWeeks:     "2 недели",

			YearOf:        "года",
			CenturyOf:     "века",
			MillenniumOf:  "тысячелетия",
			From:          "с",
			FromBeforeTwo: "со",
			To:            "по",
		},
		Idioms: Idioms{
			HalfHour:          Directed{Past: "полчаса назад", Future: "через полчаса"},
			LessThanHour:      Directed{Past: "менее часа назад", Future: "менее чем через час"},
			LessThanTwoHours:  Directed{Past: "менее 2-х часов назад", Future: "менее чем через 2 часа"},
			LessThanDay:       Directed{Past: "менее дня назад", Future: "менее чем через день"},
			AdjacentDay:       Directed{Past: "вчера", Future: "завтра"},
			SecondDay:         Directed{Past: "позавчера", Future: "послезавтра"},
			LessThanTwoDays:   Directed{Past: "менее 2-х дней назад", Future: "менее чем через 2 дня"},
			LessThanTwoMonths: Directed{Past: "менее 2-х месяцев назад", Future: "менее чем через 2 месяца"},
			MoreThanYear:      Directed{Past: "более года назад", Future: "более чем через год"},
			LessThanTwoYears:  Directed{Past: "менее 2-х лет назад", Future: "менее чем через 2 года"},
		},
	}
	// Встроенная таблица заведомо корректна
	if err := l.Prepare(); err != nil {
		panic(err)
	}
	return l
}

// LoadFile читает YAML поверх русской таблицы: указанные в файле поля
// заменяют значения по умолчанию, остальные остаются русскими.
func LoadFile(path string) (*Locale, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение таблицы языка %s: %w", path, err)
	}

	l := Russian()
	if err := yaml.Unmarshal(data, l); err != nil {
		return nil, fmt.Errorf("%w: таблица языка %s: %v", common.ErrFormat, path, err)
	}
	if err := l.Prepare(); err != nil {
		return nil, fmt.Errorf("таблица языка %s: %w", path, err)
	}
	return l, nil
}

// Lookup возвращает встроенную таблицу для BCP 47 тега («ru», «ru-RU»).
func Lookup(tag string) (*Locale, error) {
	if tag == "" {
		return Russian(), nil
	}
	t, err := language.Parse(tag)
	if err != nil {
		return nil, fmt.Errorf("%w: тег языка %q: %v", common.ErrInvalidArgument, tag, err)
	}

	matcher := language.NewMatcher([]language.Tag{language.Russian})
	_, _, conf := matcher.Match(t)
	if conf == language.No {
		return nil, fmt.Errorf("%w: нет таблицы для языка %q", common.ErrInvalidArgument, tag)
	}
	return Russian(), nil
}

// Prepare проверяет таблицу и заменяет пробелы во фразах на неразрывные.
func (l *Locale) Prepare() error {
	if len(l.MonthsNominative) != 12 || len(l.MonthsGenitive) != 12 {
		return fmt.Errorf("%w: нужно 12 названий месяцев", common.ErrInvalidArgument)
	}
	if len(l.Weekdays) != 7 {
		return fmt.Errorf("%w: нужно 7 названий дней недели", common.ErrInvalidArgument)
	}

	t, err := language.Parse(l.Tag)
	if err != nil {
		return fmt.Errorf("%w: тег языка %q: %v", common.ErrInvalidArgument, l.Tag, err)
	}
	l.lang = t

	for _, s := range []*string{
		&l.Words.JustNow, &l.Words.Midnight, &l.Words.HourAndHalf, &l.Words.DayAndHalf,
		&l.Words.OneMonth, &l.Words.MonthAndHalf, &l.Words.YearAndHalf, &l.Words.TwoWeeks,
	} {
		*s = nbsp(*s)
	}
	for _, d := range []*Directed{
		&l.Idioms.HalfHour, &l.Idioms.LessThanHour, &l.Idioms.LessThanTwoHours,
		&l.Idioms.LessThanDay, &l.Idioms.AdjacentDay, &l.Idioms.SecondDay,
		&l.Idioms.LessThanTwoDays, &l.Idioms.LessThanTwoMonths,
		&l.Idioms.MoreThanYear, &l.Idioms.LessThanTwoYears,
	} {
		d.Past, d.Future = nbsp(d.Past), nbsp(d.Future)
	}
	return nil
}

// Language возвращает разобранный тег языка.
func (l *Locale) Language() language.Tag {
	return l.lang
}

// Month возвращает название месяца в родительном падеже («января») или в именительном.
func (l *Locale) Month(m time.Month, genitive bool) string {
	if genitive {
		return l.MonthsGenitive[m-1]
	}
	return l.MonthsNominative[m-1]
}

// Weekday: название дня недели.
func (l *Locale) Weekday(d time.Weekday) string {
	// time.Sunday == 0, а таблица начинается с понедельника
	return l.Weekdays[(int(d)+6)%7]
}

// Direct оборачивает фразу направлением: «… назад» или «через …».
func (l *Locale) Direct(text string, wasPast bool) string {
	if wasPast {
		return text + common.NBSP + l.Words.Ago
	}
	return l.Words.In + common.NBSP + text
}

func nbsp(s string) string {
	return strings.ReplaceAll(s, " ", common.NBSP)
}
