// Подбор формы слова для числительного
// по правилам русского языка: 1 / 2–4 / 0, 5+.
//
// Правила (d1: последняя цифра, d2: предпоследняя):
//   - дробное число (есть «.» или «,») → форма «2–4» (1,5 часа; 0,25 секунды)
//   - d1 == 1 и d2 != 1 → форма «1» (1, 21, 101, но НЕ 11)
//   - d1 в [2,3,4] и d2 != 1 → форма «2–4» (2, 23, 104, но НЕ 12–14)
//   - остальное → форма «0, 5+» (0, 5–20, 25, 111)

package common

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// NBSP: неразрывный пробел между числом и словом
	NBSP = "\u00a0"
	// GroupSeparator: разделитель разрядов (пробел в четверть кегля)
	GroupSeparator = "\u2005"
)

// Form: номер формы слова в парадигме.
type Form int

const (
	FormOne  Form = iota // 1, 21, 31
	FormFew              // 2–4, 22–24, дроби
	FormMany             // 0, 5–20, 25–30
)

// Paradigm: три формы слова и неизменяемая основа.
//
// Пример: Paradigm{Stem: "минут", One: "у", Few: "ы", Many: ""}
//
//	Format(1, true)  → "1 минуту"
//	Format(3, true)  → "3 минуты"
//	Format(11, true) → "11 минут"
type Paradigm struct {
	One  string `yaml:"one"`
	Few  string `yaml:"few"`
	Many string `yaml:"many"`
	Stem string `yaml:"stem"`
}

// NewParadigm собирает парадигму из упорядоченного списка ровно из 3 форм.
func NewParadigm(forms []string, stem string) (Paradigm, error) {
	if len(forms) != 3 {
		return Paradigm{}, fmt.Errorf("%w: нужно ровно 3 формы слова, передано %d", ErrInvalidArgument, len(forms))
	}
	return Paradigm{One: forms[0], Few: forms[1], Many: forms[2], Stem: stem}, nil
}

// Pick возвращает окончание для формы.
func (p Paradigm) Pick(f Form) string {
	switch f {
	case FormOne:
		return p.One
	case FormFew:
		return p.Few
	default:
		return p.Many
	}
}

// Word возвращает слово (основа + окончание) для целого n.
func (p Paradigm) Word(n int64) string {
	return p.Stem + p.Pick(FormOf(strconv.FormatInt(n, 10)))
}

// Format возвращает слово для n, при withNumber: с числом через неразрывный пробел.
func (p Paradigm) Format(n int64, withNumber bool) string {
	return p.render(strconv.FormatInt(n, 10), withNumber)
}

func (p Paradigm) render(numeral string, withNumber bool) string {
	word := p.Stem + p.Pick(FormOf(numeral))
	if !withNumber {
		return word
	}
	return GroupDigits(numeral) + NBSP + word
}

// FormOf выбирает форму по текстовой записи числительного.
func FormOf(numeral string) Form {
	if strings.ContainsAny(numeral, ".,") {
		return FormFew
	}

	digits := strings.TrimLeft(numeral, "+-")
	if digits == "" {
		return FormMany
	}

	last := digits[len(digits)-1]
	var beforeLast byte = '0'
	if len(digits) > 1 {
		beforeLast = digits[len(digits)-2]
	}

	if beforeLast == '1' {
		return FormMany
	}
	switch last {
	case '1':
		return FormOne
	case '2', '3', '4':
		return FormFew
	}
	return FormMany
}

var numericRe = regexp.MustCompile(`^[+-]?(\d+([.,]\d*)?|[.,]\d+)$`)

// NumeralOf приводит значение к текстовой записи числительного.
// Числа берутся как есть, нечисловая строка: по количеству символов,
// срез/массив/map берутся по длине, остальное даёт ErrInvalidArgument.
func NumeralOf(count any) (string, error) {
	switch v := count.(type) {
	case int:
		return strconv.Itoa(v), nil
	case int8:
		return strconv.FormatInt(int64(v), 10), nil
	case int16:
		return strconv.FormatInt(int64(v), 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case string:
		s := strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, v)
		if numericRe.MatchString(s) {
			return s, nil
		}
		return strconv.Itoa(utf8.RuneCountInString(s)), nil
	case nil:
		return "", fmt.Errorf("%w: для подбора формы слова нужно число, передан nil", ErrInvalidArgument)
	}

	rv := reflect.ValueOf(count)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return strconv.Itoa(rv.Len()), nil
	}
	return "", fmt.Errorf("%w: для подбора формы слова нужно число, передан %T", ErrInvalidArgument, count)
}

// Pluralize принимает count любого приводимого типа, ровно 3 формы слова.
//
// Примеры:
//
//	Pluralize(21, []string{"рубль", "рубля", "рублей"}, true, "") → "21 рубль"
//	Pluralize(0, []string{"рубль", "рубля", "рублей"}, false, "") → "рублей"
//	Pluralize(1.5, []string{"", "а", "ов"}, true, "час")        → "1.5 часа"
func Pluralize(count any, forms []string, printWithNumber bool, stem string) (string, error) {
	p, err := NewParadigm(forms, stem)
	if err != nil {
		return "", err
	}
	numeral, err := NumeralOf(count)
	if err != nil {
		return "", err
	}
	return p.render(numeral, printWithNumber), nil
}

// GroupDigits разбивает целую часть числа на разряды: "2350" → "2 350".
// Дробная часть и знак сохраняются.
func GroupDigits(numeral string) string {
	sign := ""
	if strings.HasPrefix(numeral, "-") || strings.HasPrefix(numeral, "+") {
		sign, numeral = numeral[:1], numeral[1:]
	}

	intPart, frac := numeral, ""
	if i := strings.IndexAny(numeral, ".,"); i >= 0 {
		intPart, frac = numeral[:i], numeral[i:]
	}

	if len(intPart) <= 3 {
		return sign + intPart + frac
	}

	var sb strings.Builder
	head := len(intPart) % 3
	if head > 0 {
		sb.WriteString(intPart[:head])
	}
	for i := head; i < len(intPart); i += 3 {
		if sb.Len() > 0 {
			sb.WriteString(GroupSeparator)
		}
		sb.WriteString(intPart[i : i+3])
	}
	return sign + sb.String() + frac
}
