// Package when отвечает на вопросы о датах: «когда это было», «сколько между»,
// «как просклонять». Вся логика здесь не зависит от Telegram и базы.
package when

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"serotonyl.ru/kogda-bot/internal/common"
	"serotonyl.ru/kogda-bot/internal/humanize"
	"serotonyl.ru/kogda-bot/internal/instant"
)

// ErrUsage: команде не хватает аргументов.
var ErrUsage = errors.New("неверный формат команды")

var dateOnlyRe = regexp.MustCompile(`^(?:\d{4}-\d{2}-\d{2}|\d{1,2}\.\d{1,2}\.\d{4})$`)

// Русские слова, которые понимает разбор дат.
var words = map[string]string{
	"сейчас":      "now",
	"сегодня":     "today",
	"полночь":     "midnight",
	"полдень":     "noon",
	"завтра":      "tomorrow",
	"вчера":       "yesterday",
	"послезавтра": "tomorrow +1 day",
	"позавчера":   "yesterday -1 day",
}

// Service строит ответы на команды о датах.
type Service struct {
	f *humanize.Formatter
}

// NewService создаёт сервис поверх форматтера.
func NewService(f *humanize.Formatter) *Service {
	return &Service{f: f}
}

// Formatter возвращает форматтер сервиса.
func (s *Service) Formatter() *humanize.Formatter {
	return s.f
}

// Parse разбирает дату пользователя в его поясе. Даты без времени
// («2024-01-10», «10.01.2024») становятся датами без времени суток.
func (s *Service) Parse(input string, loc *time.Location) (*instant.Instant, error) {
	input = strings.TrimSpace(input)
	if w, ok := words[strings.ToLower(input)]; ok {
		input = w
	}

	opts := s.f.Options()
	if loc != nil {
		opts.Location = loc
	}
	i, err := instant.Parse(input, opts)
	if err != nil {
		return nil, err
	}
	if dateOnlyRe.MatchString(input) {
		return i.AsDate(), nil
	}
	return i, nil
}

// When отвечает на «/когда <дата> [| <дата>]» умной фразой относительно сейчас
// или диапазон с разницей, если указана вторая дата.
func (s *Service) When(input string, loc *time.Location) (string, error) {
	parts := splitArgs(input)
	if len(parts) == 0 || len(parts) > 2 {
		return "", ErrUsage
	}

	subject, err := s.Parse(parts[0], loc)
	if err != nil {
		return "", err
	}
	if len(parts) == 1 {
		return s.f.Describe(subject, nil, 0).Smart, nil
	}

	ref, err := s.Parse(parts[1], loc)
	if err != nil {
		return "", err
	}
	return s.f.Describe(subject, ref, humanize.Days).Text, nil
}

// Between отвечает на «/между <a> | <b> [| <единицы>]» диапазоном («с 10 по 12 января»).
func (s *Service) Between(input string, loc *time.Location) (string, error) {
	parts := splitArgs(input)
	if len(parts) < 2 || len(parts) > 3 {
		return "", ErrUsage
	}

	from, err := s.Parse(parts[0], loc)
	if err != nil {
		return "", err
	}
	to, err := s.Parse(parts[1], loc)
	if err != nil {
		return "", err
	}

	var mask humanize.Unit
	if len(parts) == 3 {
		if mask, err = humanize.ParseUnits(parts[2]); err != nil {
			return "", err
		}
	}
	return s.f.Range(from, to, mask, true, ""), nil
}

// Difference отвечает на «/разница <a> | <b>» всеми разрядами разницы и полными величинами.
func (s *Service) Difference(input string, loc *time.Location) (string, error) {
	parts := splitArgs(input)
	if len(parts) != 2 {
		return "", ErrUsage
	}

	a, err := s.Parse(parts[0], loc)
	if err != nil {
		return "", err
	}
	b, err := s.Parse(parts[1], loc)
	if err != nil {
		return "", err
	}

	r := s.f.Describe(a, b, 0)
	if r.Interval.IsZero() {
		return "Даты совпадают", nil
	}

	var sb strings.Builder
	sb.WriteString(r.AllCounters(0))
	sb.WriteString("\nили " + r.Totals.Days)
	sb.WriteString("\nили " + r.Totals.Hours)
	sb.WriteString("\nили " + r.Totals.Minutes)
	return sb.String(), nil
}

// Decline отвечает на «/склонение <число> <одна> <две> <пять>», например «21 рубль».
func (s *Service) Decline(args []string) (string, error) {
	if len(args) != 4 {
		return "", ErrUsage
	}
	return common.Pluralize(args[0], args[1:], true, "")
}

// Fallback: что показать вместо фразы, если дату разобрать не удалось.
func Fallback(input string, err error) string {
	switch {
	case errors.Is(err, ErrUsage):
		return "🤷 Не понял команду: " + input
	case errors.Is(err, common.ErrFormat):
		return fmt.Sprintf("🤷 Не понял дату: «%s»", strings.TrimSpace(input))
	}
	return strings.TrimSpace(input)
}

// splitArgs делит аргументы команды по «|» и убирает пустые части.
func splitArgs(input string) []string {
	var out []string
	for _, p := range strings.Split(input, "|") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
