package events

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/kogda-bot/internal/common"
	"serotonyl.ru/kogda-bot/internal/features/when"
	"serotonyl.ru/kogda-bot/internal/instant"
)

// store: то, что сервису нужно от хранилища.
type store interface {
	Create(ctx context.Context, e *Event) error
	ListUpcoming(ctx context.Context, userID int64, from time.Time) ([]*Event, error)
	CountUpcoming(ctx context.Context, userID int64, from time.Time) (int, error)
	Delete(ctx context.Context, id, userID int64) error
	DueReminders(ctx context.Context, from, until time.Time) ([]*Event, error)
	MarkReminded(ctx context.Context, id int64, at instant.Null) error
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// Limits: ограничения на события.
type Limits struct {
	MaxPerUser    int
	TitleMaxLen   int
	ReminderLead  time.Duration
	RetentionDays int
}

// Service управляет событиями пользователей.
type Service struct {
	repo    store
	dates   *when.Service
	members when.Locator
	limits  Limits
}

// NewService создаёт сервис событий.
func NewService(repo store, dates *when.Service, members when.Locator, limits Limits) *Service {
	return &Service{repo: repo, dates: dates, members: members, limits: limits}
}

func (s *Service) now() *instant.Instant {
	return s.dates.Formatter().Now()
}

// Add разбирает «<дата> | <название>» и сохраняет событие.
// Возвращает событие и фразу о том, когда оно наступит.
func (s *Service) Add(ctx context.Context, userID, chatID int64, input string) (*Event, string, error) {
	date, title, ok := strings.Cut(input, "|")
	title = strings.TrimSpace(title)
	if !ok || title == "" {
		return nil, "", when.ErrUsage
	}
	if utf8.RuneCountInString(title) > s.limits.TitleMaxLen {
		return nil, "", common.ErrEventTitleTooLong
	}

	loc := s.members.Location(ctx, userID)
	at, err := s.dates.Parse(date, loc)
	if err != nil {
		return nil, "", err
	}

	now := s.now()
	if instant.CompareIn(at, now, loc, false) < 0 {
		return nil, "", common.ErrEventInPast
	}

	n, err := s.repo.CountUpcoming(ctx, userID, now.Time())
	if err != nil {
		return nil, "", err
	}
	if n >= s.limits.MaxPerUser {
		return nil, "", common.ErrTooManyEvents
	}

	e := &Event{
		UserID:     userID,
		ChatID:     chatID,
		Title:      title,
		StartsAt:   at.Time(),
		DateOnly:   at.IsDateOnly(),
		RemindedAt: instant.Null{Location: loc},
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, "", err
	}

	log.WithFields(log.Fields{
		"user_id":   userID,
		"event_id":  e.ID,
		"starts_at": at.Format(),
	}).Info("Событие создано")

	return e, s.dates.Formatter().Describe(at, nil, 0).Smart, nil
}

// List возвращает будущие события пользователя строками «#id Название: когда».
func (s *Service) List(ctx context.Context, userID int64) ([]string, error) {
	loc := s.members.Location(ctx, userID)
	now := s.now()

	// События на весь день видны до конца своего дня
	from := now.In(loc).AsDate().Time()
	list, err := s.repo.ListUpcoming(ctx, userID, from)
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(list))
	for _, e := range list {
		if !e.DateOnly && e.StartsAt.Before(now.Time()) {
			continue
		}
		phrase := s.dates.Formatter().Describe(e.Instant(loc), nil, 0).Smart
		lines = append(lines, fmt.Sprintf("#%d %s — %s", e.ID, e.Title, phrase))
	}
	return lines, nil
}

// Delete удаляет событие пользователя.
func (s *Service) Delete(ctx context.Context, userID int64, rawID string) error {
	var id int64
	if _, err := fmt.Sscanf(strings.TrimPrefix(strings.TrimSpace(rawID), "#"), "%d", &id); err != nil || id <= 0 {
		return fmt.Errorf("%q: %w", rawID, common.ErrEventNotFound)
	}
	return s.repo.Delete(ctx, id, userID)
}

// SendReminders отправляет напоминания о событиях, до которых осталось
// не больше ReminderLead. Ошибка отправки одного напоминания не мешает остальным.
func (s *Service) SendReminders(ctx context.Context, send func(chatID int64, text string)) error {
	now := s.now()
	due, err := s.repo.DueReminders(ctx, now.Time(), now.Time().Add(s.limits.ReminderLead))
	if err != nil {
		return err
	}

	for _, e := range due {
		loc := s.members.Location(ctx, e.UserID)
		phrase := s.dates.Formatter().Describe(e.Instant(loc), nil, 0).Smart
		send(e.ChatID, fmt.Sprintf("⏰ %s — %s", e.Title, phrase))

		if err := s.repo.MarkReminded(ctx, e.ID, instant.Null{Instant: now, Valid: true, Location: loc}); err != nil {
			log.WithError(err).WithField("event_id", e.ID).Error("не удалось отметить напоминание")
		}
	}

	if len(due) > 0 {
		log.WithField("count", len(due)).Info("Напоминания отправлены")
	}
	return nil
}

// Cleanup удаляет события старше RetentionDays.
func (s *Service) Cleanup(ctx context.Context) (int64, error) {
	before, err := s.now().WithModify(fmt.Sprintf("-%d days", s.limits.RetentionDays))
	if err != nil {
		return 0, err
	}
	n, err := s.repo.DeleteOlderThan(ctx, before.Time())
	if err != nil {
		return 0, err
	}
	log.WithField("deleted", n).Info("Старые события удалены")
	return n, nil
}
