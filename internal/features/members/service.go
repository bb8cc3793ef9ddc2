package members

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/kogda-bot/internal/common"
)

// Service управляет участниками.
type Service struct {
	repo     *Repository
	fallback *time.Location // пояс приложения для тех, кого ещё нет в базе
}

// NewService создаёт сервис участников.
func NewService(repo *Repository, fallback *time.Location) *Service {
	if fallback == nil {
		fallback = common.MoscowLocation()
	}
	return &Service{repo: repo, fallback: fallback}
}

// EnsureMember регистрирует пользователя или обновляет его имя.
// Вызывается на каждое сообщение.
func (s *Service) EnsureMember(ctx context.Context, userID int64, username, firstName, lastName string) error {
	exists, err := s.repo.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if exists {
		return s.repo.UpdateInfo(ctx, userID, UpdateInfo{
			Username:  username,
			FirstName: firstName,
			LastName:  lastName,
		})
	}

	member := &Member{
		UserID:    userID,
		Username:  username,
		FirstName: firstName,
		LastName:  lastName,
		Timezone:  s.fallback.String(),
	}
	if err := s.repo.Create(ctx, member); err != nil {
		return fmt.Errorf("ошибка регистрации участника: %w", err)
	}

	log.WithFields(log.Fields{
		"user_id":  userID,
		"username": username,
	}).Info("Новый участник зарегистрирован")
	return nil
}

// IsMember проверяет, есть ли пользователь в базе.
func (s *Service) IsMember(ctx context.Context, userID int64) (bool, error) {
	return s.repo.Exists(ctx, userID)
}

// GetByUserID возвращает участника по Telegram user ID.
func (s *Service) GetByUserID(ctx context.Context, userID int64) (*Member, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// Count: сколько всего участников.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// Location возвращает пояс пользователя. Неизвестные пользователи
// и ошибки базы дают пояс приложения.
func (s *Service) Location(ctx context.Context, userID int64) *time.Location {
	m, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, common.ErrUserNotFound) {
			log.WithError(err).WithField("user_id", userID).Warn("не удалось прочитать пояс участника")
		}
		return s.fallback
	}
	loc, err := ResolveTimezone(m.Timezone)
	if err != nil {
		return s.fallback
	}
	return loc
}

// SetTimezone сохраняет пояс пользователя.
func (s *Service) SetTimezone(ctx context.Context, userID int64, name string) (*time.Location, error) {
	loc, err := ResolveTimezone(name)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateTimezone(ctx, userID, loc.String()); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"user_id":  userID,
		"timezone": loc.String(),
	}).Info("Пояс участника изменён")
	return loc, nil
}

// aliases: короткие русские имена популярных поясов.
var aliases = map[string]string{
	"мск":          "Europe/Moscow",
	"москва":       "Europe/Moscow",
	"калининград":  "Europe/Kaliningrad",
	"самара":       "Europe/Samara",
	"екатеринбург": "Asia/Yekaterinburg",
	"омск":         "Asia/Omsk",
	"новосибирск":  "Asia/Novosibirsk",
	"красноярск":   "Asia/Krasnoyarsk",
	"иркутск":      "Asia/Irkutsk",
	"якутск":       "Asia/Yakutsk",
	"владивосток":  "Asia/Vladivostok",
	"магадан":      "Asia/Magadan",
	"камчатка":     "Asia/Kamchatka",
	"utc":          "UTC",
}

// ResolveTimezone превращает имя пояса («Europe/Moscow», «мск», «Новосибирск») в *time.Location.
func ResolveTimezone(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("пустое имя: %w", common.ErrUnknownTimezone)
	}
	if full, ok := aliases[strings.ToLower(name)]; ok {
		name = full
	}
	loc, err := common.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", name, common.ErrUnknownTimezone)
	}
	return loc, nil
}
