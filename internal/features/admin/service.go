package admin

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/argon2"

	"serotonyl.ru/kogda-bot/internal/common"
	"serotonyl.ru/kogda-bot/internal/config"
	"serotonyl.ru/kogda-bot/internal/instant"
)

// MemberCounter считает участников.
type MemberCounter interface {
	Count(ctx context.Context) (int64, error)
}

// EventCounter считает события.
type EventCounter interface {
	Count(ctx context.Context, now time.Time) (total, upcoming int64, err error)
}

// EventCleaner удаляет старые события.
type EventCleaner interface {
	Cleanup(ctx context.Context) (int64, error)
}

// sessionStore: то, что сервису нужно от хранилища сессий.
type sessionStore interface {
	OpenSession(ctx context.Context, s *AdminSession) error
	ExtendSession(ctx context.Context, userID int64, now, until time.Time) (bool, error)
	CloseSessions(ctx context.Context, userID int64) (int64, error)
	RecordAttempt(ctx context.Context, userID int64, at time.Time, success bool) error
	FailedAttemptsSince(ctx context.Context, userID int64, since time.Time) (int, error)
	Purge(ctx context.Context, now, attemptsBefore time.Time) (int64, error)
}

// Окно, в котором считаются неудачные попытки входа
const lockoutWindow = time.Hour

// Service управляет входом администраторов и служебными командами.
type Service struct {
	repo    sessionStore
	members MemberCounter
	events  EventCounter
	cleaner EventCleaner
	cfg     *config.Config
	clock   instant.Clock
}

// NewService создаёт сервис админки.
func NewService(repo sessionStore, members MemberCounter, events EventCounter, cleaner EventCleaner, cfg *config.Config) *Service {
	return &Service{
		repo:    repo,
		members: members,
		events:  events,
		cleaner: cleaner,
		cfg:     cfg,
		clock:   instant.SystemClock,
	}
}

// VerifyPassword проверяет пароль администратора (Argon2id) и открывает сессию
// на AdminSessionTTL. После AdminMaxAttempts неудачных попыток за час вход закрыт.
func (s *Service) VerifyPassword(ctx context.Context, userID int64, password string) error {
	if !s.cfg.IsAdmin(userID) {
		return common.ErrNotAdmin
	}
	now := s.clock.Now()

	failed, err := s.repo.FailedAttemptsSince(ctx, userID, now.Add(-lockoutWindow))
	if err != nil {
		return err
	}
	if failed >= s.cfg.AdminMaxAttempts {
		return common.ErrTooManyAttempts
	}

	match := verifyArgon2id(password, s.cfg.AdminPasswordHash)
	if err := s.repo.RecordAttempt(ctx, userID, now, match); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("не удалось записать попытку входа")
	}
	if !match {
		return common.ErrWrongPassword
	}

	session := &AdminSession{
		UserID:          userID,
		SessionToken:    generateSecureToken(),
		AuthenticatedAt: now,
		ExpiresAt:       now.Add(s.cfg.AdminSessionTTL),
		LastActivity:    now,
		IsActive:        true,
	}
	if err := s.repo.OpenSession(ctx, session); err != nil {
		return err
	}
	log.WithField("user_id", userID).Info("Администратор вошёл")
	return nil
}

// Authorize пропускает администратора с живой сессией и продлевает её
// на AdminSessionTTL от текущего момента.
func (s *Service) Authorize(ctx context.Context, userID int64) error {
	if !s.cfg.IsAdmin(userID) {
		return common.ErrNotAdmin
	}
	now := s.clock.Now()
	alive, err := s.repo.ExtendSession(ctx, userID, now, now.Add(s.cfg.AdminSessionTTL))
	if err != nil {
		return err
	}
	if !alive {
		return common.ErrSessionExpired
	}
	return nil
}

// Logout закрывает сессии пользователя.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	_, err := s.repo.CloseSessions(ctx, userID)
	return err
}

// Stats собирает сводку по базе.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	members, err := s.members.Count(ctx)
	if err != nil {
		return nil, err
	}
	total, upcoming, err := s.events.Count(ctx, s.clock.Now())
	if err != nil {
		return nil, err
	}
	return &Stats{Members: members, Events: total, UpcomingEvents: upcoming}, nil
}

// Cleanup удаляет старые события и истёкшие сессии.
func (s *Service) Cleanup(ctx context.Context) (events, sessions int64, err error) {
	if events, err = s.cleaner.Cleanup(ctx); err != nil {
		return 0, 0, err
	}
	now := s.clock.Now()
	if sessions, err = s.repo.Purge(ctx, now, now.Add(-lockoutWindow)); err != nil {
		return events, 0, err
	}
	return events, sessions, nil
}

// verifyArgon2id проверяет пароль по хешу Argon2id.
// Формат хеша: $argon2id$v=19$m=65536,t=3,p=2$<salt_base64>$<hash_base64>
func verifyArgon2id(password, encodedHash string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		log.Error("Некорректный формат хеша Argon2id")
		return false
	}

	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		log.WithError(err).Error("Ошибка парсинга параметров Argon2id")
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		log.WithError(err).Error("Ошибка декодирования соли")
		return false
	}
	expectedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		log.WithError(err).Error("Ошибка декодирования хеша")
		return false
	}

	computedHash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(expectedHash)))

	// Сравнение в постоянном времени
	return subtle.ConstantTimeCompare(computedHash, expectedHash) == 1
}

// Параметры новых хешей Argon2id
const (
	hashMemory      uint32 = 64 * 1024
	hashIterations  uint32 = 3
	hashParallelism uint8  = 2
	hashKeyLength   uint32 = 32
	hashSaltLength         = 16
)

// HashPassword возвращает хеш для ADMIN_PASSWORD_HASH в формате,
// который понимает VerifyPassword.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("пустой пароль")
	}
	salt := make([]byte, hashSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("генерация соли: %w", err)
	}
	hash := argon2.IDKey([]byte(password), salt, hashIterations, hashMemory, hashParallelism, hashKeyLength)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, hashMemory, hashIterations, hashParallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash)), nil
}

// generateSecureToken генерирует случайный токен сессии.
func generateSecureToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return base64.URLEncoding.EncodeToString(b)
}
