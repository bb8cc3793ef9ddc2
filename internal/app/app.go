// Package app собирает приложение: пул БД, форматтер дат, репозитории,
// сервисы, обработчики и планировщик.
package app

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/kogda-bot/internal/bot"
	"serotonyl.ru/kogda-bot/internal/bot/filters"
	"serotonyl.ru/kogda-bot/internal/common"
	"serotonyl.ru/kogda-bot/internal/config"
	"serotonyl.ru/kogda-bot/internal/db/postgres"
	"serotonyl.ru/kogda-bot/internal/features/admin"
	"serotonyl.ru/kogda-bot/internal/features/events"
	"serotonyl.ru/kogda-bot/internal/features/members"
	"serotonyl.ru/kogda-bot/internal/features/when"
	"serotonyl.ru/kogda-bot/internal/humanize"
	"serotonyl.ru/kogda-bot/internal/jobs"
	"serotonyl.ru/kogda-bot/internal/locale"
)

// App содержит все компоненты приложения.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	DB        *pgxpool.Pool
	BotAPI    *tgbotapi.BotAPI
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен: компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. Язык и время ===
	formatter, err := NewFormatter(cfg)
	if err != nil {
		return nil, err
	}

	// === 2. База данных ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}

	// === 3. Telegram Bot API ===
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}
	botAPI.Debug = cfg.AppEnv == "development"
	log.Infof("Авторизован как @%s", botAPI.Self.UserName)

	// === 4. Репозитории ===
	memberRepo := members.NewRepository(pool)
	eventRepo := events.NewRepository(pool)
	adminRepo := admin.NewRepository(pool)

	// === 5. Сервисы ===
	memberService := members.NewService(memberRepo, formatter.Options().Location)
	whenService := when.NewService(formatter)
	eventService := events.NewService(eventRepo, whenService, memberService, events.Limits{
		MaxPerUser:    cfg.EventsMaxPerUser,
		TitleMaxLen:   cfg.EventsTitleMaxLen,
		ReminderLead:  cfg.ReminderLead,
		RetentionDays: cfg.EventsRetentionDays,
	})
	adminService := admin.NewService(adminRepo, memberService, eventRepo, eventService, cfg)

	// === 6. Обработчики ===
	handlers := bot.Handlers{
		Members: members.NewHandler(memberService, botAPI),
		When:    when.NewHandler(whenService, memberService, botAPI),
		Events:  events.NewHandler(eventService, botAPI),
		Admin:   admin.NewHandler(adminService, botAPI),
	}

	// === 7. Собираем бота ===
	b := bot.New(botAPI, cfg, memberService, handlers, filters.NewChatFilter(cfg.AllowedChatIDs))

	// === 8. Планировщик задач ===
	scheduler := jobs.NewScheduler(formatter.Options().Location, eventService, b.SendMessage,
		cfg.FeatureEventsEnabled && cfg.FeatureRemindersEnabled)

	return &App{
		Bot:       b,
		Scheduler: scheduler,
		DB:        pool,
		BotAPI:    botAPI,
	}, nil
}

// NewFormatter создаёт форматтер фраз по конфигурации: язык, файл
// переопределений, пояс и учёт микросекунд.
func NewFormatter(cfg *config.Config) (*humanize.Formatter, error) {
	l, err := locale.Lookup(cfg.AppLocale)
	if err != nil {
		return nil, fmt.Errorf("APP_LOCALE: %w", err)
	}
	if cfg.AppLocaleFile != "" {
		if l, err = locale.LoadFile(cfg.AppLocaleFile); err != nil {
			return nil, fmt.Errorf("APP_LOCALE_FILE: %w", err)
		}
		log.WithField("file", cfg.AppLocaleFile).Info("Словарь фраз загружен из файла")
	}

	loc, err := common.LoadLocation(cfg.AppTimezone)
	if err != nil {
		return nil, fmt.Errorf("APP_TIMEZONE: %w", err)
	}

	return humanize.New(humanize.Config{
		Locale:            l,
		Location:          loc,
		TrackMicroseconds: cfg.AppTrackMicroseconds,
		OmitCurrentYear:   cfg.AppOmitCurrentYear,
	}), nil
}
