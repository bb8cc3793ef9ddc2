// Package bot принимает апдейты (long polling), фильтрует их и маршрутизирует команды.
package bot

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/kogda-bot/internal/bot/filters"
	"serotonyl.ru/kogda-bot/internal/bot/middleware"
	"serotonyl.ru/kogda-bot/internal/config"
	"serotonyl.ru/kogda-bot/internal/features/admin"
	"serotonyl.ru/kogda-bot/internal/features/events"
	"serotonyl.ru/kogda-bot/internal/features/members"
	"serotonyl.ru/kogda-bot/internal/features/when"
)

const helpText = `Я перевожу даты в человеческий язык.

/когда <дата> — «вчера, в 15:00:00 (вторник)»
/когда <дата> | <дата> — разница и диапазон
/между <дата> | <дата> [| единицы] — «с 10 по 12 января»
/разница <дата> | <дата> — все разряды разницы
/склонение <число> <одна> <две> <пять> — «21 рубль»
/пояс [Europe/Moscow] — ваш часовой пояс
/событие <дата> | <название> — напомню заранее
/события, /удалить <id>

Даты: 2024-01-10 15:00, 10.01.2024, завтра, next friday, +2 hours`

// Handlers: обработчики фич, которые бот маршрутизирует.
type Handlers struct {
	Members *members.Handler
	When    *when.Handler
	Events  *events.Handler
	Admin   *admin.Handler
}

// Bot: главная структура бота, объединяющая все компоненты.
type Bot struct {
	api *tgbotapi.BotAPI
	cfg *config.Config

	chatFilter  *filters.ChatFilter
	rateLimiter *middleware.RateLimiter

	memberService *members.Service
	handlers      Handlers

	parser *CommandParser

	// ограничитель параллелизма обработки апдейтов
	inflight chan struct{}
}

// New создаёт новый экземпляр бота со всеми зависимостями.
func New(
	api *tgbotapi.BotAPI,
	cfg *config.Config,
	memberService *members.Service,
	handlers Handlers,
	chatFilter *filters.ChatFilter,
) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}

	return &Bot{
		api:           api,
		cfg:           cfg,
		chatFilter:    chatFilter,
		rateLimiter:   middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow, nil),
		memberService: memberService,
		handlers:      handlers,
		parser:        NewCommandParser(),
		inflight:      make(chan struct{}, maxInFlight),
	}
}

// Start запускает polling обновлений от Telegram. Блокируется до отмены ctx.
func (b *Bot) Start(ctx context.Context) {
	defer b.rateLimiter.Close()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.BotUpdateTimeoutSeconds

	updates := b.api.GetUpdatesChan(u)

	log.WithFields(log.Fields{
		"max_inflight": b.cfg.BotMaxInflight,
		"timeout_sec":  b.cfg.BotUpdateTimeoutSeconds,
	}).Info("Бот запущен и ожидает сообщения...")

	for {
		select {
		case <-ctx.Done():
			log.Info("Бот останавливается (ctx done)...")
			b.api.StopReceivingUpdates()
			return

		case update, ok := <-updates:
			if !ok {
				log.Info("Канал updates закрыт, бот остановлен")
				return
			}

			// лимит параллелизма
			b.inflight <- struct{}{}
			go func(upd tgbotapi.Update) {
				defer func() { <-b.inflight }()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

// handleUpdate обрабатывает одно обновление от Telegram.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer middleware.RecoverFromPanic(update)

	if update.Message == nil || update.Message.Text == "" {
		return
	}
	message := update.Message

	middleware.LogMessage(message)

	if !b.chatFilter.CheckAccess(message) {
		return
	}

	cmd, args, isCommand := b.parser.ParseCommand(message.Text)
	if !isCommand {
		return
	}

	if ok, wait := b.rateLimiter.Allow(message.From.ID); !ok {
		log.WithFields(log.Fields{
			"user_id": message.From.ID,
			"wait":    wait.Round(time.Second),
		}).Debug("rate limited")
		return
	}

	chatID := message.Chat.ID
	userID := message.From.ID

	if err := b.memberService.EnsureMember(ctx, userID,
		message.From.UserName, message.From.FirstName, message.From.LastName,
	); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("EnsureMember failed")
	}

	log.WithFields(log.Fields{
		"cmd":  cmd,
		"args": args,
	}).Debug("routing command")
	b.routeCommand(ctx, chatID, userID, message.Chat.IsPrivate(), cmd, args)
}

// routeCommand маршрутизирует команду к нужному обработчику.
func (b *Bot) routeCommand(ctx context.Context, chatID, userID int64, private bool, cmd string, args []string) {
	h := b.handlers

	switch cmd {
	case "start", "help", "помощь":
		b.sendMessage(chatID, helpText)

	case "когда", "when":
		h.When.HandleWhen(ctx, chatID, userID, args)
	case "между", "range":
		h.When.HandleBetween(ctx, chatID, userID, args)
	case "разница", "diff":
		h.When.HandleDifference(ctx, chatID, userID, args)
	case "склонение", "plural":
		h.When.HandleDecline(ctx, chatID, args)

	case "пояс", "tz":
		h.Members.HandleTimezone(ctx, chatID, userID, args)

	case "событие":
		if b.cfg.FeatureEventsEnabled {
			h.Events.HandleAdd(ctx, chatID, userID, args)
		}
	case "события":
		if b.cfg.FeatureEventsEnabled {
			h.Events.HandleList(ctx, chatID, userID)
		}
	case "удалить":
		if b.cfg.FeatureEventsEnabled {
			h.Events.HandleDelete(ctx, chatID, userID, args)
		}
	}

	// Служебные команды: только в личке
	if !private {
		return
	}
	switch cmd {
	case "login":
		h.Admin.HandleLogin(ctx, chatID, userID, args)
	case "logout":
		h.Admin.HandleLogout(ctx, chatID, userID)
	case "статистика":
		h.Admin.HandleStats(ctx, chatID, userID)
	case "очистка":
		h.Admin.HandleCleanup(ctx, chatID, userID)
	}
}

// sendMessage: утилита для отправки сообщений.
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}

// SendMessage отправляет сообщение в чат (для напоминаний).
func (b *Bot) SendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Warn("Не удалось отправить сообщение")
		return
	}
	log.WithField("chat_id", chatID).Debug("message sent")
}
