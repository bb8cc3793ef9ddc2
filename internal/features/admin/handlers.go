package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/kogda-bot/internal/common"
)

// Handler обрабатывает служебные команды. Все они работают только в личке.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик служебных команд.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleLogin: /login <пароль>.
func (h *Handler) HandleLogin(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) == 0 {
		h.sendMessage(chatID, "🔐 Использование: /login <пароль>")
		return
	}
	if err := h.service.VerifyPassword(ctx, userID, strings.Join(args, " ")); err != nil {
		h.sendError(chatID, userID, err)
		return
	}
	h.sendMessage(chatID, "✅ Аутентификация успешна. Команды: /статистика, /очистка, /logout")
}

// HandleLogout: /logout.
func (h *Handler) HandleLogout(ctx context.Context, chatID, userID int64) {
	if err := h.service.Logout(ctx, userID); err != nil {
		h.sendError(chatID, userID, err)
		return
	}
	h.sendMessage(chatID, "👋 Сессия закрыта")
}

// HandleStats: /статистика.
func (h *Handler) HandleStats(ctx context.Context, chatID, userID int64) {
	if err := h.service.Authorize(ctx, userID); err != nil {
		h.sendError(chatID, userID, err)
		return
	}
	st, err := h.service.Stats(ctx)
	if err != nil {
		h.sendError(chatID, userID, err)
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("📊 Участники: %s\nСобытия: %s (впереди: %s)",
		common.FormatNumber(st.Members), common.FormatNumber(st.Events), common.FormatNumber(st.UpcomingEvents)))
}

// HandleCleanup обрабатывает /очистка и удаляет старые события и истёкшие сессии.
func (h *Handler) HandleCleanup(ctx context.Context, chatID, userID int64) {
	if err := h.service.Authorize(ctx, userID); err != nil {
		h.sendError(chatID, userID, err)
		return
	}
	events, sessions, err := h.service.Cleanup(ctx)
	if err != nil {
		h.sendError(chatID, userID, err)
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("🧹 Удалено событий: %d, сессий: %d", events, sessions))
}

func (h *Handler) sendError(chatID, userID int64, err error) {
	for _, known := range []error{
		common.ErrNotAdmin, common.ErrWrongPassword,
		common.ErrTooManyAttempts, common.ErrSessionExpired,
	} {
		if errors.Is(err, known) {
			h.sendMessage(chatID, "❌ "+known.Error())
			return
		}
	}
	log.WithError(err).WithField("user_id", userID).Error("admin command failed")
	h.sendMessage(chatID, "❌ Ошибка, подробности в логах")
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}
