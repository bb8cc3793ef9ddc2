package events

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/kogda-bot/internal/common"
	"serotonyl.ru/kogda-bot/internal/features/when"
)

// Handler обрабатывает команды событий.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик команд событий.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleAdd: /событие <дата> | <название>.
func (h *Handler) HandleAdd(ctx context.Context, chatID, userID int64, args []string) {
	input := strings.Join(args, " ")
	e, phrase, err := h.service.Add(ctx, userID, chatID, input)
	if err != nil {
		h.sendError(chatID, input, err)
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("📌 #%d %s — %s", e.ID, e.Title, phrase))
}

// HandleList: /события.
func (h *Handler) HandleList(ctx context.Context, chatID, userID int64) {
	lines, err := h.service.List(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("List events failed")
		h.sendMessage(chatID, "❌ Не удалось получить события, попробуйте позже")
		return
	}
	if len(lines) == 0 {
		h.sendMessage(chatID, "Событий нет. Добавить: /событие завтра 19:00 | Кино")
		return
	}
	h.sendMessage(chatID, "🗓 Ваши события:\n\n"+strings.Join(lines, "\n"))
}

// HandleDelete: /удалить <id>.
func (h *Handler) HandleDelete(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) != 1 {
		h.sendMessage(chatID, "Пример: /удалить 12")
		return
	}
	if err := h.service.Delete(ctx, userID, args[0]); err != nil {
		h.sendError(chatID, args[0], err)
		return
	}
	h.sendMessage(chatID, "🗑 Событие удалено")
}

func (h *Handler) sendError(chatID int64, input string, err error) {
	switch {
	case errors.Is(err, when.ErrUsage):
		h.sendMessage(chatID, "Пример: /событие 2024-12-31 23:00 | Новый год")
	case errors.Is(err, common.ErrEventNotFound),
		errors.Is(err, common.ErrEventInPast),
		errors.Is(err, common.ErrEventTitleTooLong),
		errors.Is(err, common.ErrTooManyEvents):
		h.sendMessage(chatID, "❌ "+userMessage(err))
	case errors.Is(err, common.ErrFormat):
		h.sendMessage(chatID, when.Fallback(input, err))
	default:
		log.WithError(err).Error("events command failed")
		h.sendMessage(chatID, "❌ Что-то пошло не так, попробуйте позже")
	}
}

// userMessage возвращает текст известной ошибки без технических подробностей.
func userMessage(err error) string {
	for _, known := range []error{
		common.ErrEventNotFound, common.ErrEventInPast,
		common.ErrEventTitleTooLong, common.ErrTooManyEvents,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return err.Error()
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
