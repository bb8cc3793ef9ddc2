package members

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/kogda-bot/internal/common"
	"serotonyl.ru/kogda-bot/internal/instant"
)

// Handler обрабатывает команды участников.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик команд участников.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleTimezone обрабатывает /пояс [имя]. Без аргумента показывает текущий пояс, с аргументом меняет его.
func (h *Handler) HandleTimezone(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) == 0 {
		loc := h.service.Location(ctx, userID)
		h.sendMessage(chatID, fmt.Sprintf("🕰 Ваш пояс: %s, сейчас %s\nСменить: /пояс Asia/Novosibirsk",
			loc.String(), now(loc)))
		return
	}

	loc, err := h.service.SetTimezone(ctx, userID, strings.Join(args, " "))
	switch {
	case errors.Is(err, common.ErrUnknownTimezone):
		h.sendMessage(chatID, "❌ Не знаю такого пояса. Пример: /пояс Europe/Moscow")
		return
	case err != nil:
		log.WithError(err).WithField("user_id", userID).Error("SetTimezone failed")
		h.sendMessage(chatID, "❌ Не удалось сохранить пояс, попробуйте позже")
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("✅ Пояс сохранён: %s, сейчас %s", loc.String(), now(loc)))
}

func now(loc *time.Location) string {
	return instant.Now(instant.Options{Location: loc}).FormatDigits()
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
