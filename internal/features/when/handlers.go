package when

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// Locator: откуда брать пояс пользователя.
type Locator interface {
	Location(ctx context.Context, userID int64) *time.Location
}

// Handler отвечает на команды /когда, /между, /разница, /склонение.
type Handler struct {
	service *Service
	members Locator
	bot     *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик команд о датах.
func NewHandler(service *Service, members Locator, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, members: members, bot: bot}
}

// HandleWhen: /когда.
func (h *Handler) HandleWhen(ctx context.Context, chatID, userID int64, args []string) {
	h.reply(ctx, chatID, userID, "когда", args, h.service.When)
}

// HandleBetween: /между.
func (h *Handler) HandleBetween(ctx context.Context, chatID, userID int64, args []string) {
	h.reply(ctx, chatID, userID, "между", args, h.service.Between)
}

// HandleDifference: /разница.
func (h *Handler) HandleDifference(ctx context.Context, chatID, userID int64, args []string) {
	h.reply(ctx, chatID, userID, "разница", args, h.service.Difference)
}

// HandleDecline: /склонение.
func (h *Handler) HandleDecline(ctx context.Context, chatID int64, args []string) {
	text, err := h.service.Decline(args)
	if err != nil {
		log.WithError(err).WithField("args", args).Debug("склонение не удалось")
		h.sendMessage(chatID, "Пример: /склонение 21 рубль рубля рублей")
		return
	}
	h.sendMessage(chatID, text)
}

func (h *Handler) reply(ctx context.Context, chatID, userID int64, cmd string, args []string,
	fn func(string, *time.Location) (string, error)) {
	input := strings.Join(args, " ")
	if input == "" {
		h.sendMessage(chatID, usage[cmd])
		return
	}

	text, err := fn(input, h.members.Location(ctx, userID))
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"cmd":   cmd,
			"input": input,
		}).Debug("не удалось построить фразу")
		text = Fallback(input, err)
	}
	h.sendMessage(chatID, text)
}

var usage = map[string]string{
	"когда":   "Пример: /когда 2024-01-09 15:00 или /когда next friday",
	"между":   "Пример: /между 2024-01-10 | 2024-01-12",
	"разница": "Пример: /разница 2021-03-15 08:30 | now",
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
