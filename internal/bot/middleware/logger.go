// Package middleware содержит промежуточные обработчики: логирование,
// восстановление после паники и rate-limiting.
package middleware

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/kogda-bot/internal/common"
)

// LogMessage логирует входящее сообщение (текст: первые 50 символов).
func LogMessage(message *tgbotapi.Message) {
	if message == nil || message.From == nil || message.Chat == nil {
		return
	}

	log.WithFields(log.Fields{
		"user_id":  message.From.ID,
		"chat_id":  message.Chat.ID,
		"username": message.From.UserName,
		"text":     common.TruncateRunes(message.Text, 50),
	}).Debug("Входящее сообщение")
}
