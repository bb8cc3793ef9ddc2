package middleware

import (
	"fmt"
	"runtime/debug"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// RecoverFromPanic ставится через defer первым в обработчике апдейта:
// паника в одной команде не должна ронять весь бот.
func RecoverFromPanic(update tgbotapi.Update) {
	r := recover()
	if r == nil {
		return
	}
	fields := log.Fields{
		"component": "panic_recovery",
		"update_id": update.UpdateID,
		"panic":     fmt.Sprint(r),
		"stack":     string(debug.Stack()),
	}
	if m := update.Message; m != nil && m.Chat != nil {
		fields["chat_id"] = m.Chat.ID
		fields["text"] = m.Text
	}
	log.WithFields(fields).Error("Паника в обработчике, апдейт пропущен")
}
