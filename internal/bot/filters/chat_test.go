package filters

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
)

func message(chatID int64, chatType string, from *tgbotapi.User) *tgbotapi.Message {
	return &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: chatID, Type: chatType},
		From: from,
	}
}

func TestCheckAccess(t *testing.T) {
	f := NewChatFilter([]int64{-100500})
	user := &tgbotapi.User{ID: 42}

	assert.True(t, f.CheckAccess(message(42, "private", user)))
	assert.True(t, f.CheckAccess(message(-100500, "supergroup", user)))
	assert.False(t, f.CheckAccess(message(-777, "group", user)))
	assert.False(t, f.CheckAccess(message(-100500, "supergroup", nil)))
	assert.False(t, f.CheckAccess(nil))
	assert.False(t, f.CheckAccess(&tgbotapi.Message{}))
}
