package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"serotonyl.ru/kogda-bot/internal/instant"
)

func TestRateLimiter(t *testing.T) {
	now := time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute, instant.ClockFunc(func() time.Time { return now }))
	defer rl.Close()

	ok, _ := rl.Allow(1)
	assert.True(t, ok)
	now = now.Add(10 * time.Second)
	ok, _ = rl.Allow(1)
	assert.True(t, ok)

	ok, wait := rl.Allow(1)
	assert.False(t, ok)
	assert.Equal(t, 50*time.Second, wait)

	// Другой пользователь считается отдельно
	ok, _ = rl.Allow(2)
	assert.True(t, ok)

	// Первая отметка вышла из окна
	now = now.Add(51 * time.Second)
	ok, _ = rl.Allow(1)
	assert.True(t, ok)
	ok, _ = rl.Allow(1)
	assert.False(t, ok)
}

func TestFresh(t *testing.T) {
	base := time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)
	hits := []time.Time{base, base.Add(time.Second), base.Add(2 * time.Second)}

	assert.Len(t, fresh(hits, base), 2)
	assert.Len(t, fresh(hits, base.Add(-time.Second)), 3)
	assert.Empty(t, fresh(hits, base.Add(time.Hour)))
}
