package middleware

import (
	"sync"
	"time"

	"serotonyl.ru/kogda-bot/internal/instant"
)

const sweepEvery = 5 * time.Minute

// RateLimiter пропускает по скользящему окну не больше limit команд пользователя за window.
type RateLimiter struct {
	mu     sync.Mutex
	hits   map[int64][]time.Time
	limit  int
	window time.Duration
	clock  instant.Clock

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewRateLimiter запускает лимитер с фоновой чисткой старых отметок.
// Остановить: Close.
func NewRateLimiter(limit int, window time.Duration, clock instant.Clock) *RateLimiter {
	if clock == nil {
		clock = instant.SystemClock
	}
	rl := &RateLimiter{
		hits:   make(map[int64][]time.Time),
		limit:  limit,
		window: window,
		clock:  clock,
		stopCh: make(chan struct{}),
	}
	go rl.sweep()
	return rl
}

func (rl *RateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// Allow засчитывает команду. При превышении лимита команда не засчитывается,
// а wait: сколько ждать до освобождения места в окне.
func (rl *RateLimiter) Allow(userID int64) (ok bool, wait time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.clock.Now()
	hits := fresh(rl.hits[userID], now.Add(-rl.window))
	if len(hits) >= rl.limit {
		rl.hits[userID] = hits
		return false, hits[0].Add(rl.window).Sub(now)
	}
	rl.hits[userID] = append(hits, now)
	return true, 0
}

func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopCh:
			return
		case <-ticker.C:
			rl.mu.Lock()
			cutoff := rl.clock.Now().Add(-rl.window)
			for userID, hits := range rl.hits {
				if hits = fresh(hits, cutoff); len(hits) == 0 {
					delete(rl.hits, userID)
				} else {
					rl.hits[userID] = hits
				}
			}
			rl.mu.Unlock()
		}
	}
}

// fresh оставляет отметки после cutoff. Отметки идут по возрастанию.
func fresh(hits []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	return hits[i:]
}
