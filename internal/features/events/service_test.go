package events

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/kogda-bot/internal/common"
	"serotonyl.ru/kogda-bot/internal/features/when"
	"serotonyl.ru/kogda-bot/internal/humanize"
	"serotonyl.ru/kogda-bot/internal/instant"
)

var msk = time.FixedZone("MSK", 3*60*60)

// memStore: хранилище в памяти.
type memStore struct {
	mu     sync.Mutex
	nextID int64
	events map[int64]*Event
}

func newMemStore() *memStore {
	return &memStore{events: make(map[int64]*Event)}
}

func (m *memStore) Create(_ context.Context, e *Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	e.ID = m.nextID
	m.events[e.ID] = e
	return nil
}

func (m *memStore) ListUpcoming(_ context.Context, userID int64, from time.Time) ([]*Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Event
	for id := int64(1); id <= m.nextID; id++ {
		if e, ok := m.events[id]; ok && e.UserID == userID && !e.StartsAt.Before(from) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) CountUpcoming(ctx context.Context, userID int64, from time.Time) (int, error) {
	list, _ := m.ListUpcoming(ctx, userID, from)
	return len(list), nil
}

func (m *memStore) Delete(_ context.Context, id, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok || e.UserID != userID {
		return common.ErrEventNotFound
	}
	delete(m.events, id)
	return nil
}

func (m *memStore) DueReminders(_ context.Context, from, until time.Time) ([]*Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Event
	for id := int64(1); id <= m.nextID; id++ {
		e, ok := m.events[id]
		if ok && !e.Reminded() && !e.StartsAt.Before(from) && !e.StartsAt.After(until) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) MarkReminded(_ context.Context, id int64, at instant.Null) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[id].RemindedAt = at
	return nil
}

func (m *memStore) DeleteOlderThan(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, e := range m.events {
		if e.StartsAt.Before(before) {
			delete(m.events, id)
			n++
		}
	}
	return n, nil
}

type fixedLocator struct{}

func (fixedLocator) Location(context.Context, int64) *time.Location { return msk }

func newService(t *testing.T) (*Service, *memStore) {
	t.Helper()
	now := time.Date(2024, time.January, 10, 12, 0, 0, 0, msk)
	f := humanize.New(humanize.Config{Clock: instant.Fixed(now), Location: msk})
	st := newMemStore()
	s := NewService(st, when.NewService(f), fixedLocator{}, Limits{
		MaxPerUser:    2,
		TitleMaxLen:   10,
		ReminderLead:  15 * time.Minute,
		RetentionDays: 30,
	})
	return s, st
}

func plain(s string) string {
	return strings.ReplaceAll(s, common.NBSP, " ")
}

func TestAdd(t *testing.T) {
	s, st := newService(t)
	ctx := context.Background()

	e, phrase, err := s.Add(ctx, 1, 100, "2024-01-10 12:10 | Созвон")
	require.NoError(t, err)
	assert.Equal(t, "Созвон", e.Title)
	assert.False(t, e.DateOnly)
	assert.False(t, e.Reminded())
	assert.Equal(t, "через 10 минут, в 12:10:00", plain(phrase))
	assert.Len(t, st.events, 1)

	// Событие на сегодняшний день целиком: не в прошлом
	e, _, err = s.Add(ctx, 1, 100, "2024-01-10 | Праздник")
	require.NoError(t, err)
	assert.True(t, e.DateOnly)

	// В лимит входят только будущие события
	_, _, err = s.Add(ctx, 1, 100, "2024-01-20 | Третье")
	require.NoError(t, err)

	_, _, err = s.Add(ctx, 1, 100, "2024-01-21 | Четвёртое")
	assert.ErrorIs(t, err, common.ErrTooManyEvents)
}

func TestAddErrors(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	_, _, err := s.Add(ctx, 1, 100, "2024-01-20")
	assert.ErrorIs(t, err, when.ErrUsage)

	_, _, err = s.Add(ctx, 1, 100, "2024-01-20 | Очень длинное название")
	assert.ErrorIs(t, err, common.ErrEventTitleTooLong)

	_, _, err = s.Add(ctx, 1, 100, "2024-01-09 10:00 | Вчера")
	assert.ErrorIs(t, err, common.ErrEventInPast)

	_, _, err = s.Add(ctx, 1, 100, "когда-нибудь | Отпуск")
	assert.ErrorIs(t, err, common.ErrFormat)
}

func TestListAndDelete(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	e, _, err := s.Add(ctx, 1, 100, "2024-01-11 09:00 | Врач")
	require.NoError(t, err)
	_, _, err = s.Add(ctx, 2, 200, "2024-01-11 10:00 | Чужое")
	require.NoError(t, err)

	lines, err := s.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "#1 Врач — завтра, в 9:00:00 (четверг)", plain(lines[0]))

	assert.ErrorIs(t, s.Delete(ctx, 1, "#2"), common.ErrEventNotFound)
	assert.ErrorIs(t, s.Delete(ctx, 1, "abc"), common.ErrEventNotFound)
	require.NoError(t, s.Delete(ctx, 1, "#1"))

	lines, err = s.List(ctx, e.UserID)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestSendReminders(t *testing.T) {
	s, st := newService(t)
	ctx := context.Background()

	_, _, err := s.Add(ctx, 1, 100, "2024-01-10 12:10 | Скоро")
	require.NoError(t, err)
	_, _, err = s.Add(ctx, 1, 100, "2024-01-10 18:00 | Вечером")
	require.NoError(t, err)

	var sent []string
	send := func(chatID int64, text string) {
		assert.Equal(t, int64(100), chatID)
		sent = append(sent, plain(text))
	}

	require.NoError(t, s.SendReminders(ctx, send))
	require.Len(t, sent, 1)
	assert.Equal(t, "⏰ Скоро — через 10 минут, в 12:10:00", sent[0])
	assert.True(t, st.events[1].Reminded())
	assert.False(t, st.events[2].Reminded())

	// Повторно не напоминаем
	require.NoError(t, s.SendReminders(ctx, send))
	assert.Len(t, sent, 1)
}

func TestCleanup(t *testing.T) {
	s, st := newService(t)

	st.events[1] = &Event{ID: 1, UserID: 1, StartsAt: time.Date(2023, time.November, 1, 0, 0, 0, 0, msk)}
	st.events[2] = &Event{ID: 2, UserID: 1, StartsAt: time.Date(2024, time.January, 1, 0, 0, 0, 0, msk)}
	st.nextID = 2

	n, err := s.Cleanup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Contains(t, st.events, int64(2))
}
