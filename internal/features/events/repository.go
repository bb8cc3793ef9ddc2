package events

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/kogda-bot/internal/common"
	"serotonyl.ru/kogda-bot/internal/instant"
)

// Repository работает с таблицей events.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий событий.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const eventColumns = `id, user_id, chat_id, title, starts_at, date_only, reminded_at, created_at`

// Create сохраняет событие и заполняет ID.
func (r *Repository) Create(ctx context.Context, e *Event) error {
	query := `
		INSERT INTO events (user_id, chat_id, title, starts_at, date_only, reminded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		e.UserID, e.ChatID, e.Title, e.StartsAt, e.DateOnly, e.RemindedAt,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания события: %w", err)
	}
	return nil
}

// ListUpcoming возвращает события пользователя, начинающиеся не раньше from.
func (r *Repository) ListUpcoming(ctx context.Context, userID int64, from time.Time) ([]*Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events
		WHERE user_id = $1 AND starts_at >= $2
		ORDER BY starts_at`
	return r.queryEvents(ctx, query, userID, from)
}

// CountUpcoming: сколько у пользователя будущих событий.
func (r *Repository) CountUpcoming(ctx context.Context, userID int64, from time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM events WHERE user_id = $1 AND starts_at >= $2`, userID, from,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта событий: %w", err)
	}
	return n, nil
}

// Delete удаляет событие пользователя. Чужое или несуществующее: common.ErrEventNotFound.
func (r *Repository) Delete(ctx context.Context, id, userID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления события: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("id=%d: %w", id, common.ErrEventNotFound)
	}
	return nil
}

// DueReminders возвращает события без напоминания, начинающиеся в [from, until].
func (r *Repository) DueReminders(ctx context.Context, from, until time.Time) ([]*Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events
		WHERE reminded_at = $1 AND starts_at >= $2 AND starts_at <= $3
		ORDER BY starts_at`
	return r.queryEvents(ctx, query, instant.Zero, from, until)
}

// MarkReminded записывает момент отправки напоминания.
func (r *Repository) MarkReminded(ctx context.Context, id int64, at instant.Null) error {
	if _, err := r.db.Exec(ctx, `UPDATE events SET reminded_at = $2 WHERE id = $1`, id, at); err != nil {
		return fmt.Errorf("ошибка отметки напоминания: %w", err)
	}
	return nil
}

// DeleteOlderThan удаляет события, закончившиеся раньше before.
func (r *Repository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE starts_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("ошибка очистки событий: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Count: всего событий и сколько из них ещё впереди.
func (r *Repository) Count(ctx context.Context, now time.Time) (total, upcoming int64, err error) {
	err = r.db.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE starts_at >= $1) FROM events`, now,
	).Scan(&total, &upcoming)
	if err != nil {
		return 0, 0, fmt.Errorf("ошибка подсчёта событий: %w", err)
	}
	return total, upcoming, nil
}

func (r *Repository) queryEvents(ctx context.Context, query string, args ...any) ([]*Event, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса событий: %w", err)
	}
	defer rows.Close()

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Event, error) {
		var e Event
		err := row.Scan(
			&e.ID, &e.UserID, &e.ChatID, &e.Title, &e.StartsAt,
			&e.DateOnly, &e.RemindedAt, &e.CreatedAt,
		)
		return &e, err
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения событий: %w", err)
	}
	return out, nil
}
