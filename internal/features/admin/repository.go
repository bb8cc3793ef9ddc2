package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository хранит сессии администраторов и журнал попыток входа.
// Время всегда приходит от сервиса, NOW() базы не используется.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// OpenSession закрывает прежние сессии администратора и открывает новую.
// У администратора всегда не больше одной живой сессии.
func (r *Repository) OpenSession(ctx context.Context, s *AdminSession) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE admin_sessions SET is_active = FALSE WHERE user_id = $1 AND is_active`, s.UserID,
	); err != nil {
		return fmt.Errorf("ошибка закрытия прежних сессий: %w", err)
	}
	if err := tx.QueryRow(ctx, `
		INSERT INTO admin_sessions (user_id, session_token, authenticated_at, expires_at, last_activity, is_active)
		VALUES ($1, $2, $3, $4, $3, TRUE)
		RETURNING id`,
		s.UserID, s.SessionToken, s.AuthenticatedAt, s.ExpiresAt,
	).Scan(&s.ID); err != nil {
		return fmt.Errorf("ошибка создания сессии: %w", err)
	}
	return tx.Commit(ctx)
}

// ExtendSession продлевает живую сессию до until. false: живой сессии нет.
func (r *Repository) ExtendSession(ctx context.Context, userID int64, now, until time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE admin_sessions SET last_activity = $2, expires_at = $3
		WHERE user_id = $1 AND is_active AND expires_at > $2`,
		userID, now, until,
	)
	if err != nil {
		return false, fmt.Errorf("ошибка продления сессии: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// CloseSessions закрывает все сессии администратора.
func (r *Repository) CloseSessions(ctx context.Context, userID int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `UPDATE admin_sessions SET is_active = FALSE WHERE user_id = $1 AND is_active`, userID)
	if err != nil {
		return 0, fmt.Errorf("ошибка закрытия сессий: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) RecordAttempt(ctx context.Context, userID int64, at time.Time, success bool) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO admin_login_attempts (user_id, attempt_time, success) VALUES ($1, $2, $3)`,
		userID, at, success,
	)
	return err
}

// FailedAttemptsSince считает неудачные попытки входа после since.
func (r *Repository) FailedAttemptsSince(ctx context.Context, userID int64, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM admin_login_attempts
		WHERE user_id = $1 AND NOT success AND attempt_time >= $2`,
		userID, since,
	).Scan(&n)
	return n, err
}

// Purge удаляет закрытые и истёкшие к now сессии и попытки входа до attemptsBefore.
func (r *Repository) Purge(ctx context.Context, now, attemptsBefore time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM admin_sessions WHERE NOT is_active OR expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("ошибка очистки сессий: %w", err)
	}
	if _, err := r.db.Exec(ctx,
		`DELETE FROM admin_login_attempts WHERE attempt_time < $1`, attemptsBefore,
	); err != nil {
		return 0, fmt.Errorf("ошибка очистки попыток входа: %w", err)
	}
	return tag.RowsAffected(), nil
}
