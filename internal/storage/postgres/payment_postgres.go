package postgres

import (
	"EduStream/internal/app_errors"
	"EduStream/internal/models"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentPostgres struct {
	db *pgxpool.Pool
}

func NewPaymentPostgres(db *pgxpool.Pool) *PaymentPostgres {
	return &PaymentPostgres{db: db}
}

func (r *PaymentPostgres) CreateSession(ctx context.Context, session *models.PaymentSession) error {
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now
	session.Status = models.PaymentPending

	query := `
        INSERT INTO payment_sessions (id, user_id, amount_cents, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	_, err := r.db.Exec(ctx, query,
		session.ID, session.UserID, session.AmountCents,
		session.Status, session.CreatedAt, session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment session: %w", err)
	}
	return nil
}

func (r *PaymentPostgres) SessionByID(ctx context.Context, id string) (*models.PaymentSession, error) {
	query := `
        SELECT id, user_id, amount_cents, status, created_at, updated_at
          FROM payment_sessions
         WHERE id = $1
    `
	session := &models.PaymentSession{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&session.ID, &session.UserID, &session.AmountCents,
		&session.Status, &session.CreatedAt, &session.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrPaymentSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

// MarkStatus only moves sessions out of pending; a webhook replay after the
// terminal state is a no-op.
func (r *PaymentPostgres) MarkStatus(ctx context.Context, id, status string) error {
	query := `
        UPDATE payment_sessions
           SET status = $2, updated_at = NOW()
         WHERE id = $1 AND status = $3
    `
	cmdTag, err := r.db.Exec(ctx, query, id, status, models.PaymentPending)
	if err != nil {
		return fmt.Errorf("failed to update payment session: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM payment_sessions WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return app_errors.ErrPaymentSessionNotFound
		}
	}
	return nil
}
