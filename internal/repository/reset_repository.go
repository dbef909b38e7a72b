package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Alexaslastina/makeadate/internal/domain"
)

type ResetTokenRepository interface {
	// Create stores a new reset token, removing any previous tokens
	// for the same user so at most one active token exists.
	Create(ctx context.Context, userID, token string, expiresAt time.Time) error
	// Consume atomically marks a live token used and returns its owner.
	// A token consumed once never authorizes a second reset.
	Consume(ctx context.Context, token string) (userID string, err error)
	DeleteExpired(ctx context.Context) (int64, error)
}

type resetTokenRepository struct {
	pool *pgxpool.Pool
}

func NewResetTokenRepository(pool *pgxpool.Pool) ResetTokenRepository {
	return &resetTokenRepository{pool: pool}
}

func (r *resetTokenRepository) Create(ctx context.Context, userID, token string, expiresAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM password_reset_tokens WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to invalidate previous tokens: %w", err)
	}

	const q = `
		INSERT INTO password_reset_tokens (token, user_id, expires_at, used)
		VALUES ($1, $2, $3, false)`
	if _, err := tx.Exec(ctx, q, token, userID, expiresAt); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *resetTokenRepository) Consume(ctx context.Context, token string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	// The conditional update is the single authoritative step: under
	// concurrent calls with the same token only one row flips to used.
	const q = `
		UPDATE password_reset_tokens
		SET used = true
		WHERE token = $1
		  AND NOT used
		  AND expires_at > now()
		RETURNING user_id`

	var userID string
	err := r.pool.QueryRow(ctx, q, token).Scan(&userID)
	if err == nil {
		return userID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}

	// Consumption failed; classify why for the caller.
	const classify = `SELECT used, expires_at FROM password_reset_tokens WHERE token = $1`

	var (
		used      bool
		expiresAt time.Time
	)
	err = r.pool.QueryRow(ctx, classify, token).Scan(&used, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", domain.ErrTokenNotFound
	}
	if err != nil {
		return "", err
	}
	if used {
		return "", domain.ErrTokenUsed
	}
	if time.Now().After(expiresAt) {
		return "", domain.ErrTokenExpired
	}
	// Raced with a concurrent consume that committed between the two
	// queries; report it as already used.
	return "", domain.ErrTokenUsed
}

func (r *resetTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	const q = `
		DELETE FROM password_reset_tokens
		WHERE used OR expires_at < now() - interval '24 hours'`

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected(), nil
}
