package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kintai-app/kintai-backend-go/internal/domain/auth"
	"github.com/kintai-app/kintai-backend-go/internal/pkg/database"
)

type refreshTokenRepository struct {
	db *database.DB
}

func NewRefreshTokenRepository(db *database.DB) auth.RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

// Store implements auth.RefreshTokenRepository.
func (r *refreshTokenRepository) Store(ctx context.Context, token auth.RefreshToken) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO refresh_tokens (token, user_id, expires_at)
		VALUES ($1, $2, $3)
	`

	if _, err := q.Exec(ctx, query, token.Token, token.UserID, token.ExpiresAt); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}

	return nil
}

// Get implements auth.RefreshTokenRepository.
func (r *refreshTokenRepository) Get(ctx context.Context, token string) (*auth.RefreshToken, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT token, user_id, expires_at, revoked_at
		FROM refresh_tokens
		WHERE token = $1
	`

	var rt auth.RefreshToken
	err := q.QueryRow(ctx, query, token).Scan(&rt.Token, &rt.UserID, &rt.ExpiresAt, &rt.RevokedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	return &rt, nil
}

// Revoke implements auth.RefreshTokenRepository.
func (r *refreshTokenRepository) Revoke(ctx context.Context, token string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE refresh_tokens
		SET revoked_at = NOW()
		WHERE token = $1 AND revoked_at IS NULL
	`

	if _, err := q.Exec(ctx, query, token); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	return nil
}

// DeleteExpired implements auth.RefreshTokenRepository.
func (r *refreshTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM refresh_tokens
		WHERE expires_at < $1
	`

	tag, err := q.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired refresh tokens: %w", err)
	}

	return tag.RowsAffected(), nil
}
