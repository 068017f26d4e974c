package auth

import (
	"context"
	"time"
)

// RefreshToken is a persisted refresh token. Revocation marks the row
// instead of deleting it so a replay after logout is distinguishable from
// an unknown token.
type RefreshToken struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// RefreshTokenRepository persists issued refresh tokens.
type RefreshTokenRepository interface {
	// Store records a newly issued token.
	Store(ctx context.Context, token RefreshToken) error

	// Get retrieves a token, or nil when unknown.
	Get(ctx context.Context, token string) (*RefreshToken, error)

	// Revoke marks a token revoked.
	Revoke(ctx context.Context, token string) error

	// DeleteExpired removes tokens past their expiry; returns the number
	// of rows deleted. Run periodically by the cron scheduler.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
