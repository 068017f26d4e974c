package auth

import "context"

// Service defines authentication operations. Protocol details (JWT shape,
// cookies) live in the handler and pkg/jwt; the attendance core only ever
// sees a resolved userID.
type Service interface {
	// Register creates a user account and issues tokens.
	Register(ctx context.Context, req RegisterRequest) (TokenResponse, string, int64, error)

	// Login verifies credentials and issues tokens. The second and third
	// return values are the refresh token and its expiry.
	Login(ctx context.Context, req LoginRequest) (TokenResponse, string, int64, error)

	// LoginWithGoogle issues tokens for a verified Google account email.
	LoginWithGoogle(ctx context.Context, email string) (TokenResponse, string, int64, error)

	// Refresh exchanges a valid refresh token for a new access token.
	Refresh(ctx context.Context, refreshToken string) (TokenResponse, error)

	// Logout revokes a refresh token.
	Logout(ctx context.Context, refreshToken string) error
}
