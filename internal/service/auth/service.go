package auth

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/kintai-app/kintai-backend-go/internal/domain/auth"
	"github.com/kintai-app/kintai-backend-go/internal/domain/user"
	"github.com/kintai-app/kintai-backend-go/internal/pkg/jwt"
)

type AuthServiceImpl struct {
	user.UserRepository
	auth.RefreshTokenRepository
	jwtService jwt.Service
}

func NewAuthService(
	userRepository user.UserRepository,
	refreshTokenRepository auth.RefreshTokenRepository,
	jwtService jwt.Service,
) auth.Service {
	return &AuthServiceImpl{
		UserRepository:         userRepository,
		RefreshTokenRepository: refreshTokenRepository,
		jwtService:             jwtService,
	}
}

// Register implements auth.Service.
func (a *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) (auth.TokenResponse, string, int64, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, "", 0, err
	}

	existing, err := a.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		return auth.TokenResponse{}, "", 0, err
	}
	if existing != nil {
		return auth.TokenResponse{}, "", 0, user.ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return auth.TokenResponse{}, "", 0, fmt.Errorf("failed to hash password: %w", err)
	}
	hashStr := string(hash)

	created, err := a.UserRepository.Create(ctx, user.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: &hashStr,
	})
	if err != nil {
		return auth.TokenResponse{}, "", 0, fmt.Errorf("failed to create user: %w", err)
	}

	return a.issueTokens(ctx, created)
}

// Login implements auth.Service.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, string, int64, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, "", 0, err
	}

	u, err := a.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		return auth.TokenResponse{}, "", 0, err
	}
	// A Google-only account has no password hash; both cases fail the same
	// way so emails cannot be probed.
	if u == nil || u.PasswordHash == nil {
		return auth.TokenResponse{}, "", 0, auth.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, "", 0, auth.ErrInvalidCredentials
	}

	return a.issueTokens(ctx, *u)
}

// LoginWithGoogle implements auth.Service. The email must already be
// verified by the OAuth2 callback; accounts are not auto-created.
func (a *AuthServiceImpl) LoginWithGoogle(ctx context.Context, email string) (auth.TokenResponse, string, int64, error) {
	u, err := a.UserRepository.GetByEmail(ctx, email)
	if err != nil {
		return auth.TokenResponse{}, "", 0, err
	}
	if u == nil {
		return auth.TokenResponse{}, "", 0, auth.ErrUserNotFound
	}

	return a.issueTokens(ctx, *u)
}

func (a *AuthServiceImpl) issueTokens(ctx context.Context, u user.User) (auth.TokenResponse, string, int64, error) {
	accessToken, accessExpiresAt, err := a.jwtService.GenerateAccessToken(u.ID, u.Email, u.Name, u.IsAdmin)
	if err != nil {
		return auth.TokenResponse{}, "", 0, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, refreshExpiresAt, err := a.jwtService.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.TokenResponse{}, "", 0, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	err = a.RefreshTokenRepository.Store(ctx, auth.RefreshToken{
		Token:     refreshToken,
		UserID:    u.ID,
		ExpiresAt: time.Unix(refreshExpiresAt, 0),
	})
	if err != nil {
		return auth.TokenResponse{}, "", 0, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken: accessToken,
		ExpiresAt:   accessExpiresAt,
		UserID:      u.ID,
		Name:        u.Name,
		IsAdmin:     u.IsAdmin,
	}, refreshToken, refreshExpiresAt, nil
}

// Refresh implements auth.Service.
func (a *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (auth.TokenResponse, error) {
	userID, err := a.jwtService.ParseRefreshToken(refreshToken)
	if err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidToken
	}

	stored, err := a.RefreshTokenRepository.Get(ctx, refreshToken)
	if err != nil {
		return auth.TokenResponse{}, err
	}
	if stored == nil {
		return auth.TokenResponse{}, auth.ErrInvalidToken
	}
	if stored.RevokedAt != nil {
		return auth.TokenResponse{}, auth.ErrRefreshTokenRevoked
	}
	if time.Now().After(stored.ExpiresAt) {
		return auth.TokenResponse{}, auth.ErrTokenExpired
	}

	u, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return auth.TokenResponse{}, err
	}

	accessToken, expiresAt, err := a.jwtService.GenerateAccessToken(u.ID, u.Email, u.Name, u.IsAdmin)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
		UserID:      u.ID,
		Name:        u.Name,
		IsAdmin:     u.IsAdmin,
	}, nil
}

// Logout implements auth.Service.
func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if _, err := a.jwtService.ParseRefreshToken(refreshToken); err != nil {
		return auth.ErrInvalidToken
	}

	if err := a.RefreshTokenRepository.Revoke(ctx, refreshToken); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	a.jwtService.RevokeToken(refreshToken)
	return nil
}
