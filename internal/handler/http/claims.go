package http

import (
	"context"

	"github.com/go-chi/jwtauth/v5"

	"github.com/kintai-app/kintai-backend-go/internal/domain/auth"
)

// userIDFromContext resolves the authenticated user from the verified JWT
// claims. Runs behind the AuthRequired middleware, so a missing claim is a
// token problem, not a routing one.
func userIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", auth.ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", auth.ErrInvalidToken
	}

	return userID, nil
}
