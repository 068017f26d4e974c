package response

import (
	"errors"
	"net/http"

	"github.com/kintai-app/kintai-backend-go/internal/domain/attendance"
	"github.com/kintai-app/kintai-backend-go/internal/domain/auth"
	"github.com/kintai-app/kintai-backend-go/internal/domain/timeedit"
	"github.com/kintai-app/kintai-backend-go/internal/domain/user"
	"github.com/kintai-app/kintai-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// A rejected attendance action carries the authoritative state so the
	// client can resynchronize without a second round trip.
	var invalidTransition *attendance.InvalidTransitionError
	if errors.As(err, &invalidTransition) {
		ConflictWithDetails(w, invalidTransition.Error(), map[string]string{
			"current_state": string(invalidTransition.CurrentState),
			"action":        string(invalidTransition.Action),
		})
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrUserNotFound):
		NotFound(w, "User not found")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrNoRecordToday):
		Conflict(w, "No attendance record for the current business day")
	case errors.Is(err, attendance.ErrUserNotFound):
		NotFound(w, "User not found")

	// Edit request domain errors
	case errors.Is(err, timeedit.ErrRequestNotFound):
		NotFound(w, "Edit request not found")
	case errors.Is(err, timeedit.ErrAlreadyDecided):
		Conflict(w, "Edit request already decided")
	case errors.Is(err, timeedit.ErrRecordMarkedAbsent):
		Conflict(w, "Attendance record is marked absent")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
