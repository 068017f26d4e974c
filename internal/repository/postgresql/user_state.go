package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kintai-app/kintai-backend-go/internal/domain/attendance"
	"github.com/kintai-app/kintai-backend-go/internal/pkg/database"
)

type userStateRepository struct {
	db *database.DB
}

func NewUserStateRepository(db *database.DB) attendance.UserStateRepository {
	return &userStateRepository{db: db}
}

// Get implements attendance.UserStateRepository.
func (r *userStateRepository) Get(ctx context.Context, userID string) (*attendance.UserState, error) {
	return r.get(ctx, userID, false)
}

// GetForUpdate implements attendance.UserStateRepository. The row lock
// serializes concurrent transitions for the same user: the second
// transaction blocks here until the first commits, then sees its state.
func (r *userStateRepository) GetForUpdate(ctx context.Context, userID string) (*attendance.UserState, error) {
	return r.get(ctx, userID, true)
}

func (r *userStateRepository) get(ctx context.Context, userID string, forUpdate bool) (*attendance.UserState, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT user_id, current_state, last_updated
		FROM user_states
		WHERE user_id = $1
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var st attendance.UserState
	err := q.QueryRow(ctx, query, userID).Scan(&st.UserID, &st.CurrentState, &st.LastUpdated)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // no state row yet; created lazily
		}
		return nil, fmt.Errorf("failed to get user state: %w", err)
	}

	return &st, nil
}

// Create implements attendance.UserStateRepository.
func (r *userStateRepository) Create(ctx context.Context, state attendance.UserState) (attendance.UserState, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO user_states (user_id, current_state, last_updated)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING
	`

	if _, err := q.Exec(ctx, query, state.UserID, state.CurrentState, state.LastUpdated); err != nil {
		return attendance.UserState{}, fmt.Errorf("failed to create user state: %w", err)
	}

	return state, nil
}

// Update implements attendance.UserStateRepository.
func (r *userStateRepository) Update(ctx context.Context, userID string, state attendance.State, lastUpdated time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE user_states
		SET current_state = $1, last_updated = $2
		WHERE user_id = $3
		RETURNING user_id
	`

	var updatedID string
	if err := q.QueryRow(ctx, query, state, lastUpdated, userID).Scan(&updatedID); err != nil {
		if err == pgx.ErrNoRows {
			return attendance.ErrUserNotFound
		}
		return fmt.Errorf("failed to update user state: %w", err)
	}

	return nil
}
