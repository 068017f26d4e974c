package postgresql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kintai-app/kintai-backend-go/internal/domain/timeedit"
	"github.com/kintai-app/kintai-backend-go/internal/pkg/database"
)

type timeEditRepository struct {
	db *database.DB
}

func NewTimeEditRepository(db *database.DB) timeedit.Repository {
	return &timeEditRepository{db: db}
}

// Create implements timeedit.Repository.
func (r *timeEditRepository) Create(ctx context.Context, req timeedit.Request) (timeedit.Request, error) {
	q := GetQuerier(ctx, r.db)

	req.ID = uuid.New().String()
	req.Status = timeedit.StatusPending

	query := `
		INSERT INTO time_edit_requests (id, user_id, record_id, field, old_value, new_value, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.ID,
		req.UserID,
		req.RecordID,
		req.Field,
		req.OldValue,
		req.NewValue,
		req.Reason,
		req.Status,
	).Scan(&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return timeedit.Request{}, fmt.Errorf("failed to create time edit request: %w", err)
	}

	return req, nil
}

// GetByID implements timeedit.Repository.
func (r *timeEditRepository) GetByID(ctx context.Context, id string) (*timeedit.Request, error) {
	return r.get(ctx, id, false)
}

// GetByIDForUpdate implements timeedit.Repository. The row lock makes
// concurrent decisions on the same request serialize: the loser observes
// the winner's status after the lock is released.
func (r *timeEditRepository) GetByIDForUpdate(ctx context.Context, id string) (*timeedit.Request, error) {
	return r.get(ctx, id, true)
}

func (r *timeEditRepository) get(ctx context.Context, id string, forUpdate bool) (*timeedit.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, record_id, field, old_value, new_value, reason, status, created_at, updated_at
		FROM time_edit_requests
		WHERE id = $1
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var req timeedit.Request
	err := q.QueryRow(ctx, query, id).Scan(
		&req.ID,
		&req.UserID,
		&req.RecordID,
		&req.Field,
		&req.OldValue,
		&req.NewValue,
		&req.Reason,
		&req.Status,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get time edit request: %w", err)
	}

	return &req, nil
}

// UpdateStatus implements timeedit.Repository.
func (r *timeEditRepository) UpdateStatus(ctx context.Context, id string, status timeedit.Status) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_edit_requests
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id
	`

	var updatedID string
	if err := q.QueryRow(ctx, query, status, id).Scan(&updatedID); err != nil {
		if err == pgx.ErrNoRows {
			return timeedit.ErrRequestNotFound
		}
		return fmt.Errorf("failed to update time edit request status: %w", err)
	}

	return nil
}

// ListByUser implements timeedit.Repository.
func (r *timeEditRepository) ListByUser(ctx context.Context, userID string, filter timeedit.Filter) ([]timeedit.Request, int64, error) {
	return r.list(ctx, &userID, filter)
}

// List implements timeedit.Repository.
func (r *timeEditRepository) List(ctx context.Context, filter timeedit.Filter) ([]timeedit.Request, int64, error) {
	return r.list(ctx, nil, filter)
}

func (r *timeEditRepository) list(ctx context.Context, userID *string, filter timeedit.Filter) ([]timeedit.Request, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := "WHERE 1=1"
	args := []any{}
	argIdx := 1

	if userID != nil {
		whereClause += fmt.Sprintf(" AND ter.user_id = $%d", argIdx)
		args = append(args, *userID)
		argIdx++
	}

	if filter.Status != nil && *filter.Status != "" {
		whereClause += fmt.Sprintf(" AND ter.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM time_edit_requests ter
		%s
	`, whereClause)

	var totalCount int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count time edit requests: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit

	listQuery := fmt.Sprintf(`
		SELECT ter.id, ter.user_id, u.name, ter.record_id, ter.field, ter.old_value,
			ter.new_value, ter.reason, ter.status, ter.created_at, ter.updated_at
		FROM time_edit_requests ter
		JOIN users u ON u.id = ter.user_id
		%s
		ORDER BY ter.created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list time edit requests: %w", err)
	}
	defer rows.Close()

	requests := []timeedit.Request{}
	for rows.Next() {
		var req timeedit.Request
		err := rows.Scan(
			&req.ID,
			&req.UserID,
			&req.UserName,
			&req.RecordID,
			&req.Field,
			&req.OldValue,
			&req.NewValue,
			&req.Reason,
			&req.Status,
			&req.CreatedAt,
			&req.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan time edit request: %w", err)
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate time edit requests: %w", err)
	}

	return requests, totalCount, nil
}
