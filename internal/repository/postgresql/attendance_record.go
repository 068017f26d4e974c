package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kintai-app/kintai-backend-go/internal/domain/attendance"
	"github.com/kintai-app/kintai-backend-go/internal/pkg/database"
)

type recordRepository struct {
	db *database.DB
}

func NewRecordRepository(db *database.DB) attendance.RecordRepository {
	return &recordRepository{db: db}
}

// GetByID implements attendance.RecordRepository.
func (r *recordRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, date, check_in, break_start, break_end, check_out,
			is_absent, created_at, updated_at
		FROM attendance_records
		WHERE id = $1
	`

	var rec attendance.Record
	err := q.QueryRow(ctx, query, id).Scan(
		&rec.ID,
		&rec.UserID,
		&rec.Date,
		&rec.CheckIn,
		&rec.BreakStart,
		&rec.BreakEnd,
		&rec.CheckOut,
		&rec.IsAbsent,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance record: %w", err)
	}

	return rec, nil
}

// FindByBusinessDay implements attendance.RecordRepository.
func (r *recordRepository) FindByBusinessDay(ctx context.Context, userID string, dayKey time.Time) (*attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, date, check_in, break_start, break_end, check_out,
			is_absent, created_at, updated_at
		FROM attendance_records
		WHERE user_id = $1 AND date = $2
	`

	var rec attendance.Record
	err := q.QueryRow(ctx, query, userID, dayKey).Scan(
		&rec.ID,
		&rec.UserID,
		&rec.Date,
		&rec.CheckIn,
		&rec.BreakStart,
		&rec.BreakEnd,
		&rec.CheckOut,
		&rec.IsAbsent,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find attendance record: %w", err)
	}

	return &rec, nil
}

// Create implements attendance.RecordRepository.
func (r *recordRepository) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	rec.ID = uuid.New().String()

	query := `
		INSERT INTO attendance_records (id, user_id, date, check_in, break_start, break_end, check_out, is_absent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rec.ID,
		rec.UserID,
		rec.Date,
		rec.CheckIn,
		rec.BreakStart,
		rec.BreakEnd,
		rec.CheckOut,
		rec.IsAbsent,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return rec, nil
}

// Update implements attendance.RecordRepository.
func (r *recordRepository) Update(ctx context.Context, rec attendance.Record) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_records
		SET check_in = $1, break_start = $2, break_end = $3, check_out = $4,
			is_absent = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		rec.CheckIn,
		rec.BreakStart,
		rec.BreakEnd,
		rec.CheckOut,
		rec.IsAbsent,
		rec.ID,
	).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.ErrRecordNotFound
		}
		return fmt.Errorf("failed to update attendance record: %w", err)
	}

	return nil
}

// editableFields whitelists the columns SetTimeField may touch. The field
// name comes from a validated enum but the column name is still never
// interpolated from caller input directly.
var editableFields = map[string]string{
	"check_in":    "check_in",
	"break_start": "break_start",
	"break_end":   "break_end",
	"check_out":   "check_out",
}

// SetTimeField implements attendance.RecordRepository.
func (r *recordRepository) SetTimeField(ctx context.Context, recordID string, field string, value time.Time) error {
	q := GetQuerier(ctx, r.db)

	column, ok := editableFields[field]
	if !ok {
		return fmt.Errorf("unknown editable field: %s", field)
	}

	query := fmt.Sprintf(`
		UPDATE attendance_records
		SET %s = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id
	`, column)

	var updatedID string
	if err := q.QueryRow(ctx, query, value, recordID).Scan(&updatedID); err != nil {
		if err == pgx.ErrNoRows {
			return attendance.ErrRecordNotFound
		}
		return fmt.Errorf("failed to set %s: %w", field, err)
	}

	return nil
}

// ListByUser implements attendance.RecordRepository.
func (r *recordRepository) ListByUser(ctx context.Context, userID string, filter attendance.RecordFilter) ([]attendance.Record, int64, error) {
	filter.UserID = &userID
	return r.List(ctx, filter)
}

// List implements attendance.RecordRepository.
func (r *recordRepository) List(ctx context.Context, filter attendance.RecordFilter) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := "WHERE 1=1"
	args := []any{}
	argIdx := 1

	if filter.UserID != nil && *filter.UserID != "" {
		whereClause += fmt.Sprintf(" AND ar.user_id = $%d", argIdx)
		args = append(args, *filter.UserID)
		argIdx++
	}

	if filter.StartDate != nil && *filter.StartDate != "" {
		whereClause += fmt.Sprintf(" AND ar.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil && *filter.EndDate != "" {
		whereClause += fmt.Sprintf(" AND ar.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM attendance_records ar
		%s
	`, whereClause)

	var totalCount int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	sortOrder := "DESC"
	if filter.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	offset := (filter.Page - 1) * filter.Limit

	listQuery := fmt.Sprintf(`
		SELECT ar.id, ar.user_id, u.name, ar.date, ar.check_in, ar.break_start,
			ar.break_end, ar.check_out, ar.is_absent, ar.created_at, ar.updated_at
		FROM attendance_records ar
		JOIN users u ON u.id = ar.user_id
		%s
		ORDER BY ar.date %s
		LIMIT $%d OFFSET $%d
	`, whereClause, sortOrder, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	records := []attendance.Record{}
	for rows.Next() {
		var rec attendance.Record
		err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.UserName,
			&rec.Date,
			&rec.CheckIn,
			&rec.BreakStart,
			&rec.BreakEnd,
			&rec.CheckOut,
			&rec.IsAbsent,
			&rec.CreatedAt,
			&rec.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendance records: %w", err)
	}

	return records, totalCount, nil
}
