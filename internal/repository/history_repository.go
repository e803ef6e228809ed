package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// ComplaintHistoryRepository persists the immutable audit trail.
type ComplaintHistoryRepository interface {
	Create(ctx context.Context, entry *domain.ComplaintHistory) error
	ListByComplaint(ctx context.Context, complaintID string, limit, offset int) ([]domain.ComplaintHistory, error)
}

type historyRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintHistoryRepository returns a Postgres-backed implementation.
func NewComplaintHistoryRepository(pool *pgxpool.Pool) ComplaintHistoryRepository {
	return &historyRepository{pool: pool}
}

func (r *historyRepository) Create(ctx context.Context, entry *domain.ComplaintHistory) error {
	const query = `
        INSERT INTO complaint_history (complaint_id, changed_by, change_type, old_value, new_value)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.ComplaintID,
		entry.ChangedBy,
		entry.ChangeType,
		entry.OldValue,
		entry.NewValue,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *historyRepository) ListByComplaint(ctx context.Context, complaintID string, limit, offset int) ([]domain.ComplaintHistory, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, complaint_id, changed_by, change_type, old_value, new_value, created_at
        FROM complaint_history WHERE complaint_id=$1
        ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, complaintID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ComplaintHistory
	for rows.Next() {
		var entry domain.ComplaintHistory
		if err := rows.Scan(
			&entry.ID,
			&entry.ComplaintID,
			&entry.ChangedBy,
			&entry.ChangeType,
			&entry.OldValue,
			&entry.NewValue,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
