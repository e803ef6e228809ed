package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// ComplaintFilter captures listing parameters. Nil fields are unconstrained;
// visibility scoping fills CreatedBy/Department from the caller's principal.
type ComplaintFilter struct {
	CreatedBy  *string
	Department *string
	AssignedTo *string
	Statuses   []domain.ComplaintStatus
	Categories []domain.ComplaintCategory
	Priorities []domain.ComplaintPriority
	Limit      int
	Offset     int
}

// StatusBreakdown aggregates complaint counts for analytics.
type StatusBreakdown struct {
	Total      int64
	ByStatus   map[domain.ComplaintStatus]int64
	ByCategory map[domain.ComplaintCategory]int64
}

// ComplaintRepository encapsulates complaint persistence.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	Update(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	ListWithFilter(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error)
	AppendResponse(ctx context.Context, response *domain.Response) error
	ListResponses(ctx context.Context, complaintID string) ([]domain.Response, error)
	Breakdown(ctx context.Context) (*StatusBreakdown, error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (title, description, category, priority, department, status, created_by, assigned_to)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		complaint.Title,
		complaint.Description,
		complaint.Category,
		complaint.Priority,
		complaint.Department,
		complaint.Status,
		complaint.CreatedBy,
		complaint.AssignedTo,
	).Scan(&complaint.ID, &complaint.CreatedAt, &complaint.UpdatedAt)
}

func (r *complaintRepository) Update(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        UPDATE complaints SET title=$1, description=$2, category=$3, priority=$4, department=$5,
            status=$6, assigned_to=$7, resolved_by=$8, resolution_note=$9, resolved_at=$10, updated_at=NOW()
        WHERE id=$11`
	var resolvedBy, resolutionNote any
	var resolvedAt any
	if complaint.Resolution != nil {
		resolvedBy = complaint.Resolution.ResolvedBy
		resolutionNote = complaint.Resolution.ResolutionNote
		resolvedAt = complaint.Resolution.ResolvedAt
	}
	cmd, err := r.pool.Exec(ctx, query,
		complaint.Title,
		complaint.Description,
		complaint.Category,
		complaint.Priority,
		complaint.Department,
		complaint.Status,
		complaint.AssignedTo,
		resolvedBy,
		resolutionNote,
		resolvedAt,
		complaint.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	const query = `
        SELECT id, title, description, category, priority, department, status, created_by,
               assigned_to, resolved_by, resolution_note, resolved_at, created_at, updated_at
        FROM complaints WHERE id=$1`

	complaint, err := scanComplaintRow(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	responses, err := r.ListResponses(ctx, complaint.ID)
	if err != nil {
		return nil, err
	}
	complaint.Responses = responses
	return complaint, nil
}

func (r *complaintRepository) ListWithFilter(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error) {
	base := `SELECT id, title, description, category, priority, department, status, created_by,
                    assigned_to, resolved_by, resolution_note, resolved_at, created_at, updated_at
             FROM complaints`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CreatedBy != nil {
		args = append(args, *filter.CreatedBy)
		clauses = append(clauses, fmt.Sprintf("created_by=$%d", len(args)))
	}
	if filter.Department != nil {
		args = append(args, *filter.Department)
		clauses = append(clauses, fmt.Sprintf("department=$%d", len(args)))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("assigned_to=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Categories) > 0 {
		placeholders := make([]string, len(filter.Categories))
		for i, cat := range filter.Categories {
			args = append(args, cat)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("category IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC, id LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

// AppendResponse inserts a single response row. Appends from concurrent
// requests are independent inserts, so neither can clobber the other.
func (r *complaintRepository) AppendResponse(ctx context.Context, response *domain.Response) error {
	const query = `
        INSERT INTO complaint_responses (complaint_id, user_id, message)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		response.ComplaintID,
		response.UserID,
		response.Message,
	).Scan(&response.ID, &response.CreatedAt)
}

func (r *complaintRepository) ListResponses(ctx context.Context, complaintID string) ([]domain.Response, error) {
	const query = `
        SELECT id, complaint_id, user_id, message, created_at
        FROM complaint_responses WHERE complaint_id=$1
        ORDER BY created_at, id`
	rows, err := r.pool.Query(ctx, query, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var responses []domain.Response
	for rows.Next() {
		var resp domain.Response
		if err := rows.Scan(&resp.ID, &resp.ComplaintID, &resp.UserID, &resp.Message, &resp.CreatedAt); err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}

// Breakdown aggregates totals, per-status and per-category counts.
func (r *complaintRepository) Breakdown(ctx context.Context) (*StatusBreakdown, error) {
	breakdown := &StatusBreakdown{
		ByStatus:   make(map[domain.ComplaintStatus]int64),
		ByCategory: make(map[domain.ComplaintCategory]int64),
	}

	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM complaints GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status domain.ComplaintStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		breakdown.ByStatus[status] = count
		breakdown.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	catRows, err := r.pool.Query(ctx, `SELECT category, COUNT(*) FROM complaints GROUP BY category`)
	if err != nil {
		return nil, err
	}
	defer catRows.Close()
	for catRows.Next() {
		var category domain.ComplaintCategory
		var count int64
		if err := catRows.Scan(&category, &count); err != nil {
			return nil, err
		}
		breakdown.ByCategory[category] = count
	}
	return breakdown, catRows.Err()
}

func scanComplaintRow(row pgx.Row) (*domain.Complaint, error) {
	var complaint domain.Complaint
	var resolvedBy, resolutionNote *string
	var resolvedAt *time.Time
	if err := row.Scan(
		&complaint.ID,
		&complaint.Title,
		&complaint.Description,
		&complaint.Category,
		&complaint.Priority,
		&complaint.Department,
		&complaint.Status,
		&complaint.CreatedBy,
		&complaint.AssignedTo,
		&resolvedBy,
		&resolutionNote,
		&resolvedAt,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
	); err != nil {
		return nil, err
	}
	attachResolution(&complaint, resolvedBy, resolutionNote, resolvedAt)
	return &complaint, nil
}

func scanComplaints(rows pgx.Rows) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for rows.Next() {
		var complaint domain.Complaint
		var resolvedBy, resolutionNote *string
		var resolvedAt *time.Time
		if err := rows.Scan(
			&complaint.ID,
			&complaint.Title,
			&complaint.Description,
			&complaint.Category,
			&complaint.Priority,
			&complaint.Department,
			&complaint.Status,
			&complaint.CreatedBy,
			&complaint.AssignedTo,
			&resolvedBy,
			&resolutionNote,
			&resolvedAt,
			&complaint.CreatedAt,
			&complaint.UpdatedAt,
		); err != nil {
			return nil, err
		}
		attachResolution(&complaint, resolvedBy, resolutionNote, resolvedAt)
		result = append(result, complaint)
	}
	return result, rows.Err()
}

func attachResolution(complaint *domain.Complaint, resolvedBy, resolutionNote *string, resolvedAt *time.Time) {
	if resolvedBy == nil {
		return
	}
	details := domain.ResolutionDetails{ResolvedBy: *resolvedBy}
	if resolutionNote != nil {
		details.ResolutionNote = *resolutionNote
	}
	if resolvedAt != nil {
		details.ResolvedAt = *resolvedAt
	}
	complaint.Resolution = &details
}
