package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// DepartmentRepository defines persistence access for departments.
type DepartmentRepository interface {
	Create(ctx context.Context, dept *domain.Department) error
	GetByID(ctx context.Context, id string) (*domain.Department, error)
	GetByName(ctx context.Context, name string) (*domain.Department, error)
	ListActive(ctx context.Context) ([]domain.Department, error)
}

type departmentRepository struct {
	pool *pgxpool.Pool
}

// NewDepartmentRepository returns a Postgres-backed implementation.
func NewDepartmentRepository(pool *pgxpool.Pool) DepartmentRepository {
	return &departmentRepository{pool: pool}
}

func (r *departmentRepository) Create(ctx context.Context, dept *domain.Department) error {
	const query = `
        INSERT INTO departments (name, code, contact_email, is_active)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		dept.Name,
		dept.Code,
		dept.ContactEmail,
		dept.IsActive,
	).Scan(&dept.ID, &dept.CreatedAt, &dept.UpdatedAt)
}

func (r *departmentRepository) GetByID(ctx context.Context, id string) (*domain.Department, error) {
	const query = `
        SELECT id, name, code, contact_email, is_active, created_at, updated_at
        FROM departments WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *departmentRepository) GetByName(ctx context.Context, name string) (*domain.Department, error) {
	const query = `
        SELECT id, name, code, contact_email, is_active, created_at, updated_at
        FROM departments WHERE name=$1`
	return r.fetchSingle(ctx, query, name)
}

func (r *departmentRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Department, error) {
	var dept domain.Department
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&dept.ID,
		&dept.Name,
		&dept.Code,
		&dept.ContactEmail,
		&dept.IsActive,
		&dept.CreatedAt,
		&dept.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepository) ListActive(ctx context.Context) ([]domain.Department, error) {
	const query = `
        SELECT id, name, code, contact_email, is_active, created_at, updated_at
        FROM departments WHERE is_active ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Department
	for rows.Next() {
		var dept domain.Department
		if err := rows.Scan(
			&dept.ID,
			&dept.Name,
			&dept.Code,
			&dept.ContactEmail,
			&dept.IsActive,
			&dept.CreatedAt,
			&dept.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, dept)
	}
	return result, rows.Err()
}
