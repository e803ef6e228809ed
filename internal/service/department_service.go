package service

import (
	"context"
	"strings"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// DepartmentService manages the department catalog.
type DepartmentService struct {
	departments repository.DepartmentRepository
}

// NewDepartmentService constructs the service.
func NewDepartmentService(departments repository.DepartmentRepository) *DepartmentService {
	return &DepartmentService{departments: departments}
}

// DepartmentCreateInput describes a new department.
type DepartmentCreateInput struct {
	Name         string
	Code         string
	ContactEmail string
}

// ListActive returns active departments ordered by name.
func (s *DepartmentService) ListActive(ctx context.Context) ([]domain.Department, error) {
	departments, err := s.departments.ListActive(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return departments, nil
}

// Create registers a new department.
func (s *DepartmentService) Create(ctx context.Context, input DepartmentCreateInput) (*domain.Department, error) {
	name := strings.TrimSpace(input.Name)
	code := strings.TrimSpace(input.Code)
	email := strings.TrimSpace(input.ContactEmail)
	if name == "" || code == "" || email == "" {
		return nil, apperrors.NewValidationError("name, code, contact_email required", nil)
	}

	dept := &domain.Department{
		Name:         name,
		Code:         code,
		ContactEmail: email,
		IsActive:     true,
	}
	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, apperrors.MapError(err)
	}
	return dept, nil
}
