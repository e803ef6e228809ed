package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// UserService exposes the admin user directory and profile lookups.
type UserService struct {
	users repository.UserRepository
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// UserUpdateInput describes mutable account fields. Nil means unchanged.
type UserUpdateInput struct {
	Name       *string
	Role       *domain.Role
	Department *string
	Status     *domain.UserStatus
}

// GetProfile returns the caller's own account record.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("account", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// ListUsers returns directory entries, optionally filtered by role.
func (s *UserService) ListUsers(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// ListStaff returns staff accounts for the assignment picker.
func (s *UserService) ListStaff(ctx context.Context, department *string) ([]domain.User, error) {
	role := domain.RoleStaff
	return s.ListUsers(ctx, repository.UserFilter{Role: &role, Department: department})
}

// UpdateUser applies admin edits to an account.
func (s *UserService) UpdateUser(ctx context.Context, id string, input UserUpdateInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("account", map[string]any{"user_id": id})
		}
		return nil, apperrors.MapError(err)
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": string(*input.Role)})
		}
		user.Role = *input.Role
	}
	if input.Department != nil {
		user.Department = input.Department
	}
	if input.Status != nil {
		user.Status = *input.Status
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// DeleteUser removes an account. Complaints filed by the account survive;
// only user records are deletable.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("account", map[string]any{"user_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}
