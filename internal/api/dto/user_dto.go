package dto

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// RegisterRequest payload for new student accounts.
type RegisterRequest struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	Department *string `json:"department"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// PasswordResetRequest payload.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirmRequest payload.
type PasswordResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// PasswordChangeRequest payload.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// UserResponse is the directory/profile representation.
type UserResponse struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Role       domain.Role       `json:"role"`
	Department *string           `json:"department,omitempty"`
	Status     domain.UserStatus `json:"status"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// UpdateUserRequest describes admin account edits.
type UpdateUserRequest struct {
	Name       *string            `json:"name"`
	Role       *domain.Role       `json:"role"`
	Department *string            `json:"department"`
	Status     *domain.UserStatus `json:"status"`
}
