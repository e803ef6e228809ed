package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/service"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// UsersHandler covers account registration, login, password flows, the
// profile endpoint and the admin user directory.
type UsersHandler struct {
	authService *service.AuthService
	userService *service.UserService
	rateLimiter *auth.LoginRateLimiter
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, userService *service.UserService, rateLimiter *auth.LoginRateLimiter) *UsersHandler {
	return &UsersHandler{authService: authService, userService: userService, rateLimiter: rateLimiter}
}

// Register POST /users.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		return apperrors.NewValidationError("name and email are required", nil)
	}
	if len(req.Password) < 8 {
		return apperrors.NewValidationError("password must be at least 8 characters", nil)
	}

	user, token, expiresAt, err := h.authService.Register(c.Context(), req.Name, req.Email, req.Password, req.Department)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"user": userResponse(user),
			"auth": dto.AuthResponse{Token: token, ExpiresAt: expiresAt},
		},
	})
}

// Login POST /users/login. Attempts are rate limited per email.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password are required", nil)
	}
	if err := h.rateLimiter.Allow(c.Context(), email); err != nil {
		return err
	}

	user, token, expiresAt, err := h.authService.Login(c.Context(), email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": userResponse(user),
			"auth": dto.AuthResponse{Token: token, ExpiresAt: expiresAt},
		},
	})
}

// RequestPasswordReset POST /users/password-reset. Always returns 202 so the
// endpoint does not leak which emails exist.
func (h *UsersHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if _, err := h.authService.RequestPasswordReset(c.Context(), req.Email); err != nil && !apperrors.IsNotFound(err) {
		return err
	}
	return c.Status(http.StatusAccepted).JSON(fiber.Map{"data": fiber.Map{"message": "reset requested"}})
}

// ConfirmPasswordReset POST /users/password-reset/confirm.
func (h *UsersHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if len(req.NewPassword) < 8 {
		return apperrors.NewValidationError("password must be at least 8 characters", nil)
	}
	if err := h.authService.ConfirmPasswordReset(c.Context(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "password updated"}})
}

// ChangePassword POST /users/password.
func (h *UsersHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.PasswordChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if len(req.NewPassword) < 8 {
		return apperrors.NewValidationError("password must be at least 8 characters", nil)
	}
	if err := h.authService.ChangePassword(c.Context(), principal.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "password updated"}})
}

// Profile GET /users/profile.
func (h *UsersHandler) Profile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	user, err := h.userService.GetProfile(c.Context(), principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// List GET /users. Admin directory with optional role/department filters.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	filter := repository.UserFilter{
		Limit:  parseInt(c.Query("limit"), 50),
		Offset: parseInt(c.Query("offset"), 0),
	}
	if role := c.Query("role"); role != "" {
		r := domain.Role(role)
		filter.Role = &r
	}
	if dept := c.Query("department"); dept != "" {
		filter.Department = &dept
	}
	users, err := h.userService.ListUsers(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponses(users)})
}

// ListStaff GET /users/staff. Available to staff and admin for assignment
// pickers; optional department filter.
func (h *UsersHandler) ListStaff(c *fiber.Ctx) error {
	var department *string
	if dept := c.Query("department"); dept != "" {
		department = &dept
	}
	users, err := h.userService.ListStaff(c.Context(), department)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponses(users)})
}

// Update PATCH /users/:id. Admin only.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.userService.UpdateUser(c.Context(), c.Params("id"), service.UserUpdateInput{
		Name:       req.Name,
		Role:       req.Role,
		Department: req.Department,
		Status:     req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// Delete DELETE /users/:id. Admin only.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	if err := h.userService.DeleteUser(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		Department: user.Department,
		Status:     user.Status,
		CreatedAt:  user.CreatedAt,
	}
}

func userResponses(users []domain.User) []dto.UserResponse {
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return items
}
