package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/service"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// DepartmentsHandler exposes the department directory.
type DepartmentsHandler struct {
	departments *service.DepartmentService
}

// NewDepartmentsHandler constructs handler.
func NewDepartmentsHandler(departmentService *service.DepartmentService) *DepartmentsHandler {
	return &DepartmentsHandler{departments: departmentService}
}

// List GET /departments. Active departments only.
func (h *DepartmentsHandler) List(c *fiber.Ctx) error {
	departments, err := h.departments.ListActive(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.DepartmentResponse, 0, len(departments))
	for i := range departments {
		items = append(items, departmentResponse(&departments[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Create POST /departments. Admin only.
func (h *DepartmentsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	department, err := h.departments.Create(c.Context(), service.DepartmentCreateInput{
		Name:         req.Name,
		Code:         req.Code,
		ContactEmail: req.ContactEmail,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": departmentResponse(department)})
}

func departmentResponse(department *domain.Department) dto.DepartmentResponse {
	return dto.DepartmentResponse{
		ID:           department.ID,
		Name:         department.Name,
		Code:         department.Code,
		ContactEmail: department.ContactEmail,
		IsActive:     department.IsActive,
		CreatedAt:    department.CreatedAt,
	}
}
