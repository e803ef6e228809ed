package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/service"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// ComplaintsHandler manages complaint endpoints for all roles; scoping is
// decided by the service from the caller's principal.
type ComplaintsHandler struct {
	complaints *service.ComplaintService
	assignment *service.AssignmentService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService *service.ComplaintService, assignmentService *service.AssignmentService) *ComplaintsHandler {
	return &ComplaintsHandler{complaints: complaintService, assignment: assignmentService}
}

// Create POST /complaints.
func (h *ComplaintsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	complaint, err := h.complaints.Create(c.Context(), principal, service.ComplaintCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		Department:  req.Department,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": complaintResponse(complaint)})
}

// List GET /complaints.
func (h *ComplaintsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	complaints, err := h.complaints.List(c.Context(), principal, parseListFilter(c))
	if err != nil {
		return err
	}
	items := make([]dto.ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		items = append(items, complaintResponse(&complaints[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /complaints/:id.
func (h *ComplaintsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	complaint, err := h.complaints.Get(c.Context(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponse(complaint)})
}

// UpdateStatus PATCH /complaints/:id/status.
func (h *ComplaintsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	complaint, err := h.complaints.UpdateStatus(c.Context(), principal, c.Params("id"), req.Status, req.ResolutionNote)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponse(complaint)})
}

// AddResponse POST /complaints/:id/responses.
func (h *ComplaintsHandler) AddResponse(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AddResponseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	responses, err := h.complaints.AddResponse(c.Context(), principal, c.Params("id"), req.Message)
	if err != nil {
		return err
	}
	items := make([]dto.ResponseEntry, 0, len(responses))
	for i := range responses {
		items = append(items, responseEntry(&responses[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Assign PATCH /complaints/:id/assign.
func (h *ComplaintsHandler) Assign(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.StaffID) == "" {
		return apperrors.NewValidationError("staffId required", nil)
	}
	complaint, err := h.assignment.Assign(c.Context(), principal, c.Params("id"), req.StaffID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponse(complaint)})
}

// History GET /complaints/:id/history.
func (h *ComplaintsHandler) History(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	limit := parseInt(c.Query("limit"), 50)
	offset := parseInt(c.Query("offset"), 0)
	entries, err := h.complaints.History(c.Context(), principal, c.Params("id"), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.HistoryEntry, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.HistoryEntry{
			ID:         entry.ID,
			ChangeType: entry.ChangeType,
			ChangedBy:  entry.ChangedBy,
			OldValue:   entry.OldValue,
			NewValue:   entry.NewValue,
			CreatedAt:  entry.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// Stats GET /complaints/stats. Admin only, enforced by route guard.
func (h *ComplaintsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.complaints.Stats(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.StatsResponse{
		Total:          stats.Total,
		ByStatus:       stats.ByStatus,
		ByCategory:     stats.ByCategory,
		ResolutionRate: stats.ResolutionRate,
	}})
}

func parseListFilter(c *fiber.Ctx) service.ComplaintListFilter {
	filter := service.ComplaintListFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.ComplaintStatus(strings.TrimSpace(part)))
		}
	}
	if categoryStr := c.Query("category"); categoryStr != "" {
		for _, part := range strings.Split(categoryStr, ",") {
			filter.Categories = append(filter.Categories, domain.ComplaintCategory(strings.TrimSpace(part)))
		}
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		for _, part := range strings.Split(priorityStr, ",") {
			filter.Priorities = append(filter.Priorities, domain.ComplaintPriority(strings.TrimSpace(part)))
		}
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 50)
	if page < 1 {
		page = 1
	}
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}

func complaintResponse(complaint *domain.Complaint) dto.ComplaintResponse {
	responses := make([]dto.ResponseEntry, 0, len(complaint.Responses))
	for i := range complaint.Responses {
		responses = append(responses, responseEntry(&complaint.Responses[i]))
	}
	resp := dto.ComplaintResponse{
		ID:          complaint.ID,
		Title:       complaint.Title,
		Description: complaint.Description,
		Category:    complaint.Category,
		Priority:    complaint.Priority,
		Department:  complaint.Department,
		Status:      complaint.Status,
		CreatedBy:   complaint.CreatedBy,
		AssignedTo:  complaint.AssignedTo,
		Responses:   responses,
		CreatedAt:   complaint.CreatedAt,
		UpdatedAt:   complaint.UpdatedAt,
	}
	if complaint.Resolution != nil {
		resp.Resolution = &dto.ResolutionResponse{
			ResolvedBy:     complaint.Resolution.ResolvedBy,
			ResolutionNote: complaint.Resolution.ResolutionNote,
			ResolvedAt:     complaint.Resolution.ResolvedAt,
		}
	}
	return resp
}

func responseEntry(response *domain.Response) dto.ResponseEntry {
	return dto.ResponseEntry{
		ID:        response.ID,
		UserID:    response.UserID,
		Message:   response.Message,
		CreatedAt: response.CreatedAt,
	}
}
