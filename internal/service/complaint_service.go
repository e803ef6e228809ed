package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/policy"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// ComplaintService coordinates complaint workflows. Every operation takes
// the caller's principal explicitly; there is no ambient current user.
type ComplaintService struct {
	complaints  repository.ComplaintRepository
	departments repository.DepartmentRepository
	history     repository.ComplaintHistoryRepository
	dispatcher  events.Dispatcher
}

// ComplaintDependencies bundles repositories for the complaint service.
type ComplaintDependencies struct {
	ComplaintRepo  repository.ComplaintRepository
	DepartmentRepo repository.DepartmentRepository
	HistoryRepo    repository.ComplaintHistoryRepository
	Dispatcher     events.Dispatcher
}

// ComplaintCreateInput describes complaint creation payload.
type ComplaintCreateInput struct {
	Title       string
	Description string
	Category    domain.ComplaintCategory
	Priority    domain.ComplaintPriority
	Department  string
}

// ComplaintListFilter describes optional listing filters on top of the
// caller's visibility scope.
type ComplaintListFilter struct {
	Statuses   []domain.ComplaintStatus
	Categories []domain.ComplaintCategory
	Priorities []domain.ComplaintPriority
	Limit      int
	Offset     int
}

// ComplaintStats aggregates counts for the admin analytics dashboard.
type ComplaintStats struct {
	Total          int64
	ByStatus       map[domain.ComplaintStatus]int64
	ByCategory     map[domain.ComplaintCategory]int64
	ResolutionRate float64
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	return &ComplaintService{
		complaints:  deps.ComplaintRepo,
		departments: deps.DepartmentRepo,
		history:     deps.HistoryRepo,
		dispatcher:  deps.Dispatcher,
	}
}

// Create files a new complaint for the caller. Status always starts pending;
// the caller becomes the immutable owner.
func (s *ComplaintService) Create(ctx context.Context, p domain.Principal, input ComplaintCreateInput) (*domain.Complaint, error) {
	if !policy.CanAccess(p, nil, policy.ActionCreate) {
		return nil, apperrors.NewForbidden("access denied")
	}

	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	department := strings.TrimSpace(input.Department)
	if title == "" || description == "" || department == "" {
		return nil, apperrors.NewValidationError("title, description, department required", nil)
	}
	if !input.Category.Valid() {
		return nil, apperrors.NewValidationError("invalid category", map[string]any{"category": string(input.Category)})
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.ComplaintPriorityMedium
	}
	if !priority.Valid() {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": string(priority)})
	}

	if s.departments != nil {
		dept, err := s.departments.GetByName(ctx, department)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewValidationError("unknown department", map[string]any{"department": department})
			}
			return nil, apperrors.MapError(err)
		}
		if !dept.IsActive {
			return nil, apperrors.NewValidationError("department inactive", map[string]any{"department": department})
		}
	}

	complaint := &domain.Complaint{
		Title:       title,
		Description: description,
		Category:    input.Category,
		Priority:    priority,
		Department:  department,
		Status:      domain.ComplaintStatusPending,
		CreatedBy:   p.ID,
	}

	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintCreated,
		ComplaintID: complaint.ID,
		Actor:       events.Actor{ID: p.ID, Role: p.Role},
		Payload: events.ComplaintCreatedPayload{
			Department: complaint.Department,
			Category:   complaint.Category,
			Priority:   complaint.Priority,
			Title:      complaint.Title,
		},
	})
	return complaint, nil
}

// Get fetches a single complaint. A missing record is not-found before any
// access decision; a denial is always forbidden, never not-found.
func (s *ComplaintService) Get(ctx context.Context, p domain.Principal, id string) (*domain.Complaint, error) {
	complaint, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccess(p, complaint, policy.ActionRead) {
		return nil, apperrors.NewForbidden("access denied")
	}
	return complaint, nil
}

// List returns the caller's visible complaints, most recent first.
func (s *ComplaintService) List(ctx context.Context, p domain.Principal, filter ComplaintListFilter) ([]domain.Complaint, error) {
	if !policy.CanAccess(p, nil, policy.ActionList) {
		return nil, apperrors.NewForbidden("access denied")
	}
	scope := policy.ScopeFor(p)
	repoFilter := repository.ComplaintFilter{
		CreatedBy:  scope.CreatedBy,
		Department: scope.Department,
		Statuses:   filter.Statuses,
		Categories: filter.Categories,
		Priorities: filter.Priorities,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	complaints, err := s.complaints.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return complaints, nil
}

// UpdateStatus transitions a complaint's status, stamping resolution
// metadata when the new status is resolved.
func (s *ComplaintService) UpdateStatus(ctx context.Context, p domain.Principal, id string, newStatus domain.ComplaintStatus, note string) (*domain.Complaint, error) {
	complaint, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccess(p, complaint, policy.ActionUpdateStatus) {
		return nil, apperrors.NewForbidden("access denied")
	}

	oldStatus := complaint.Status
	if err := policy.Transition(complaint, newStatus, p, note, time.Now()); err != nil {
		return nil, err
	}
	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.recordHistory(ctx, p.ID, complaint.ID, domain.ChangeTypeStatus,
		map[string]any{"status": oldStatus},
		map[string]any{"status": newStatus, "note": note},
	)
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintStatusChanged,
		ComplaintID: complaint.ID,
		Actor:       events.Actor{ID: p.ID, Role: p.Role},
		Payload: events.ComplaintStatusChangedPayload{
			OldStatus:      oldStatus,
			NewStatus:      newStatus,
			ResolutionNote: note,
		},
	})
	return complaint, nil
}

// AddResponse appends a message to a complaint's response thread. The append
// is a single insert so concurrent responders cannot lose each other's entry.
func (s *ComplaintService) AddResponse(ctx context.Context, p domain.Principal, id, message string) ([]domain.Response, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.NewValidationError("message required", nil)
	}

	complaint, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccess(p, complaint, policy.ActionAddResponse) {
		return nil, apperrors.NewForbidden("access denied")
	}

	response := &domain.Response{
		ComplaintID: complaint.ID,
		UserID:      p.ID,
		Message:     message,
	}
	if err := s.complaints.AppendResponse(ctx, response); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintResponseAdded,
		ComplaintID: complaint.ID,
		Actor:       events.Actor{ID: p.ID, Role: p.Role},
		Payload: events.ComplaintResponseAddedPayload{
			ResponseID:     response.ID,
			AuthorID:       p.ID,
			MessagePreview: stringPreview(message, 120),
		},
	})

	responses, err := s.complaints.ListResponses(ctx, complaint.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return responses, nil
}

// History returns audit trail entries for staff and admins with read access.
func (s *ComplaintService) History(ctx context.Context, p domain.Principal, id string, limit, offset int) ([]domain.ComplaintHistory, error) {
	if s.history == nil {
		return []domain.ComplaintHistory{}, nil
	}
	if p.Role == domain.RoleStudent {
		return nil, apperrors.NewForbidden("access denied")
	}
	complaint, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccess(p, complaint, policy.ActionRead) {
		return nil, apperrors.NewForbidden("access denied")
	}
	entries, err := s.history.ListByComplaint(ctx, id, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// Stats aggregates complaint counts for the admin dashboard.
func (s *ComplaintService) Stats(ctx context.Context) (*ComplaintStats, error) {
	breakdown, err := s.complaints.Breakdown(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	stats := &ComplaintStats{
		Total:      breakdown.Total,
		ByStatus:   breakdown.ByStatus,
		ByCategory: breakdown.ByCategory,
	}
	if breakdown.Total > 0 {
		resolved := breakdown.ByStatus[domain.ComplaintStatusResolved]
		stats.ResolutionRate = float64(resolved) / float64(breakdown.Total) * 100
	}
	return stats, nil
}

func (s *ComplaintService) fetch(ctx context.Context, id string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return complaint, nil
}

func (s *ComplaintService) recordHistory(ctx context.Context, actorID, complaintID string, changeType domain.ChangeType, oldValue, newValue map[string]any) {
	if s.history == nil {
		return
	}
	_ = s.history.Create(ctx, &domain.ComplaintHistory{
		ComplaintID: complaintID,
		ChangedBy:   actorID,
		ChangeType:  changeType,
		OldValue:    oldValue,
		NewValue:    newValue,
	})
}

func (s *ComplaintService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
