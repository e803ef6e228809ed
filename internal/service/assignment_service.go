package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/policy"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// AssignmentService binds complaints to staff members. Admin only.
type AssignmentService struct {
	complaints repository.ComplaintRepository
	users      repository.UserRepository
	history    repository.ComplaintHistoryRepository
	dispatcher events.Dispatcher
}

// AssignmentDependencies bundles repositories.
type AssignmentDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	UserRepo      repository.UserRepository
	HistoryRepo   repository.ComplaintHistoryRepository
	Dispatcher    events.Dispatcher
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		complaints: deps.ComplaintRepo,
		users:      deps.UserRepo,
		history:    deps.HistoryRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Assign sets a complaint's assignee. The target must be an existing,
// active staff account. Any prior assignee is overwritten; assigning the
// same staff id again is accepted as a no-op write.
func (s *AssignmentService) Assign(ctx context.Context, actor domain.Principal, complaintID, staffID string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": complaintID})
		}
		return nil, apperrors.MapError(err)
	}
	if !policy.CanAccess(actor, complaint, policy.ActionAssign) {
		return nil, apperrors.NewForbidden("access denied")
	}

	assignee, err := s.users.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff", map[string]any{"staff_id": staffID})
		}
		return nil, apperrors.MapError(err)
	}
	if assignee.Role != domain.RoleStaff {
		return nil, apperrors.NewValidationError("assignee is not a staff member", map[string]any{"staff_id": staffID})
	}
	if assignee.Status != domain.UserStatusActive {
		return nil, apperrors.NewConflict("assignee suspended", map[string]any{"staff_id": staffID})
	}

	oldAssignee := complaint.AssignedTo
	complaint.AssignedTo = &assignee.ID
	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.recordAssigneeChange(ctx, actor.ID, complaint.ID, oldAssignee, complaint.AssignedTo)
	s.publishEvent(ctx, actor, events.ComplaintAssignedPayload{
		AssignedTo: assignee.ID,
		Department: complaint.Department,
	}, complaint.ID)
	return complaint, nil
}

func (s *AssignmentService) recordAssigneeChange(ctx context.Context, actorID, complaintID string, oldAssignee, newAssignee *string) {
	if s.history == nil {
		return
	}
	_ = s.history.Create(ctx, &domain.ComplaintHistory{
		ComplaintID: complaintID,
		ChangedBy:   actorID,
		ChangeType:  domain.ChangeTypeAssignee,
		OldValue: map[string]any{
			"assigned_to": oldAssignee,
		},
		NewValue: map[string]any{
			"assigned_to": newAssignee,
		},
	})
}

func (s *AssignmentService) publishEvent(ctx context.Context, actor domain.Principal, payload events.ComplaintAssignedPayload, complaintID string) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:          uuid.NewString(),
		Type:        events.EventComplaintAssigned,
		ComplaintID: complaintID,
		Actor:       events.Actor{ID: actor.ID, Role: actor.Role},
		Timestamp:   time.Now(),
		Payload:     payload,
	}
	_ = s.dispatcher.Publish(ctx, event)
}
