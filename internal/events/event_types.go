package events

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintCreated       EventType = "complaint_created"
	EventComplaintStatusChanged EventType = "complaint_status_changed"
	EventComplaintAssigned      EventType = "complaint_assigned"
	EventComplaintResponseAdded EventType = "complaint_response_added"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	ID   string      `json:"id"`
	Role domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	ComplaintID string      `json:"complaint_id"`
	Actor       Actor       `json:"actor"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// ComplaintCreatedPayload payload.
type ComplaintCreatedPayload struct {
	Department string                   `json:"department"`
	Category   domain.ComplaintCategory `json:"category"`
	Priority   domain.ComplaintPriority `json:"priority"`
	Title      string                   `json:"title"`
}

// ComplaintStatusChangedPayload payload.
type ComplaintStatusChangedPayload struct {
	OldStatus      domain.ComplaintStatus `json:"old_status"`
	NewStatus      domain.ComplaintStatus `json:"new_status"`
	ResolutionNote string                 `json:"resolution_note,omitempty"`
}

// ComplaintAssignedPayload payload.
type ComplaintAssignedPayload struct {
	AssignedTo string `json:"assigned_to"`
	Department string `json:"department"`
}

// ComplaintResponseAddedPayload payload.
type ComplaintResponseAddedPayload struct {
	ResponseID     string `json:"response_id"`
	AuthorID       string `json:"author_id"`
	MessagePreview string `json:"message_preview"`
}
