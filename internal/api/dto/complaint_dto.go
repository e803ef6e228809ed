package dto

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Category    domain.ComplaintCategory `json:"category"`
	Priority    domain.ComplaintPriority `json:"priority"`
	Department  string                   `json:"department"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status         domain.ComplaintStatus `json:"status"`
	ResolutionNote string                 `json:"resolutionNote"`
}

// AddResponseRequest payload.
type AddResponseRequest struct {
	Message string `json:"message"`
}

// AssignRequest payload.
type AssignRequest struct {
	StaffID string `json:"staffId"`
}

// ResolutionResponse mirrors stamped resolution metadata.
type ResolutionResponse struct {
	ResolvedBy     string    `json:"resolvedBy"`
	ResolutionNote string    `json:"resolutionNote"`
	ResolvedAt     time.Time `json:"resolvedAt"`
}

// ResponseEntry is a single thread message.
type ResponseEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// ComplaintResponse is the full complaint representation.
type ComplaintResponse struct {
	ID          string                   `json:"id"`
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Category    domain.ComplaintCategory `json:"category"`
	Priority    domain.ComplaintPriority `json:"priority"`
	Department  string                   `json:"department"`
	Status      domain.ComplaintStatus   `json:"status"`
	CreatedBy   string                   `json:"createdBy"`
	AssignedTo  *string                  `json:"assignedTo,omitempty"`
	Resolution  *ResolutionResponse      `json:"resolutionDetails,omitempty"`
	Responses   []ResponseEntry          `json:"responses"`
	CreatedAt   time.Time                `json:"createdAt"`
	UpdatedAt   time.Time                `json:"updatedAt"`
}

// HistoryEntry is an audit trail record.
type HistoryEntry struct {
	ID         string            `json:"id"`
	ChangeType domain.ChangeType `json:"changeType"`
	ChangedBy  string            `json:"changedBy"`
	OldValue   map[string]any    `json:"oldValue"`
	NewValue   map[string]any    `json:"newValue"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// StatsResponse aggregates admin analytics counters.
type StatsResponse struct {
	Total          int64                              `json:"total"`
	ByStatus       map[domain.ComplaintStatus]int64   `json:"byStatus"`
	ByCategory     map[domain.ComplaintCategory]int64 `json:"byCategory"`
	ResolutionRate float64                            `json:"resolutionRate"`
}
