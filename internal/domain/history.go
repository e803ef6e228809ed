package domain

import "time"

// ChangeType captures what changed in a history entry.
type ChangeType string

const (
	ChangeTypeStatus   ChangeType = "STATUS_CHANGE"
	ChangeTypeAssignee ChangeType = "ASSIGNEE_CHANGE"
)

// ComplaintHistory is an immutable audit trail entry.
type ComplaintHistory struct {
	ID          string
	ComplaintID string
	ChangedBy   string
	ChangeType  ChangeType
	OldValue    map[string]any
	NewValue    map[string]any
	CreatedAt   time.Time
}
