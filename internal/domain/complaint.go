package domain

import "time"

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	ComplaintStatusPending    ComplaintStatus = "pending"
	ComplaintStatusInProgress ComplaintStatus = "in-progress"
	ComplaintStatusResolved   ComplaintStatus = "resolved"
	ComplaintStatusRejected   ComplaintStatus = "rejected"
)

// Valid reports whether the status is one of the known constants.
func (s ComplaintStatus) Valid() bool {
	switch s {
	case ComplaintStatusPending, ComplaintStatusInProgress, ComplaintStatusResolved, ComplaintStatusRejected:
		return true
	}
	return false
}

// ComplaintPriority enumerates urgency levels.
type ComplaintPriority string

const (
	ComplaintPriorityLow    ComplaintPriority = "low"
	ComplaintPriorityMedium ComplaintPriority = "medium"
	ComplaintPriorityHigh   ComplaintPriority = "high"
)

// Valid reports whether the priority is one of the known constants.
func (p ComplaintPriority) Valid() bool {
	switch p {
	case ComplaintPriorityLow, ComplaintPriorityMedium, ComplaintPriorityHigh:
		return true
	}
	return false
}

// ComplaintCategory groups complaints for routing and analytics.
type ComplaintCategory string

const (
	CategoryAcademic       ComplaintCategory = "academic"
	CategoryHostel         ComplaintCategory = "hostel"
	CategoryInfrastructure ComplaintCategory = "infrastructure"
	CategoryAdministration ComplaintCategory = "administration"
	CategoryOther          ComplaintCategory = "other"
)

// Valid reports whether the category is one of the known constants.
func (c ComplaintCategory) Valid() bool {
	switch c {
	case CategoryAcademic, CategoryHostel, CategoryInfrastructure, CategoryAdministration, CategoryOther:
		return true
	}
	return false
}

// ResolutionDetails records who resolved a complaint, when, and why.
// Set only by the resolving transition; retained as history if the status
// later moves away from resolved.
type ResolutionDetails struct {
	ResolvedBy     string
	ResolutionNote string
	ResolvedAt     time.Time
}

// Response is a single entry in a complaint's append-only response thread.
type Response struct {
	ID          string
	ComplaintID string
	UserID      string
	Message     string
	CreatedAt   time.Time
}

// Complaint is the aggregate for filed grievances. CreatedBy is set once at
// creation and never reassigned; Department owns routing and staff scoping.
type Complaint struct {
	ID          string
	Title       string
	Description string
	Category    ComplaintCategory
	Priority    ComplaintPriority
	Department  string
	Status      ComplaintStatus
	CreatedBy   string
	AssignedTo  *string
	Resolution  *ResolutionDetails
	Responses   []Response
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
