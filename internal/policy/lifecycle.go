package policy

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// Transition moves a complaint to a new status, stamping resolution metadata
// when the new status is resolved. Authorization is the caller's problem:
// the access check for update_status must already have passed.
//
// Any status may follow any other; there is no transition matrix. Moving away
// from resolved retains the recorded resolution details as history, and
// resolving again overwrites them wholesale.
func Transition(c *domain.Complaint, newStatus domain.ComplaintStatus, actor domain.Principal, note string, now time.Time) error {
	if !newStatus.Valid() {
		return apperrors.NewValidationError("invalid status value", map[string]any{
			"status": string(newStatus),
		})
	}
	c.Status = newStatus
	if newStatus == domain.ComplaintStatusResolved {
		c.Resolution = &domain.ResolutionDetails{
			ResolvedBy:     actor.ID,
			ResolutionNote: note,
			ResolvedAt:     now,
		}
	}
	c.UpdatedAt = now
	return nil
}
