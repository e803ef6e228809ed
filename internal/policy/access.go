// Package policy holds the pure decision core: access checks, the status
// lifecycle, and list visibility. Nothing here touches storage or transport;
// callers pass loaded records in and persist results themselves.
package policy

import "github.com/spec-kit/complaint-service/internal/domain"

// Action identifies an operation gated by the access policy.
type Action string

const (
	ActionCreate       Action = "create"
	ActionRead         Action = "read"
	ActionList         Action = "list"
	ActionUpdateStatus Action = "update_status"
	ActionAddResponse  Action = "add_response"
	ActionAssign       Action = "assign"
)

// CanAccess decides whether a principal may perform an action on a complaint.
// Deny by default: unknown roles and unknown actions are refused. The caller
// must resolve "complaint does not exist" before consulting this check so a
// denial is never conflated with a missing record.
func CanAccess(p domain.Principal, c *domain.Complaint, action Action) bool {
	switch action {
	case ActionCreate, ActionList:
		// Creation is open to any authenticated principal; listing is
		// always permitted and scoped separately by ScopeFor.
		return p.Role.Valid()
	case ActionRead, ActionAddResponse:
		switch p.Role {
		case domain.RoleStudent:
			return c != nil && c.CreatedBy == p.ID
		case domain.RoleStaff:
			return c != nil && p.InDepartment(c.Department)
		case domain.RoleAdmin:
			return true
		}
		return false
	case ActionUpdateStatus:
		switch p.Role {
		case domain.RoleStudent:
			return false
		case domain.RoleStaff:
			return c != nil && p.InDepartment(c.Department)
		case domain.RoleAdmin:
			return true
		}
		return false
	case ActionAssign:
		return p.Role == domain.RoleAdmin
	}
	return false
}
