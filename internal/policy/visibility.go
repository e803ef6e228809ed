package policy

import (
	"sort"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// Scope narrows a complaint listing to what a principal may see. A nil field
// means unconstrained. The repository translates this into its query filter;
// ListFor applies it in memory. Both must agree with CanAccess(read).
type Scope struct {
	CreatedBy  *string
	Department *string
}

// Unscoped reports whether the scope imposes no constraint.
func (s Scope) Unscoped() bool {
	return s.CreatedBy == nil && s.Department == nil
}

// Matches reports whether a complaint falls inside the scope.
func (s Scope) Matches(c *domain.Complaint) bool {
	if s.CreatedBy != nil && c.CreatedBy != *s.CreatedBy {
		return false
	}
	if s.Department != nil && c.Department != *s.Department {
		return false
	}
	return true
}

// ScopeFor computes the visibility scope for a principal: students see their
// own complaints, staff see their department, admins see everything. A staff
// principal without a department sees nothing rather than everything, which
// keeps list results consistent with the per-record read check.
func ScopeFor(p domain.Principal) Scope {
	switch p.Role {
	case domain.RoleStudent:
		id := p.ID
		return Scope{CreatedBy: &id}
	case domain.RoleStaff:
		if p.Department == nil {
			// No department on record: matches nothing, same as the
			// per-record read check.
			none := ""
			return Scope{CreatedBy: &none}
		}
		dept := *p.Department
		return Scope{Department: &dept}
	case domain.RoleAdmin:
		return Scope{}
	}
	// Unknown role: scope to an impossible owner so nothing leaks.
	none := ""
	return Scope{CreatedBy: &none}
}

// ListFor filters and orders complaints for a principal: most recent first,
// insertion order preserved for equal timestamps.
func ListFor(p domain.Principal, all []domain.Complaint) []domain.Complaint {
	scope := ScopeFor(p)
	visible := make([]domain.Complaint, 0, len(all))
	for i := range all {
		if scope.Matches(&all[i]) {
			visible = append(visible, all[i])
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].CreatedAt.After(visible[j].CreatedAt)
	})
	return visible
}
