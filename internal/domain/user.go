package domain

import "time"

// Role enumerates the closed set of caller roles. Access rules switch on
// this type exhaustively; anything outside the set is denied.
type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role is one of the known constants.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// UserStatus represents lifecycle states for an account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User is the domain model for all account holders: students who file
// complaints, staff who triage them, and administrators.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Department   *string
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal is the authenticated identity threaded through every core call.
// Immutable for the duration of a request.
type Principal struct {
	ID         string
	Role       Role
	Department *string
}

// PrincipalOf derives the request principal from a loaded user record.
func PrincipalOf(u *User) Principal {
	return Principal{ID: u.ID, Role: u.Role, Department: u.Department}
}

// InDepartment reports whether the principal belongs to the given department.
func (p Principal) InDepartment(department string) bool {
	return p.Department != nil && *p.Department == department
}
