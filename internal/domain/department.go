package domain

import "time"

// Department represents a high-level organizational unit that complaints
// are routed to.
type Department struct {
	ID           string
	Name         string
	Code         string
	ContactEmail string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
