package dto

import "time"

// CreateDepartmentRequest payload.
type CreateDepartmentRequest struct {
	Name         string `json:"name"`
	Code         string `json:"code"`
	ContactEmail string `json:"contactEmail"`
}

// DepartmentResponse representation.
type DepartmentResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Code         string    `json:"code"`
	ContactEmail string    `json:"contactEmail"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}
