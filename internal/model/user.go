package model

import "time"

// User role constants
const (
	UserRoleSuperAdmin = "super_admin"
	UserRoleAdmin      = "admin"
	UserRoleManager    = "manager"
	UserRoleStaff      = "staff"
)

// User status constants
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
	UserStatusPending  = "pending"
)

// User represents a platform user
type User struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	Permissions []string   `json:"permissions"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// AgencyUser is a user affiliated with a tenant agency.
type AgencyUser struct {
	User
	AgencyID   string `json:"agency_id"`
	AgencyName string `json:"agency_name"`
	BranchID   string `json:"branch_id,omitempty"`
	BranchName string `json:"branch_name,omitempty"`
}

// UserFilters represents user list search parameters
type UserFilters struct {
	Search string `json:"search,omitempty"`
	Role   string `json:"role,omitempty"`
	Status string `json:"status,omitempty"`
	Page   int    `json:"page,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// UserPage is one page of the users list.
type UserPage struct {
	Users []AgencyUser
	Meta  PageMeta
}

// CreateUserRequest represents user creation parameters
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=super_admin admin manager staff"`
	AgencyID string `json:"agency_id,omitempty"`
	BranchID string `json:"branch_id,omitempty"`
}

// UpdateUserRequest represents user update parameters
type UpdateUserRequest struct {
	Email       *string  `json:"email,omitempty" validate:"omitempty,email"`
	Name        *string  `json:"name,omitempty"`
	Role        *string  `json:"role,omitempty" validate:"omitempty,oneof=super_admin admin manager staff"`
	Permissions []string `json:"permissions,omitempty"`
}
