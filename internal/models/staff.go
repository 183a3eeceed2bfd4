package models

import "time"

// StaffRole represents a worker's role
type StaffRole string

const (
	StaffRoleCleaner    StaffRole = "cleaner"
	StaffRoleSupervisor StaffRole = "supervisor"
)

// StaffStatus represents a worker's employment status
type StaffStatus string

const (
	StaffStatusActive   StaffStatus = "active"
	StaffStatusInactive StaffStatus = "inactive"
)

// Staff represents a cleaning worker
type Staff struct {
	ID        string      `json:"id" db:"id"`
	UserID    string      `json:"user_id" db:"user_id"`
	Name      *string     `json:"name,omitempty" db:"name"`
	Phone     *string     `json:"phone,omitempty" db:"phone"`
	Role      StaffRole   `json:"role" db:"role"`
	Status    StaffStatus `json:"status" db:"status"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`
}

// AddStaffRequest represents an admin request to onboard a staff member.
// The user must already have an account; they are located by email.
type AddStaffRequest struct {
	Email string    `json:"email" binding:"required,email"`
	Name  *string   `json:"name,omitempty"`
	Phone *string   `json:"phone,omitempty"`
	Role  StaffRole `json:"role,omitempty"`
}

// UpdateStaffStatusRequest represents an admin status change on a staff member
type UpdateStaffStatusRequest struct {
	Status StaffStatus `json:"status" binding:"required"`
}
