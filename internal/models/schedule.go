package models

import (
	"errors"
	"time"
)

// ScheduleStatus represents the status of a schedule entry
type ScheduleStatus string

const (
	ScheduleStatusScheduled  ScheduleStatus = "scheduled"
	ScheduleStatusInProgress ScheduleStatus = "in_progress"
	ScheduleStatusCompleted  ScheduleStatus = "completed"
)

// ScheduleEntry is a worker's committed time block for a booking.
// Exactly one non-cancelled entry exists per claimed booking.
type ScheduleEntry struct {
	ID        string         `json:"id" db:"id"`
	StaffID   string         `json:"staff_id" db:"staff_id"`
	BookingID string         `json:"booking_id" db:"booking_id"`
	StartTime time.Time      `json:"start_time" db:"start_time"`
	EndTime   time.Time      `json:"end_time" db:"end_time"`
	Status    ScheduleStatus `json:"status" db:"status"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}

// Validate checks the entry's time invariant
func (e *ScheduleEntry) Validate() error {
	if !e.StartTime.Before(e.EndTime) {
		return errors.New("start_time must be before end_time")
	}
	return nil
}

// UpdateScheduleStatusRequest represents a staff status change on a schedule entry
type UpdateScheduleStatusRequest struct {
	Status ScheduleStatus `json:"status" binding:"required"`
}
