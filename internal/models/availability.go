package models

import (
	"errors"
	"time"
)

// AvailabilityWindow is a worker's declared working hours for one weekday.
// StartTime and EndTime are clock times in "HH:MM" form. A missing row for a
// day means the worker is not available that day.
type AvailabilityWindow struct {
	StaffID     string    `json:"staff_id" db:"staff_id"`
	DayOfWeek   string    `json:"day_of_week" db:"day_of_week"`
	StartTime   string    `json:"start_time" db:"start_time"`
	EndTime     string    `json:"end_time" db:"end_time"`
	IsAvailable bool      `json:"is_available" db:"is_available"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

var weekdays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

// AvailabilityWindowInput is one day's entry in an availability update
type AvailabilityWindowInput struct {
	DayOfWeek   string `json:"day_of_week" binding:"required"`
	StartTime   string `json:"start_time" binding:"required"`
	EndTime     string `json:"end_time" binding:"required"`
	IsAvailable bool   `json:"is_available"`
}

// Validate validates a single availability input row
func (w *AvailabilityWindowInput) Validate() error {
	if !weekdays[w.DayOfWeek] {
		return errors.New("day_of_week must be a lowercase weekday name")
	}
	if _, err := time.Parse("15:04", w.StartTime); err != nil {
		return errors.New("start_time must be in HH:MM format")
	}
	if _, err := time.Parse("15:04", w.EndTime); err != nil {
		return errors.New("end_time must be in HH:MM format")
	}
	if w.StartTime >= w.EndTime {
		return errors.New("start_time must be before end_time")
	}
	return nil
}
