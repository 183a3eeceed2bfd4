package models

// BookingTask is one checklist item generated for a booking
type BookingTask struct {
	ID          string `json:"id" db:"id"`
	BookingID   string `json:"booking_id" db:"booking_id"`
	TaskName    string `json:"task_name" db:"task_name"`
	IsCompleted bool   `json:"is_completed" db:"is_completed"`
}
