package models

import "time"

// NotificationType categorizes a notification
type NotificationType string

const (
	NotificationTypeBooking  NotificationType = "booking"
	NotificationTypeReminder NotificationType = "reminder"
	NotificationTypeSchedule NotificationType = "schedule"
	NotificationTypeSystem   NotificationType = "system"
)

// Notification is a fire-and-forget message to a user
type Notification struct {
	ID          string           `json:"id" db:"id"`
	RecipientID string           `json:"recipient_id" db:"recipient_id"`
	Type        NotificationType `json:"type" db:"type"`
	Title       string           `json:"title" db:"title"`
	Message     string           `json:"message" db:"message"`
	BookingID   *string          `json:"booking_id,omitempty" db:"booking_id"`
	Read        bool             `json:"read" db:"read"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
}
