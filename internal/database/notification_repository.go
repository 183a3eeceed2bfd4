package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sophisticated-cleaners/booking-backend/internal/models"
)

// NotificationRepository handles database operations for notifications
type NotificationRepository struct {
	db DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a notification
func (r *NotificationRepository) Create(n *models.Notification) error {
	query := `
		INSERT INTO notifications (
			id, recipient_id, type, title, message, booking_id, read
		) VALUES (
			$1, $2, $3, $4, $5, $6, false
		)
		RETURNING created_at
	`

	if n.ID == "" {
		n.ID = uuid.New().String()
	}

	err := r.db.QueryRow(
		query,
		n.ID, n.RecipientID, n.Type, n.Title, n.Message, n.BookingID,
	).Scan(&n.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// ListByRecipient retrieves notifications for a user, newest first
func (r *NotificationRepository) ListByRecipient(recipientID string) ([]models.Notification, error) {
	query := `
		SELECT id, recipient_id, type, title, message, booking_id, read, created_at
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		err := rows.Scan(
			&n.ID, &n.RecipientID, &n.Type, &n.Title, &n.Message,
			&n.BookingID, &n.Read, &n.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

// MarkRead marks a notification as read, scoped to its recipient
func (r *NotificationRepository) MarkRead(notificationID, recipientID string) error {
	query := `
		UPDATE notifications
		SET read = true
		WHERE id = $1 AND recipient_id = $2
	`

	result, err := r.db.Exec(query, notificationID, recipientID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return fmt.Errorf("notification not found")
	}

	return nil
}

// HasReminderFor reports whether a reminder was already sent for a booking
func (r *NotificationRepository) HasReminderFor(bookingID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM notifications
			WHERE booking_id = $1 AND type = 'reminder'
		)
	`

	var exists bool
	err := r.db.QueryRow(query, bookingID).Scan(&exists)
	return exists, err
}
