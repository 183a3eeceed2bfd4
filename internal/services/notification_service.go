package services

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sophisticated-cleaners/booking-backend/internal/database"
	"github.com/sophisticated-cleaners/booking-backend/internal/models"
)

// NotificationService dispatches fire-and-forget notifications. Failures are
// logged and never propagated: losing a notification must not fail the
// operation that triggered it.
type NotificationService struct {
	notifications *database.NotificationRepository
	bookings      *database.BookingRepository
	logger        *logrus.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(
	notifications *database.NotificationRepository,
	bookings *database.BookingRepository,
	logger *logrus.Logger,
) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		bookings:      bookings,
		logger:        logger,
	}
}

// Notify sends a notification to one recipient
func (s *NotificationService) Notify(recipientID string, ntype models.NotificationType, title, message string, bookingID *string) {
	n := &models.Notification{
		RecipientID: recipientID,
		Type:        ntype,
		Title:       title,
		Message:     message,
		BookingID:   bookingID,
	}

	if err := s.notifications.Create(n); err != nil {
		s.logger.WithFields(logrus.Fields{
			"recipient_id": recipientID,
			"type":         ntype,
		}).Warnf("Failed to create notification: %v", err)
	}
}

// NotifyAll sends the same notification to a set of recipients
func (s *NotificationService) NotifyAll(recipientIDs []string, ntype models.NotificationType, title, message string, bookingID *string) {
	for _, id := range recipientIDs {
		s.Notify(id, ntype, title, message, bookingID)
	}
}

// SendBookingReminders creates a reminder for every pending booking whose
// cleaning falls within leadHours from now and has not been reminded yet.
// Called periodically by the reminder cron.
func (s *NotificationService) SendBookingReminders(leadHours int) {
	now := time.Now()
	upcoming, err := s.bookings.ListPendingBetween(now, now.Add(time.Duration(leadHours)*time.Hour))
	if err != nil {
		s.logger.Errorf("Reminder sweep failed to list bookings: %v", err)
		return
	}

	for i := range upcoming {
		booking := &upcoming[i]

		sent, err := s.notifications.HasReminderFor(booking.ID)
		if err != nil {
			s.logger.WithField("booking_id", booking.ID).
				Warnf("Failed to check existing reminder: %v", err)
			continue
		}
		if sent {
			continue
		}

		bookingID := booking.ID
		s.Notify(
			booking.ClientID,
			models.NotificationTypeReminder,
			"Upcoming Cleaning Reminder",
			fmt.Sprintf("Your cleaning is scheduled for %s", booking.CleaningDate.Format("Mon Jan 2 at 3:04 PM")),
			&bookingID,
		)
	}
}
