package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/sophisticated-cleaners/booking-backend/internal/database"
	"github.com/sophisticated-cleaners/booking-backend/internal/models"
)

var (
	// ErrAlreadyClaimed means another worker won the race for this job.
	// Recoverable: the caller should refresh the job list and pick another.
	ErrAlreadyClaimed = errors.New("this job is no longer available")

	// ErrStorageUnavailable is a transient store failure. The whole claim
	// may be retried from the top.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrOrphanedBooking means a booking is stuck pending with no schedule
	// entry (a previous compensation failed). Requires administrator
	// correction; must never be silently re-claimed.
	ErrOrphanedBooking = errors.New("booking requires administrator attention")
)

// ClaimResult is the outcome of a successful claim
type ClaimResult struct {
	Booking  *models.Booking       `json:"booking"`
	Schedule *models.ScheduleEntry `json:"schedule"`
}

// ClaimService transitions a booking from unassigned to pending on behalf of
// one worker. Because competing claims come from independent API calls, the
// race is resolved by a conditional update on the bookings row rather than
// any in-process lock. The schedule insert that follows is compensated on
// failure: a pending booking with no schedule entry violates the data model.
type ClaimService struct {
	bookings  *database.BookingRepository
	schedules *database.ScheduleRepository
	logger    *logrus.Logger
}

// NewClaimService creates a new ClaimService
func NewClaimService(
	bookings *database.BookingRepository,
	schedules *database.ScheduleRepository,
	logger *logrus.Logger,
) *ClaimService {
	return &ClaimService{
		bookings:  bookings,
		schedules: schedules,
		logger:    logger,
	}
}

// ClaimJob attempts to claim one unassigned booking for a worker. Exactly
// one of two racing calls succeeds; the loser gets ErrAlreadyClaimed.
func (s *ClaimService) ClaimJob(bookingID, staffID string) (*ClaimResult, error) {
	// Re-read the booking; a stale listing must not bypass the check
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAlreadyClaimed
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	if booking.Status != models.BookingStatusUnassigned {
		return nil, s.classifyNonClaimable(booking)
	}

	// Conditional update: only one concurrent caller sees a row change
	claimed, err := s.bookings.UpdateStatusIf(bookingID, models.BookingStatusUnassigned, models.BookingStatusPending)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if !claimed {
		return nil, ErrAlreadyClaimed
	}

	start := booking.CleaningDate
	entry := &models.ScheduleEntry{
		StaffID:   staffID,
		BookingID: bookingID,
		StartTime: start,
		EndTime:   start.Add(booking.ScheduleDuration()),
		Status:    models.ScheduleStatusScheduled,
	}

	if err := s.schedules.Create(entry); err != nil {
		return nil, s.compensate(bookingID, staffID, err)
	}

	booking.Status = models.BookingStatusPending

	s.logger.WithFields(logrus.Fields{
		"booking_id":  bookingID,
		"staff_id":    staffID,
		"schedule_id": entry.ID,
	}).Info("Job claimed")

	return &ClaimResult{Booking: booking, Schedule: entry}, nil
}

// classifyNonClaimable distinguishes a normally-claimed booking from the
// orphaned state left behind by a failed compensation.
func (s *ClaimService) classifyNonClaimable(booking *models.Booking) error {
	if booking.Status != models.BookingStatusPending {
		return ErrAlreadyClaimed
	}

	count, err := s.schedules.CountForBooking(booking.ID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if count == 0 {
		s.logger.WithField("booking_id", booking.ID).
			Error("Booking is pending with no schedule entry; manual correction required")
		return ErrOrphanedBooking
	}

	return ErrAlreadyClaimed
}

// compensate reverts the status flip after a failed schedule insert. The
// revert is itself conditional so an admin fix applied in the meantime is
// not overwritten. Compensation is attempted once; if it fails the booking
// is left orphaned and flagged for manual correction.
func (s *ClaimService) compensate(bookingID, staffID string, cause error) error {
	reverted, revertErr := s.bookings.UpdateStatusIf(bookingID, models.BookingStatusPending, models.BookingStatusUnassigned)
	if revertErr != nil || !reverted {
		s.logger.WithFields(logrus.Fields{
			"booking_id": bookingID,
			"staff_id":   staffID,
			"cause":      cause,
			"revert_err": revertErr,
		}).Error("Failed to revert booking after schedule insert failure; booking is orphaned")
		return ErrOrphanedBooking
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"staff_id":   staffID,
	}).Warnf("Schedule insert failed, booking reverted to unassigned: %v", cause)

	return fmt.Errorf("%w: %v", ErrStorageUnavailable, cause)
}
