package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/sophisticated-cleaners/booking-backend/internal/database"
	"github.com/sophisticated-cleaners/booking-backend/internal/models"
	"github.com/sophisticated-cleaners/booking-backend/pkg/scheduling"
)

// ConflictError is the expected negative result of the accept-booking flow:
// the proposed schedule collides with existing commitments or declared
// availability. It blocks the claim before any state is written.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

// ScheduleService owns the accept-booking flow and schedule maintenance
type ScheduleService struct {
	bookings     *database.BookingRepository
	schedules    *database.ScheduleRepository
	availability *database.AvailabilityRepository
	claims       *ClaimService
	logger       *logrus.Logger
}

// NewScheduleService creates a new ScheduleService
func NewScheduleService(
	bookings *database.BookingRepository,
	schedules *database.ScheduleRepository,
	availability *database.AvailabilityRepository,
	claims *ClaimService,
	logger *logrus.Logger,
) *ScheduleService {
	return &ScheduleService{
		bookings:     bookings,
		schedules:    schedules,
		availability: availability,
		claims:       claims,
		logger:       logger,
	}
}

// AcceptBooking checks the worker's calendar and declared availability
// against the booking's time block, then claims the job. The conflict check
// runs before any write so a rejection leaves no partial state.
func (s *ScheduleService) AcceptBooking(bookingID, staffID string) (*ClaimResult, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAlreadyClaimed
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	proposed := scheduling.TimeRange{
		Start: booking.CleaningDate,
		End:   booking.CleaningDate.Add(booking.ScheduleDuration()),
	}

	existing, err := s.schedules.ListByStaff(staffID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	ranges := make([]scheduling.TimeRange, 0, len(existing))
	for _, e := range existing {
		ranges = append(ranges, scheduling.TimeRange{Start: e.StartTime, End: e.EndTime})
	}

	if scheduling.HasOverlap(proposed, ranges) {
		return nil, &ConflictError{Reason: "Schedule conflict detected"}
	}

	windows, err := s.availability.ListByStaff(staffID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	schedWindows := make([]scheduling.Window, 0, len(windows))
	for _, w := range windows {
		schedWindows = append(schedWindows, scheduling.Window{
			DayOfWeek:   w.DayOfWeek,
			StartTime:   w.StartTime,
			EndTime:     w.EndTime,
			IsAvailable: w.IsAvailable,
		})
	}

	if res := scheduling.CheckAvailability(proposed.Start, schedWindows); res.Conflict {
		return nil, &ConflictError{Reason: res.Reason}
	}

	return s.claims.ClaimJob(bookingID, staffID)
}

// UpdateEntryStatus moves a schedule entry through scheduled → in_progress →
// completed, scoped to the owning worker. Completing the entry also
// completes the booking.
func (s *ScheduleService) UpdateEntryStatus(entryID, staffID string, status models.ScheduleStatus) (*models.ScheduleEntry, error) {
	entry, err := s.schedules.GetByID(entryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("schedule entry not found")
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	if entry.StaffID != staffID {
		return nil, fmt.Errorf("schedule entry does not belong to this worker")
	}

	if err := s.schedules.UpdateStatus(entryID, status); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	entry.Status = status

	if status == models.ScheduleStatusCompleted {
		if err := s.bookings.UpdateStatus(entry.BookingID, models.BookingStatusCompleted); err != nil {
			s.logger.WithFields(logrus.Fields{
				"booking_id":  entry.BookingID,
				"schedule_id": entryID,
			}).Errorf("Schedule completed but booking status update failed: %v", err)
		}
	}

	return entry, nil
}

// Unassign removes a schedule entry and returns the booking to the
// unassigned pool. Admin-only operation.
func (s *ScheduleService) Unassign(entryID string) error {
	entry, err := s.schedules.GetByID(entryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("schedule entry not found")
		}
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	if err := s.schedules.Delete(entryID); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	reverted, err := s.bookings.UpdateStatusIf(entry.BookingID, models.BookingStatusPending, models.BookingStatusUnassigned)
	if err != nil || !reverted {
		// The schedule entry is already gone; surface loudly so an admin
		// can fix the booking status by hand.
		s.logger.WithFields(logrus.Fields{
			"booking_id":  entry.BookingID,
			"schedule_id": entryID,
		}).Errorf("Unassigned schedule but booking was not reverted (err=%v)", err)
		return ErrOrphanedBooking
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":  entry.BookingID,
		"schedule_id": entryID,
		"staff_id":    entry.StaffID,
	}).Info("Booking unassigned")

	return nil
}
