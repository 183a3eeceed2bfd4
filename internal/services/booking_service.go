package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/sophisticated-cleaners/booking-backend/internal/database"
	"github.com/sophisticated-cleaners/booking-backend/internal/models"
	"github.com/sophisticated-cleaners/booking-backend/pkg/geocode"
)

// BookingService handles booking creation and lifecycle outside of claiming
type BookingService struct {
	bookings      *database.BookingRepository
	tasks         *database.TaskRepository
	reviews       *database.ReviewRepository
	users         *database.UserRepository
	quotes        *QuoteService
	notifications *NotificationService
	geocoder      *geocode.Client
	logger        *logrus.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(
	bookings *database.BookingRepository,
	tasks *database.TaskRepository,
	reviews *database.ReviewRepository,
	users *database.UserRepository,
	quotes *QuoteService,
	notifications *NotificationService,
	geocoder *geocode.Client,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		bookings:      bookings,
		tasks:         tasks,
		reviews:       reviews,
		users:         users,
		quotes:        quotes,
		notifications: notifications,
		geocoder:      geocoder,
		logger:        logger,
	}
}

// Create prices and stores a new booking for a client. The price is always
// recomputed server-side from the room configuration; a client-supplied price
// is never trusted. Geocoding and admin notification run in the background
// after the insert.
func (s *BookingService) Create(clientID string, req *models.CreateBookingRequest) (*models.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	quote, err := s.quotes.Calculate(&req.Quote)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		ClientID:     clientID,
		CleaningDate: req.CleaningDate,
		Street:       req.Street,
		City:         req.City,
		State:        req.State,
		ZipCode:      req.ZipCode,
		Details: models.BookingDetails{
			Package:        req.Quote.Package,
			ServiceType:    req.Quote.ServiceType,
			Price:          quote.Price,
			EstimatedHours: quote.EstimatedHours,
			Rooms:          req.Quote.Rooms,
		},
	}

	if err := s.bookings.Create(booking); err != nil {
		return nil, err
	}

	checklist := s.quotes.GenerateTasks(booking.ID, booking.Details)
	if err := s.tasks.CreateBatch(checklist); err != nil {
		s.logger.WithField("booking_id", booking.ID).
			Warnf("Failed to create booking checklist: %v", err)
	}

	go s.geocodeBooking(booking)
	go s.notifyAdmins(booking)

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"client_id":  clientID,
		"price":      quote.Price,
	}).Info("Booking created")

	return booking, nil
}

// Get retrieves a booking by ID
func (s *BookingService) Get(bookingID string) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("booking not found")
		}
		return nil, err
	}
	return booking, nil
}

// ListForClient returns a client's own bookings
func (s *BookingService) ListForClient(clientID string) ([]models.Booking, error) {
	return s.bookings.ListByClient(clientID)
}

// ListUnassigned returns the open job pool shown to workers
func (s *BookingService) ListUnassigned() ([]models.Booking, error) {
	return s.bookings.ListByStatus(models.BookingStatusUnassigned)
}

// ListAll returns every booking, for administrators
func (s *BookingService) ListAll() ([]models.Booking, error) {
	return s.bookings.ListAll()
}

// Cancel cancels a booking. Completed and already-cancelled bookings are
// rejected by the store-side guard.
func (s *BookingService) Cancel(bookingID string, reason *string) error {
	return s.bookings.Cancel(bookingID, reason)
}

// GetTasks returns the checklist for a booking
func (s *BookingService) GetTasks(bookingID string) ([]models.BookingTask, error) {
	return s.tasks.ListByBooking(bookingID)
}

// SetTaskCompleted toggles one checklist item
func (s *BookingService) SetTaskCompleted(taskID string, completed bool) error {
	return s.tasks.SetCompleted(taskID, completed)
}

// AddReview records a client's rating of their completed booking
func (s *BookingService) AddReview(bookingID, clientID string, req *models.CreateReviewRequest) (*models.Review, error) {
	booking, err := s.Get(bookingID)
	if err != nil {
		return nil, err
	}

	if booking.ClientID != clientID {
		return nil, fmt.Errorf("booking does not belong to this client")
	}
	if booking.Status != models.BookingStatusCompleted {
		return nil, fmt.Errorf("only completed bookings can be reviewed")
	}

	review := &models.Review{
		BookingID: bookingID,
		ClientID:  clientID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}

	if err := s.reviews.Create(review); err != nil {
		return nil, err
	}

	return review, nil
}

// ListReviews returns the reviews for a booking
func (s *BookingService) ListReviews(bookingID string) ([]models.Review, error) {
	return s.reviews.ListByBooking(bookingID)
}

// geocodeBooking resolves the booking address in the background. Failures are
// logged only; coordinates are a convenience for the dispatch map.
func (s *BookingService) geocodeBooking(booking *models.Booking) {
	address := fmt.Sprintf("%s, %s, %s %s", booking.Street, booking.City, booking.State, booking.ZipCode)

	coords, err := s.geocoder.Geocode(address)
	if err != nil {
		s.logger.WithField("booking_id", booking.ID).
			Debugf("Geocoding failed: %v", err)
		return
	}

	if err := s.bookings.SetCoordinates(booking.ID, coords.Latitude, coords.Longitude); err != nil {
		s.logger.WithField("booking_id", booking.ID).
			Warnf("Failed to store coordinates: %v", err)
	}
}

// notifyAdmins tells every administrator about the new booking
func (s *BookingService) notifyAdmins(booking *models.Booking) {
	admins, err := s.users.ListByRole("admin")
	if err != nil {
		s.logger.Warnf("Failed to list admins for booking notification: %v", err)
		return
	}

	ids := make([]string, 0, len(admins))
	for _, a := range admins {
		ids = append(ids, a.ID.String())
	}

	bookingID := booking.ID
	s.notifications.NotifyAll(
		ids,
		models.NotificationTypeBooking,
		"New Booking",
		fmt.Sprintf("New booking in %s for %s", booking.City, booking.CleaningDate.Format("Jan 2, 2006")),
		&bookingID,
	)
}
