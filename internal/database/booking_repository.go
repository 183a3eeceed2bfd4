package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sophisticated-cleaners/booking-backend/internal/models"
)

// BookingRepository handles database operations for the bookings table
type BookingRepository struct {
	db DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create creates a new booking in unassigned state
func (r *BookingRepository) Create(booking *models.Booking) error {
	query := `
		INSERT INTO bookings (
			id, client_id, status, cleaning_date,
			street, city, state, zip_code,
			details, payment_status, amount_paid
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
		RETURNING created_at, updated_at
	`

	// Generate ID if not provided
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	if booking.Status == "" {
		booking.Status = models.BookingStatusUnassigned
	}
	if booking.PaymentStatus == "" {
		booking.PaymentStatus = models.PaymentStatusPending
	}

	err := r.db.QueryRow(
		query,
		booking.ID, booking.ClientID, booking.Status, booking.CleaningDate,
		booking.Street, booking.City, booking.State, booking.ZipCode,
		booking.Details, booking.PaymentStatus, booking.AmountPaid,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

// GetByID retrieves a booking by ID
func (r *BookingRepository) GetByID(bookingID string) (*models.Booking, error) {
	query := `
		SELECT id, client_id, status, cleaning_date,
			   street, city, state, zip_code, latitude, longitude,
			   details, payment_status, amount_paid, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`

	return r.scanBooking(r.db.QueryRow(query, bookingID))
}

// ListByStatus retrieves all bookings with the given status, soonest first
func (r *BookingRepository) ListByStatus(status models.BookingStatus) ([]models.Booking, error) {
	query := `
		SELECT id, client_id, status, cleaning_date,
			   street, city, state, zip_code, latitude, longitude,
			   details, payment_status, amount_paid, created_at, updated_at
		FROM bookings
		WHERE status = $1
		ORDER BY cleaning_date
	`

	rows, err := r.db.Query(query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// ListByClient retrieves all bookings for a client
func (r *BookingRepository) ListByClient(clientID string) ([]models.Booking, error) {
	query := `
		SELECT id, client_id, status, cleaning_date,
			   street, city, state, zip_code, latitude, longitude,
			   details, payment_status, amount_paid, created_at, updated_at
		FROM bookings
		WHERE client_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// ListAll retrieves all bookings, newest first
func (r *BookingRepository) ListAll() ([]models.Booking, error) {
	query := `
		SELECT id, client_id, status, cleaning_date,
			   street, city, state, zip_code, latitude, longitude,
			   details, payment_status, amount_paid, created_at, updated_at
		FROM bookings
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// ListPendingBetween retrieves pending bookings whose cleaning date falls in
// the given window. Used by the reminder sweep.
func (r *BookingRepository) ListPendingBetween(from, to time.Time) ([]models.Booking, error) {
	query := `
		SELECT id, client_id, status, cleaning_date,
			   street, city, state, zip_code, latitude, longitude,
			   details, payment_status, amount_paid, created_at, updated_at
		FROM bookings
		WHERE status = 'pending'
		  AND cleaning_date >= $1
		  AND cleaning_date < $2
		ORDER BY cleaning_date
	`

	rows, err := r.db.Query(query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// UpdateStatusIf performs the compare-and-swap that resolves claim races:
// the status moves from expected to next only if the stored value still
// matches expected. Returns false when zero rows changed, meaning another
// actor got there first.
func (r *BookingRepository) UpdateStatusIf(bookingID string, expected, next models.BookingStatus) (bool, error) {
	query := `
		UPDATE bookings
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	result, err := r.db.Exec(query, bookingID, expected, next)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows == 1, nil
}

// UpdateStatus updates the booking status unconditionally
func (r *BookingRepository) UpdateStatus(bookingID string, status models.BookingStatus) error {
	query := `
		UPDATE bookings
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, bookingID, status)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return fmt.Errorf("booking not found")
	}

	return nil
}

// Cancel cancels a booking unless it is already completed
func (r *BookingRepository) Cancel(bookingID string, reason *string) error {
	query := `
		UPDATE bookings
		SET status = 'cancelled',
			cancellation_reason = $2,
			updated_at = NOW()
		WHERE id = $1
		  AND status NOT IN ('completed', 'cancelled')
	`

	result, err := r.db.Exec(query, bookingID, reason)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return fmt.Errorf("booking cannot be cancelled")
	}

	return nil
}

// UpdatePaymentStatus updates the payment status of a booking
func (r *BookingRepository) UpdatePaymentStatus(bookingID string, status models.PaymentStatus, amountPaid float64) error {
	query := `
		UPDATE bookings
		SET payment_status = $2,
			amount_paid = CASE WHEN $2 = 'paid' THEN $3 ELSE amount_paid END,
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, bookingID, status, amountPaid)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return fmt.Errorf("booking not found")
	}

	return nil
}

// SetCoordinates stores the geocoded location of the booking address
func (r *BookingRepository) SetCoordinates(bookingID string, lat, lng float64) error {
	query := `
		UPDATE bookings
		SET latitude = $2, longitude = $3, updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.Exec(query, bookingID, lat, lng)
	return err
}

// scanBooking scans a single booking
func (r *BookingRepository) scanBooking(row scanner) (*models.Booking, error) {
	booking := &models.Booking{}
	var latitude sql.NullFloat64
	var longitude sql.NullFloat64

	err := row.Scan(
		&booking.ID, &booking.ClientID, &booking.Status, &booking.CleaningDate,
		&booking.Street, &booking.City, &booking.State, &booking.ZipCode,
		&latitude, &longitude,
		&booking.Details, &booking.PaymentStatus, &booking.AmountPaid,
		&booking.CreatedAt, &booking.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	if latitude.Valid {
		booking.Latitude = &latitude.Float64
	}
	if longitude.Valid {
		booking.Longitude = &longitude.Float64
	}

	return booking, nil
}

// scanBookings scans multiple bookings from rows
func (r *BookingRepository) scanBookings(rows *sql.Rows) ([]models.Booking, error) {
	bookings := []models.Booking{}

	for rows.Next() {
		var booking models.Booking
		var latitude sql.NullFloat64
		var longitude sql.NullFloat64

		err := rows.Scan(
			&booking.ID, &booking.ClientID, &booking.Status, &booking.CleaningDate,
			&booking.Street, &booking.City, &booking.State, &booking.ZipCode,
			&latitude, &longitude,
			&booking.Details, &booking.PaymentStatus, &booking.AmountPaid,
			&booking.CreatedAt, &booking.UpdatedAt,
		)

		if err != nil {
			return nil, err
		}

		if latitude.Valid {
			booking.Latitude = &latitude.Float64
		}
		if longitude.Valid {
			booking.Longitude = &longitude.Float64
		}

		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}
