package services

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sophisticated-cleaners/booking-backend/internal/database"
	"github.com/sophisticated-cleaners/booking-backend/internal/models"
)

var bookingColumns = []string{
	"id", "client_id", "status", "cleaning_date",
	"street", "city", "state", "zip_code", "latitude", "longitude",
	"details", "payment_status", "amount_paid", "created_at", "updated_at",
}

func bookingRow(id string, status models.BookingStatus, cleaningDate time.Time) *sqlmock.Rows {
	now := time.Now()
	details := []byte(`{"package":"breatheEasy","service_type":"standardCleaning","price":130,"rooms":{"bedrooms":2,"dirtyScale":3}}`)
	return sqlmock.NewRows(bookingColumns).AddRow(
		id, "client-1", status, cleaningDate,
		"123 Main St", "Austin", "TX", "78701", nil, nil,
		details, "pending", 0.0, now, now,
	)
}

func newClaimService(t *testing.T) (*ClaimService, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	mockDB := &mockDatabase{db: db}
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	svc := NewClaimService(
		database.NewBookingRepository(mockDB),
		database.NewScheduleRepository(mockDB),
		logger,
	)

	return svc, mock, func() { db.Close() }
}

func TestClaimJob(t *testing.T) {
	cleaningDate := time.Now().Add(48 * time.Hour)

	t.Run("Success", func(t *testing.T) {
		svc, mock, cleanup := newClaimService(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT (.+) FROM bookings`).
			WithArgs("booking-1").
			WillReturnRows(bookingRow("booking-1", models.BookingStatusUnassigned, cleaningDate))

		mock.ExpectExec(`UPDATE bookings`).
			WithArgs("booking-1", models.BookingStatusUnassigned, models.BookingStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))

		mock.ExpectQuery(`INSERT INTO staff_schedules`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
				AddRow(time.Now(), time.Now()))

		result, err := svc.ClaimJob("booking-1", "staff-1")
		require.NoError(t, err)
		require.NotNil(t, result)

		assert.Equal(t, models.BookingStatusPending, result.Booking.Status)
		assert.Equal(t, "staff-1", result.Schedule.StaffID)
		assert.Equal(t, "booking-1", result.Schedule.BookingID)
		// No explicit hours in the details: the 2-hour default applies
		assert.Equal(t, 2*time.Hour, result.Schedule.EndTime.Sub(result.Schedule.StartTime))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Lost Race On Conditional Update", func(t *testing.T) {
		svc, mock, cleanup := newClaimService(t)
		defer cleanup()

		// The read still sees unassigned, but another claim lands between
		// the read and the update: zero rows change.
		mock.ExpectQuery(`SELECT (.+) FROM bookings`).
			WithArgs("booking-1").
			WillReturnRows(bookingRow("booking-1", models.BookingStatusUnassigned, cleaningDate))

		mock.ExpectExec(`UPDATE bookings`).
			WithArgs("booking-1", models.BookingStatusUnassigned, models.BookingStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 0))

		result, err := svc.ClaimJob("booking-1", "staff-1")
		assert.Nil(t, result)
		assert.ErrorIs(t, err, ErrAlreadyClaimed)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already Claimed With Schedule Entry", func(t *testing.T) {
		svc, mock, cleanup := newClaimService(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT (.+) FROM bookings`).
			WithArgs("booking-1").
			WillReturnRows(bookingRow("booking-1", models.BookingStatusPending, cleaningDate))

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM staff_schedules`).
			WithArgs("booking-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		result, err := svc.ClaimJob("booking-1", "staff-2")
		assert.Nil(t, result)
		assert.ErrorIs(t, err, ErrAlreadyClaimed)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Orphaned Booking Refused", func(t *testing.T) {
		svc, mock, cleanup := newClaimService(t)
		defer cleanup()

		// Pending with no schedule entry is the leftover of a failed
		// compensation. It must not be silently re-claimed.
		mock.ExpectQuery(`SELECT (.+) FROM bookings`).
			WithArgs("booking-1").
			WillReturnRows(bookingRow("booking-1", models.BookingStatusPending, cleaningDate))

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM staff_schedules`).
			WithArgs("booking-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		result, err := svc.ClaimJob("booking-1", "staff-2")
		assert.Nil(t, result)
		assert.ErrorIs(t, err, ErrOrphanedBooking)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Completed Booking Not Claimable", func(t *testing.T) {
		svc, mock, cleanup := newClaimService(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT (.+) FROM bookings`).
			WithArgs("booking-1").
			WillReturnRows(bookingRow("booking-1", models.BookingStatusCompleted, cleaningDate))

		result, err := svc.ClaimJob("booking-1", "staff-1")
		assert.Nil(t, result)
		assert.ErrorIs(t, err, ErrAlreadyClaimed)
	})

	t.Run("Booking Not Found", func(t *testing.T) {
		svc, mock, cleanup := newClaimService(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT (.+) FROM bookings`).
			WithArgs("booking-missing").
			WillReturnError(sql.ErrNoRows)

		result, err := svc.ClaimJob("booking-missing", "staff-1")
		assert.Nil(t, result)
		assert.ErrorIs(t, err, ErrAlreadyClaimed)
	})

	t.Run("Schedule Insert Fails With Successful Revert", func(t *testing.T) {
		svc, mock, cleanup := newClaimService(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT (.+) FROM bookings`).
			WithArgs("booking-1").
			WillReturnRows(bookingRow("booking-1", models.BookingStatusUnassigned, cleaningDate))

		mock.ExpectExec(`UPDATE bookings`).
			WithArgs("booking-1", models.BookingStatusUnassigned, models.BookingStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))

		mock.ExpectQuery(`INSERT INTO staff_schedules`).
			WillReturnError(fmt.Errorf("connection reset"))

		// Compensation flips the booking back so the job stays claimable
		mock.ExpectExec(`UPDATE bookings`).
			WithArgs("booking-1", models.BookingStatusPending, models.BookingStatusUnassigned).
			WillReturnResult(sqlmock.NewResult(0, 1))

		result, err := svc.ClaimJob("booking-1", "staff-1")
		assert.Nil(t, result)
		assert.ErrorIs(t, err, ErrStorageUnavailable)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Schedule Insert Fails And Revert Fails", func(t *testing.T) {
		svc, mock, cleanup := newClaimService(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT (.+) FROM bookings`).
			WithArgs("booking-1").
			WillReturnRows(bookingRow("booking-1", models.BookingStatusUnassigned, cleaningDate))

		mock.ExpectExec(`UPDATE bookings`).
			WithArgs("booking-1", models.BookingStatusUnassigned, models.BookingStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))

		mock.ExpectQuery(`INSERT INTO staff_schedules`).
			WillReturnError(fmt.Errorf("connection reset"))

		mock.ExpectExec(`UPDATE bookings`).
			WithArgs("booking-1", models.BookingStatusPending, models.BookingStatusUnassigned).
			WillReturnError(fmt.Errorf("connection reset"))

		result, err := svc.ClaimJob("booking-1", "staff-1")
		assert.Nil(t, result)
		assert.ErrorIs(t, err, ErrOrphanedBooking)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Storage Error On Conditional Update", func(t *testing.T) {
		svc, mock, cleanup := newClaimService(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT (.+) FROM bookings`).
			WithArgs("booking-1").
			WillReturnRows(bookingRow("booking-1", models.BookingStatusUnassigned, cleaningDate))

		mock.ExpectExec(`UPDATE bookings`).
			WillReturnError(fmt.Errorf("connection refused"))

		result, err := svc.ClaimJob("booking-1", "staff-1")
		assert.Nil(t, result)
		assert.ErrorIs(t, err, ErrStorageUnavailable)
		assert.NotErrorIs(t, err, ErrAlreadyClaimed)
	})
}

func TestClaimErrorsAreDistinct(t *testing.T) {
	// The client app branches on these: refresh the list, retry, or call
	// support. They must never collapse into one another.
	assert.False(t, errors.Is(ErrAlreadyClaimed, ErrStorageUnavailable))
	assert.False(t, errors.Is(ErrAlreadyClaimed, ErrOrphanedBooking))
	assert.False(t, errors.Is(ErrStorageUnavailable, ErrOrphanedBooking))
}

// mockDatabase adapts sqlmock's *sql.DB to the database.DB interface
type mockDatabase struct {
	db *sql.DB
}

func (m *mockDatabase) Get(dest interface{}, query string, args ...interface{}) error {
	return fmt.Errorf("Get not implemented in mock")
}

func (m *mockDatabase) Select(dest interface{}, query string, args ...interface{}) error {
	return fmt.Errorf("Select not implemented in mock")
}

func (m *mockDatabase) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return m.db.Query(query, args...)
}

func (m *mockDatabase) QueryRow(query string, args ...interface{}) *sql.Row {
	return m.db.QueryRow(query, args...)
}

func (m *mockDatabase) Exec(query string, args ...interface{}) (sql.Result, error) {
	return m.db.Exec(query, args...)
}

func (m *mockDatabase) Close() error {
	return m.db.Close()
}

func (m *mockDatabase) Ping() error {
	return m.db.Ping()
}
