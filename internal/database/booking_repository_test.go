package database

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sophisticated-cleaners/booking-backend/internal/models"
)

func newBookingRepo(t *testing.T) (*BookingRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewBookingRepository(&mockDatabase{db: db})
	return repo, mock, func() { db.Close() }
}

func TestCreateBooking(t *testing.T) {
	repo, mock, cleanup := newBookingRepo(t)
	defer cleanup()

	t.Run("Success", func(t *testing.T) {
		now := time.Now()

		mock.ExpectQuery(`INSERT INTO bookings`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
				AddRow(now, now))

		booking := &models.Booking{
			ClientID:     "client-1",
			CleaningDate: now.Add(48 * time.Hour),
			Street:       "123 Main St",
			City:         "Austin",
			State:        "TX",
			ZipCode:      "78701",
			Details: models.BookingDetails{
				Package: models.PackageBreatheEasy,
				Price:   130,
			},
		}

		err := repo.Create(booking)
		require.NoError(t, err)

		// Defaults applied on insert
		assert.NotEmpty(t, booking.ID)
		assert.Equal(t, models.BookingStatusUnassigned, booking.Status)
		assert.Equal(t, models.PaymentStatusPending, booking.PaymentStatus)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO bookings`).
			WillReturnError(fmt.Errorf("database error"))

		err := repo.Create(&models.Booking{ClientID: "client-1"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create booking")
	})
}

func TestUpdateStatusIf(t *testing.T) {
	repo, mock, cleanup := newBookingRepo(t)
	defer cleanup()

	t.Run("Wins When Row Matches", func(t *testing.T) {
		mock.ExpectExec(`UPDATE bookings`).
			WithArgs("booking-1", models.BookingStatusUnassigned, models.BookingStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))

		claimed, err := repo.UpdateStatusIf("booking-1", models.BookingStatusUnassigned, models.BookingStatusPending)
		require.NoError(t, err)
		assert.True(t, claimed)
	})

	t.Run("Loses When Status Changed Underneath", func(t *testing.T) {
		mock.ExpectExec(`UPDATE bookings`).
			WithArgs("booking-1", models.BookingStatusUnassigned, models.BookingStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 0))

		claimed, err := repo.UpdateStatusIf("booking-1", models.BookingStatusUnassigned, models.BookingStatusPending)
		require.NoError(t, err)
		assert.False(t, claimed)
	})

	t.Run("Propagates Errors", func(t *testing.T) {
		mock.ExpectExec(`UPDATE bookings`).
			WillReturnError(fmt.Errorf("connection reset"))

		claimed, err := repo.UpdateStatusIf("booking-1", models.BookingStatusUnassigned, models.BookingStatusPending)
		assert.Error(t, err)
		assert.False(t, claimed)
	})
}

func TestGetBookingByID(t *testing.T) {
	repo, mock, cleanup := newBookingRepo(t)
	defer cleanup()

	t.Run("Scans Details And Nullable Coordinates", func(t *testing.T) {
		now := time.Now()
		details := []byte(`{"package":"blockCleaning","price":540,"rooms":{"cleaners":3,"hours":4}}`)

		mock.ExpectQuery(`SELECT (.+) FROM bookings`).
			WithArgs("booking-1").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "client_id", "status", "cleaning_date",
				"street", "city", "state", "zip_code", "latitude", "longitude",
				"details", "payment_status", "amount_paid", "created_at", "updated_at",
			}).AddRow(
				"booking-1", "client-1", "unassigned", now,
				"123 Main St", "Austin", "TX", "78701", nil, nil,
				details, "pending", 0.0, now, now,
			))

		booking, err := repo.GetByID("booking-1")
		require.NoError(t, err)

		assert.Equal(t, models.PackageBlockCleaning, booking.Details.Package)
		assert.Equal(t, 3, booking.Details.Rooms.Cleaners)
		assert.Nil(t, booking.Latitude)
		assert.Nil(t, booking.Longitude)
		// Block cleaning carries its explicit hours into scheduling
		assert.Equal(t, 4*time.Hour, booking.ScheduleDuration())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM bookings`).
			WithArgs("booking-missing").
			WillReturnError(sql.ErrNoRows)

		booking, err := repo.GetByID("booking-missing")
		assert.Nil(t, booking)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestCancelBooking(t *testing.T) {
	repo, mock, cleanup := newBookingRepo(t)
	defer cleanup()

	t.Run("Success", func(t *testing.T) {
		reason := "client request"
		mock.ExpectExec(`UPDATE bookings`).
			WithArgs("booking-1", &reason).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Cancel("booking-1", &reason))
	})

	t.Run("Completed Booking Rejected By Guard", func(t *testing.T) {
		mock.ExpectExec(`UPDATE bookings`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Cancel("booking-1", nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be cancelled")
	})
}

// mockDatabase adapts sqlmock's *sql.DB to the DB interface
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
