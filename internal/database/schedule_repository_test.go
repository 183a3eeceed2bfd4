package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sophisticated-cleaners/booking-backend/internal/models"
)

func newScheduleRepo(t *testing.T) (*ScheduleRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewScheduleRepository(&mockDatabase{db: db})
	return repo, mock, func() { db.Close() }
}

func TestCreateScheduleEntry(t *testing.T) {
	repo, mock, cleanup := newScheduleRepo(t)
	defer cleanup()

	start := time.Now().Add(24 * time.Hour)

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery(`INSERT INTO staff_schedules`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
				AddRow(now, now))

		entry := &models.ScheduleEntry{
			StaffID:   "staff-1",
			BookingID: "booking-1",
			StartTime: start,
			EndTime:   start.Add(2 * time.Hour),
		}

		err := repo.Create(entry)
		require.NoError(t, err)
		assert.NotEmpty(t, entry.ID)
		assert.Equal(t, models.ScheduleStatusScheduled, entry.Status)
	})

	t.Run("Rejects Inverted Time Range", func(t *testing.T) {
		entry := &models.ScheduleEntry{
			StaffID:   "staff-1",
			BookingID: "booking-1",
			StartTime: start,
			EndTime:   start.Add(-time.Hour),
		}

		// Validation fails before any SQL runs
		err := repo.Create(entry)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCountForBooking(t *testing.T) {
	repo, mock, cleanup := newScheduleRepo(t)
	defer cleanup()

	t.Run("Counts Existing Entries", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM staff_schedules`).
			WithArgs("booking-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		count, err := repo.CountForBooking("booking-1")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("Zero For Orphaned Booking", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM staff_schedules`).
			WithArgs("booking-orphan").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		count, err := repo.CountForBooking("booking-orphan")
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}

func TestListByStaff(t *testing.T) {
	repo, mock, cleanup := newScheduleRepo(t)
	defer cleanup()

	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM staff_schedules`).
		WithArgs("staff-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "staff_id", "booking_id", "start_time", "end_time", "status",
			"created_at", "updated_at",
		}).
			AddRow("entry-1", "staff-1", "booking-1", now, now.Add(2*time.Hour), "scheduled", now, now).
			AddRow("entry-2", "staff-1", "booking-2", now.Add(4*time.Hour), now.Add(6*time.Hour), "scheduled", now, now))

	entries, err := repo.ListByStaff("staff-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "booking-1", entries[0].BookingID)
	assert.Equal(t, "booking-2", entries[1].BookingID)
}
