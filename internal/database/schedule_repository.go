package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sophisticated-cleaners/booking-backend/internal/models"
)

// ScheduleRepository handles database operations for the staff_schedules table
type ScheduleRepository struct {
	db DB
}

// NewScheduleRepository creates a new ScheduleRepository
func NewScheduleRepository(db DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Create inserts a new schedule entry
func (r *ScheduleRepository) Create(entry *models.ScheduleEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO staff_schedules (
			id, staff_id, booking_id, start_time, end_time, status
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
		RETURNING created_at, updated_at
	`

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Status == "" {
		entry.Status = models.ScheduleStatusScheduled
	}

	err := r.db.QueryRow(
		query,
		entry.ID, entry.StaffID, entry.BookingID,
		entry.StartTime, entry.EndTime, entry.Status,
	).Scan(&entry.CreatedAt, &entry.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create schedule entry: %w", err)
	}

	return nil
}

// GetByID retrieves a schedule entry by ID
func (r *ScheduleRepository) GetByID(entryID string) (*models.ScheduleEntry, error) {
	query := `
		SELECT id, staff_id, booking_id, start_time, end_time, status,
			   created_at, updated_at
		FROM staff_schedules
		WHERE id = $1
	`

	return r.scanEntry(r.db.QueryRow(query, entryID))
}

// ListByStaff retrieves all schedule entries for a worker, soonest first
func (r *ScheduleRepository) ListByStaff(staffID string) ([]models.ScheduleEntry, error) {
	query := `
		SELECT id, staff_id, booking_id, start_time, end_time, status,
			   created_at, updated_at
		FROM staff_schedules
		WHERE staff_id = $1
		ORDER BY start_time
	`

	rows, err := r.db.Query(query, staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanEntries(rows)
}

// GetByBookingID retrieves the schedule entry for a booking
func (r *ScheduleRepository) GetByBookingID(bookingID string) (*models.ScheduleEntry, error) {
	query := `
		SELECT id, staff_id, booking_id, start_time, end_time, status,
			   created_at, updated_at
		FROM staff_schedules
		WHERE booking_id = $1
	`

	return r.scanEntry(r.db.QueryRow(query, bookingID))
}

// CountForBooking returns how many schedule entries exist for a booking.
// A pending booking with zero entries is the orphaned state the claim
// resolver must refuse to re-claim.
func (r *ScheduleRepository) CountForBooking(bookingID string) (int, error) {
	query := `SELECT COUNT(*) FROM staff_schedules WHERE booking_id = $1`

	var count int
	err := r.db.QueryRow(query, bookingID).Scan(&count)
	return count, err
}

// UpdateStatus updates the status of a schedule entry
func (r *ScheduleRepository) UpdateStatus(entryID string, status models.ScheduleStatus) error {
	query := `
		UPDATE staff_schedules
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, entryID, status)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return fmt.Errorf("schedule entry not found")
	}

	return nil
}

// Delete removes a schedule entry. Only administrators unassign jobs; the
// caller is responsible for reverting the booking status.
func (r *ScheduleRepository) Delete(entryID string) error {
	query := `DELETE FROM staff_schedules WHERE id = $1`

	result, err := r.db.Exec(query, entryID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return fmt.Errorf("schedule entry not found")
	}

	return nil
}

// scanEntry scans a single schedule entry
func (r *ScheduleRepository) scanEntry(row scanner) (*models.ScheduleEntry, error) {
	entry := &models.ScheduleEntry{}

	err := row.Scan(
		&entry.ID, &entry.StaffID, &entry.BookingID,
		&entry.StartTime, &entry.EndTime, &entry.Status,
		&entry.CreatedAt, &entry.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return entry, nil
}

// scanEntries scans multiple schedule entries from rows
func (r *ScheduleRepository) scanEntries(rows *sql.Rows) ([]models.ScheduleEntry, error) {
	entries := []models.ScheduleEntry{}

	for rows.Next() {
		var entry models.ScheduleEntry

		err := rows.Scan(
			&entry.ID, &entry.StaffID, &entry.BookingID,
			&entry.StartTime, &entry.EndTime, &entry.Status,
			&entry.CreatedAt, &entry.UpdatedAt,
		)

		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
