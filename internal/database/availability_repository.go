package database

import (
	"database/sql"

	"github.com/sophisticated-cleaners/booking-backend/internal/models"
)

// AvailabilityRepository handles database operations for staff_availability
type AvailabilityRepository struct {
	db DB
}

// NewAvailabilityRepository creates a new AvailabilityRepository
func NewAvailabilityRepository(db DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// Upsert creates or replaces the availability window for one (staff, day)
func (r *AvailabilityRepository) Upsert(window *models.AvailabilityWindow) error {
	query := `
		INSERT INTO staff_availability (
			staff_id, day_of_week, start_time, end_time, is_available, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, NOW()
		)
		ON CONFLICT (staff_id, day_of_week)
		DO UPDATE SET start_time = $3, end_time = $4, is_available = $5, updated_at = NOW()
	`

	_, err := r.db.Exec(
		query,
		window.StaffID, window.DayOfWeek,
		window.StartTime, window.EndTime, window.IsAvailable,
	)
	return err
}

// ListByStaff retrieves all declared availability windows for a worker
func (r *AvailabilityRepository) ListByStaff(staffID string) ([]models.AvailabilityWindow, error) {
	query := `
		SELECT staff_id, day_of_week, start_time, end_time, is_available, updated_at
		FROM staff_availability
		WHERE staff_id = $1
		ORDER BY day_of_week
	`

	rows, err := r.db.Query(query, staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanWindows(rows)
}

// scanWindows scans availability windows from rows
func (r *AvailabilityRepository) scanWindows(rows *sql.Rows) ([]models.AvailabilityWindow, error) {
	windows := []models.AvailabilityWindow{}

	for rows.Next() {
		var w models.AvailabilityWindow

		err := rows.Scan(
			&w.StaffID, &w.DayOfWeek, &w.StartTime, &w.EndTime,
			&w.IsAvailable, &w.UpdatedAt,
		)

		if err != nil {
			return nil, err
		}

		windows = append(windows, w)
	}

	return windows, rows.Err()
}
