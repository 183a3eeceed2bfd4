package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sophisticated-cleaners/booking-backend/internal/models"
)

// StaffRepository handles database operations for the staff table
type StaffRepository struct {
	db DB
}

// NewStaffRepository creates a new StaffRepository
func NewStaffRepository(db DB) *StaffRepository {
	return &StaffRepository{db: db}
}

// Create creates a new staff record
func (r *StaffRepository) Create(staff *models.Staff) error {
	query := `
		INSERT INTO staff (
			id, user_id, name, phone, role, status
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
		RETURNING created_at, updated_at
	`

	if staff.ID == "" {
		staff.ID = uuid.New().String()
	}
	if staff.Role == "" {
		staff.Role = models.StaffRoleCleaner
	}
	if staff.Status == "" {
		staff.Status = models.StaffStatusActive
	}

	err := r.db.QueryRow(
		query,
		staff.ID, staff.UserID, staff.Name, staff.Phone, staff.Role, staff.Status,
	).Scan(&staff.CreatedAt, &staff.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create staff record: %w", err)
	}

	return nil
}

// GetByID retrieves a staff record by ID
func (r *StaffRepository) GetByID(staffID string) (*models.Staff, error) {
	query := `
		SELECT id, user_id, name, phone, role, status, created_at, updated_at
		FROM staff
		WHERE id = $1
	`

	return r.scanStaff(r.db.QueryRow(query, staffID))
}

// GetByUserID retrieves a staff record by the owning user's ID
func (r *StaffRepository) GetByUserID(userID string) (*models.Staff, error) {
	query := `
		SELECT id, user_id, name, phone, role, status, created_at, updated_at
		FROM staff
		WHERE user_id = $1
	`

	return r.scanStaff(r.db.QueryRow(query, userID))
}

// List retrieves all staff records
func (r *StaffRepository) List() ([]models.Staff, error) {
	query := `
		SELECT id, user_id, name, phone, role, status, created_at, updated_at
		FROM staff
		ORDER BY created_at
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	staff := []models.Staff{}
	for rows.Next() {
		var s models.Staff
		var name, phone sql.NullString

		err := rows.Scan(
			&s.ID, &s.UserID, &name, &phone, &s.Role, &s.Status,
			&s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		if name.Valid {
			s.Name = &name.String
		}
		if phone.Valid {
			s.Phone = &phone.String
		}

		staff = append(staff, s)
	}

	return staff, rows.Err()
}

// UpdateStatus updates a staff member's employment status
func (r *StaffRepository) UpdateStatus(staffID string, status models.StaffStatus) error {
	query := `
		UPDATE staff
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, staffID, status)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return fmt.Errorf("staff not found")
	}

	return nil
}

// scanStaff scans a single staff record
func (r *StaffRepository) scanStaff(row scanner) (*models.Staff, error) {
	staff := &models.Staff{}
	var name, phone sql.NullString

	err := row.Scan(
		&staff.ID, &staff.UserID, &name, &phone, &staff.Role, &staff.Status,
		&staff.CreatedAt, &staff.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	if name.Valid {
		staff.Name = &name.String
	}
	if phone.Valid {
		staff.Phone = &phone.String
	}

	return staff, nil
}
