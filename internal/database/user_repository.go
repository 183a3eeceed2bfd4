package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sophisticated-cleaners/booking-backend/internal/models"
)

// UserRepository handles database operations for the users table
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser creates a new user account
func (r *UserRepository) CreateUser(email, passwordHash string, name, phone *string, roles []string) (*models.User, error) {
	query := `
		INSERT INTO users (
			id, email, password_hash, name, phone, roles, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, 'active'
		)
		RETURNING id, email, password_hash, name, phone, roles, status, created_at, updated_at
	`

	user := &models.User{}
	err := r.db.QueryRow(
		query,
		uuid.New(), email, passwordHash, name, phone, models.StringArray(roles),
	).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.Phone,
		&user.Roles, &user.Status, &user.CreatedAt, &user.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetUserByEmail retrieves a user by email
func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, name, phone, roles, status, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	return r.scanUser(r.db.QueryRow(query, email))
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(userID uuid.UUID) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, name, phone, roles, status, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	return r.scanUser(r.db.QueryRow(query, userID))
}

// ListByRole retrieves all active users carrying the given role
func (r *UserRepository) ListByRole(role string) ([]models.User, error) {
	query := `
		SELECT id, email, password_hash, name, phone, roles, status, created_at, updated_at
		FROM users
		WHERE $1 = ANY(roles)
		  AND status = 'active'
		ORDER BY created_at
	`

	rows, err := r.db.Query(query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var user models.User
		var roles pq.StringArray

		err := rows.Scan(
			&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.Phone,
			&roles, &user.Status, &user.CreatedAt, &user.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		user.Roles = models.StringArray(roles)
		users = append(users, user)
	}

	return users, rows.Err()
}

// AddUserRole appends a role to a user unless already present
func (r *UserRepository) AddUserRole(userID uuid.UUID, role string) error {
	query := `
		UPDATE users
		SET roles = array_append(roles, $2), updated_at = NOW()
		WHERE id = $1
		  AND NOT ($2 = ANY(roles))
	`

	_, err := r.db.Exec(query, userID, role)
	return err
}

// scanUser scans a single user row
func (r *UserRepository) scanUser(row scanner) (*models.User, error) {
	user := &models.User{}

	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.Phone,
		&user.Roles, &user.Status, &user.CreatedAt, &user.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return user, nil
}
