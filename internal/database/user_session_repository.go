package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sophisticated-cleaners/booking-backend/internal/models"
)

// UserSessionRepository handles login session audit records
type UserSessionRepository struct {
	db DB
}

// NewUserSessionRepository creates a new UserSessionRepository
func NewUserSessionRepository(db DB) *UserSessionRepository {
	return &UserSessionRepository{db: db}
}

// Create records a login session
func (r *UserSessionRepository) Create(session *models.UserSession) error {
	query := `
		INSERT INTO user_sessions (
			id, user_id, ip_address, device_type, os, browser, user_agent, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`

	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	session.CreatedAt = time.Now()

	_, err := r.db.Exec(
		query,
		session.ID, session.UserID, session.IPAddress,
		session.DeviceType, session.OS, session.Browser, session.UserAgent,
		session.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to record session: %w", err)
	}

	return nil
}

// ListByUser retrieves recent sessions for a user, newest first
func (r *UserSessionRepository) ListByUser(userID uuid.UUID, limit int) ([]models.UserSession, error) {
	query := `
		SELECT id, user_id, ip_address, device_type, os, browser, user_agent, created_at
		FROM user_sessions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []models.UserSession{}
	for rows.Next() {
		var s models.UserSession
		err := rows.Scan(
			&s.ID, &s.UserID, &s.IPAddress, &s.DeviceType,
			&s.OS, &s.Browser, &s.UserAgent, &s.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}
