package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sophisticated-cleaners/booking-backend/internal/models"
)

// ReviewRepository handles database operations for reviews
type ReviewRepository struct {
	db DB
}

// NewReviewRepository creates a new ReviewRepository
func NewReviewRepository(db DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a review for a completed booking
func (r *ReviewRepository) Create(review *models.Review) error {
	query := `
		INSERT INTO reviews (id, booking_id, client_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	if review.ID == "" {
		review.ID = uuid.New().String()
	}

	err := r.db.QueryRow(
		query,
		review.ID, review.BookingID, review.ClientID, review.Rating, review.Comment,
	).Scan(&review.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

// ListByBooking retrieves reviews for a booking
func (r *ReviewRepository) ListByBooking(bookingID string) ([]models.Review, error) {
	query := `
		SELECT id, booking_id, client_id, rating, comment, created_at
		FROM reviews
		WHERE booking_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var review models.Review
		err := rows.Scan(
			&review.ID, &review.BookingID, &review.ClientID,
			&review.Rating, &review.Comment, &review.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}

	return reviews, rows.Err()
}
