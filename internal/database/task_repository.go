package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sophisticated-cleaners/booking-backend/internal/models"
)

// TaskRepository handles database operations for booking_tasks
type TaskRepository struct {
	db DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// CreateBatch inserts the generated checklist for a booking
func (r *TaskRepository) CreateBatch(tasks []models.BookingTask) error {
	query := `
		INSERT INTO booking_tasks (id, booking_id, task_name, is_completed)
		VALUES ($1, $2, $3, $4)
	`

	for i := range tasks {
		if tasks[i].ID == "" {
			tasks[i].ID = uuid.New().String()
		}
		_, err := r.db.Exec(query, tasks[i].ID, tasks[i].BookingID, tasks[i].TaskName, tasks[i].IsCompleted)
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
	}

	return nil
}

// ListByBooking retrieves the checklist for a booking
func (r *TaskRepository) ListByBooking(bookingID string) ([]models.BookingTask, error) {
	query := `
		SELECT id, booking_id, task_name, is_completed
		FROM booking_tasks
		WHERE booking_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.BookingTask{}
	for rows.Next() {
		var t models.BookingTask
		if err := rows.Scan(&t.ID, &t.BookingID, &t.TaskName, &t.IsCompleted); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

// SetCompleted toggles a checklist item
func (r *TaskRepository) SetCompleted(taskID string, completed bool) error {
	query := `UPDATE booking_tasks SET is_completed = $2 WHERE id = $1`

	result, err := r.db.Exec(query, taskID, completed)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return fmt.Errorf("task not found")
	}

	return nil
}
