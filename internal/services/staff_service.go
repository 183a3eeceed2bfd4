package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/sophisticated-cleaners/booking-backend/internal/database"
	"github.com/sophisticated-cleaners/booking-backend/internal/models"
)

// StaffService handles worker onboarding and availability management
type StaffService struct {
	staff        *database.StaffRepository
	users        *database.UserRepository
	availability *database.AvailabilityRepository
	logger       *logrus.Logger
}

// NewStaffService creates a new StaffService
func NewStaffService(
	staff *database.StaffRepository,
	users *database.UserRepository,
	availability *database.AvailabilityRepository,
	logger *logrus.Logger,
) *StaffService {
	return &StaffService{
		staff:        staff,
		users:        users,
		availability: availability,
		logger:       logger,
	}
}

// AddStaffMember onboards an existing account as a cleaning worker. The user
// is located by email, granted the staff role, and given a staff record.
func (s *StaffService) AddStaffMember(req *models.AddStaffRequest) (*models.Staff, error) {
	user, err := s.users.GetUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no account found for %s; they must register first", req.Email)
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if existing, err := s.staff.GetByUserID(user.ID.String()); err == nil && existing != nil {
		return nil, fmt.Errorf("this user is already a staff member")
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to check existing staff record: %w", err)
	}

	if err := s.users.AddUserRole(user.ID, "staff"); err != nil {
		return nil, fmt.Errorf("failed to grant staff role: %w", err)
	}

	name := req.Name
	if name == nil {
		name = user.Name
	}
	phone := req.Phone
	if phone == nil {
		phone = user.Phone
	}

	staff := &models.Staff{
		UserID: user.ID.String(),
		Name:   name,
		Phone:  phone,
		Role:   req.Role,
	}

	if err := s.staff.Create(staff); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"staff_id": staff.ID,
		"user_id":  user.ID,
	}).Info("Staff member added")

	return staff, nil
}

// GetByUserID resolves the staff record for an authenticated user
func (s *StaffService) GetByUserID(userID string) (*models.Staff, error) {
	staff, err := s.staff.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no staff record for this account")
		}
		return nil, err
	}
	return staff, nil
}

// List returns all staff records
func (s *StaffService) List() ([]models.Staff, error) {
	return s.staff.List()
}

// UpdateStatus changes a worker's employment status
func (s *StaffService) UpdateStatus(staffID string, status models.StaffStatus) error {
	if status != models.StaffStatusActive && status != models.StaffStatusInactive {
		return fmt.Errorf("invalid status: %s", status)
	}
	return s.staff.UpdateStatus(staffID, status)
}

// SetAvailability replaces a worker's availability window for one weekday
func (s *StaffService) SetAvailability(staffID string, input *models.AvailabilityWindowInput) (*models.AvailabilityWindow, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	window := &models.AvailabilityWindow{
		StaffID:     staffID,
		DayOfWeek:   input.DayOfWeek,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		IsAvailable: input.IsAvailable,
	}

	if err := s.availability.Upsert(window); err != nil {
		return nil, err
	}

	return window, nil
}

// GetAvailability returns a worker's declared weekly availability
func (s *StaffService) GetAvailability(staffID string) ([]models.AvailabilityWindow, error) {
	return s.availability.ListByStaff(staffID)
}
