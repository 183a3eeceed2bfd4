package services

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/sophisticated-cleaners/booking-backend/internal/config"
)

// ReminderService runs the periodic booking reminder sweep
type ReminderService struct {
	cron          *cron.Cron
	notifications *NotificationService
	cfg           config.ReminderConfig
	logger        *logrus.Logger
}

// NewReminderService creates a new ReminderService
func NewReminderService(notifications *NotificationService, cfg config.ReminderConfig, logger *logrus.Logger) *ReminderService {
	// Cron with seconds precision, matching the configured expression format
	c := cron.New(cron.WithSeconds())

	return &ReminderService{
		cron:          c,
		notifications: notifications,
		cfg:           cfg,
		logger:        logger,
	}
}

// Start registers and starts the reminder sweep
func (s *ReminderService) Start() error {
	_, err := s.cron.AddFunc(s.cfg.CronSpec, func() {
		s.logger.Debug("Running booking reminder sweep")
		s.notifications.SendBookingReminders(s.cfg.LeadHours)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reminder sweep: %w", err)
	}

	s.cron.Start()
	s.logger.Infof("Reminder sweep scheduled (%s, %dh lead)", s.cfg.CronSpec, s.cfg.LeadHours)
	return nil
}

// Stop stops the cron scheduler
func (s *ReminderService) Stop() {
	s.cron.Stop()
}
