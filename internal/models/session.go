package models

import (
	"time"

	"github.com/google/uuid"
)

// UserSession is a login audit record with parsed device information
type UserSession struct {
	ID         uuid.UUID `json:"id" db:"id"`
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	IPAddress  *string   `json:"ip_address,omitempty" db:"ip_address"`
	DeviceType string    `json:"device_type" db:"device_type"`
	OS         *string   `json:"os,omitempty" db:"os"`
	Browser    *string   `json:"browser,omitempty" db:"browser"`
	UserAgent  *string   `json:"user_agent,omitempty" db:"user_agent"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
