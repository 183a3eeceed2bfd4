package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// BookingStatus represents the lifecycle state of a booking
// Matches PostgreSQL ENUM: booking_status
type BookingStatus string

const (
	BookingStatusUnassigned BookingStatus = "unassigned"
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// PaymentStatus represents the payment status of a booking
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// ServicePackage identifies the cleaning package a client booked
type ServicePackage string

const (
	PackageBreatheEasy   ServicePackage = "breatheEasy"
	PackageBlockCleaning ServicePackage = "blockCleaning"
)

// ServiceType identifies the cleaning tier within the Breathe Easy package
type ServiceType string

const (
	ServiceStandardCleaning  ServiceType = "standardCleaning"
	ServiceDeepCleaning      ServiceType = "deepCleaning"
	ServiceMoveInOutCleaning ServiceType = "moveInOutCleaning"
)

// DefaultJobHours is the schedule duration used when the booking details
// carry no explicit hour count (all non block-cleaning jobs).
const DefaultJobHours = 2

// RoomCounts captures the room configuration from the quote form.
// For block cleaning only Cleaners and Hours are set.
type RoomCounts struct {
	Bedrooms      int `json:"bedrooms,omitempty"`
	Bathrooms     int `json:"bathrooms,omitempty"`
	HalfBathrooms int `json:"halfBathrooms,omitempty"`
	Kitchens      int `json:"kitchens,omitempty"`
	LivingRooms   int `json:"livingRooms,omitempty"`
	BonusRooms    int `json:"bonusRooms,omitempty"`
	LaundryRooms  int `json:"laundryRooms,omitempty"`
	Offices       int `json:"offices,omitempty"`
	Sqft          int `json:"sqft,omitempty"`
	DirtyScale    int `json:"dirtyScale,omitempty"`
	Cleaners      int `json:"cleaners,omitempty"`
	Hours         int `json:"hours,omitempty"`
}

// BookingDetails is the JSONB payload stored on the bookings row.
type BookingDetails struct {
	Package        ServicePackage `json:"package"`
	ServiceType    ServiceType    `json:"service_type,omitempty"`
	Price          float64        `json:"price"`
	EstimatedHours float64        `json:"estimated_hours,omitempty"`
	Rooms          RoomCounts     `json:"rooms"`
}

// Value implements the driver.Valuer interface for JSONB storage
func (d BookingDetails) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan implements the sql.Scanner interface
func (d *BookingDetails) Scan(src interface{}) error {
	if src == nil {
		*d = BookingDetails{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return fmt.Errorf("unsupported type %T for BookingDetails", src)
	}
}

// Booking represents a client's request for a cleaning service
type Booking struct {
	ID            string         `json:"id" db:"id"`
	ClientID      string         `json:"client_id" db:"client_id"`
	Status        BookingStatus  `json:"status" db:"status"`
	CleaningDate  time.Time      `json:"cleaning_date" db:"cleaning_date"`
	Street        string         `json:"street" db:"street"`
	City          string         `json:"city" db:"city"`
	State         string         `json:"state" db:"state"`
	ZipCode       string         `json:"zip_code" db:"zip_code"`
	Latitude      *float64       `json:"latitude,omitempty" db:"latitude"`
	Longitude     *float64       `json:"longitude,omitempty" db:"longitude"`
	Details       BookingDetails `json:"details" db:"details"`
	PaymentStatus PaymentStatus  `json:"payment_status" db:"payment_status"`
	AmountPaid    float64        `json:"amount_paid" db:"amount_paid"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}

// ScheduleDuration returns how long the job blocks out a worker's schedule.
// Block-cleaning bookings carry an explicit hour count; everything else gets
// the 2-hour default. Cleaner count never affects the duration (pay
// calculation multiplies by cleaners, scheduling does not).
func (b *Booking) ScheduleDuration() time.Duration {
	hours := b.Details.Rooms.Hours
	if hours <= 0 {
		hours = DefaultJobHours
	}
	return time.Duration(hours) * time.Hour
}

// CreateBookingRequest represents the request to create a booking
type CreateBookingRequest struct {
	CleaningDate time.Time    `json:"cleaning_date" binding:"required"`
	Street       string       `json:"street" binding:"required"`
	City         string       `json:"city" binding:"required"`
	State        string       `json:"state" binding:"required"`
	ZipCode      string       `json:"zip_code" binding:"required"`
	Quote        QuoteRequest `json:"quote" binding:"required"`
}

// CancelBookingRequest represents the request to cancel a booking
type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// Validate validates the create booking request
func (r *CreateBookingRequest) Validate() error {
	if r.CleaningDate.Before(time.Now()) {
		return errors.New("cleaning_date must be in the future")
	}
	return r.Quote.Validate()
}
