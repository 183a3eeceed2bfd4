package models

import "errors"

// QuoteRequest represents the room/package configuration submitted for pricing
type QuoteRequest struct {
	Package     ServicePackage `json:"package" binding:"required"`
	ServiceType ServiceType    `json:"service_type,omitempty"`
	Rooms       RoomCounts     `json:"rooms"`
}

// QuoteResult is the computed price and implied labor duration
type QuoteResult struct {
	Price          float64 `json:"price"`
	EstimatedHours float64 `json:"estimated_hours"`
}

// Validate validates the quote request
func (r *QuoteRequest) Validate() error {
	switch r.Package {
	case PackageBreatheEasy:
		switch r.ServiceType {
		case ServiceStandardCleaning, ServiceDeepCleaning, ServiceMoveInOutCleaning:
		default:
			return errors.New("invalid service_type")
		}
		if r.Rooms.DirtyScale < 1 || r.Rooms.DirtyScale > 5 {
			return errors.New("dirty_scale must be between 1 and 5")
		}
		if r.Rooms.Sqft < 0 {
			return errors.New("sqft cannot be negative")
		}
	case PackageBlockCleaning:
		if r.Rooms.Cleaners < 1 {
			return errors.New("cleaners must be at least 1")
		}
		if r.Rooms.Hours < 1 {
			return errors.New("hours must be at least 1")
		}
	default:
		return errors.New("invalid package")
	}
	return nil
}
