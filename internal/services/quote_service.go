package services

import (
	"fmt"
	"math"

	"github.com/sophisticated-cleaners/booking-backend/internal/models"
)

// Hourly rates for the cleaning tiers (USD)
const (
	standardCleaningRate  = 45
	deepCleaningRate      = 63
	moveInOutCleaningRate = 60
)

// Base cleaning times per room, in hours
const (
	bedroomHours      = 7.0 / 60
	bathroomHours     = 25.0 / 60
	halfBathroomHours = 15.0 / 60
	kitchenHours      = 30.0 / 60
	livingRoomHours   = 20.0 / 60
	bonusRoomHours    = 15.0 / 60
	laundryRoomHours  = 5.0 / 60
	officeHours       = 5.0 / 60
)

// dirtinessMultipliers adjusts the time estimate by the 1..5 dirtiness scale
var dirtinessMultipliers = map[int]float64{
	1: 1.15,
	2: 1.25,
	3: 1.35,
	4: 1.75,
	5: 2.0,
}

// QuoteService computes prices and implied labor hours from a room/package
// configuration
type QuoteService struct{}

// NewQuoteService creates a new QuoteService
func NewQuoteService() *QuoteService {
	return &QuoteService{}
}

// Calculate prices a quote request. For block cleaning the price multiplies
// by cleaner count but the estimated (scheduling) hours do not; pay scales
// with crew size, calendar time does not.
func (s *QuoteService) Calculate(req *models.QuoteRequest) (*models.QuoteResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	switch req.Package {
	case models.PackageBreatheEasy:
		return s.calculateBreatheEasy(req)
	case models.PackageBlockCleaning:
		rooms := req.Rooms
		price := math.Floor(float64(rooms.Cleaners) * float64(rooms.Hours) * standardCleaningRate)
		return &models.QuoteResult{
			Price:          price,
			EstimatedHours: float64(rooms.Hours),
		}, nil
	default:
		return nil, fmt.Errorf("invalid package: %s", req.Package)
	}
}

func (s *QuoteService) calculateBreatheEasy(req *models.QuoteRequest) (*models.QuoteResult, error) {
	rooms := req.Rooms

	totalHours := float64(rooms.Bedrooms)*bedroomHours +
		float64(rooms.Bathrooms)*bathroomHours +
		float64(rooms.HalfBathrooms)*halfBathroomHours +
		float64(rooms.Kitchens)*kitchenHours +
		float64(rooms.LivingRooms)*livingRoomHours +
		float64(rooms.BonusRooms)*bonusRoomHours +
		float64(rooms.LaundryRooms)*laundryRoomHours +
		float64(rooms.Offices)*officeHours

	// 30 minutes per started 500 sqft
	totalHours += math.Ceil(float64(rooms.Sqft)/500) * 0.5

	totalHours *= dirtinessMultipliers[rooms.DirtyScale]

	var rate float64
	switch req.ServiceType {
	case models.ServiceStandardCleaning:
		rate = standardCleaningRate
	case models.ServiceDeepCleaning:
		rate = deepCleaningRate
	case models.ServiceMoveInOutCleaning:
		rate = moveInOutCleaningRate
	default:
		return nil, fmt.Errorf("invalid service type: %s", req.ServiceType)
	}

	return &models.QuoteResult{
		Price:          math.Floor(rate * totalHours),
		EstimatedHours: totalHours,
	}, nil
}

// GenerateTasks builds the per-booking checklist shown to the assigned
// cleaner
func (s *QuoteService) GenerateTasks(bookingID string, details models.BookingDetails) []models.BookingTask {
	rooms := details.Rooms
	tasks := []models.BookingTask{}

	add := func(name string) {
		tasks = append(tasks, models.BookingTask{BookingID: bookingID, TaskName: name})
	}

	if details.Package == models.PackageBlockCleaning {
		add(fmt.Sprintf("%d cleaner(s) for %d hour(s)", rooms.Cleaners, rooms.Hours))
		add("Follow client's priority list")
		return tasks
	}

	if rooms.Bedrooms > 0 {
		add(fmt.Sprintf("Clean %d bedroom(s)", rooms.Bedrooms))
	}
	if rooms.Bathrooms > 0 {
		add(fmt.Sprintf("Clean %d full bathroom(s)", rooms.Bathrooms))
	}
	if rooms.HalfBathrooms > 0 {
		add(fmt.Sprintf("Clean %d half bathroom(s)", rooms.HalfBathrooms))
	}
	if rooms.Kitchens > 0 {
		add(fmt.Sprintf("Clean %d kitchen(s)", rooms.Kitchens))
	}
	if rooms.LivingRooms > 0 {
		add(fmt.Sprintf("Clean %d living room(s)", rooms.LivingRooms))
	}
	if rooms.BonusRooms > 0 {
		add(fmt.Sprintf("Clean %d bonus room(s)", rooms.BonusRooms))
	}
	if rooms.LaundryRooms > 0 {
		add(fmt.Sprintf("Clean %d laundry room(s)", rooms.LaundryRooms))
	}
	if rooms.Offices > 0 {
		add(fmt.Sprintf("Clean %d office(s)", rooms.Offices))
	}

	return tasks
}
