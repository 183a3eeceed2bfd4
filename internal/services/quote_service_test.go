package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sophisticated-cleaners/booking-backend/internal/models"
)

func TestCalculateBreatheEasy(t *testing.T) {
	svc := NewQuoteService()

	t.Run("Standard Cleaning", func(t *testing.T) {
		// 2 bed, 1 bath, 1 kitchen, 1000 sqft, dirtiness 3:
		// (14 + 25 + 30)/60 + 1.0 sqft hours = 2.15, x1.35 = 2.9025
		quote, err := svc.Calculate(&models.QuoteRequest{
			Package:     models.PackageBreatheEasy,
			ServiceType: models.ServiceStandardCleaning,
			Rooms: models.RoomCounts{
				Bedrooms:   2,
				Bathrooms:  1,
				Kitchens:   1,
				Sqft:       1000,
				DirtyScale: 3,
			},
		})
		require.NoError(t, err)

		assert.InDelta(t, 2.9025, quote.EstimatedHours, 0.0001)
		assert.Equal(t, 130.0, quote.Price) // floor(45 * 2.9025)
	})

	t.Run("Deep Cleaning Costs More Than Standard", func(t *testing.T) {
		rooms := models.RoomCounts{Bedrooms: 3, Bathrooms: 2, Sqft: 1500, DirtyScale: 2}

		standard, err := svc.Calculate(&models.QuoteRequest{
			Package: models.PackageBreatheEasy, ServiceType: models.ServiceStandardCleaning, Rooms: rooms,
		})
		require.NoError(t, err)

		deep, err := svc.Calculate(&models.QuoteRequest{
			Package: models.PackageBreatheEasy, ServiceType: models.ServiceDeepCleaning, Rooms: rooms,
		})
		require.NoError(t, err)

		assert.Greater(t, deep.Price, standard.Price)
		assert.Equal(t, standard.EstimatedHours, deep.EstimatedHours)
	})

	t.Run("Sqft Rounds Up Per Started 500", func(t *testing.T) {
		base := models.RoomCounts{Bedrooms: 1, DirtyScale: 1}

		small := base
		small.Sqft = 499
		large := base
		large.Sqft = 501

		smallQuote, err := svc.Calculate(&models.QuoteRequest{
			Package: models.PackageBreatheEasy, ServiceType: models.ServiceStandardCleaning, Rooms: small,
		})
		require.NoError(t, err)

		largeQuote, err := svc.Calculate(&models.QuoteRequest{
			Package: models.PackageBreatheEasy, ServiceType: models.ServiceStandardCleaning, Rooms: large,
		})
		require.NoError(t, err)

		// 499 sqft bills one half-hour block, 501 bills two
		assert.InDelta(t, 0.5*1.15, largeQuote.EstimatedHours-smallQuote.EstimatedHours, 0.0001)
	})

	t.Run("Invalid Dirtiness Rejected", func(t *testing.T) {
		_, err := svc.Calculate(&models.QuoteRequest{
			Package:     models.PackageBreatheEasy,
			ServiceType: models.ServiceStandardCleaning,
			Rooms:       models.RoomCounts{Bedrooms: 1, DirtyScale: 0},
		})
		assert.Error(t, err)
	})

	t.Run("Invalid Service Type Rejected", func(t *testing.T) {
		_, err := svc.Calculate(&models.QuoteRequest{
			Package:     models.PackageBreatheEasy,
			ServiceType: "powerWashing",
			Rooms:       models.RoomCounts{Bedrooms: 1, DirtyScale: 1},
		})
		assert.Error(t, err)
	})
}

func TestCalculateBlockCleaning(t *testing.T) {
	svc := NewQuoteService()

	t.Run("Price Scales With Cleaners But Hours Do Not", func(t *testing.T) {
		quote, err := svc.Calculate(&models.QuoteRequest{
			Package: models.PackageBlockCleaning,
			Rooms:   models.RoomCounts{Cleaners: 3, Hours: 4},
		})
		require.NoError(t, err)

		// Three cleaners cost triple but finish in the same calendar time
		assert.Equal(t, 540.0, quote.Price) // floor(3 * 4 * 45)
		assert.Equal(t, 4.0, quote.EstimatedHours)
	})

	t.Run("Requires At Least One Cleaner", func(t *testing.T) {
		_, err := svc.Calculate(&models.QuoteRequest{
			Package: models.PackageBlockCleaning,
			Rooms:   models.RoomCounts{Cleaners: 0, Hours: 4},
		})
		assert.Error(t, err)
	})
}

func TestGenerateTasks(t *testing.T) {
	svc := NewQuoteService()

	t.Run("Breathe Easy Checklist Per Room", func(t *testing.T) {
		tasks := svc.GenerateTasks("booking-1", models.BookingDetails{
			Package: models.PackageBreatheEasy,
			Rooms:   models.RoomCounts{Bedrooms: 2, Bathrooms: 1, Kitchens: 1},
		})

		names := make([]string, len(tasks))
		for i, task := range tasks {
			assert.Equal(t, "booking-1", task.BookingID)
			names[i] = task.TaskName
		}

		assert.Contains(t, names, "Clean 2 bedroom(s)")
		assert.Contains(t, names, "Clean 1 full bathroom(s)")
		assert.Contains(t, names, "Clean 1 kitchen(s)")
		assert.Len(t, tasks, 3)
	})

	t.Run("Block Cleaning Checklist", func(t *testing.T) {
		tasks := svc.GenerateTasks("booking-1", models.BookingDetails{
			Package: models.PackageBlockCleaning,
			Rooms:   models.RoomCounts{Cleaners: 2, Hours: 3},
		})

		require.Len(t, tasks, 2)
		assert.Equal(t, "2 cleaner(s) for 3 hour(s)", tasks[0].TaskName)
		assert.Equal(t, "Follow client's priority list", tasks[1].TaskName)
	})
}
