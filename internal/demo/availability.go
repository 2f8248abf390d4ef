package demo

import (
	"time"

	"github.com/sudo-init-do/stagebook/internal/marketplace"
)

const (
	availabilityPastDays   = 30
	availabilityFutureDays = 90
)

// Availability builds a performer's calendar from 30 days ago to 90 days
// ahead, one slot per day. Past days are available 60% of the time, future
// weekdays 85% and future weekends 70%.
func Availability(performerID string, now time.Time, r Rand) []marketplace.AvailabilitySlot {
	today := midnight(now)
	slots := make([]marketplace.AvailabilitySlot, 0, availabilityPastDays+availabilityFutureDays+1)
	for offset := -availabilityPastDays; offset <= availabilityFutureDays; offset++ {
		date := today.AddDate(0, 0, offset)
		status := marketplace.Blocked
		if Chance(r, availableProbability(offset, date)) {
			status = marketplace.Available
		}
		slots = append(slots, marketplace.AvailabilitySlot{
			PerformerID: performerID,
			Date:        date,
			Status:      status,
			Demo:        true,
		})
	}
	return slots
}

func availableProbability(offset int, date time.Time) float64 {
	if offset < 0 {
		return 0.60
	}
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return 0.70
	default:
		return 0.85
	}
}
