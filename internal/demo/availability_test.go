package demo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/stagebook/internal/marketplace"
)

func TestAvailability_OneSlotPerDay(t *testing.T) {
	slots := Availability("perf-1", fixedNow, NewRand(1))
	require.Len(t, slots, 121)

	today := midnight(fixedNow)
	assert.True(t, slots[0].Date.Equal(today.AddDate(0, 0, -30)))
	assert.True(t, slots[len(slots)-1].Date.Equal(today.AddDate(0, 0, 90)))

	seen := map[string]bool{}
	for _, s := range slots {
		key := s.Date.Format(time.DateOnly)
		assert.False(t, seen[key], "duplicate slot %s", key)
		seen[key] = true
		assert.Equal(t, "perf-1", s.PerformerID)
		assert.True(t, s.Demo)
		assert.Contains(t, []marketplace.AvailabilityStatus{marketplace.Available, marketplace.Blocked}, s.Status)
	}
}

func TestAvailability_Ratios(t *testing.T) {
	r := NewRand(99)
	today := midnight(fixedNow)

	var past, pastFree, weekday, weekdayFree, weekend, weekendFree int
	for i := 0; i < 300; i++ {
		for _, s := range Availability("p", fixedNow, r) {
			free := s.Status == marketplace.Available
			switch {
			case s.Date.Before(today):
				past++
				if free {
					pastFree++
				}
			case s.Date.Weekday() == time.Saturday || s.Date.Weekday() == time.Sunday:
				weekend++
				if free {
					weekendFree++
				}
			default:
				weekday++
				if free {
					weekdayFree++
				}
			}
		}
	}
	assert.InDelta(t, 0.60, float64(pastFree)/float64(past), 0.02)
	assert.InDelta(t, 0.85, float64(weekdayFree)/float64(weekday), 0.02)
	assert.InDelta(t, 0.70, float64(weekendFree)/float64(weekend), 0.02)
}

func TestAvailableProbability(t *testing.T) {
	saturday := time.Date(2025, time.June, 21, 0, 0, 0, 0, time.UTC)
	monday := time.Date(2025, time.June, 23, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0.60, availableProbability(-1, saturday))
	assert.Equal(t, 0.70, availableProbability(3, saturday))
	assert.Equal(t, 0.85, availableProbability(5, monday))
	assert.Equal(t, 0.85, availableProbability(0, fixedNow))
}
