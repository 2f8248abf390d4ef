package demo

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestWeightedChoice_Thresholds(t *testing.T) {
	tests := []struct {
		name string
		draw int // IntN result; the roll is draw+1
		want int
	}{
		{"first roll", 0, 5},
		{"last five-star roll", 49, 5},
		{"first four-star roll", 50, 4},
		{"last four-star roll", 84, 4},
		{"first three-star roll", 85, 3},
		{"last roll", 99, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &scriptedRand{ints: []int{tt.draw}}
			assert.Equal(t, tt.want, WeightedChoice(r, reviewRatings))
		})
	}
}

func TestWeightedChoice_Distribution(t *testing.T) {
	r := NewRand(7)
	counts := map[int]int{}
	const n = 20000
	for i := 0; i < n; i++ {
		counts[WeightedChoice(r, reviewRatings)]++
	}
	assert.InDelta(t, 0.50, float64(counts[5])/n, 0.02)
	assert.InDelta(t, 0.35, float64(counts[4])/n, 0.02)
	assert.InDelta(t, 0.15, float64(counts[3])/n, 0.02)
	assert.Len(t, counts, 3)
}

func TestWeightedChoice_PanicsOnEmptyTable(t *testing.T) {
	assert.Panics(t, func() { WeightedChoice[string](NewRand(1), nil) })
}

func TestBetween(t *testing.T) {
	r := NewRand(3)
	for i := 0; i < 1000; i++ {
		v := Between(r, 2, 6)
		assert.GreaterOrEqual(t, v, 2)
		assert.LessOrEqual(t, v, 6)
	}
	assert.Equal(t, 4, Between(r, 4, 4))
}

func TestCycle(t *testing.T) {
	items := []string{"a", "b", "c"}
	assert.Equal(t, "a", Cycle(items, 0))
	assert.Equal(t, "c", Cycle(items, 2))
	assert.Equal(t, "a", Cycle(items, 3))
	assert.Equal(t, "b", Cycle(items, 7))
}

func TestAmountBetween(t *testing.T) {
	r := NewRand(11)
	lo, hi := decimal.NewFromInt(500), decimal.NewFromInt(900)
	for i := 0; i < 500; i++ {
		amt := AmountBetween(r, lo, hi)
		assert.True(t, amt.GreaterThanOrEqual(lo), amt.String())
		assert.True(t, amt.LessThanOrEqual(hi), amt.String())
		assert.True(t, amt.Equal(amt.Round(2)))
	}
	assert.True(t, lo.Equal(AmountBetween(r, lo, lo)))
}
