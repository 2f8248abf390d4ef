package marketplace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatingCounts_Add(t *testing.T) {
	var rc RatingCounts
	rc.Add(5, 3)
	rc.Add(4, 1)
	rc.Add(5, 2)
	rc.Add(1, 4)
	rc.Add(0, 9)
	rc.Add(6, 9)

	assert.Equal(t, RatingCounts{FiveStar: 5, FourStar: 1, OneStar: 4}, rc)
}

func TestPageParams(t *testing.T) {
	tests := []struct {
		page, limit         string
		wantPage, wantLimit int
	}{
		{"", "", 1, 10},
		{"3", "20", 3, 20},
		{"0", "0", 1, 10},
		{"-1", "51", 1, 10},
		{"x", "50", 1, 50},
	}
	for _, tt := range tests {
		p, l := pageParams(tt.page, tt.limit)
		assert.Equal(t, tt.wantPage, p, "page %q", tt.page)
		assert.Equal(t, tt.wantLimit, l, "limit %q", tt.limit)
	}
}
