package marketplace

import "time"

// ReviewWithDetails is a public review plus the reviewer's display name.
type ReviewWithDetails struct {
	ID           string     `json:"id"`
	BookingID    string     `json:"booking_id"`
	ReviewerID   string     `json:"reviewer_id"`
	ReviewerName string     `json:"reviewer_name"`
	Rating       int        `json:"rating"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	Response     *string    `json:"response,omitempty"`
	ResponseAt   *time.Time `json:"response_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type RatingCounts struct {
	FiveStar  int `json:"five_star"`
	FourStar  int `json:"four_star"`
	ThreeStar int `json:"three_star"`
	TwoStar   int `json:"two_star"`
	OneStar   int `json:"one_star"`
}

// Add records count reviews at the given star rating. Out-of-range ratings
// are ignored.
func (rc *RatingCounts) Add(rating, count int) {
	switch rating {
	case 5:
		rc.FiveStar += count
	case 4:
		rc.FourStar += count
	case 3:
		rc.ThreeStar += count
	case 2:
		rc.TwoStar += count
	case 1:
		rc.OneStar += count
	}
}

// PerformerRatingSummary aggregates the visible reviews of one performer.
type PerformerRatingSummary struct {
	PerformerID   string       `json:"performer_id"`
	StageName     string       `json:"stage_name"`
	TotalReviews  int          `json:"total_reviews"`
	AverageRating float64      `json:"average_rating"`
	RatingCounts  RatingCounts `json:"rating_counts"`
}
