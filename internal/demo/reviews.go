package demo

import (
	"context"
	"fmt"

	"github.com/sudo-init-do/stagebook/internal/marketplace"
)

type reviewTemplate struct {
	Title   string
	Content string
}

type flaggedTemplate struct {
	Rating     int
	Title      string
	Content    string
	FlagReason string
}

// reviewRatings is the distribution of ratings for unflagged reviews.
var reviewRatings = []Weighted[int]{
	{Value: 5, Weight: 50},
	{Value: 4, Weight: 35},
	{Value: 3, Weight: 15},
}

var reviewTemplates = map[int][]reviewTemplate{
	5: {
		{"Absolutely incredible", "Everyone is still talking about the performance. Professional from the first message to the last song."},
		{"Exceeded every expectation", "Arrived early, read the room perfectly and kept the energy high all night."},
		{"Booking again next year", "Seamless from start to finish. Our guests could not stop asking who we hired."},
		{"Made our day", "Exactly what we hoped for and then some. Worth every penny."},
	},
	4: {
		{"Great performance", "Really enjoyed the set. A couple of small timing hiccups but nothing that spoiled the event."},
		{"Very good, would recommend", "Talented and easy to work with. Setup took a little longer than planned."},
		{"Solid choice", "Guests had a great time. Communication before the event could have been quicker."},
	},
	3: {
		{"Decent but not memorable", "The performance was fine. It felt a bit generic for the price."},
		{"Okay overall", "Did what was agreed, though the energy dipped in the second half."},
		{"Mixed feelings", "Good moments, but the start was late and the volume was hard to manage."},
	},
}

var reviewResponses = []string{
	"Thank you so much! It was a pleasure being part of your event.",
	"Thanks for the kind words. Hope to see you again soon!",
	"We had a blast too. Thank you for having us!",
	"Really appreciate the review. Congratulations again!",
}

// flaggedTemplates are deliberately hostile reviews the performer has disputed.
var flaggedTemplates = []flaggedTemplate{
	{1, "Total scam", "Never showed up on time and demanded extra cash on the night. Avoid.", "Reviewer is demanding a refund for a performance that was delivered in full."},
	{2, "Rude and unprofessional", "Argued with our guests and left early without saying a word.", "Performer left at the contracted end time. Review contains false claims."},
	{1, "Worst money I ever spent", "Played the wrong music all night and ignored every request we made.", "Song list was approved by the customer in writing before the event."},
	{2, "Do not book", "Equipment broke halfway through and they blamed the venue.", "Power outage at the venue was outside the performer's control."},
	{1, "Fraud", "Took our deposit and delivered half of what was promised.", "Review was posted by someone not present at the event."},
}

// createReview writes the customer's review for a finished booking. Flagged
// reviews enter arbitration; others may get a performer response.
func (g *Generator) createReview(ctx context.Context, b *marketplace.Booking, flagged bool) error {
	reviewedAt := b.EventDate.AddDate(0, 0, Between(g.rng, 1, 7))
	r := &marketplace.Review{
		BookingID:   b.ID,
		ReviewerID:  b.CustomerID,
		RevieweeID:  b.PerformerUserID,
		PerformerID: b.PerformerID,
		Demo:        true,
		CreatedAt:   reviewedAt,
	}

	if flagged {
		t := Pick(g.rng, flaggedTemplates)
		reason := t.FlagReason
		flaggedAt := reviewedAt.AddDate(0, 0, 2)
		status := marketplace.ArbitrationPending
		r.Rating = t.Rating
		r.Title = t.Title
		r.Content = t.Content
		r.IsFlagged = true
		r.FlagReason = &reason
		r.FlaggedAt = &flaggedAt
		r.ArbitrationStatus = &status
	} else {
		r.Rating = WeightedChoice(g.rng, reviewRatings)
		t := Pick(g.rng, reviewTemplates[r.Rating])
		r.Title = t.Title
		r.Content = t.Content
		if r.Rating >= 4 && Chance(g.rng, 0.6) {
			resp := Pick(g.rng, reviewResponses)
			at := reviewedAt.AddDate(0, 0, Between(g.rng, 1, 3))
			r.Response = &resp
			r.ResponseAt = &at
		}
	}

	if err := g.stores.Records.InsertReview(ctx, r); err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}
