package demo

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sudo-init-do/stagebook/internal/marketplace"
)

// BookingConfig describes one batch of bookings sharing a lifecycle state.
type BookingConfig struct {
	Status  marketplace.BookingStatus
	Escrow  marketplace.EscrowStatus
	Count   int
	Review  bool
	Flagged bool
}

// BookingPlan covers every status and escrow combination the marketplace can
// be in, including flagged reviews for arbitration.
var BookingPlan = []BookingConfig{
	{Status: marketplace.BookingPending, Escrow: marketplace.EscrowPending, Count: 8},
	{Status: marketplace.BookingConfirmed, Escrow: marketplace.EscrowDepositHeld, Count: 10},
	{Status: marketplace.BookingInProgress, Escrow: marketplace.EscrowFullHeld, Count: 3},
	{Status: marketplace.BookingCompleted, Escrow: marketplace.EscrowReleased, Count: 20, Review: true},
	{Status: marketplace.BookingCompleted, Escrow: marketplace.EscrowFullHeld, Count: 8, Review: true},
	{Status: marketplace.BookingCancelled, Escrow: marketplace.EscrowRefunded, Count: 6},
	{Status: marketplace.BookingDisputed, Escrow: marketplace.EscrowFullHeld, Count: 3, Review: true, Flagged: true},
	{Status: marketplace.BookingCompleted, Escrow: marketplace.EscrowReleased, Count: 5, Review: true, Flagged: true},
}

var (
	bookingEventTypes = []string{"Wedding", "Corporate Event", "Birthday Party", "Private Party", "Festival", "Gala"}
	bookingEventNames = []string{
		"Spring Celebration", "Anniversary Dinner", "Product Launch", "Holiday Party",
		"Rehearsal Dinner", "Networking Mixer", "Backyard Reunion", "Awards Night",
	}
)

type BookingResult struct {
	Bookings     int
	Reviews      int
	Transactions int
}

// CreateBookings generates every batch in BookingPlan between random
// performer/customer pairs, with the transactions and reviews each state
// implies. Nothing is created when either pool is empty.
func (g *Generator) CreateBookings(ctx context.Context, performers, customers []string) BookingResult {
	var res BookingResult
	if len(performers) == 0 || len(customers) == 0 {
		return res
	}
	for _, cfg := range BookingPlan {
		for i := 0; i < cfg.Count; i++ {
			unit := fmt.Sprintf("%s/%s #%d", cfg.Status, cfg.Escrow, i+1)
			b, err := g.createBooking(ctx, cfg, Pick(g.rng, performers), Pick(g.rng, customers))
			if err != nil {
				g.skip(StageBookings, unit, err)
				continue
			}
			res.Bookings++

			txs, err := g.recordTransactions(ctx, b)
			res.Transactions += txs
			if err != nil {
				g.skip(StageBookings, unit+" transactions", err)
			}

			if cfg.Review && b.Status.Reviewable() {
				if err := g.createReview(ctx, b, cfg.Flagged); err != nil {
					g.skip(StageBookings, unit+" review", err)
					continue
				}
				res.Reviews++
			}
		}
	}
	return res
}

func (g *Generator) createBooking(ctx context.Context, cfg BookingConfig, performerUserID, customerID string) (*marketplace.Booking, error) {
	p, err := g.stores.Records.PerformerByUser(ctx, performerUserID)
	if err != nil {
		return nil, fmt.Errorf("performer lookup: %w", err)
	}

	hours := Between(g.rng, 2, 6)
	fin, err := marketplace.ComputeFinancials(p.HourlyRate, hours, p.DepositPercentage, p.Tier)
	if err != nil {
		return nil, err
	}
	depositPaid, err := cfg.Escrow.DepositPaid()
	if err != nil {
		return nil, err
	}
	fullyPaid, err := cfg.Escrow.FullyPaid()
	if err != nil {
		return nil, err
	}
	eventDate, err := g.eventDate(cfg.Status)
	if err != nil {
		return nil, err
	}

	b := &marketplace.Booking{
		PerformerID:      p.ID,
		PerformerUserID:  p.UserID,
		CustomerID:       customerID,
		EventName:        Pick(g.rng, bookingEventNames),
		EventType:        Pick(g.rng, bookingEventTypes),
		EventLocation:    location(p),
		EventDate:        eventDate,
		Hours:            hours,
		Status:           cfg.Status,
		EscrowStatus:     cfg.Escrow,
		TotalAmount:      fin.Total,
		DepositAmount:    fin.Deposit,
		RemainingAmount:  fin.Remaining,
		CommissionAmount: fin.Commission,
		PayoutAmount:     fin.Payout,
		DepositPaid:      depositPaid,
		FullyPaid:        fullyPaid,
		Demo:             true,
		CreatedAt:        g.createdAt(eventDate),
	}
	if cfg.Escrow == marketplace.EscrowReleased {
		payout := eventDate.AddDate(0, 0, Between(g.rng, 3, 7))
		b.PayoutDate = &payout
	}

	if err := g.stores.Records.InsertBooking(ctx, b); err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}
	return b, nil
}

// eventDate places a booking in time according to its status.
func (g *Generator) eventDate(status marketplace.BookingStatus) (time.Time, error) {
	start := midnight(g.now()).Add(time.Duration(Between(g.rng, 12, 20)) * time.Hour)
	switch status {
	case marketplace.BookingCompleted, marketplace.BookingDisputed:
		return start.AddDate(0, 0, -Between(g.rng, 7, 90)), nil
	case marketplace.BookingInProgress:
		return start, nil
	case marketplace.BookingConfirmed:
		return start.AddDate(0, 0, Between(g.rng, 7, 60)), nil
	case marketplace.BookingPending:
		return start.AddDate(0, 0, Between(g.rng, 14, 90)), nil
	case marketplace.BookingCancelled:
		if Chance(g.rng, 0.5) {
			return start.AddDate(0, 0, -Between(g.rng, 7, 60)), nil
		}
		return start.AddDate(0, 0, Between(g.rng, 7, 60)), nil
	}
	return time.Time{}, fmt.Errorf("unknown booking status %q", string(status))
}

// createdAt puts the booking request 1 to 30 days before the earlier of the
// event and now.
func (g *Generator) createdAt(eventDate time.Time) time.Time {
	ref := g.now()
	if eventDate.Before(ref) {
		ref = eventDate
	}
	return ref.AddDate(0, 0, -Between(g.rng, 1, 30))
}

func location(p marketplace.Performer) string {
	if p.State == "" {
		return p.City
	}
	return p.City + ", " + p.State
}

// recordTransactions writes the money trail implied by a booking's escrow
// state: deposit, balance, payout and refund, in that order.
func (g *Generator) recordTransactions(ctx context.Context, b *marketplace.Booking) (int, error) {
	customer := b.CustomerID
	performer := b.PerformerUserID

	var txs []marketplace.Transaction
	add := func(typ marketplace.TransactionType, amount decimal.Decimal, payer, payee *string, at time.Time) {
		txs = append(txs, marketplace.Transaction{
			BookingID: b.ID,
			Type:      typ,
			Amount:    amount.Round(2),
			PayerID:   payer,
			PayeeID:   payee,
			Status:    marketplace.TransactionCompleted,
			Demo:      true,
			CreatedAt: at,
		})
	}

	if b.DepositPaid {
		add(marketplace.TransactionDeposit, b.DepositAmount, &customer, &performer, b.CreatedAt)
	}
	if b.FullyPaid && b.TotalAmount.GreaterThan(b.DepositAmount) {
		add(marketplace.TransactionBalance, b.RemainingAmount, &customer, &performer, b.EventDate.AddDate(0, 0, -1))
	}
	if b.EscrowStatus == marketplace.EscrowReleased && b.PayoutDate != nil {
		add(marketplace.TransactionPayout, b.PayoutAmount, nil, &performer, *b.PayoutDate)
	}
	if b.EscrowStatus == marketplace.EscrowRefunded {
		add(marketplace.TransactionRefund, b.DepositAmount, nil, &customer, b.CreatedAt.AddDate(0, 0, 5))
	}

	n := 0
	for i := range txs {
		if err := g.stores.Records.InsertTransaction(ctx, &txs[i]); err != nil {
			return n, fmt.Errorf("insert %s transaction: %w", txs[i].Type, err)
		}
		n++
	}
	return n, nil
}
