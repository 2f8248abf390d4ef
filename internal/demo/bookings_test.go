package demo

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/stagebook/internal/marketplace"
	"github.com/sudo-init-do/stagebook/internal/store/memstore"
)

func runDefault(t *testing.T) *memstore.Store {
	t.Helper()
	g, mem := newTestGenerator(t)
	_, err := g.Run(context.Background(), DefaultSeeds())
	require.NoError(t, err)
	return mem
}

func TestBookingPlan_Totals(t *testing.T) {
	total, flagged := 0, 0
	for _, cfg := range BookingPlan {
		total += cfg.Count
		if cfg.Flagged {
			flagged += cfg.Count
			assert.True(t, cfg.Review)
		}
		assert.True(t, cfg.Status.Valid())
		assert.True(t, cfg.Escrow.Valid())
	}
	assert.Equal(t, 63, total)
	assert.Equal(t, 8, flagged)
}

func TestBookings_FinancialInvariants(t *testing.T) {
	mem := runDefault(t)
	performers := map[string]marketplace.Performer{}
	for _, p := range mem.Performers() {
		performers[p.ID] = p
	}
	tenPct, fifteenPct := decimal.RequireFromString("0.10"), decimal.RequireFromString("0.15")

	for _, b := range mem.Bookings() {
		p := performers[b.PerformerID]
		require.NotEmpty(t, p.ID)

		assert.GreaterOrEqual(t, b.Hours, 2)
		assert.LessOrEqual(t, b.Hours, 6)
		assert.True(t, b.TotalAmount.Equal(p.HourlyRate.Mul(decimal.NewFromInt(int64(b.Hours)))))
		assert.True(t, b.TotalAmount.Equal(b.DepositAmount.Add(b.RemainingAmount)))
		assert.True(t, b.TotalAmount.Equal(b.CommissionAmount.Add(b.PayoutAmount)))

		rate := fifteenPct
		if p.Tier == marketplace.TierPro {
			rate = tenPct
		}
		assert.True(t, b.CommissionAmount.Equal(b.TotalAmount.Mul(rate).Round(2)))

		wantDeposit := b.TotalAmount.Mul(decimal.NewFromInt(int64(p.DepositPercentage))).Div(decimal.NewFromInt(100)).Round(2)
		assert.True(t, b.DepositAmount.Equal(wantDeposit))

		dp, _ := b.EscrowStatus.DepositPaid()
		fp, _ := b.EscrowStatus.FullyPaid()
		assert.Equal(t, dp, b.DepositPaid)
		assert.Equal(t, fp, b.FullyPaid)
		assert.Equal(t, b.EscrowStatus == marketplace.EscrowReleased, b.PayoutDate != nil)
	}
}

func TestBookings_EventDates(t *testing.T) {
	mem := runDefault(t)
	today := midnight(fixedNow)
	for _, b := range mem.Bookings() {
		day := midnight(b.EventDate)
		switch b.Status {
		case marketplace.BookingCompleted, marketplace.BookingDisputed:
			assert.True(t, day.Before(today), "%s booking in the future", b.Status)
		case marketplace.BookingInProgress:
			assert.True(t, day.Equal(today))
		case marketplace.BookingConfirmed, marketplace.BookingPending:
			assert.True(t, day.After(today), "%s booking in the past", b.Status)
		case marketplace.BookingCancelled:
			assert.False(t, day.Equal(today))
		}
		assert.True(t, b.CreatedAt.Before(b.EventDate))
		assert.False(t, b.CreatedAt.After(fixedNow))
	}
}

func TestTransactions_MatchEscrow(t *testing.T) {
	mem := runDefault(t)
	byBooking := map[string][]marketplace.Transaction{}
	for _, tx := range mem.Transactions() {
		byBooking[tx.BookingID] = append(byBooking[tx.BookingID], tx)
	}

	for _, b := range mem.Bookings() {
		txs := byBooking[b.ID]
		if !b.DepositPaid {
			assert.Empty(t, txs)
			continue
		}

		var types []marketplace.TransactionType
		for _, tx := range txs {
			types = append(types, tx.Type)
			assert.Equal(t, marketplace.TransactionCompleted, tx.Status)
			assert.True(t, tx.Amount.Equal(tx.Amount.Round(2)))
		}

		require.NotEmpty(t, txs)
		deposit := txs[0]
		assert.Equal(t, marketplace.TransactionDeposit, deposit.Type)
		assert.True(t, deposit.CreatedAt.Equal(b.CreatedAt))
		assert.True(t, deposit.Amount.Equal(b.DepositAmount))

		switch b.EscrowStatus {
		case marketplace.EscrowDepositHeld:
			assert.Equal(t, []marketplace.TransactionType{marketplace.TransactionDeposit}, types)
		case marketplace.EscrowFullHeld:
			assert.Equal(t, []marketplace.TransactionType{marketplace.TransactionDeposit, marketplace.TransactionBalance}, types)
		case marketplace.EscrowReleased:
			require.Equal(t, []marketplace.TransactionType{marketplace.TransactionDeposit, marketplace.TransactionBalance, marketplace.TransactionPayout}, types)
			payout := txs[2]
			assert.True(t, payout.Amount.Equal(b.PayoutAmount))
			assert.Nil(t, payout.PayerID)
			assert.True(t, payout.CreatedAt.Equal(*b.PayoutDate))
			days := payout.CreatedAt.Sub(b.EventDate).Hours() / 24
			assert.GreaterOrEqual(t, days, 3.0)
			assert.LessOrEqual(t, days, 7.0)
		case marketplace.EscrowRefunded:
			require.Equal(t, []marketplace.TransactionType{marketplace.TransactionDeposit, marketplace.TransactionRefund}, types)
			refund := txs[1]
			assert.True(t, refund.Amount.Equal(b.DepositAmount))
			assert.True(t, refund.CreatedAt.Equal(b.CreatedAt.AddDate(0, 0, 5)))
			require.NotNil(t, refund.PayeeID)
			assert.Equal(t, b.CustomerID, *refund.PayeeID)
		}

		for _, tx := range txs {
			if tx.Type == marketplace.TransactionBalance {
				assert.True(t, tx.Amount.Equal(b.RemainingAmount))
				assert.True(t, tx.CreatedAt.Equal(b.EventDate.AddDate(0, 0, -1)))
				assert.False(t, tx.CreatedAt.Before(deposit.CreatedAt))
			}
		}
	}
}

func TestReviews_Properties(t *testing.T) {
	mem := runDefault(t)
	bookings := map[string]marketplace.Booking{}
	for _, b := range mem.Bookings() {
		bookings[b.ID] = b
	}

	flagged := 0
	for _, r := range mem.Reviews() {
		b, ok := bookings[r.BookingID]
		require.True(t, ok)
		assert.True(t, b.Status.Reviewable())
		assert.Equal(t, b.CustomerID, r.ReviewerID)
		assert.Equal(t, b.PerformerUserID, r.RevieweeID)

		days := r.CreatedAt.Sub(b.EventDate).Hours() / 24
		assert.GreaterOrEqual(t, days, 1.0)
		assert.LessOrEqual(t, days, 7.0)

		if r.IsFlagged {
			flagged++
			assert.LessOrEqual(t, r.Rating, 2)
			require.NotNil(t, r.FlagReason)
			assert.NotEmpty(t, *r.FlagReason)
			require.NotNil(t, r.ArbitrationStatus)
			assert.Equal(t, marketplace.ArbitrationPending, *r.ArbitrationStatus)
			assert.Nil(t, r.Response)
			require.NotNil(t, r.FlaggedAt)
			assert.True(t, r.FlaggedAt.Equal(r.CreatedAt.AddDate(0, 0, 2)))
			continue
		}

		assert.Nil(t, r.ArbitrationStatus)
		assert.Contains(t, []int{3, 4, 5}, r.Rating)
		if r.Response != nil {
			assert.GreaterOrEqual(t, r.Rating, 4)
			require.NotNil(t, r.ResponseAt)
			gap := r.ResponseAt.Sub(r.CreatedAt).Hours() / 24
			assert.GreaterOrEqual(t, gap, 1.0)
			assert.LessOrEqual(t, gap, 3.0)
		}
	}
	assert.Equal(t, 8, flagged)
}

func TestCreateBookings_SkipsUnknownPerformer(t *testing.T) {
	g, mem := newTestGenerator(t)
	ctx := context.Background()
	customers := g.CreateCustomers(ctx, DefaultSeeds().Customers)

	res := g.CreateBookings(ctx, []string{"ghost"}, customers)
	assert.Zero(t, res.Bookings)
	assert.Empty(t, mem.Bookings())
	assert.Len(t, g.failures, 63)
}

func TestEventDate_UnknownStatus(t *testing.T) {
	g, _ := newTestGenerator(t)
	_, err := g.eventDate(marketplace.BookingStatus("archived"))
	assert.Error(t, err)
}
