package demo

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/stagebook/internal/marketplace"
	"github.com/sudo-init-do/stagebook/internal/store"
)

func TestBidCount_Bounds(t *testing.T) {
	r := NewRand(5)
	tests := []struct {
		status marketplace.MarketEventStatus
		pool   int
		lo, hi int
	}{
		{marketplace.MarketEventOpen, 10, 2, 5},
		{marketplace.MarketEventClosed, 10, 2, 8},
		{marketplace.MarketEventBooked, 3, 2, 3},
		{marketplace.MarketEventOpen, 2, 2, 2},
		{marketplace.MarketEventOpen, 1, 1, 1},
		{marketplace.MarketEventClosed, 0, 0, 0},
	}
	for _, tt := range tests {
		for i := 0; i < 200; i++ {
			n := BidCount(r, tt.status, tt.pool)
			assert.GreaterOrEqual(t, n, tt.lo, "%s pool=%d", tt.status, tt.pool)
			assert.LessOrEqual(t, n, tt.hi, "%s pool=%d", tt.status, tt.pool)
		}
	}
}

func TestBidStatusFor(t *testing.T) {
	var filled, closed []marketplace.BidStatus
	for i := 0; i < 6; i++ {
		s, err := BidStatusFor(marketplace.MarketEventBooked, i)
		require.NoError(t, err)
		filled = append(filled, s)
		s, err = BidStatusFor(marketplace.MarketEventClosed, i)
		require.NoError(t, err)
		closed = append(closed, s)
	}
	assert.Equal(t, []marketplace.BidStatus{"accepted", "rejected", "rejected", "rejected", "accepted", "rejected"}, filled)
	assert.Equal(t, []marketplace.BidStatus{"expired", "expired", "withdrawn", "expired", "expired", "withdrawn"}, closed)

	s, err := BidStatusFor(marketplace.MarketEventOpen, 3)
	require.NoError(t, err)
	assert.Equal(t, marketplace.BidPending, s)

	_, err = BidStatusFor("archived", 0)
	assert.Error(t, err)
}

func TestMarket_EventsAndBids(t *testing.T) {
	g, mem := newTestGenerator(t)
	seeds := DefaultSeeds()
	sum, err := g.Run(context.Background(), seeds)
	require.NoError(t, err)

	pros := map[string]bool{}
	for _, p := range mem.Performers() {
		if p.Tier == marketplace.TierPro {
			pros[p.ID] = true
		}
	}

	bidsByEvent := map[string][]marketplace.Bid{}
	for _, b := range mem.Bids() {
		bidsByEvent[b.EventID] = append(bidsByEvent[b.EventID], b)
		assert.True(t, pros[b.PerformerID], "bid from non-pro performer")
	}

	events := mem.MarketEvents()
	require.Len(t, events, sum.MarketEvents)
	total := 0
	for _, ev := range events {
		bids := bidsByEvent[ev.ID]
		total += len(bids)
		assert.Equal(t, len(bids), ev.TotalBids)
		assert.True(t, ev.BidDeadline.Equal(ev.EventDate.AddDate(0, 0, -5)))

		limit := 8
		if ev.Status == marketplace.MarketEventOpen {
			limit = 5
			assert.True(t, ev.EventDate.After(fixedNow))
		} else {
			assert.True(t, ev.EventDate.Before(fixedNow))
		}
		assert.GreaterOrEqual(t, len(bids), 2)
		assert.LessOrEqual(t, len(bids), min(limit, len(pros)))

		seen := map[string]bool{}
		for i, b := range bids {
			assert.False(t, seen[b.PerformerID], "performer bid twice")
			seen[b.PerformerID] = true
			assert.True(t, b.Amount.GreaterThanOrEqual(ev.BudgetMin))
			assert.True(t, b.Amount.LessThanOrEqual(ev.BudgetMax))
			want, err := BidStatusFor(ev.Status, i)
			require.NoError(t, err)
			assert.Equal(t, want, b.Status)
		}

		// both representations agree
		item, err := mem.GetItem(context.Background(), ev.ContentID)
		require.NoError(t, err)
		assert.Equal(t, store.ContentMarketEvent, item.Type)
		assert.Equal(t, ev.Name, item.Title)
		count, err := mem.GetMeta(context.Background(), ev.ContentID, "total_bids")
		require.NoError(t, err)
		n, err := strconv.Atoi(count)
		require.NoError(t, err)
		assert.Equal(t, len(bids), n)
	}
	assert.Equal(t, sum.Bids, total)
}

func TestMarket_CategoryMissIsTolerated(t *testing.T) {
	g, mem := newTestGenerator(t)
	seeds := DefaultSeeds()
	_, err := g.Run(context.Background(), seeds)
	require.NoError(t, err)

	for _, ev := range mem.MarketEvents() {
		if ev.Name == "Festival Side Stage" {
			assert.Nil(t, ev.CategoryTermID)
		} else {
			assert.NotNil(t, ev.CategoryTermID, ev.Name)
		}
	}
}

func TestMarket_NoProPerformers(t *testing.T) {
	g, mem := newTestGenerator(t)
	ctx := context.Background()
	seeds := DefaultSeeds()
	var free []PerformerSeed
	for _, p := range seeds.Performers {
		if p.Tier == marketplace.TierFree {
			free = append(free, p)
		}
	}
	seeds.Performers = free
	performers, _ := g.CreatePerformers(ctx, seeds)
	customers := g.CreateCustomers(ctx, seeds.Customers)

	res := g.CreateMarket(ctx, seeds.Events, performers, customers)
	assert.Equal(t, len(seeds.Events), res.Events)
	assert.Zero(t, res.Bids)
	for _, ev := range mem.MarketEvents() {
		assert.Zero(t, ev.TotalBids)
	}
}
