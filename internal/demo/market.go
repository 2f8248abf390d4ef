package demo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sudo-init-do/stagebook/internal/marketplace"
	"github.com/sudo-init-do/stagebook/internal/store"
)

var (
	filledBidCycle = []marketplace.BidStatus{marketplace.BidAccepted, marketplace.BidRejected, marketplace.BidRejected, marketplace.BidRejected}
	closedBidCycle = []marketplace.BidStatus{marketplace.BidExpired, marketplace.BidExpired, marketplace.BidWithdrawn}

	bidMessages = []string{
		"Would love to be part of this! I have played similar events and can tailor the set to your crowd.",
		"Available on your date. Price includes sound equipment and setup.",
		"Happy to jump on a call to talk through the run of show.",
		"I can add a bonus half hour at no charge if you book this week.",
		"Check out my microsite for recent clips from events like yours.",
	}
)

type MarketResult struct {
	Events int
	Bids   int
}

// CreateMarket posts an event per template for a random customer and lets
// pro-tier performers bid on it.
func (g *Generator) CreateMarket(ctx context.Context, templates []EventTemplate, performers, customers []string) MarketResult {
	var res MarketResult
	if len(customers) == 0 {
		return res
	}
	pool := g.proPool(ctx, performers)

	for _, tpl := range templates {
		ev, err := g.createMarketEvent(ctx, tpl, Pick(g.rng, customers))
		if err != nil {
			g.skip(StageMarket, tpl.Name, err)
			continue
		}
		res.Events++

		n := g.placeBids(ctx, ev, pool)
		res.Bids += n
		if err := g.stores.Records.SetMarketEventBidCount(ctx, ev.ID, n); err != nil {
			g.skip(StageMarket, tpl.Name+" bid count", err)
		}
	}
	return res
}

// proPool resolves performer records and keeps the pro-tier ones.
func (g *Generator) proPool(ctx context.Context, userIDs []string) []marketplace.Performer {
	var pool []marketplace.Performer
	for _, id := range userIDs {
		p, err := g.stores.Records.PerformerByUser(ctx, id)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				g.log.Warn("performer lookup failed", "user", id, "error", err)
			}
			continue
		}
		if p.Tier == marketplace.TierPro {
			pool = append(pool, p)
		}
	}
	return pool
}

func (g *Generator) createMarketEvent(ctx context.Context, tpl EventTemplate, customerID string) (*marketplace.MarketEvent, error) {
	status, err := tpl.Status.EventStatus()
	if err != nil {
		return nil, err
	}

	start := midnight(g.now()).Add(time.Duration(Between(g.rng, 12, 20)) * time.Hour)
	var eventDate time.Time
	switch status {
	case marketplace.MarketEventOpen:
		eventDate = start.AddDate(0, 0, Between(g.rng, 14, 60))
	case marketplace.MarketEventClosed, marketplace.MarketEventBooked:
		eventDate = start.AddDate(0, 0, -Between(g.rng, 6, 30))
	default:
		return nil, fmt.Errorf("unknown market event status %q", string(status))
	}

	ev := &marketplace.MarketEvent{
		CustomerID:    customerID,
		Name:          tpl.Name,
		Description:   tpl.Description,
		DurationHours: tpl.Duration,
		BudgetMin:     decimal.NewFromFloat(tpl.BudgetMin).Round(2),
		BudgetMax:     decimal.NewFromFloat(tpl.BudgetMax).Round(2),
		EventDate:     eventDate,
		BidDeadline:   eventDate.AddDate(0, 0, -5),
		Status:        status,
		Demo:          true,
		CreatedAt:     eventDate.AddDate(0, 0, -Between(g.rng, 10, 30)),
	}
	if ev.CreatedAt.After(g.now()) {
		ev.CreatedAt = g.now()
	}

	if tpl.Category != "" {
		term, err := g.stores.Taxonomy.FindTermByName(ctx, tpl.Category, store.TaxonomyCategory)
		switch {
		case err == nil:
			ev.CategoryTermID = &term.ID
		case !errors.Is(err, store.ErrNotFound):
			g.log.Warn("category lookup failed", "category", tpl.Category, "error", err)
		}
	}

	if err := g.stores.Records.SaveMarketEvent(ctx, ev); err != nil {
		return nil, fmt.Errorf("save market event: %w", err)
	}
	return ev, nil
}

// BidCount returns how many bids an event receives from a pool of the given
// size: uniform in [2, max] where max is 5 for open events and 8 otherwise,
// capped by the pool.
func BidCount(r Rand, status marketplace.MarketEventStatus, pool int) int {
	limit := 8
	if status == marketplace.MarketEventOpen {
		limit = 5
	}
	maxBids := min(limit, pool)
	if maxBids < 2 {
		return maxBids
	}
	return Between(r, 2, maxBids)
}

// BidStatusFor returns the status of the i-th bid on an event.
func BidStatusFor(status marketplace.MarketEventStatus, i int) (marketplace.BidStatus, error) {
	switch status {
	case marketplace.MarketEventOpen:
		return marketplace.BidPending, nil
	case marketplace.MarketEventBooked:
		return Cycle(filledBidCycle, i), nil
	case marketplace.MarketEventClosed:
		return Cycle(closedBidCycle, i), nil
	}
	return "", fmt.Errorf("unknown market event status %q", string(status))
}

func (g *Generator) placeBids(ctx context.Context, ev *marketplace.MarketEvent, pool []marketplace.Performer) int {
	if len(pool) == 0 {
		return 0
	}
	n := BidCount(g.rng, ev.Status, len(pool))

	bidders := append([]marketplace.Performer(nil), pool...)
	g.rng.Shuffle(len(bidders), func(i, j int) { bidders[i], bidders[j] = bidders[j], bidders[i] })

	created := 0
	for i, p := range bidders[:n] {
		status, err := BidStatusFor(ev.Status, i)
		if err != nil {
			g.skip(StageMarket, ev.Name, err)
			return created
		}
		placed := ev.CreatedAt.Add(time.Duration(Between(g.rng, 1, 72)) * time.Hour)
		if placed.After(ev.BidDeadline) {
			placed = ev.BidDeadline
		}
		if placed.After(g.now()) {
			placed = g.now()
		}
		bid := &marketplace.Bid{
			EventID:         ev.ID,
			PerformerID:     p.ID,
			PerformerUserID: p.UserID,
			Amount:          AmountBetween(g.rng, ev.BudgetMin, ev.BudgetMax),
			Message:         Pick(g.rng, bidMessages),
			Status:          status,
			Demo:            true,
			CreatedAt:       placed,
		}
		if err := g.stores.Records.InsertBid(ctx, bid); err != nil {
			g.skip(StageMarket, fmt.Sprintf("%s bid %d", ev.Name, i+1), err)
			continue
		}
		created++
	}
	return created
}
