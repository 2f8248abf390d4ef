package demo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/sudo-init-do/stagebook/internal/store"
	"github.com/sudo-init-do/stagebook/internal/tracing"
)

func TestRun_DefaultSeeds(t *testing.T) {
	g, mem := newTestGenerator(t)
	seeds := DefaultSeeds()

	sum, err := g.Run(context.Background(), seeds)
	require.NoError(t, err)

	assert.Equal(t, len(seeds.Categories), sum.Categories)
	assert.Equal(t, len(seeds.ServiceAreas), sum.ServiceAreas)
	assert.Equal(t, len(seeds.Performers), sum.Performers)
	assert.Equal(t, len(seeds.Performers)*121, sum.AvailabilitySlots)
	assert.Equal(t, len(seeds.Customers), sum.Customers)
	assert.Equal(t, len(seeds.Performers), sum.Microsites)
	assert.Equal(t, 63, sum.Bookings)
	assert.Equal(t, 36, sum.Reviews)
	// 55 deposits, 39 balances, 25 payouts, 6 refunds
	assert.Equal(t, 125, sum.Transactions)
	assert.Equal(t, len(seeds.Events), sum.MarketEvents)
	assert.Empty(t, sum.Failures)

	assert.Len(t, mem.Bookings(), sum.Bookings)
	assert.Len(t, mem.Reviews(), sum.Reviews)
	assert.Len(t, mem.Transactions(), sum.Transactions)
	assert.Len(t, mem.Bids(), sum.Bids)
	assert.Len(t, mem.Users(), sum.Performers+sum.Customers)
}

func TestRun_SmallMarketplace(t *testing.T) {
	g, mem := newTestGenerator(t)
	defaults := DefaultSeeds()

	byName := map[string]PerformerSeed{}
	for _, p := range defaults.Performers {
		byName[p.Name] = p
	}
	third := byName["Marco Rinaldi"]
	third.Category = "DJ"
	seeds := Seeds{
		Categories:   []CategorySeed{defaults.Categories[0]},
		ServiceAreas: defaults.ServiceAreas[:1],
		Performers:   []PerformerSeed{byName["DJ Nova"], byName["DJ Kilowatt"], third},
		Customers:    defaults.Customers[:2],
		Events:       defaults.Events,
	}
	require.Equal(t, "DJ", seeds.Categories[0].Name)

	sum, err := g.Run(context.Background(), seeds)
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Categories)
	assert.Equal(t, 1, sum.ServiceAreas)
	assert.Equal(t, 3, sum.Performers)
	assert.Equal(t, 2, sum.Customers)
	assert.Equal(t, 63, sum.Bookings)
	assert.LessOrEqual(t, sum.Reviews, 36)
	assert.Equal(t, len(seeds.Events), sum.MarketEvents)
	assert.Empty(t, sum.Failures)

	// One pro performer means at most one bid per event.
	perEvent := map[string]int{}
	for _, b := range mem.Bids() {
		perEvent[b.EventID]++
	}
	events := mem.MarketEvents()
	require.Len(t, events, len(seeds.Events))
	for _, ev := range events {
		assert.LessOrEqual(t, perEvent[ev.ID], 1, ev.Name)
		assert.Equal(t, perEvent[ev.ID], ev.TotalBids, ev.Name)
	}
	assert.Len(t, mem.Bids(), sum.Bids)
}

func TestRun_StageSpans(t *testing.T) {
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	g, mem := newTestGenerator(t, WithTracer(tp.Tracer("demo")))
	mem.Faults.CreateUser = func(u store.NewUser) error {
		if u.Email == "olivia@demo.stagebook.test" {
			return errors.New("smtp check failed")
		}
		return nil
	}

	_, err := g.Run(context.Background(), DefaultSeeds())
	require.NoError(t, err)

	ended := spans.Ended()
	var names []string
	for _, s := range ended {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{
		"demo.taxonomy", "demo.performers", "demo.microsites",
		"demo.customers", "demo.bookings", "demo.market", "demo.Run",
	}, names)

	customers := ended[3]
	assert.Contains(t, customers.Attributes(), tracing.StageKey.String(StageCustomers))
	assert.Contains(t, customers.Attributes(), tracing.SkippedKey.Int(1))
	assert.Equal(t, codes.Error, customers.Status().Code)
	assert.Equal(t, codes.Unset, ended[0].Status().Code)
}

func TestRun_RejectsInvalidSeeds(t *testing.T) {
	g, _ := newTestGenerator(t)
	seeds := DefaultSeeds()
	seeds.Performers[0].Tier = "gold"

	_, err := g.Run(context.Background(), seeds)
	assert.Error(t, err)
}

func TestRun_NoCustomersMeansNoBookingsOrEvents(t *testing.T) {
	g, mem := newTestGenerator(t)
	seeds := DefaultSeeds()
	seeds.Customers = nil

	sum, err := g.Run(context.Background(), seeds)
	require.NoError(t, err)
	assert.Equal(t, len(seeds.Performers), sum.Performers)
	assert.Zero(t, sum.Bookings)
	assert.Zero(t, sum.Transactions)
	assert.Zero(t, sum.MarketEvents)
	assert.Empty(t, mem.Bookings())
}

func TestSeedTaxonomy_Idempotent(t *testing.T) {
	g, mem := newTestGenerator(t)
	seeds := DefaultSeeds()
	ctx := context.Background()

	cats, areas := g.SeedTaxonomy(ctx, seeds)
	assert.Equal(t, len(seeds.Categories), cats)
	assert.Equal(t, len(seeds.ServiceAreas), areas)

	cats, areas = g.SeedTaxonomy(ctx, seeds)
	assert.Zero(t, cats)
	assert.Zero(t, areas)
	assert.Len(t, mem.Terms(store.TaxonomyCategory), len(seeds.Categories))
	assert.Len(t, mem.Terms(store.TaxonomyServiceArea), len(seeds.ServiceAreas))
}

func TestSeedTaxonomy_SwallowsErrors(t *testing.T) {
	g, mem := newTestGenerator(t)
	mem.Faults.CreateTerm = func(name, _ string) error {
		if name == "DJ" {
			return errors.New("write refused")
		}
		return nil
	}
	seeds := DefaultSeeds()

	cats, _ := g.SeedTaxonomy(context.Background(), seeds)
	assert.Equal(t, len(seeds.Categories)-1, cats)
	require.Len(t, g.failures, 1)
	assert.Equal(t, StageTaxonomy, g.failures[0].Stage)
}

func TestFailures_OnlyReportedWhenEnabled(t *testing.T) {
	g, mem := newTestGenerator(t, WithOptions(Options{ReportFailures: false}))
	mem.Faults.CreateUser = func(u store.NewUser) error {
		if u.Email == "nova@demo.stagebook.test" {
			return errors.New("mailbox exists")
		}
		return nil
	}
	seeds := DefaultSeeds()

	sum, err := g.Run(context.Background(), seeds)
	require.NoError(t, err)
	assert.Equal(t, len(seeds.Performers)-1, sum.Performers)
	assert.Nil(t, sum.Failures)
}

func TestTeardown_RemovesDemoData(t *testing.T) {
	g, mem := newTestGenerator(t)
	ctx := context.Background()

	// A term created outside the generator survives teardown.
	_, err := mem.CreateTerm(ctx, "Acrobat", store.TaxonomyCategory, store.TermOptions{})
	require.NoError(t, err)

	sum, err := g.Run(ctx, DefaultSeeds())
	require.NoError(t, err)

	report, err := Teardown(ctx, mem)
	require.NoError(t, err)
	assert.EqualValues(t, sum.Bookings, report["bookings"])
	assert.EqualValues(t, sum.Bids, report["market_bids"])
	assert.EqualValues(t, sum.Performers+sum.Customers, report["users"])

	assert.Empty(t, mem.Users())
	assert.Empty(t, mem.Performers())
	assert.Empty(t, mem.Availability())
	assert.Empty(t, mem.Bookings())
	assert.Empty(t, mem.Transactions())
	assert.Empty(t, mem.Reviews())
	assert.Empty(t, mem.MarketEvents())
	assert.Empty(t, mem.Items(""))

	remaining := mem.Terms(store.TaxonomyCategory)
	require.Len(t, remaining, 1)
	assert.Equal(t, "Acrobat", remaining[0].Name)
}
