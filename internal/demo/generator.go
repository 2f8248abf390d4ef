// Package demo populates the marketplace with a self-consistent synthetic data
// set: taxonomy, performers with availability and microsites, customers,
// bookings with their money trail and reviews, and market events with bids.
package demo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/sudo-init-do/stagebook/internal/store"
	"github.com/sudo-init-do/stagebook/internal/tracing"
)

// Stage names used in logs, spans and failure reports.
const (
	StageTaxonomy   = "taxonomy"
	StagePerformers = "performers"
	StageMicrosites = "microsites"
	StageCustomers  = "customers"
	StageBookings   = "bookings"
	StageMarket     = "market"
)

// UnitFailure records why one unit of work was skipped.
type UnitFailure struct {
	Stage  string `json:"stage"`
	Unit   string `json:"unit"`
	Reason string `json:"reason"`
}

// Summary counts what a run created.
type Summary struct {
	Categories        int           `json:"categories"`
	ServiceAreas      int           `json:"service_areas"`
	Performers        int           `json:"performers"`
	AvailabilitySlots int           `json:"availability_slots"`
	Customers         int           `json:"customers"`
	Microsites        int           `json:"microsites"`
	Bookings          int           `json:"bookings"`
	Reviews           int           `json:"reviews"`
	Transactions      int           `json:"transactions"`
	MarketEvents      int           `json:"market_events"`
	Bids              int           `json:"bids"`
	Failures          []UnitFailure `json:"failures,omitempty"`
	StartedAt         time.Time     `json:"started_at"`
	Duration          time.Duration `json:"duration"`
}

type Options struct {
	// ReportFailures adds every skipped unit to Summary.Failures.
	ReportFailures bool
	// UserPassword is set on every generated account. Empty means a random
	// password per account.
	UserPassword string
}

type Generator struct {
	stores store.Stores
	opts   Options
	rng    Rand
	now    func() time.Time
	log    *slog.Logger
	tracer trace.Tracer

	failures []UnitFailure
}

type Option func(*Generator)

func WithRand(r Rand) Option { return func(g *Generator) { g.rng = r } }

func WithClock(now func() time.Time) Option { return func(g *Generator) { g.now = now } }

func WithLogger(l *slog.Logger) Option { return func(g *Generator) { g.log = l } }

func WithTracer(t trace.Tracer) Option { return func(g *Generator) { g.tracer = t } }

func WithOptions(o Options) Option { return func(g *Generator) { g.opts = o } }

func New(stores store.Stores, opts ...Option) *Generator {
	g := &Generator{
		stores: stores,
		rng:    defaultRand(),
		now:    time.Now,
		log:    slog.Default(),
		tracer: noop.NewTracerProvider().Tracer("demo"),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Run executes every stage in order and returns what was created. Individual
// unit failures are skipped; Run itself only fails on invalid seeds.
func (g *Generator) Run(ctx context.Context, seeds Seeds) (Summary, error) {
	if err := seeds.Validate(); err != nil {
		return Summary{}, fmt.Errorf("invalid seeds: %w", err)
	}
	g.failures = nil
	sum := Summary{StartedAt: g.now()}

	ctx, span := g.tracer.Start(ctx, "demo.Run")
	defer span.End()

	g.stage(ctx, StageTaxonomy, func(ctx context.Context) {
		sum.Categories, sum.ServiceAreas = g.SeedTaxonomy(ctx, seeds)
	})

	var performers []string
	g.stage(ctx, StagePerformers, func(ctx context.Context) {
		performers, sum.AvailabilitySlots = g.CreatePerformers(ctx, seeds)
		sum.Performers = len(performers)
	})

	g.stage(ctx, StageMicrosites, func(ctx context.Context) {
		sum.Microsites = g.CreateMicrosites(ctx, performers)
	})

	var customers []string
	g.stage(ctx, StageCustomers, func(ctx context.Context) {
		customers = g.CreateCustomers(ctx, seeds.Customers)
		sum.Customers = len(customers)
	})

	g.stage(ctx, StageBookings, func(ctx context.Context) {
		res := g.CreateBookings(ctx, performers, customers)
		sum.Bookings, sum.Reviews, sum.Transactions = res.Bookings, res.Reviews, res.Transactions
	})

	g.stage(ctx, StageMarket, func(ctx context.Context) {
		res := g.CreateMarket(ctx, seeds.Events, performers, customers)
		sum.MarketEvents, sum.Bids = res.Events, res.Bids
	})

	if g.opts.ReportFailures {
		sum.Failures = g.failures
	}
	sum.Duration = g.now().Sub(sum.StartedAt)

	span.SetAttributes(
		attribute.Int("demo.performers", sum.Performers),
		attribute.Int("demo.bookings", sum.Bookings),
		tracing.SkippedKey.Int(len(g.failures)),
	)
	g.log.Info("demo data generated",
		"performers", sum.Performers,
		"customers", sum.Customers,
		"microsites", sum.Microsites,
		"bookings", sum.Bookings,
		"reviews", sum.Reviews,
		"transactions", sum.Transactions,
		"market_events", sum.MarketEvents,
		"bids", sum.Bids,
		"skipped", len(g.failures),
	)
	return sum, nil
}

func (g *Generator) stage(ctx context.Context, name string, fn func(context.Context)) {
	ctx, span := tracing.StartStage(ctx, g.tracer, name)
	before := len(g.failures)
	fn(ctx)
	tracing.EndStage(span, len(g.failures)-before)
}

// skip logs a skipped unit and remembers it for the summary.
func (g *Generator) skip(stage, unit string, err error) {
	g.log.Warn("demo unit skipped", "stage", stage, "unit", unit, "error", err)
	g.failures = append(g.failures, UnitFailure{Stage: stage, Unit: unit, Reason: err.Error()})
}

func (g *Generator) password() string {
	if g.opts.UserPassword != "" {
		return g.opts.UserPassword
	}
	return uuid.NewString()
}

// Teardown removes every record tagged as demo data.
func Teardown(ctx context.Context, p store.Purger) (store.PurgeReport, error) {
	report, err := p.PurgeDemo(ctx)
	if err != nil {
		return nil, fmt.Errorf("purge demo data: %w", err)
	}
	var total int64
	for _, n := range report {
		total += n
	}
	slog.Default().Info("demo data removed", "rows", total)
	return report, nil
}
