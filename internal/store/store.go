// Package store defines the persistence collaborators used by the demo
// generator. pgstore backs them with Postgres and memstore keeps everything in
// memory for tests and dry runs.
package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sudo-init-do/stagebook/internal/marketplace"
)

var (
	ErrNotFound  = errors.New("store: not found")
	ErrDuplicate = errors.New("store: duplicate")
	// ErrLoginTaken is the ErrDuplicate reported when the login collides but
	// the email is free.
	ErrLoginTaken = fmt.Errorf("%w: login taken", ErrDuplicate)
)

// Taxonomy names.
const (
	TaxonomyCategory    = "performer_category"
	TaxonomyServiceArea = "service_area"
)

// Content item types.
const (
	ContentPerformer   = "performer"
	ContentMarketEvent = "market_event"
)

// MetaTotalBids is the market event meta key mirroring the bid counter.
const MetaTotalBids = "total_bids"

// User roles.
const (
	RolePerformer = "performer"
	RoleCustomer  = "customer"
	RoleAdmin     = "admin"
)

type User struct {
	ID          string    `json:"id"`
	Login       string    `json:"login"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Role        string    `json:"role"`
	Demo        bool      `json:"is_demo"`
	CreatedAt   time.Time `json:"created_at"`
}

type NewUser struct {
	Login    string
	Password string
	Email    string
	Demo     bool
}

// UserProfile carries the mutable fields of a user. Empty strings are left
// unchanged.
type UserProfile struct {
	DisplayName string
	FirstName   string
	LastName    string
	Role        string
}

type ContentItem struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Status    string    `json:"status"`
	AuthorID  string    `json:"author_id"`
	Demo      bool      `json:"is_demo"`
	CreatedAt time.Time `json:"created_at"`
}

// ContentPatch updates selected fields of a content item.
type ContentPatch struct {
	Title  *string
	Body   *string
	Status *string
}

type Term struct {
	ID          string `json:"id"`
	Taxonomy    string `json:"taxonomy"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Demo        bool   `json:"is_demo"`
}

type TermOptions struct {
	Slug        string
	Description string
	Demo        bool
}

// Identities manages user accounts.
type Identities interface {
	// CreateUser returns ErrDuplicate when the email is taken and
	// ErrLoginTaken when only the login is.
	CreateUser(ctx context.Context, u NewUser) (string, error)
	UpdateUser(ctx context.Context, id string, p UserProfile) error
	GetUser(ctx context.Context, id string) (User, error)
	DeleteUser(ctx context.Context, id string) error
}

// Content manages typed content items and their key/value metadata.
type Content interface {
	CreateItem(ctx context.Context, item ContentItem) (string, error)
	UpdateItem(ctx context.Context, id string, patch ContentPatch) error
	GetItem(ctx context.Context, id string) (ContentItem, error)
	GetMeta(ctx context.Context, id, key string) (string, error)
	SetMeta(ctx context.Context, id, key, value string) error
}

// Taxonomy manages vocabulary terms and their assignment to content items.
type Taxonomy interface {
	TermExists(ctx context.Context, name, taxonomy string) (bool, error)
	CreateTerm(ctx context.Context, name, taxonomy string, opts TermOptions) (Term, error)
	FindTermByName(ctx context.Context, name, taxonomy string) (Term, error)
	AssignTerms(ctx context.Context, itemID string, termIDs []string, taxonomy string) error
}

// Records persists the marketplace tables.
type Records interface {
	InsertPerformer(ctx context.Context, p *marketplace.Performer) error
	PerformerByUser(ctx context.Context, userID string) (marketplace.Performer, error)
	InsertAvailability(ctx context.Context, slots []marketplace.AvailabilitySlot) error
	InsertCustomer(ctx context.Context, c *marketplace.Customer) error

	HasMicrosite(ctx context.Context, performerID string) (bool, error)
	MicrositeSlugTaken(ctx context.Context, slug string) (bool, error)
	InsertMicrosite(ctx context.Context, m *marketplace.Microsite) error

	InsertBooking(ctx context.Context, b *marketplace.Booking) error
	InsertTransaction(ctx context.Context, t *marketplace.Transaction) error
	InsertReview(ctx context.Context, r *marketplace.Review) error

	// SaveMarketEvent writes the content item and the relational row of an
	// event together. Both IDs are assigned on success.
	SaveMarketEvent(ctx context.Context, ev *marketplace.MarketEvent) error
	// SetMarketEventBidCount updates total_bids in both representations.
	SetMarketEventBidCount(ctx context.Context, eventID string, n int) error
	InsertBid(ctx context.Context, b *marketplace.Bid) error
}

// PurgeReport counts rows removed per table.
type PurgeReport map[string]int64

// Purger removes every record tagged as demo data.
type Purger interface {
	PurgeDemo(ctx context.Context) (PurgeReport, error)
}

// Stores bundles the collaborators a generator run needs.
type Stores struct {
	Identities Identities
	Content    Content
	Taxonomy   Taxonomy
	Records    Records
}

// Backend is implemented by stores that provide every collaborator.
type Backend interface {
	Identities
	Content
	Taxonomy
	Records
	Purger
}

// FromBackend wires one backend into all collaborator slots.
func FromBackend(b Backend) Stores {
	return Stores{Identities: b, Content: b, Taxonomy: b, Records: b}
}

// MarketEventMeta renders the content-item metadata mirroring a market event
// row.
func MarketEventMeta(ev *marketplace.MarketEvent) map[string]string {
	return map[string]string{
		"event_date":     ev.EventDate.Format(time.DateOnly),
		"bid_deadline":   ev.BidDeadline.Format(time.DateOnly),
		"duration_hours": strconv.Itoa(ev.DurationHours),
		"budget_min":     ev.BudgetMin.StringFixed(2),
		"budget_max":     ev.BudgetMax.StringFixed(2),
		"status":         string(ev.Status),
		MetaTotalBids:    strconv.Itoa(ev.TotalBids),
	}
}
