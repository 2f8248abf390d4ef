// Package memstore is an in-memory implementation of every store collaborator.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sudo-init-do/stagebook/internal/marketplace"
	"github.com/sudo-init-do/stagebook/internal/store"
)

// Faults lets tests force individual collaborator calls to fail.
type Faults struct {
	CreateUser      func(u store.NewUser) error
	CreateItem      func(item store.ContentItem) error
	InsertPerformer func(p *marketplace.Performer) error
	CreateTerm      func(name, taxonomy string) error
}

type userRow struct {
	store.User
	password string
}

type termKey struct{ taxonomy, name string }

// Store is safe for concurrent use.
type Store struct {
	mu  sync.Mutex
	now func() time.Time

	Faults Faults

	users       map[string]*userRow
	items       map[string]*store.ContentItem
	meta        map[string]map[string]string
	terms       map[termKey]store.Term
	assignments map[string]map[string][]string

	performers   []marketplace.Performer
	availability []marketplace.AvailabilitySlot
	customers    []marketplace.Customer
	microsites   []marketplace.Microsite
	bookings     []marketplace.Booking
	transactions []marketplace.Transaction
	reviews      []marketplace.Review
	events       []marketplace.MarketEvent
	bids         []marketplace.Bid
}

func New() *Store {
	return &Store{
		now:         time.Now,
		users:       map[string]*userRow{},
		items:       map[string]*store.ContentItem{},
		meta:        map[string]map[string]string{},
		terms:       map[termKey]store.Term{},
		assignments: map[string]map[string][]string{},
	}
}

var _ store.Backend = (*Store)(nil)

// ===== Identities =====

func (s *Store) CreateUser(_ context.Context, u store.NewUser) (string, error) {
	if s.Faults.CreateUser != nil {
		if err := s.Faults.CreateUser(u); err != nil {
			return "", err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return "", fmt.Errorf("user %s: %w", u.Login, store.ErrDuplicate)
		}
	}
	for _, existing := range s.users {
		if strings.EqualFold(existing.Login, u.Login) {
			return "", fmt.Errorf("user %s: %w", u.Login, store.ErrLoginTaken)
		}
	}
	id := uuid.NewString()
	s.users[id] = &userRow{
		User: store.User{
			ID:          id,
			Login:       u.Login,
			Email:       u.Email,
			DisplayName: u.Login,
			Demo:        u.Demo,
			CreatedAt:   s.now(),
		},
		password: u.Password,
	}
	return id, nil
}

func (s *Store) UpdateUser(_ context.Context, id string, p store.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	if p.DisplayName != "" {
		u.DisplayName = p.DisplayName
	}
	if p.FirstName != "" {
		u.FirstName = p.FirstName
	}
	if p.LastName != "" {
		u.LastName = p.LastName
	}
	if p.Role != "" {
		u.Role = p.Role
	}
	return nil
}

func (s *Store) GetUser(_ context.Context, id string) (store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return store.User{}, store.ErrNotFound
	}
	return u.User, nil
}

func (s *Store) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.users, id)

	// Mirror the ON DELETE CASCADE on content_items.author_id.
	for itemID, it := range s.items {
		if it.AuthorID == id {
			delete(s.items, itemID)
			delete(s.meta, itemID)
			delete(s.assignments, itemID)
		}
	}
	s.performers = dropWhere(s.performers, func(p marketplace.Performer) bool { return p.UserID == id })
	s.customers = dropWhere(s.customers, func(c marketplace.Customer) bool { return c.UserID == id })
	return nil
}

func dropWhere[T any](rows []T, match func(T) bool) []T {
	out := rows[:0]
	for _, r := range rows {
		if !match(r) {
			out = append(out, r)
		}
	}
	return out
}

// ===== Content =====

func (s *Store) CreateItem(_ context.Context, item store.ContentItem) (string, error) {
	if s.Faults.CreateItem != nil {
		if err := s.Faults.CreateItem(item); err != nil {
			return "", err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createItemLocked(item), nil
}

func (s *Store) createItemLocked(item store.ContentItem) string {
	item.ID = uuid.NewString()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = s.now()
	}
	s.items[item.ID] = &item
	return item.ID
}

func (s *Store) UpdateItem(_ context.Context, id string, patch store.ContentPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[id]
	if !ok {
		return store.ErrNotFound
	}
	if patch.Title != nil {
		it.Title = *patch.Title
	}
	if patch.Body != nil {
		it.Body = *patch.Body
	}
	if patch.Status != nil {
		it.Status = *patch.Status
	}
	return nil
}

func (s *Store) GetItem(_ context.Context, id string) (store.ContentItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[id]
	if !ok {
		return store.ContentItem{}, store.ErrNotFound
	}
	return *it, nil
}

func (s *Store) GetMeta(_ context.Context, id, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.meta[id][key]
	if !ok {
		return "", store.ErrNotFound
	}
	return v, nil
}

func (s *Store) SetMeta(_ context.Context, id, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return store.ErrNotFound
	}
	s.setMetaLocked(id, key, value)
	return nil
}

func (s *Store) setMetaLocked(id, key, value string) {
	if s.meta[id] == nil {
		s.meta[id] = map[string]string{}
	}
	s.meta[id][key] = value
}

// ===== Taxonomy =====

func (s *Store) TermExists(_ context.Context, name, taxonomy string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.terms[termKey{taxonomy, name}]
	return ok, nil
}

func (s *Store) CreateTerm(_ context.Context, name, taxonomy string, opts store.TermOptions) (store.Term, error) {
	if s.Faults.CreateTerm != nil {
		if err := s.Faults.CreateTerm(name, taxonomy); err != nil {
			return store.Term{}, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := termKey{taxonomy, name}
	if _, ok := s.terms[key]; ok {
		return store.Term{}, fmt.Errorf("term %s/%s: %w", taxonomy, name, store.ErrDuplicate)
	}
	t := store.Term{
		ID:          uuid.NewString(),
		Taxonomy:    taxonomy,
		Name:        name,
		Slug:        opts.Slug,
		Description: opts.Description,
		Demo:        opts.Demo,
	}
	s.terms[key] = t
	return t, nil
}

func (s *Store) FindTermByName(_ context.Context, name, taxonomy string) (store.Term, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.terms[termKey{taxonomy, name}]
	if !ok {
		return store.Term{}, store.ErrNotFound
	}
	return t, nil
}

func (s *Store) AssignTerms(_ context.Context, itemID string, termIDs []string, taxonomy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[itemID]; !ok {
		return store.ErrNotFound
	}
	if s.assignments[itemID] == nil {
		s.assignments[itemID] = map[string][]string{}
	}
	s.assignments[itemID][taxonomy] = append([]string(nil), termIDs...)
	return nil
}

// ===== Records =====

func (s *Store) InsertPerformer(_ context.Context, p *marketplace.Performer) error {
	if s.Faults.InsertPerformer != nil {
		if err := s.Faults.InsertPerformer(p); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.performers {
		if existing.UserID == p.UserID {
			return fmt.Errorf("performer for user %s: %w", p.UserID, store.ErrDuplicate)
		}
	}
	p.ID = uuid.NewString()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	s.performers = append(s.performers, *p)
	return nil
}

func (s *Store) PerformerByUser(_ context.Context, userID string) (marketplace.Performer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.performers {
		if p.UserID == userID {
			return p, nil
		}
	}
	return marketplace.Performer{}, store.ErrNotFound
}

func (s *Store) InsertAvailability(_ context.Context, slots []marketplace.AvailabilitySlot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := map[string]bool{}
	for _, sl := range s.availability {
		seen[sl.PerformerID+sl.Date.Format(time.DateOnly)] = true
	}
	for _, sl := range slots {
		k := sl.PerformerID + sl.Date.Format(time.DateOnly)
		if seen[k] {
			return fmt.Errorf("availability %s: %w", k, store.ErrDuplicate)
		}
		seen[k] = true
	}
	s.availability = append(s.availability, slots...)
	return nil
}

func (s *Store) InsertCustomer(_ context.Context, c *marketplace.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = uuid.NewString()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	s.customers = append(s.customers, *c)
	return nil
}

func (s *Store) HasMicrosite(_ context.Context, performerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.microsites {
		if m.PerformerID == performerID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) MicrositeSlugTaken(_ context.Context, slug string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.microsites {
		if m.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) InsertMicrosite(_ context.Context, m *marketplace.Microsite) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.microsites {
		if existing.Slug == m.Slug || existing.PerformerID == m.PerformerID {
			return fmt.Errorf("microsite %s: %w", m.Slug, store.ErrDuplicate)
		}
	}
	m.ID = uuid.NewString()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = s.now()
	}
	s.microsites = append(s.microsites, *m)
	return nil
}

func (s *Store) InsertBooking(_ context.Context, b *marketplace.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b.ID = uuid.NewString()
	s.bookings = append(s.bookings, *b)
	return nil
}

func (s *Store) InsertTransaction(_ context.Context, t *marketplace.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = uuid.NewString()
	s.transactions = append(s.transactions, *t)
	return nil
}

func (s *Store) InsertReview(_ context.Context, r *marketplace.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = uuid.NewString()
	s.reviews = append(s.reviews, *r)
	return nil
}

func (s *Store) SaveMarketEvent(_ context.Context, ev *marketplace.MarketEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev.ContentID = s.createItemLocked(store.ContentItem{
		Type:      store.ContentMarketEvent,
		Title:     ev.Name,
		Body:      ev.Description,
		Status:    "publish",
		AuthorID:  ev.CustomerID,
		Demo:      ev.Demo,
		CreatedAt: ev.CreatedAt,
	})
	for k, v := range store.MarketEventMeta(ev) {
		s.setMetaLocked(ev.ContentID, k, v)
	}
	ev.ID = uuid.NewString()
	s.events = append(s.events, *ev)
	return nil
}

func (s *Store) SetMarketEventBidCount(_ context.Context, eventID string, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.events {
		if s.events[i].ID == eventID {
			s.events[i].TotalBids = n
			s.setMetaLocked(s.events[i].ContentID, store.MetaTotalBids, strconv.Itoa(n))
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) InsertBid(_ context.Context, b *marketplace.Bid) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b.ID = uuid.NewString()
	s.bids = append(s.bids, *b)
	return nil
}

// ===== Purger =====

func (s *Store) PurgeDemo(_ context.Context) (store.PurgeReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := store.PurgeReport{}
	report["market_bids"] = int64(purge(&s.bids, func(b marketplace.Bid) bool { return b.Demo }))
	report["market_events"] = int64(purge(&s.events, func(e marketplace.MarketEvent) bool { return e.Demo }))
	report["reviews"] = int64(purge(&s.reviews, func(r marketplace.Review) bool { return r.Demo }))
	report["transactions"] = int64(purge(&s.transactions, func(t marketplace.Transaction) bool { return t.Demo }))
	report["bookings"] = int64(purge(&s.bookings, func(b marketplace.Booking) bool { return b.Demo }))
	report["microsites"] = int64(purge(&s.microsites, func(m marketplace.Microsite) bool { return m.Demo }))
	report["customers"] = int64(purge(&s.customers, func(c marketplace.Customer) bool { return c.Demo }))
	report["performer_availability"] = int64(purge(&s.availability, func(a marketplace.AvailabilitySlot) bool { return a.Demo }))
	report["performers"] = int64(purge(&s.performers, func(p marketplace.Performer) bool { return p.Demo }))

	var n int64
	for id, it := range s.items {
		if it.Demo {
			delete(s.items, id)
			delete(s.meta, id)
			delete(s.assignments, id)
			n++
		}
	}
	report["content_items"] = n

	n = 0
	for k, t := range s.terms {
		if t.Demo {
			delete(s.terms, k)
			n++
		}
	}
	report["terms"] = n

	n = 0
	for id, u := range s.users {
		if u.Demo {
			delete(s.users, id)
			n++
		}
	}
	report["users"] = n
	return report, nil
}

func purge[T any](rows *[]T, isDemo func(T) bool) int {
	kept := (*rows)[:0]
	removed := 0
	for _, r := range *rows {
		if isDemo(r) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	*rows = kept
	return removed
}

// ===== Snapshots =====

func (s *Store) Users() []store.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]store.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u.User)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Login < out[j].Login })
	return out
}

func (s *Store) Items(itemType string) []store.ContentItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []store.ContentItem
	for _, it := range s.items {
		if itemType == "" || it.Type == itemType {
			out = append(out, *it)
		}
	}
	return out
}

func (s *Store) Terms(taxonomy string) []store.Term {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []store.Term
	for k, t := range s.terms {
		if k.taxonomy == taxonomy {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// AssignedTerms returns the term IDs assigned to an item in a taxonomy.
func (s *Store) AssignedTerms(itemID, taxonomy string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.assignments[itemID][taxonomy]...)
}

func (s *Store) Performers() []marketplace.Performer { return snapshot(s, &s.performers) }
func (s *Store) Availability() []marketplace.AvailabilitySlot {
	return snapshot(s, &s.availability)
}
func (s *Store) Customers() []marketplace.Customer       { return snapshot(s, &s.customers) }
func (s *Store) Microsites() []marketplace.Microsite     { return snapshot(s, &s.microsites) }
func (s *Store) Bookings() []marketplace.Booking         { return snapshot(s, &s.bookings) }
func (s *Store) Transactions() []marketplace.Transaction { return snapshot(s, &s.transactions) }
func (s *Store) Reviews() []marketplace.Review           { return snapshot(s, &s.reviews) }
func (s *Store) MarketEvents() []marketplace.MarketEvent { return snapshot(s, &s.events) }
func (s *Store) Bids() []marketplace.Bid                 { return snapshot(s, &s.bids) }

func snapshot[T any](s *Store, rows *[]T) []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T(nil), (*rows)...)
}
