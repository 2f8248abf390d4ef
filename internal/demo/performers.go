package demo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"

	"github.com/sudo-init-do/stagebook/internal/marketplace"
	"github.com/sudo-init-do/stagebook/internal/store"
)

// Profile meta keys stored on performer content items.
const (
	MetaStageName  = "stage_name"
	MetaTagline    = "tagline"
	MetaExperience = "experience"
	MetaCity       = "city"
	MetaState      = "state"
)

// CreatePerformers creates an account, profile and performer record for each
// seed, followed by its availability calendar. It returns the user IDs of the
// performers created and the number of availability slots written.
func (g *Generator) CreatePerformers(ctx context.Context, seeds Seeds) ([]string, int) {
	var ids []string
	slots := 0
	for _, seed := range seeds.Performers {
		p, err := g.createPerformer(ctx, seeds, seed)
		if err != nil {
			g.skip(StagePerformers, seed.Name, err)
			continue
		}
		ids = append(ids, p.UserID)

		cal := Availability(p.ID, g.now(), g.rng)
		if err := g.stores.Records.InsertAvailability(ctx, cal); err != nil {
			g.skip(StagePerformers, seed.Name+" availability", err)
			continue
		}
		slots += len(cal)
	}
	return ids, slots
}

func (g *Generator) createPerformer(ctx context.Context, seeds Seeds, seed PerformerSeed) (*marketplace.Performer, error) {
	userID, err := g.createAccount(ctx, seed.Name, seed.Email)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	first, last, _ := strings.Cut(seed.Name, " ")
	if err := g.stores.Identities.UpdateUser(ctx, userID, store.UserProfile{
		DisplayName: seed.Name,
		FirstName:   first,
		LastName:    last,
		Role:        store.RolePerformer,
	}); err != nil {
		g.log.Warn("performer profile update failed", "user", userID, "error", err)
	}

	contentID, err := g.stores.Content.CreateItem(ctx, store.ContentItem{
		Type:      store.ContentPerformer,
		Title:     seed.Name,
		Body:      seed.Experience,
		Status:    "publish",
		AuthorID:  userID,
		Demo:      true,
		CreatedAt: g.now(),
	})
	if err != nil {
		return nil, g.rollbackUser(ctx, userID, fmt.Errorf("create profile: %w", err))
	}

	for k, v := range map[string]string{
		MetaStageName:  seed.Name,
		MetaTagline:    seed.Tagline,
		MetaExperience: seed.Experience,
		MetaCity:       seed.City,
		MetaState:      seed.State,
	} {
		if err := g.stores.Content.SetMeta(ctx, contentID, k, v); err != nil {
			g.log.Warn("performer meta not saved", "key", k, "error", err)
		}
	}

	g.assignTerm(ctx, contentID, seed.Category, store.TaxonomyCategory)
	g.assignTerm(ctx, contentID, seeds.ServiceAreaFor(seed.City), store.TaxonomyServiceArea)

	completeness := Between(g.rng, 85, 100)
	score := marketplace.AchievementScore(seed.CompletedBookings, seed.AvgRating, completeness)
	p := &marketplace.Performer{
		UserID:              userID,
		ContentID:           contentID,
		StageName:           seed.Name,
		Tier:                seed.Tier,
		HourlyRate:          decimal.NewFromFloat(seed.HourlyRate).Round(2),
		DepositPercentage:   Between(g.rng, 25, 50),
		AchievementLevel:    marketplace.LevelForScore(score),
		AchievementScore:    score,
		ProfileCompleteness: completeness,
		CompletedBookings:   seed.CompletedBookings,
		AverageRating:       seed.AvgRating,
		TotalReviews:        seed.TotalReviews,
		Verified:            seed.Verified,
		Featured:            seed.Featured,
		Status:              "active",
		City:                seed.City,
		State:               seed.State,
		Demo:                true,
		CreatedAt:           g.now(),
	}
	if err := g.stores.Records.InsertPerformer(ctx, p); err != nil {
		return nil, g.rollbackUser(ctx, userID, fmt.Errorf("insert performer: %w", err))
	}
	return p, nil
}

// assignTerm attaches a term by name. A missing term is not an error.
func (g *Generator) assignTerm(ctx context.Context, itemID, name, taxonomy string) {
	if name == "" {
		return
	}
	term, err := g.stores.Taxonomy.FindTermByName(ctx, name, taxonomy)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			g.log.Warn("term lookup failed", "term", name, "taxonomy", taxonomy, "error", err)
		}
		return
	}
	if err := g.stores.Taxonomy.AssignTerms(ctx, itemID, []string{term.ID}, taxonomy); err != nil {
		g.log.Warn("term assignment failed", "term", name, "taxonomy", taxonomy, "error", err)
	}
}

// maxLoginSuffix bounds the -1, -2, ... retries for a colliding login.
const maxLoginSuffix = 50

// createAccount creates a demo account whose login is the slug of name. When
// only the login is taken it retries with -1, -2, ... appended; a taken email
// is returned as is.
func (g *Generator) createAccount(ctx context.Context, name, email string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "user"
	}
	login := base
	for i := 1; ; i++ {
		id, err := g.stores.Identities.CreateUser(ctx, store.NewUser{
			Login:    login,
			Password: g.password(),
			Email:    email,
			Demo:     true,
		})
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, store.ErrLoginTaken) || i > maxLoginSuffix {
			return "", err
		}
		login = fmt.Sprintf("%s-%d", base, i)
	}
}

// rollbackUser deletes an account whose dependent records could not be
// created and returns cause.
func (g *Generator) rollbackUser(ctx context.Context, userID string, cause error) error {
	if err := g.stores.Identities.DeleteUser(ctx, userID); err != nil {
		return errors.Join(cause, fmt.Errorf("rollback user %s: %w", userID, err))
	}
	return cause
}
