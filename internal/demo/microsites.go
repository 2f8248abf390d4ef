package demo

import (
	"context"
	"errors"
	"fmt"

	"github.com/gosimple/slug"

	"github.com/sudo-init-do/stagebook/internal/marketplace"
)

var (
	micrositeTemplates = []string{"classic", "modern", "bold", "minimal", "elegant"}
	micrositeColors    = []string{"#6366f1", "#ec4899", "#f59e0b", "#10b981", "#0ea5e9", "#ef4444", "#8b5cf6"}
	micrositeFonts     = []string{"Inter", "Playfair Display", "Montserrat", "Lora"}
)

// CreateMicrosites gives every performer without one a microsite with a
// unique slug. Returns how many were created.
func (g *Generator) CreateMicrosites(ctx context.Context, performerUserIDs []string) int {
	created := 0
	for _, userID := range performerUserIDs {
		if err := g.createMicrosite(ctx, userID); err != nil {
			if errors.Is(err, errMicrositeExists) {
				continue
			}
			g.skip(StageMicrosites, userID, err)
			continue
		}
		created++
	}
	return created
}

var errMicrositeExists = errors.New("performer already has a microsite")

func (g *Generator) createMicrosite(ctx context.Context, userID string) error {
	p, err := g.stores.Records.PerformerByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("performer lookup: %w", err)
	}
	has, err := g.stores.Records.HasMicrosite(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("microsite lookup: %w", err)
	}
	if has {
		return errMicrositeExists
	}

	s, err := g.uniqueSlug(ctx, g.displayName(ctx, p))
	if err != nil {
		return err
	}
	accent := Pick(g.rng, micrositeColors)
	m := &marketplace.Microsite{
		PerformerID: p.ID,
		UserID:      userID,
		Slug:        s,
		Template:    Pick(g.rng, micrositeTemplates),
		AccentColor: accent,
		Design: map[string]string{
			"accent_color":  accent,
			"heading_font":  Pick(g.rng, micrositeFonts),
			"show_calendar": "true",
			"show_reviews":  "true",
		},
		ViewCount: Between(g.rng, 50, 500),
		Status:    "published",
		Demo:      true,
		CreatedAt: g.now(),
	}
	if err := g.stores.Records.InsertMicrosite(ctx, m); err != nil {
		return fmt.Errorf("insert microsite: %w", err)
	}
	return nil
}

// displayName resolves the name shown on a microsite: the stage name, then the
// profile title, then the account name, then a synthetic fallback.
func (g *Generator) displayName(ctx context.Context, p marketplace.Performer) string {
	if p.ContentID != "" {
		if v, err := g.stores.Content.GetMeta(ctx, p.ContentID, MetaStageName); err == nil && v != "" {
			return v
		}
		if it, err := g.stores.Content.GetItem(ctx, p.ContentID); err == nil && it.Title != "" {
			return it.Title
		}
	}
	if u, err := g.stores.Identities.GetUser(ctx, p.UserID); err == nil && u.DisplayName != "" {
		return u.DisplayName
	}
	short := p.UserID
	if len(short) > 8 {
		short = short[:8]
	}
	return "performer-" + short
}

// uniqueSlug slugifies name and appends -1, -2, ... until the slug is free.
func (g *Generator) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "performer"
	}
	candidate := base
	for i := 1; ; i++ {
		taken, err := g.stores.Records.MicrositeSlugTaken(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("slug lookup: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
