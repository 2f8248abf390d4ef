package demo

import (
	"context"

	"github.com/gosimple/slug"

	"github.com/sudo-init-do/stagebook/internal/store"
)

// SeedTaxonomy makes sure every category and service area exists exactly once.
// Existing terms are left alone. Returns how many terms were created.
func (g *Generator) SeedTaxonomy(ctx context.Context, seeds Seeds) (categories, areas int) {
	for _, c := range seeds.Categories {
		if g.ensureTerm(ctx, c.Name, store.TaxonomyCategory, c.Description) {
			categories++
		}
	}
	for _, a := range seeds.ServiceAreas {
		if g.ensureTerm(ctx, a, store.TaxonomyServiceArea, "") {
			areas++
		}
	}
	return categories, areas
}

func (g *Generator) ensureTerm(ctx context.Context, name, taxonomy, description string) bool {
	exists, err := g.stores.Taxonomy.TermExists(ctx, name, taxonomy)
	if err != nil {
		g.skip(StageTaxonomy, name, err)
		return false
	}
	if exists {
		return false
	}
	_, err = g.stores.Taxonomy.CreateTerm(ctx, name, taxonomy, store.TermOptions{
		Slug:        slug.Make(name),
		Description: description,
		Demo:        true,
	})
	if err != nil {
		g.skip(StageTaxonomy, name, err)
		return false
	}
	return true
}
