package demo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/stagebook/internal/marketplace"
	"github.com/sudo-init-do/stagebook/internal/store"
)

func TestCreateMicrosites(t *testing.T) {
	g, mem := newTestGenerator(t)
	ctx := context.Background()
	ids, _ := g.CreatePerformers(ctx, DefaultSeeds())

	created := g.CreateMicrosites(ctx, ids)
	assert.Equal(t, len(ids), created)

	slugs := map[string]bool{}
	for _, m := range mem.Microsites() {
		assert.False(t, slugs[m.Slug], "duplicate slug %s", m.Slug)
		slugs[m.Slug] = true
		assert.GreaterOrEqual(t, m.ViewCount, 50)
		assert.LessOrEqual(t, m.ViewCount, 500)
		assert.Contains(t, micrositeTemplates, m.Template)
		assert.Contains(t, micrositeColors, m.AccentColor)
		assert.Equal(t, m.AccentColor, m.Design["accent_color"])
	}
	assert.True(t, slugs["dj-nova"])
	assert.True(t, slugs["the-velvet-echoes"])
}

func TestCreateMicrosites_AtMostOnePerPerformer(t *testing.T) {
	g, mem := newTestGenerator(t)
	ctx := context.Background()
	ids, _ := g.CreatePerformers(ctx, DefaultSeeds())

	g.CreateMicrosites(ctx, ids)
	again := g.CreateMicrosites(ctx, ids)
	assert.Zero(t, again)
	assert.Len(t, mem.Microsites(), len(ids))
	assert.Empty(t, g.failures)
}

func TestCreateMicrosites_SlugCollisions(t *testing.T) {
	g, mem := newTestGenerator(t)
	ctx := context.Background()
	for i, s := range []string{"dj-nova", "dj-nova-1"} {
		require.NoError(t, mem.InsertMicrosite(ctx, &marketplace.Microsite{
			PerformerID: "someone-else-" + string(rune('a'+i)),
			Slug:        s,
		}))
	}
	seeds := DefaultSeeds()
	seeds.Performers = seeds.Performers[:1]
	ids, _ := g.CreatePerformers(ctx, seeds)

	require.Equal(t, 1, g.CreateMicrosites(ctx, ids))
	sites := mem.Microsites()
	assert.Equal(t, "dj-nova-2", sites[len(sites)-1].Slug)
}

func TestCreateMicrosites_SkipsUnknownPerformer(t *testing.T) {
	g, mem := newTestGenerator(t)
	created := g.CreateMicrosites(context.Background(), []string{"no-such-user"})
	assert.Zero(t, created)
	assert.Empty(t, mem.Microsites())
	require.Len(t, g.failures, 1)
	assert.Equal(t, StageMicrosites, g.failures[0].Stage)
}

func TestDisplayName_Fallbacks(t *testing.T) {
	g, _ := newTestGenerator(t)
	ctx := context.Background()

	name := g.displayName(ctx, marketplace.Performer{UserID: "0123456789abcdef"})
	assert.Equal(t, "performer-01234567", name)
}

func TestCreatePerformers_SameNameGetsSuffixedLoginAndSlug(t *testing.T) {
	g, mem := newTestGenerator(t)
	ctx := context.Background()
	seeds := DefaultSeeds()
	first := seeds.Performers[0]
	second := first
	second.Email = "nova.two@demo.stagebook.test"
	seeds.Performers = []PerformerSeed{first, second}

	ids, _ := g.CreatePerformers(ctx, seeds)
	require.Len(t, ids, 2)
	assert.Empty(t, g.failures)

	u0, err := mem.GetUser(ctx, ids[0])
	require.NoError(t, err)
	u1, err := mem.GetUser(ctx, ids[1])
	require.NoError(t, err)
	assert.Equal(t, "dj-nova", u0.Login)
	assert.Equal(t, "dj-nova-1", u1.Login)

	require.Equal(t, 2, g.CreateMicrosites(ctx, ids))
	sites := mem.Microsites()
	require.Len(t, sites, 2)
	assert.Equal(t, "dj-nova", sites[0].Slug)
	assert.Equal(t, "dj-nova-1", sites[1].Slug)
}

func TestCreateCustomers_SameNameGetsSuffixedLogin(t *testing.T) {
	g, mem := newTestGenerator(t)
	ctx := context.Background()
	c := DefaultSeeds().Customers[0]
	twin := c
	twin.Email = "twin@demo.stagebook.test"

	ids := g.CreateCustomers(ctx, []CustomerSeed{c, twin})
	require.Len(t, ids, 2)
	u1, err := mem.GetUser(ctx, ids[1])
	require.NoError(t, err)
	assert.Contains(t, u1.Login, "-1")
}

func TestCreatePerformers_TakenEmailIsNotRetried(t *testing.T) {
	g, mem := newTestGenerator(t)
	ctx := context.Background()
	seeds := DefaultSeeds()
	seeds.Performers = seeds.Performers[:1]
	_, err := mem.CreateUser(ctx, store.NewUser{Login: "someone", Email: seeds.Performers[0].Email})
	require.NoError(t, err)

	ids, _ := g.CreatePerformers(ctx, seeds)
	assert.Empty(t, ids)
	assert.Len(t, mem.Users(), 1)
	require.Len(t, g.failures, 1)
}
