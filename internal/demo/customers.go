package demo

import (
	"context"
	"fmt"
	"strings"

	"github.com/sudo-init-do/stagebook/internal/marketplace"
	"github.com/sudo-init-do/stagebook/internal/store"
)

// CreateCustomers creates an account and customer record per seed and returns
// the user IDs created.
func (g *Generator) CreateCustomers(ctx context.Context, seeds []CustomerSeed) []string {
	var ids []string
	for _, seed := range seeds {
		id, err := g.createCustomer(ctx, seed)
		if err != nil {
			g.skip(StageCustomers, seed.Name, err)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func (g *Generator) createCustomer(ctx context.Context, seed CustomerSeed) (string, error) {
	userID, err := g.createAccount(ctx, seed.Name, seed.Email)
	if err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}

	first, last, _ := strings.Cut(seed.Name, " ")
	if err := g.stores.Identities.UpdateUser(ctx, userID, store.UserProfile{
		DisplayName: seed.Name,
		FirstName:   first,
		LastName:    last,
		Role:        store.RoleCustomer,
	}); err != nil {
		g.log.Warn("customer profile update failed", "user", userID, "error", err)
	}

	c := &marketplace.Customer{UserID: userID, Company: seed.Company, Demo: true, CreatedAt: g.now()}
	if err := g.stores.Records.InsertCustomer(ctx, c); err != nil {
		return "", g.rollbackUser(ctx, userID, fmt.Errorf("insert customer: %w", err))
	}
	return userID, nil
}
