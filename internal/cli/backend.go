package cli

import (
	"context"
	"fmt"

	"github.com/sudo-init-do/stagebook/internal/config"
	"github.com/sudo-init-do/stagebook/internal/db"
	"github.com/sudo-init-do/stagebook/internal/store"
	"github.com/sudo-init-do/stagebook/internal/store/memstore"
	"github.com/sudo-init-do/stagebook/internal/store/pgstore"
)

// openBackend returns the in-memory store for dry runs and Postgres
// otherwise. The returned func releases the connection.
func openBackend(ctx context.Context, cfg *config.Config, dryRun bool) (store.Backend, func(), error) {
	if dryRun {
		return memstore.New(), func() {}, nil
	}
	pool, err := db.Connect(ctx, cfg.DB.DSN())
	if err != nil {
		return nil, nil, err
	}
	if err := db.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("schema setup failed: %w", err)
	}
	return pgstore.New(pool), pool.Close, nil
}
