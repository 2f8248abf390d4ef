package demo

import (
	"context"
	"errors"
	"sync"

	"github.com/sudo-init-do/stagebook/internal/store"
)

// ErrRunInProgress is returned when another generation or teardown holds the
// runner.
var ErrRunInProgress = errors.New("demo: run already in progress")

// Runner serializes generation and teardown against one backend. The HTTP
// handlers, the scheduler and the CLI all go through it.
type Runner struct {
	mu      sync.Mutex
	backend store.Backend
	seeds   Seeds
	opts    []Option
}

func NewRunner(backend store.Backend, seeds Seeds, opts ...Option) *Runner {
	return &Runner{backend: backend, seeds: seeds, opts: opts}
}

// Generate runs the full pipeline with a fresh Generator.
func (r *Runner) Generate(ctx context.Context) (Summary, error) {
	if !r.mu.TryLock() {
		return Summary{}, ErrRunInProgress
	}
	defer r.mu.Unlock()
	return New(store.FromBackend(r.backend), r.opts...).Run(ctx, r.seeds)
}

func (r *Runner) Teardown(ctx context.Context) (store.PurgeReport, error) {
	if !r.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer r.mu.Unlock()
	return Teardown(ctx, r.backend)
}

// Refresh removes the current demo data and generates a new set.
func (r *Runner) Refresh(ctx context.Context) (store.PurgeReport, Summary, error) {
	if !r.mu.TryLock() {
		return nil, Summary{}, ErrRunInProgress
	}
	defer r.mu.Unlock()

	report, err := Teardown(ctx, r.backend)
	if err != nil {
		return nil, Summary{}, err
	}
	sum, err := New(store.FromBackend(r.backend), r.opts...).Run(ctx, r.seeds)
	return report, sum, err
}
