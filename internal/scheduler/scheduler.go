// Package scheduler periodically replaces the demo data set.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/sudo-init-do/stagebook/internal/demo"
	"github.com/sudo-init-do/stagebook/internal/store"
)

type Refresher interface {
	Refresh(ctx context.Context) (store.PurgeReport, demo.Summary, error)
}

// RefreshHook runs after every successful refresh.
type RefreshHook func(report store.PurgeReport, sum demo.Summary)

type Scheduler struct {
	sched gocron.Scheduler
}

// Start schedules a demo refresh every interval. The first run happens one
// interval after start; overlapping runs are skipped.
func Start(interval time.Duration, r Refresher, hook RefreshHook) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("refresh interval must be positive, got %s", interval)
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { refresh(r, hook, interval) }),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName("demo-refresh"),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("schedule demo refresh: %w", err)
	}
	sched.Start()
	log.Printf("[Scheduler] demo refresh every %s", interval)
	return &Scheduler{sched: sched}, nil
}

func refresh(r Refresher, hook RefreshHook, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	report, sum, err := r.Refresh(ctx)
	if err != nil {
		log.Printf("[Scheduler] demo refresh failed: %v", err)
		return
	}
	log.Printf("[Scheduler] demo refreshed: %d performers, %d bookings", sum.Performers, sum.Bookings)
	if hook != nil {
		hook(report, sum)
	}
}

func (s *Scheduler) Stop() error {
	return s.sched.Shutdown()
}
