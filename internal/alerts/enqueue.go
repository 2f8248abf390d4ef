package alerts

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/sudo-init-do/stagebook/internal/demo"
	"github.com/sudo-init-do/stagebook/internal/store"
)

// ensureClient returns a usable client instance
func ensureClient() *asynq.Client {
	if client == nil {
		InitClient(redisAddrFromEnv())
	}
	return client
}

func newTask(taskType string, payload any) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", taskType, err)
	}
	return asynq.NewTask(taskType, b, asynq.Queue("alerts"), asynq.MaxRetry(3)), nil
}

func enqueue(taskType string, payload any) error {
	task, err := newTask(taskType, payload)
	if err != nil {
		return err
	}
	_, err = ensureClient().Enqueue(task)
	return err
}

// EnqueueDemoGenerated tells admins a generation run finished.
func EnqueueDemoGenerated(p DemoGeneratedPayload) error {
	if p.SentAt.IsZero() {
		p.SentAt = time.Now()
	}
	return enqueue(TaskDemoGenerated, p)
}

// EnqueueDemoPurged tells admins demo data was removed.
func EnqueueDemoPurged(p DemoPurgedPayload) error {
	if p.SentAt.IsZero() {
		p.SentAt = time.Now()
	}
	return enqueue(TaskDemoPurged, p)
}

// EnqueueReviewResolved records an arbitration decision for the admin feed.
func EnqueueReviewResolved(reviewID, adminID, status string) error {
	return enqueue(TaskReviewResolved, ReviewResolvedPayload{
		ReviewID: reviewID,
		AdminID:  adminID,
		Status:   status,
		SentAt:   time.Now(),
	})
}

// NewDemoGenerated builds the alert payload for a finished run.
func NewDemoGenerated(sum demo.Summary, trigger, by string) DemoGeneratedPayload {
	return DemoGeneratedPayload{
		TriggeredBy:  by,
		Trigger:      trigger,
		Performers:   sum.Performers,
		Customers:    sum.Customers,
		Bookings:     sum.Bookings,
		Reviews:      sum.Reviews,
		Transactions: sum.Transactions,
		MarketEvents: sum.MarketEvents,
		Bids:         sum.Bids,
		Skipped:      len(sum.Failures),
	}
}

// NewDemoPurged builds the alert payload for a teardown.
func NewDemoPurged(report store.PurgeReport, trigger, by string) DemoPurgedPayload {
	return DemoPurgedPayload{TriggeredBy: by, Trigger: trigger, Tables: report}
}
