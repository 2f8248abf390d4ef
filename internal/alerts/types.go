package alerts

import "time"

// Task type constants
const (
	TaskDemoGenerated  = "alert:demo_generated"
	TaskDemoPurged     = "alert:demo_purged"
	TaskReviewResolved = "alert:review_resolved"
)

// Notification types written for admins
const (
	NotifyDemoGenerated  = "demo_generated"
	NotifyDemoPurged     = "demo_purged"
	NotifyReviewResolved = "review_resolved"
)

// Trigger says what started a demo run.
const (
	TriggerAPI      = "api"
	TriggerSchedule = "schedule"
	TriggerCLI      = "cli"
)

// DemoGeneratedPayload is sent after a generation run.
type DemoGeneratedPayload struct {
	TriggeredBy  string    `json:"triggered_by,omitempty"`
	Trigger      string    `json:"trigger"`
	Performers   int       `json:"performers"`
	Customers    int       `json:"customers"`
	Bookings     int       `json:"bookings"`
	Reviews      int       `json:"reviews"`
	Transactions int       `json:"transactions"`
	MarketEvents int       `json:"market_events"`
	Bids         int       `json:"bids"`
	Skipped      int       `json:"skipped"`
	SentAt       time.Time `json:"sent_at"`
}

// DemoPurgedPayload is sent after demo data was removed.
type DemoPurgedPayload struct {
	TriggeredBy string           `json:"triggered_by,omitempty"`
	Trigger     string           `json:"trigger"`
	Tables      map[string]int64 `json:"tables"`
	SentAt      time.Time        `json:"sent_at"`
}

// ReviewResolvedPayload is sent when an admin settles a flagged review.
type ReviewResolvedPayload struct {
	ReviewID string    `json:"review_id"`
	AdminID  string    `json:"admin_id"`
	Status   string    `json:"status"` // upheld|removed
	SentAt   time.Time `json:"sent_at"`
}
