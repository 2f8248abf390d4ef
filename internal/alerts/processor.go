package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/hibiken/asynq"

	"github.com/sudo-init-do/stagebook/internal/db"
)

var (
	client *asynq.Client
	server *asynq.Server
)

func redisAddrFromEnv() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	if os.Getenv("RUN_LOCAL") == "true" {
		return "127.0.0.1:6379"
	}
	return "redis:6379"
}

// InitClient sets up the shared client only, for processes that enqueue
// alerts but leave delivery to the server.
func InitClient(redisAddr string) {
	if redisAddr == "" {
		redisAddr = redisAddrFromEnv()
	}
	client = asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
}

// Init starts the Asynq server and initializes a shared client. The handlers
// write through db.Conn, so db.Init must run first.
func Init(redisAddr string) {
	if redisAddr == "" {
		redisAddr = redisAddrFromEnv()
	}
	opts := asynq.RedisClientOpt{Addr: redisAddr}
	client = asynq.NewClient(opts)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskDemoGenerated, handleDemoGenerated)
	mux.HandleFunc(TaskDemoPurged, handleDemoPurged)
	mux.HandleFunc(TaskReviewResolved, handleReviewResolved)

	server = asynq.NewServer(opts, asynq.Config{
		Concurrency: 2,
		Queues: map[string]int{
			"alerts": 1,
		},
	})
	go func() {
		if err := server.Run(mux); err != nil {
			log.Printf("Asynq server stopped: %v", err)
		}
	}()

	log.Printf("Asynq initialized (addr=%s)", redisAddr)
}

// Close releases client and stops server.
func Close() {
	if client != nil {
		_ = client.Close()
	}
	if server != nil {
		server.Shutdown()
	}
}

// Message renders the admin notification for a generation run.
func (p DemoGeneratedPayload) Message() (title, body string) {
	title = "Demo data generated"
	body = fmt.Sprintf("%d performers, %d customers, %d bookings (%d reviews, %d transactions), %d market events with %d bids.",
		p.Performers, p.Customers, p.Bookings, p.Reviews, p.Transactions, p.MarketEvents, p.Bids)
	if p.Skipped > 0 {
		body += fmt.Sprintf(" %d units skipped.", p.Skipped)
	}
	return title, body + " Trigger: " + p.Trigger + "."
}

// Message renders the admin notification for a teardown.
func (p DemoPurgedPayload) Message() (title, body string) {
	var total int64
	tables := make([]string, 0, len(p.Tables))
	for t, n := range p.Tables {
		total += n
		if n > 0 {
			tables = append(tables, fmt.Sprintf("%s=%d", t, n))
		}
	}
	sort.Strings(tables)
	body = fmt.Sprintf("Removed %d demo rows.", total)
	if len(tables) > 0 {
		body += " " + strings.Join(tables, ", ") + "."
	}
	return "Demo data removed", body + " Trigger: " + p.Trigger + "."
}

// Message renders the admin notification for an arbitration decision.
func (p ReviewResolvedPayload) Message() (title, body string) {
	return "Review arbitration resolved", fmt.Sprintf("Review %s was marked %s.", p.ReviewID, p.Status)
}

// Handlers below decode payloads and fan them out as admin notifications.

func handleDemoGenerated(ctx context.Context, t *asynq.Task) error {
	var p DemoGeneratedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	title, body := p.Message()
	if err := notifyAdmins(ctx, NotifyDemoGenerated, title, body, nil, t.Payload()); err != nil {
		log.Printf("[notify][ERROR] DemoGenerated failed: %v", err)
		return err
	}
	log.Printf("[notify] DemoGenerated -> trigger=%s bookings=%d", p.Trigger, p.Bookings)
	return nil
}

func handleDemoPurged(ctx context.Context, t *asynq.Task) error {
	var p DemoPurgedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	title, body := p.Message()
	if err := notifyAdmins(ctx, NotifyDemoPurged, title, body, nil, t.Payload()); err != nil {
		log.Printf("[notify][ERROR] DemoPurged failed: %v", err)
		return err
	}
	log.Printf("[notify] DemoPurged -> trigger=%s", p.Trigger)
	return nil
}

func handleReviewResolved(ctx context.Context, t *asynq.Task) error {
	var p ReviewResolvedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	title, body := p.Message()
	ref := p.ReviewID
	if err := notifyAdmins(ctx, NotifyReviewResolved, title, body, &ref, t.Payload()); err != nil {
		log.Printf("[notify][ERROR] ReviewResolved failed: %v", err)
		return err
	}
	log.Printf("[notify] ReviewResolved -> review=%s status=%s by=%s", p.ReviewID, p.Status, p.AdminID)
	return nil
}

// notifyAdmins writes one notification row per active admin.
func notifyAdmins(ctx context.Context, ntype, title, body string, reference *string, metadata []byte) error {
	meta := string(metadata)
	_, err := db.Conn.Exec(ctx,
		`INSERT INTO notifications (user_id, type, title, body, reference, metadata)
         SELECT id, $1, $2, $3, $4, $5::jsonb FROM users WHERE role = 'admin' AND is_active`,
		ntype, title, body, reference, meta,
	)
	return err
}
