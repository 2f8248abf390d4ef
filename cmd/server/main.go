package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/sudo-init-do/stagebook/internal/admin"
	"github.com/sudo-init-do/stagebook/internal/alerts"
	"github.com/sudo-init-do/stagebook/internal/auth"
	"github.com/sudo-init-do/stagebook/internal/config"
	"github.com/sudo-init-do/stagebook/internal/db"
	"github.com/sudo-init-do/stagebook/internal/demo"
	"github.com/sudo-init-do/stagebook/internal/marketplace"
	"github.com/sudo-init-do/stagebook/internal/microsite"
	mware "github.com/sudo-init-do/stagebook/internal/middleware"
	"github.com/sudo-init-do/stagebook/internal/scheduler"
	"github.com/sudo-init-do/stagebook/internal/store"
	"github.com/sudo-init-do/stagebook/internal/store/pgstore"
	"github.com/sudo-init-do/stagebook/internal/tracing"
	"github.com/sudo-init-do/stagebook/internal/utils"
)

func main() {
	cfg, err := config.Load(os.Getenv("STAGEBOOK_CONFIG"))
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	utils.SetJWTSecret(cfg.JWT.Secret)

	// Initialize database connection and schema
	db.Init(cfg.DB.DSN())
	defer db.Close()

	if cfg.Admin.Email != "" {
		if err := auth.EnsureAdmin(context.Background(), db.Conn, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			log.Fatalf("failed to ensure admin account: %v", err)
		}
	}

	traces, err := tracing.Setup(context.Background(), tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.Tracing.ServiceName,
		Environment: cfg.Tracing.Environment,
	})
	if err != nil {
		log.Fatalf("tracing error: %v", err)
	}

	alerts.Init(cfg.Redis.Addr)
	defer alerts.Close()

	seeds := demo.DefaultSeeds()
	if cfg.Demo.SeedsFile != "" {
		if seeds, err = demo.LoadSeeds(cfg.Demo.SeedsFile); err != nil {
			log.Fatalf("failed to load demo seeds: %v", err)
		}
	}
	runner := demo.NewRunner(pgstore.New(db.Conn), seeds,
		demo.WithLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil))),
		demo.WithTracer(traces.Tracer("demo")),
		demo.WithOptions(demo.Options{
			ReportFailures: cfg.Demo.ReportFailures,
			UserPassword:   cfg.Demo.UserPassword,
		}),
	)

	if cfg.Demo.RefreshInterval > 0 {
		sched, err := scheduler.Start(cfg.Demo.RefreshInterval, runner, func(report store.PurgeReport, sum demo.Summary) {
			if err := alerts.EnqueueDemoPurged(alerts.NewDemoPurged(report, alerts.TriggerSchedule, "")); err != nil {
				log.Printf("[Scheduler] purge alert not enqueued: %v", err)
			}
			if err := alerts.EnqueueDemoGenerated(alerts.NewDemoGenerated(sum, alerts.TriggerSchedule, "")); err != nil {
				log.Printf("[Scheduler] demo alert not enqueued: %v", err)
			}
		})
		if err != nil {
			log.Fatalf("scheduler error: %v", err)
		}
		defer func() { _ = sched.Stop() }()
	}

	e := echo.New()

	// Basic middleware
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(mware.Tracing(traces.Tracer("http")))

	// Health and root routes
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "service": "stagebook"})
	})
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/ready", func(c echo.Context) error {
		if db.Conn == nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready", "error": "db not initialized"})
		}
		if err := db.Conn.Ping(context.Background()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready", "error": "db unreachable"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
	})

	// Auth routes with per-IP rate limiting
	authGroup := e.Group("/auth")
	authGroup.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20)))
	authGroup.POST("/login", auth.Login)
	authGroup.POST("/bootstrap-admin", auth.BootstrapAdmin)

	e.GET("/auth/me", auth.Me, mware.JWTMiddleware)

	// Public routes
	e.GET("/microsites/:slug", microsite.GetMicrosite)
	e.GET("/performers/:id/reviews", marketplace.GetPerformerReviews)

	// Admin routes
	adm := e.Group("/admin")
	adm.Use(mware.JWTMiddleware)
	adm.Use(mware.AdminGuard)

	demoHandler := &admin.DemoHandler{
		Runner:      runner,
		OnGenerated: alerts.EnqueueDemoGenerated,
		OnPurged:    alerts.EnqueueDemoPurged,
	}
	adm.POST("/demo/generate", demoHandler.Generate)
	adm.DELETE("/demo", demoHandler.Teardown)

	adm.GET("/stats", admin.Stats)
	adm.GET("/users", admin.ListUsers)
	adm.POST("/users/:id/suspend", admin.SuspendUser)
	adm.POST("/users/:id/activate", admin.ActivateUser)
	adm.GET("/performers", admin.ListPerformers)
	adm.GET("/bookings", admin.ListBookings)
	adm.GET("/bookings/:id/transactions", admin.BookingTransactions)
	adm.GET("/arbitration", admin.ListArbitration)
	adm.POST("/arbitration/:id/resolve", admin.ResolveArbitration)
	adm.GET("/notifications", alerts.ListNotifications)
	adm.POST("/notifications/:id/read", alerts.MarkNotificationRead)

	// Start server
	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	if err := traces.Shutdown(shutdownCtx); err != nil {
		log.Printf("tracing shutdown: %v", err)
	}
}
