package admin

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/stagebook/internal/alerts"
	"github.com/sudo-init-do/stagebook/internal/demo"
)

// DemoHandler exposes generation and teardown to admins.
type DemoHandler struct {
	Runner *demo.Runner

	// OnGenerated and OnPurged are called after a successful run; nil skips.
	OnGenerated func(alerts.DemoGeneratedPayload) error
	OnPurged    func(alerts.DemoPurgedPayload) error
}

// POST /admin/demo/generate
func (h *DemoHandler) Generate(c echo.Context) error {
	adminID, _ := c.Get("user_id").(string)

	sum, err := h.Runner.Generate(c.Request().Context())
	if errors.Is(err, demo.ErrRunInProgress) {
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "demo generation failed", "details": err.Error()})
	}

	if h.OnGenerated != nil {
		if err := h.OnGenerated(alerts.NewDemoGenerated(sum, alerts.TriggerAPI, adminID)); err != nil {
			log.Printf("[admin] demo alert not enqueued: %v", err)
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"summary": sum})
}

// DELETE /admin/demo
func (h *DemoHandler) Teardown(c echo.Context) error {
	adminID, _ := c.Get("user_id").(string)

	report, err := h.Runner.Teardown(c.Request().Context())
	if errors.Is(err, demo.ErrRunInProgress) {
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "demo teardown failed", "details": err.Error()})
	}

	if h.OnPurged != nil {
		if err := h.OnPurged(alerts.NewDemoPurged(report, alerts.TriggerAPI, adminID)); err != nil {
			log.Printf("[admin] purge alert not enqueued: %v", err)
		}
	}
	var total int64
	for _, n := range report {
		total += n
	}
	return c.JSON(http.StatusOK, echo.Map{"removed": report, "total": total})
}
