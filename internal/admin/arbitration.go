package admin

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/sudo-init-do/stagebook/internal/alerts"
	"github.com/sudo-init-do/stagebook/internal/db"
	"github.com/sudo-init-do/stagebook/internal/marketplace"
)

type FlaggedReview struct {
	ID                string     `json:"id"`
	BookingID         string     `json:"booking_id"`
	ReviewerID        string     `json:"reviewer_id"`
	PerformerID       string     `json:"performer_id"`
	Rating            int        `json:"rating"`
	Title             string     `json:"title"`
	Content           string     `json:"content"`
	FlagReason        string     `json:"flag_reason"`
	ArbitrationStatus string     `json:"arbitration_status"`
	FlaggedAt         *time.Time `json:"flagged_at"`
	ResolvedAt        *time.Time `json:"resolved_at"`
}

// parseResolution accepts the two outcomes an admin can pick for a flagged review.
func parseResolution(raw string) (marketplace.ArbitrationStatus, error) {
	s := marketplace.ArbitrationStatus(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case marketplace.ArbitrationUpheld, marketplace.ArbitrationRemoved:
		return s, nil
	case marketplace.ArbitrationPending:
		return "", errors.New("resolution must be upheld or removed")
	}
	return "", fmt.Errorf("invalid resolution %q", raw)
}

// GET /admin/arbitration?status=pending
func ListArbitration(c echo.Context) error {
	status := c.QueryParam("status")
	if status == "" {
		status = string(marketplace.ArbitrationPending)
	}
	if !marketplace.ArbitrationStatus(status).Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid arbitration status"})
	}

	rows, err := db.Conn.Query(context.Background(),
		`SELECT id::text, booking_id::text, reviewer_id::text, performer_id::text, rating, title, content,
                COALESCE(flag_reason, ''), arbitration_status, flagged_at, resolved_at
         FROM reviews
         WHERE is_flagged AND arbitration_status = $1
         ORDER BY flagged_at DESC NULLS LAST`, status,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch flagged reviews"})
	}
	defer rows.Close()

	items := []FlaggedReview{}
	for rows.Next() {
		var r FlaggedReview
		if err := rows.Scan(&r.ID, &r.BookingID, &r.ReviewerID, &r.PerformerID, &r.Rating, &r.Title, &r.Content,
			&r.FlagReason, &r.ArbitrationStatus, &r.FlaggedAt, &r.ResolvedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read review record"})
		}
		items = append(items, r)
	}
	return c.JSON(http.StatusOK, echo.Map{"reviews": items})
}

// POST /admin/arbitration/:id/resolve
func ResolveArbitration(c echo.Context) error {
	adminID, ok := c.Get("user_id").(string)
	if !ok || adminID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "review id required"})
	}
	var req struct {
		Resolution string `json:"resolution"` // upheld|removed
		Notes      string `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}
	resolution, err := parseResolution(req.Resolution)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx := context.Background()
	var reviewerID, performerID, performerUserID string
	err = pgx.BeginFunc(ctx, db.Conn, func(tx pgx.Tx) error {
		var rating int
		err := tx.QueryRow(ctx,
			`UPDATE reviews SET arbitration_status = $1, resolved_by = $2, resolved_at = NOW()
             WHERE id::text = $3 AND is_flagged AND arbitration_status = 'pending'
             RETURNING reviewer_id::text, performer_id::text, reviewee_id::text, rating`,
			string(resolution), adminID, id,
		).Scan(&reviewerID, &performerID, &performerUserID, &rating)
		if err != nil {
			return err
		}
		if resolution != marketplace.ArbitrationRemoved {
			return nil
		}

		// Stored stats include seeded lifetime reviews without rows: adjust, never recount.
		var avg decimal.Decimal
		var total int
		if err := tx.QueryRow(ctx,
			`SELECT average_rating, total_reviews FROM performers WHERE id::text = $1 FOR UPDATE`,
			performerID,
		).Scan(&avg, &total); err != nil {
			return err
		}
		avg, total = ratingWithout(avg, total, rating)
		_, err = tx.Exec(ctx,
			`UPDATE performers SET average_rating = $2, total_reviews = $3 WHERE id::text = $1`,
			performerID, avg, total,
		)
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no pending arbitration for this review"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve arbitration"})
	}

	if err := alerts.EnqueueReviewResolved(id, adminID, string(resolution)); err != nil {
		log.Printf("[admin] review resolution alert not enqueued: %v", err)
	}

	title := "Review arbitration resolved"
	body := "The flagged review was " + string(resolution) + "."
	if req.Notes != "" {
		body += " " + req.Notes
	}
	meta := fmt.Sprintf(`{"resolution":%q}`, string(resolution))
	ref := id
	_ = alerts.CreateNotification(reviewerID, "review:resolved", title, body, &ref, &meta)
	_ = alerts.CreateNotification(performerUserID, "review:resolved", title, body, &ref, &meta)

	return c.JSON(http.StatusOK, echo.Map{"message": "resolved", "review_id": id, "resolution": resolution})
}

// ratingWithout returns the average and count left after one review with
// the given rating is taken out of them. The average stays within 0..5.
func ratingWithout(avg decimal.Decimal, total, removed int) (decimal.Decimal, int) {
	if total <= 1 {
		return decimal.Zero, 0
	}
	sum := avg.Mul(decimal.NewFromInt(int64(total))).Sub(decimal.NewFromInt(int64(removed)))
	next := sum.Div(decimal.NewFromInt(int64(total - 1))).Round(2)
	switch {
	case next.IsNegative():
		next = decimal.Zero
	case next.GreaterThan(decimal.NewFromInt(5)):
		next = decimal.NewFromInt(5)
	}
	return next, total - 1
}
