package marketplace

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/stagebook/internal/db"
)

// visibleReview excludes reviews an admin removed through arbitration.
const visibleReview = `COALESCE(arbitration_status, '') <> 'removed'`

// pageParams reads ?page= and ?limit=, falling back to page 1 of 10.
func pageParams(pageRaw, limitRaw string) (page, limit int) {
	page, limit = 1, 10
	if p, err := strconv.Atoi(pageRaw); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(limitRaw); err == nil && l > 0 && l <= 50 {
		limit = l
	}
	return page, limit
}

// GetPerformerReviews returns a performer's visible reviews with a rating summary
func GetPerformerReviews(c echo.Context) error {
	performerID := c.Param("id")
	if performerID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing performer id"})
	}

	page, limit := pageParams(c.QueryParam("page"), c.QueryParam("limit"))
	offset := (page - 1) * limit
	ctx := context.Background()

	summary := PerformerRatingSummary{PerformerID: performerID}
	err := db.Conn.QueryRow(ctx,
		`SELECT stage_name FROM performers WHERE id::text = $1 AND status = 'active'`,
		performerID,
	).Scan(&summary.StageName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "performer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch performer"})
	}

	err = db.Conn.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(AVG(rating), 0)::float8 FROM reviews WHERE performer_id::text = $1 AND `+visibleReview,
		performerID,
	).Scan(&summary.TotalReviews, &summary.AverageRating)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch rating summary"})
	}

	rows, err := db.Conn.Query(ctx,
		`SELECT rating, COUNT(*) FROM reviews WHERE performer_id::text = $1 AND `+visibleReview+` GROUP BY rating`,
		performerID,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch rating breakdown"})
	}
	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			continue
		}
		summary.RatingCounts.Add(rating, count)
	}
	rows.Close()

	reviewRows, err := db.Conn.Query(ctx,
		`SELECT r.id::text, r.booking_id::text, r.reviewer_id::text, u.name, r.rating, r.title, r.content,
                r.response, r.response_at, r.created_at
		 FROM reviews r
		 JOIN users u ON r.reviewer_id = u.id
		 WHERE r.performer_id::text = $1 AND COALESCE(r.arbitration_status, '') <> 'removed'
		 ORDER BY r.created_at DESC
		 LIMIT $2 OFFSET $3`,
		performerID, limit, offset,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch reviews"})
	}
	defer reviewRows.Close()

	reviews := []ReviewWithDetails{}
	for reviewRows.Next() {
		var review ReviewWithDetails
		if err := reviewRows.Scan(
			&review.ID, &review.BookingID, &review.ReviewerID, &review.ReviewerName,
			&review.Rating, &review.Title, &review.Content,
			&review.Response, &review.ResponseAt, &review.CreatedAt,
		); err != nil {
			continue
		}
		reviews = append(reviews, review)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"performer_summary": summary,
		"reviews":           reviews,
		"pagination": echo.Map{
			"page":  page,
			"limit": limit,
			"total": summary.TotalReviews,
		},
	})
}
