package microsite

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gosimple/slug"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/sudo-init-do/stagebook/internal/db"
	"github.com/sudo-init-do/stagebook/internal/marketplace"
)

// PublicMicrosite is what visitors of a performer's mini-site see.
type PublicMicrosite struct {
	marketplace.Microsite
	StageName        string          `json:"stage_name"`
	AchievementLevel string          `json:"achievement_level"`
	AverageRating    decimal.Decimal `json:"average_rating"`
	TotalReviews     int             `json:"total_reviews"`
	City             string          `json:"city"`
	State            string          `json:"state"`
}

// normalizeSlug rejects anything that could not have been produced by the
// generator's slugging.
func normalizeSlug(raw string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" || !slug.IsSlug(s) {
		return "", false
	}
	return s, true
}

// GET /microsites/:slug
// Every fetch counts as a view.
func GetMicrosite(c echo.Context) error {
	s, ok := normalizeSlug(c.Param("slug"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid microsite slug"})
	}

	var m PublicMicrosite
	err := db.Conn.QueryRow(context.Background(),
		`UPDATE microsites ms SET view_count = view_count + 1
         FROM performers p
         WHERE ms.slug = $1 AND ms.status = 'published' AND p.id = ms.performer_id AND p.status = 'active'
         RETURNING ms.id::text, ms.performer_id::text, ms.user_id::text, ms.slug, ms.template, ms.accent_color,
                   ms.design, ms.view_count, ms.status, ms.is_demo, ms.created_at,
                   p.stage_name, p.achievement_level, p.average_rating, p.total_reviews, p.city, p.state`, s,
	).Scan(&m.ID, &m.PerformerID, &m.UserID, &m.Slug, &m.Template, &m.AccentColor,
		&m.Design, &m.ViewCount, &m.Status, &m.Demo, &m.CreatedAt,
		&m.StageName, &m.AchievementLevel, &m.AverageRating, &m.TotalReviews, &m.City, &m.State)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "microsite not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch microsite"})
	}
	return c.JSON(http.StatusOK, m)
}
