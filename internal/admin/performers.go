package admin

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/sudo-init-do/stagebook/internal/db"
	"github.com/sudo-init-do/stagebook/internal/marketplace"
)

type PerformerRanking struct {
	ID                string          `json:"id"`
	UserID            string          `json:"user_id"`
	StageName         string          `json:"stage_name"`
	Tier              string          `json:"tier"`
	HourlyRate        decimal.Decimal `json:"hourly_rate"`
	AchievementLevel  string          `json:"achievement_level"`
	AchievementScore  int             `json:"achievement_score"`
	CompletedBookings int             `json:"completed_bookings"`
	AverageRating     decimal.Decimal `json:"average_rating"`
	TotalReviews      int             `json:"total_reviews"`
	Verified          bool            `json:"verified"`
	Featured          bool            `json:"featured"`
	IsDemo            bool            `json:"is_demo"`
}

// GET /admin/performers?tier=&limit=
// Ranked by achievement score, best first.
func ListPerformers(c echo.Context) error {
	tier := c.QueryParam("tier")
	if tier != "" && !marketplace.Tier(tier).Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tier"})
	}
	limit, err := parseLimit(c.QueryParam("limit"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	rows, err := db.Conn.Query(context.Background(),
		`SELECT id::text, user_id::text, stage_name, tier, hourly_rate, achievement_level, achievement_score,
                completed_bookings, average_rating, total_reviews, verified, featured, is_demo
         FROM performers
         WHERE ($1 = '' OR tier = $1)
         ORDER BY achievement_score DESC, stage_name ASC
         LIMIT $2`, tier, limit,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch performers"})
	}
	defer rows.Close()

	performers := []PerformerRanking{}
	for rows.Next() {
		var p PerformerRanking
		if err := rows.Scan(&p.ID, &p.UserID, &p.StageName, &p.Tier, &p.HourlyRate, &p.AchievementLevel, &p.AchievementScore,
			&p.CompletedBookings, &p.AverageRating, &p.TotalReviews, &p.Verified, &p.Featured, &p.IsDemo); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read performer record"})
		}
		performers = append(performers, p)
	}
	return c.JSON(http.StatusOK, echo.Map{"performers": performers})
}
