package admin

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/stagebook/internal/db"
)

type tableCount struct {
	Total int64 `json:"total"`
	Demo  int64 `json:"demo"`
}

// GET /admin/stats
func Stats(c echo.Context) error {
	ctx := context.Background()

	tables := map[string]tableCount{}
	for _, name := range db.DemoTables() {
		var tc tableCount
		q := `SELECT COUNT(*), COUNT(*) FILTER (WHERE is_demo) FROM ` + pgx.Identifier{name}.Sanitize()
		if err := db.Conn.QueryRow(ctx, q).Scan(&tc.Total, &tc.Demo); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not count " + name})
		}
		tables[name] = tc
	}

	byStatus := map[string]int64{}
	rows, err := db.Conn.Query(ctx, `SELECT status, COUNT(*) FROM bookings GROUP BY status`)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not count bookings"})
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not count bookings"})
		}
		byStatus[status] = n
	}

	var pendingArbitration int64
	_ = db.Conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM reviews WHERE is_flagged AND arbitration_status = 'pending'`,
	).Scan(&pendingArbitration)

	return c.JSON(http.StatusOK, echo.Map{
		"tables":              tables,
		"bookings_by_status":  byStatus,
		"pending_arbitration": pendingArbitration,
	})
}
