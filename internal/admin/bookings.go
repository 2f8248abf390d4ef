package admin

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/sudo-init-do/stagebook/internal/db"
	"github.com/sudo-init-do/stagebook/internal/marketplace"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type AdminBooking struct {
	ID               string          `json:"id"`
	PerformerID      string          `json:"performer_id"`
	CustomerID       string          `json:"customer_id"`
	EventName        string          `json:"event_name"`
	EventType        string          `json:"event_type"`
	EventDate        time.Time       `json:"event_date"`
	Hours            int             `json:"hours"`
	Status           string          `json:"status"`
	EscrowStatus     string          `json:"escrow_status"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	PayoutAmount     decimal.Decimal `json:"payout_amount"`
	IsDemo           bool            `json:"is_demo"`
	CreatedAt        time.Time       `json:"created_at"`
}

// parseLimit clamps a ?limit= value; empty means the default.
func parseLimit(raw string) (int, error) {
	if raw == "" {
		return defaultListLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid limit %q", raw)
	}
	if n > maxListLimit {
		n = maxListLimit
	}
	return n, nil
}

// parseBookingStatus accepts an empty filter or a known booking status.
func parseBookingStatus(raw string) (marketplace.BookingStatus, error) {
	if raw == "" {
		return "", nil
	}
	s := marketplace.BookingStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown booking status %q", raw)
	}
	return s, nil
}

// GET /admin/bookings?status=&limit=
func ListBookings(c echo.Context) error {
	status, err := parseBookingStatus(c.QueryParam("status"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	limit, err := parseLimit(c.QueryParam("limit"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	rows, err := db.Conn.Query(context.Background(),
		`SELECT id::text, performer_id::text, customer_id::text, event_name, event_type, event_date, hours,
                status, escrow_status, total_amount, commission_amount, payout_amount, is_demo, created_at
         FROM bookings
         WHERE ($1 = '' OR status = $1)
         ORDER BY event_date DESC
         LIMIT $2`, string(status), limit,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch bookings"})
	}
	defer rows.Close()

	bookings := []AdminBooking{}
	for rows.Next() {
		var b AdminBooking
		if err := rows.Scan(&b.ID, &b.PerformerID, &b.CustomerID, &b.EventName, &b.EventType, &b.EventDate, &b.Hours,
			&b.Status, &b.EscrowStatus, &b.TotalAmount, &b.CommissionAmount, &b.PayoutAmount, &b.IsDemo, &b.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read booking record"})
		}
		bookings = append(bookings, b)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}
