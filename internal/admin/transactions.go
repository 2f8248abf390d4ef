package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/sudo-init-do/stagebook/internal/db"
	"github.com/sudo-init-do/stagebook/internal/marketplace"
)

type LedgerEntry struct {
	ID        string                      `json:"id"`
	Type      marketplace.TransactionType `json:"type"`
	Amount    decimal.Decimal             `json:"amount"`
	PayerID   *string                     `json:"payer_id"`
	PayeeID   *string                     `json:"payee_id"`
	Status    string                      `json:"status"`
	CreatedAt time.Time                   `json:"created_at"`
}

// LedgerTotals summarises the money that moved for one booking.
type LedgerTotals struct {
	Collected decimal.Decimal `json:"collected"`
	PaidOut   decimal.Decimal `json:"paid_out"`
	Refunded  decimal.Decimal `json:"refunded"`

	// Held is what the platform still holds: collected minus paid out and refunded.
	Held decimal.Decimal `json:"held"`
}

func ledgerTotals(entries []LedgerEntry) LedgerTotals {
	var t LedgerTotals
	for _, e := range entries {
		if e.Status != string(marketplace.TransactionCompleted) {
			continue
		}
		switch e.Type {
		case marketplace.TransactionDeposit, marketplace.TransactionBalance:
			t.Collected = t.Collected.Add(e.Amount)
		case marketplace.TransactionPayout:
			t.PaidOut = t.PaidOut.Add(e.Amount)
		case marketplace.TransactionRefund:
			t.Refunded = t.Refunded.Add(e.Amount)
		}
	}
	t.Held = t.Collected.Sub(t.PaidOut).Sub(t.Refunded)
	return t
}

// GET /admin/bookings/:id/transactions
func BookingTransactions(c echo.Context) error {
	bookingID := c.Param("id")
	if bookingID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking id required"})
	}
	ctx := context.Background()

	var exists bool
	if err := db.Conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE id::text = $1)`, bookingID).Scan(&exists); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not look up booking"})
	}
	if !exists {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}

	rows, err := db.Conn.Query(ctx,
		`SELECT id::text, type, amount, payer_id::text, payee_id::text, status, created_at
         FROM transactions WHERE booking_id::text = $1
         ORDER BY created_at ASC`, bookingID,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch transactions"})
	}
	defer rows.Close()

	entries := []LedgerEntry{}
	for rows.Next() {
		var e LedgerEntry
		var typ string
		if err := rows.Scan(&e.ID, &typ, &e.Amount, &e.PayerID, &e.PayeeID, &e.Status, &e.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read transaction"})
		}
		e.Type = marketplace.TransactionType(typ)
		entries = append(entries, e)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"booking_id":   bookingID,
		"transactions": entries,
		"totals":       ledgerTotals(entries),
	})
}
