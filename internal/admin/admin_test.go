package admin

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/stagebook/internal/alerts"
	"github.com/sudo-init-do/stagebook/internal/demo"
	"github.com/sudo-init-do/stagebook/internal/marketplace"
	"github.com/sudo-init-do/stagebook/internal/store/memstore"
)

func newDemoHandler(t *testing.T) (*DemoHandler, *memstore.Store) {
	t.Helper()
	mem := memstore.New()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	runner := demo.NewRunner(mem, demo.DefaultSeeds(),
		demo.WithRand(demo.NewRand(3)),
		demo.WithClock(func() time.Time { return now }),
		demo.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		demo.WithOptions(demo.Options{UserPassword: "demo-pass"}),
	)
	return &DemoHandler{Runner: runner}, mem
}

func call(h echo.HandlerFunc, method string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(method, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "admin-1")
	_ = h(c)
	return rec
}

func TestDemoHandler_GenerateAndTeardown(t *testing.T) {
	h, mem := newDemoHandler(t)

	var generated []alerts.DemoGeneratedPayload
	var purged []alerts.DemoPurgedPayload
	h.OnGenerated = func(p alerts.DemoGeneratedPayload) error {
		generated = append(generated, p)
		return nil
	}
	h.OnPurged = func(p alerts.DemoPurgedPayload) error {
		purged = append(purged, p)
		return nil
	}

	rec := call(h.Generate, http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Summary demo.Summary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 63, body.Summary.Bookings)
	assert.Len(t, mem.Bookings(), 63)

	require.Len(t, generated, 1)
	assert.Equal(t, "admin-1", generated[0].TriggeredBy)
	assert.Equal(t, alerts.TriggerAPI, generated[0].Trigger)
	assert.Equal(t, 63, generated[0].Bookings)

	rec = call(h.Teardown, http.MethodDelete)
	require.Equal(t, http.StatusOK, rec.Code)
	var removed struct {
		Removed map[string]int64 `json:"removed"`
		Total   int64            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &removed))
	assert.EqualValues(t, 63, removed.Removed["bookings"])
	assert.Positive(t, removed.Total)
	assert.Empty(t, mem.Bookings())

	require.Len(t, purged, 1)
	assert.EqualValues(t, 63, purged[0].Tables["bookings"])
}

func TestDemoHandler_AlertFailureDoesNotFailRequest(t *testing.T) {
	h, _ := newDemoHandler(t)
	h.OnGenerated = func(alerts.DemoGeneratedPayload) error { return assert.AnError }

	rec := call(h.Generate, http.MethodPost)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestParseResolution(t *testing.T) {
	s, err := parseResolution("upheld")
	require.NoError(t, err)
	assert.Equal(t, marketplace.ArbitrationUpheld, s)

	s, err = parseResolution(" Removed ")
	require.NoError(t, err)
	assert.Equal(t, marketplace.ArbitrationRemoved, s)

	for _, bad := range []string{"", "pending", "refund"} {
		_, err := parseResolution(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseLimit(t *testing.T) {
	n, err := parseLimit("")
	require.NoError(t, err)
	assert.Equal(t, defaultListLimit, n)

	n, err = parseLimit("10")
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	n, err = parseLimit("5000")
	require.NoError(t, err)
	assert.Equal(t, maxListLimit, n)

	for _, bad := range []string{"0", "-3", "ten"} {
		_, err := parseLimit(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseBookingStatus(t *testing.T) {
	s, err := parseBookingStatus("")
	require.NoError(t, err)
	assert.Empty(t, s)

	s, err = parseBookingStatus("disputed")
	require.NoError(t, err)
	assert.Equal(t, marketplace.BookingDisputed, s)

	_, err = parseBookingStatus("shipped")
	assert.Error(t, err)
}

func TestLedgerTotals(t *testing.T) {
	d := decimal.RequireFromString
	entries := []LedgerEntry{
		{Type: marketplace.TransactionDeposit, Amount: d("150.00"), Status: "completed"},
		{Type: marketplace.TransactionBalance, Amount: d("350.00"), Status: "completed"},
		{Type: marketplace.TransactionPayout, Amount: d("425.00"), Status: "completed"},
		{Type: marketplace.TransactionBalance, Amount: d("99.00"), Status: "failed"},
	}
	got := ledgerTotals(entries)
	assert.True(t, d("500").Equal(got.Collected), got.Collected.String())
	assert.True(t, d("425").Equal(got.PaidOut))
	assert.True(t, got.Refunded.IsZero())
	assert.True(t, d("75").Equal(got.Held))

	refunded := ledgerTotals([]LedgerEntry{
		{Type: marketplace.TransactionDeposit, Amount: d("120.00"), Status: "completed"},
		{Type: marketplace.TransactionRefund, Amount: d("120.00"), Status: "completed"},
	})
	assert.True(t, refunded.Held.IsZero())
}

func TestRatingWithout(t *testing.T) {
	d := decimal.RequireFromString

	avg, total := ratingWithout(d("4.80"), 39, 1)
	assert.Equal(t, 38, total)
	assert.True(t, d("4.90").Equal(avg), avg.String())

	avg, total = ratingWithout(d("4.50"), 2, 4)
	assert.Equal(t, 1, total)
	assert.True(t, d("5").Equal(avg), avg.String())

	avg, total = ratingWithout(d("3.00"), 1, 3)
	assert.Zero(t, total)
	assert.True(t, avg.IsZero())

	avg, total = ratingWithout(decimal.Zero, 0, 5)
	assert.Zero(t, total)
	assert.True(t, avg.IsZero())

	// Inconsistent stored figures are clamped.
	avg, _ = ratingWithout(d("1.00"), 2, 5)
	assert.True(t, avg.IsZero(), avg.String())
	avg, _ = ratingWithout(d("5.00"), 3, 1)
	assert.True(t, d("5").Equal(avg), avg.String())
}
