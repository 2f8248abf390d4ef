package alerts

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/stagebook/internal/db"
)

type Notification struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Title     string          `json:"title"`
	Body      string          `json:"body"`
	Reference *string         `json:"reference"`
	Metadata  json.RawMessage `json:"metadata"`
	CreatedAt time.Time       `json:"created_at"`
	ReadAt    *time.Time      `json:"read_at"`
}

// GET /admin/notifications?unread=true
func ListNotifications(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	unreadOnly := c.QueryParam("unread") == "true"

	rows, err := db.Conn.Query(context.Background(),
		`SELECT id::text, type, title, COALESCE(body, ''), reference, COALESCE(metadata::text, '{}'), created_at, read_at
         FROM notifications
         WHERE user_id::text = $1 AND (NOT $2 OR read_at IS NULL)
         ORDER BY created_at DESC LIMIT 100`, userID, unreadOnly,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load notifications"})
	}
	defer rows.Close()

	items := []Notification{}
	var unread int
	for rows.Next() {
		var n Notification
		var meta string
		if err := rows.Scan(&n.ID, &n.Type, &n.Title, &n.Body, &n.Reference, &meta, &n.CreatedAt, &n.ReadAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse notification"})
		}
		n.Metadata = json.RawMessage(meta)
		if n.ReadAt == nil {
			unread++
		}
		items = append(items, n)
	}
	return c.JSON(http.StatusOK, echo.Map{"notifications": items, "unread": unread})
}

// POST /admin/notifications/:id/read
func MarkNotificationRead(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	nid := c.Param("id")
	if nid == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing notification id"})
	}

	tag, err := db.Conn.Exec(context.Background(),
		`UPDATE notifications SET read_at = NOW()
         WHERE id::text = $1 AND user_id::text = $2 AND read_at IS NULL`, nid, userID,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to mark notification read"})
	}
	if tag.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found or already read"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "ok", "id": nid})
}

// CreateNotification writes a notification for a single user. metadataJSON
// must be a JSON object or nil.
func CreateNotification(userID, ntype, title, body string, reference *string, metadataJSON *string) error {
	_, err := db.Conn.Exec(context.Background(),
		`INSERT INTO notifications (user_id, type, title, body, reference, metadata)
         VALUES ($1, $2, $3, $4, $5, COALESCE($6::jsonb, '{}'::jsonb))`,
		userID, ntype, title, body, reference, metadataJSON,
	)
	return err
}
