package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/stagebook/internal/db"
)

type MeResponse struct {
	ID     string `json:"id"`
	Login  string `json:"login"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	IsDemo bool   `json:"is_demo"`

	// PerformerID is set for performer accounts that have a profile.
	PerformerID *string `json:"performer_id,omitempty"`
	StageName   *string `json:"stage_name,omitempty"`
}

// GET /auth/me
func Me(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var me MeResponse
	err := db.Conn.QueryRow(context.Background(),
		`SELECT u.id::text, u.login, u.name, u.email, u.role, u.is_demo, p.id::text, p.stage_name
         FROM users u
         LEFT JOIN performers p ON p.user_id = u.id
         WHERE u.id::text = $1`, userID).
		Scan(&me.ID, &me.Login, &me.Name, &me.Email, &me.Role, &me.IsDemo, &me.PerformerID, &me.StageName)
	if errors.Is(err, pgx.ErrNoRows) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load user"})
	}
	return c.JSON(http.StatusOK, me)
}
