package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/stagebook/internal/db"
)

type AdminUser struct {
	ID        string    `json:"id"`
	Login     string    `json:"login"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	IsDemo    bool      `json:"is_demo"`
	CreatedAt time.Time `json:"created_at"`
}

// GET /admin/users?role=&demo=true
func ListUsers(c echo.Context) error {
	role := c.QueryParam("role")
	switch role {
	case "", "performer", "customer", "admin":
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}
	demoOnly := c.QueryParam("demo") == "true"
	limit, err := parseLimit(c.QueryParam("limit"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	rows, err := db.Conn.Query(context.Background(),
		`SELECT id::text, login, name, email, role, COALESCE(is_active, TRUE), is_demo, created_at
         FROM users
         WHERE ($1 = '' OR role = $1) AND (NOT $2 OR is_demo)
         ORDER BY created_at DESC
         LIMIT $3`, role, demoOnly, limit,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch users"})
	}
	defer rows.Close()

	users := []AdminUser{}
	for rows.Next() {
		var u AdminUser
		if err := rows.Scan(&u.ID, &u.Login, &u.Name, &u.Email, &u.Role, &u.IsActive, &u.IsDemo, &u.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read user record"})
		}
		users = append(users, u)
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

func setActive(c echo.Context, active bool, verb string) error {
	userID := c.Param("id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user id required"})
	}
	if self, _ := c.Get("user_id").(string); self == userID && !active {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "admins cannot suspend themselves"})
	}
	tag, err := db.Conn.Exec(context.Background(), `UPDATE users SET is_active = $1 WHERE id::text = $2`, active, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update user"})
	}
	if tag.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user " + verb, "user_id": userID})
}

// POST /admin/users/:id/suspend
func SuspendUser(c echo.Context) error {
	return setActive(c, false, "suspended")
}

// POST /admin/users/:id/activate
func ActivateUser(c echo.Context) error {
	return setActive(c, true, "activated")
}
