package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/sudo-init-do/stagebook/internal/db"
)

type BootstrapAdminRequest struct {
	Email  string `json:"email"`
	Secret string `json:"secret"`
}

// BootstrapAdmin promotes an existing account when the caller knows
// ADMIN_BOOTSTRAP_SECRET.
func BootstrapAdmin(c echo.Context) error {
	req := new(BootstrapAdminRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	cfgSecret := os.Getenv("ADMIN_BOOTSTRAP_SECRET")
	if cfgSecret == "" {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "bootstrap disabled"})
	}
	if req.Secret == "" || req.Secret != cfgSecret {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid secret"})
	}
	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}

	ct, err := db.Conn.Exec(context.Background(),
		`UPDATE users SET role = 'admin' WHERE lower(email) = lower($1) AND NOT is_demo`, req.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to promote user"})
	}
	if ct.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user promoted to admin", "email": req.Email})
}

// EnsureAdmin makes sure an admin account exists for email, creating it with
// password when missing. Admin accounts are never tagged as demo data.
func EnsureAdmin(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	if email == "" {
		return nil
	}
	var id string
	err := pool.QueryRow(ctx, `SELECT id FROM users WHERE lower(email) = lower($1)`, email).Scan(&id)
	switch {
	case err == nil:
		if _, err := pool.Exec(ctx, `UPDATE users SET role = 'admin', is_demo = FALSE WHERE id = $1`, id); err != nil {
			return fmt.Errorf("promote admin: %w", err)
		}
		return nil
	case !errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("lookup admin: %w", err)
	}

	if password == "" {
		return errors.New("admin password required to create the admin account")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	_, err = pool.Exec(ctx, `
        INSERT INTO users (id, login, email, password, name, role)
        VALUES ($1, $2, $2, $3, 'Administrator', 'admin')
    `, uuid.NewString(), email, string(hash))
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.Printf("admin account created for %s", email)
	return nil
}
