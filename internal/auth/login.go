package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/sudo-init-do/stagebook/internal/db"
	"github.com/sudo-init-do/stagebook/internal/utils"
)

type LoginRequest struct {
	// Login accepts either the account login or its email.
	Login    string `json:"login"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

var errMissingCredentials = errors.New("login and password required")

func (r *LoginRequest) normalize() error {
	r.Login = strings.ToLower(strings.TrimSpace(r.Login))
	if r.Login == "" || r.Password == "" {
		return errMissingCredentials
	}
	return nil
}

type account struct {
	id       string
	hash     string
	role     string
	isActive bool
}

func findAccount(ctx context.Context, login string) (account, error) {
	var a account
	err := db.Conn.QueryRow(ctx, `
        SELECT id::text, password, role, COALESCE(is_active, TRUE)
        FROM users WHERE lower(login) = $1 OR lower(email) = $1
        ORDER BY (lower(login) = $1) DESC
        LIMIT 1
    `, login).Scan(&a.id, &a.hash, &a.role, &a.isActive)
	return a, err
}

// POST /auth/login
func Login(c echo.Context) error {
	req := new(LoginRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := req.normalize(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	acct, err := findAccount(context.Background(), req.Login)
	if errors.Is(err, pgx.ErrNoRows) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.hash), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if !acct.isActive {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account suspended"})
	}

	signed, err := utils.IssueToken(acct.id, acct.role, time.Now())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token generation failed"})
	}
	return c.JSON(http.StatusOK, LoginResponse{Token: signed, Role: acct.role})
}
