package middleware

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"
)

// RequireRole lets the request through only when the role set by
// JWTMiddleware is one of roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if role == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing role"})
			}
			if !slices.Contains(roles, role) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": role + " accounts cannot access this resource"})
			}
			return next(c)
		}
	}
}

// AdminGuard ensures only admin users can access admin routes
func AdminGuard(next echo.HandlerFunc) echo.HandlerFunc {
	return RequireRole("admin")(next)
}
