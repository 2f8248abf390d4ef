package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/sudo-init-do/stagebook/internal/utils"
)

func serve(t *testing.T, header string, mws ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h := func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"user_id": c.Get("user_id"), "role": c.Get("role")})
	}
	e.GET("/admin/stats", h, mws...)

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTMiddleware(t *testing.T) {
	utils.SetJWTSecret("mw-secret")
	tok, err := utils.IssueToken("u1", "admin", time.Now())
	require.NoError(t, err)

	rec := serve(t, "Bearer "+tok, JWTMiddleware)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":"u1"`)

	assert.Equal(t, http.StatusUnauthorized, serve(t, "", JWTMiddleware).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(t, "Bearer garbage", JWTMiddleware).Code)
}

func TestAdminGuard(t *testing.T) {
	utils.SetJWTSecret("mw-secret")
	admin, err := utils.IssueToken("u1", "admin", time.Now())
	require.NoError(t, err)
	customer, err := utils.IssueToken("u2", "customer", time.Now())
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, serve(t, "Bearer "+admin, JWTMiddleware, AdminGuard).Code)
	assert.Equal(t, http.StatusForbidden, serve(t, "Bearer "+customer, JWTMiddleware, AdminGuard).Code)
}

func TestTracing_RecordsServerSpan(t *testing.T) {
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))

	rec := serve(t, "", Tracing(tp.Tracer("http")))
	assert.Equal(t, http.StatusOK, rec.Code)

	ended := spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "GET /admin/stats", ended[0].Name())
	assert.Equal(t, trace.SpanKindServer, ended[0].SpanKind())
	assert.Contains(t, ended[0].Attributes(), attribute.Int("http.status_code", http.StatusOK))
}

func TestRequireRole(t *testing.T) {
	utils.SetJWTSecret("mw-secret")
	performer, err := utils.IssueToken("u3", "performer", time.Now())
	require.NoError(t, err)

	both := RequireRole("performer", "admin")
	assert.Equal(t, http.StatusOK, serve(t, "Bearer "+performer, JWTMiddleware, both).Code)
	assert.Equal(t, http.StatusForbidden, serve(t, "Bearer "+performer, JWTMiddleware, RequireRole("customer")).Code)

	// without JWTMiddleware no role is ever set
	assert.Equal(t, http.StatusUnauthorized, serve(t, "", RequireRole("admin")).Code)
}
