package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medisched/medisched/internal/platform/auth"
)

func TestRequestIDGenerated(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RequestID()(func(c echo.Context) error { return nil })
	if err := handler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}

	rid, _ := c.Get("request_id").(string)
	if rid == "" {
		t.Error("expected a generated request id")
	}
	if rec.Header().Get(RequestIDHeader) != rid {
		t.Error("request id not echoed in response header")
	}
}

func TestRequestIDPreservesClientValue(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-supplied-id")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RequestID()(func(c echo.Context) error { return nil })
	if err := handler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rid, _ := c.Get("request_id").(string); rid != "client-supplied-id" {
		t.Errorf("expected client id preserved, got %q", rid)
	}
}

// The identity is attached inside the handler chain, as the auth middleware
// does it, and must still show up in the request log line.
func TestLoggerRecordsAuthenticatedRole(t *testing.T) {
	e := echo.New()
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	handler := Logger(logger)(func(c echo.Context) error {
		identity := auth.Identity{UserID: uuid.New(), Role: auth.RoleDoctor}
		c.SetRequest(c.Request().WithContext(auth.WithIdentity(c.Request().Context(), identity)))
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/citas", nil)
	if err := handler(e.NewContext(req, httptest.NewRecorder())); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !strings.Contains(buf.String(), `"rol":"medico"`) {
		t.Errorf("expected role in request log, got %s", buf.String())
	}
}

func TestLoggerOmitsRoleWhenAnonymous(t *testing.T) {
	e := echo.New()
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	handler := Logger(logger)(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	if err := handler(e.NewContext(req, httptest.NewRecorder())); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if strings.Contains(buf.String(), `"rol"`) {
		t.Errorf("expected no role field for anonymous request, got %s", buf.String())
	}
}

func TestRecoveryTurnsPanicIntoError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	handler := Recovery(zerolog.Nop())(func(c echo.Context) error {
		panic("boom")
	})
	err := handler(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 from recovered panic, got %v", err)
	}
}

func TestRateLimitEnforcesBurst(t *testing.T) {
	e := echo.New()
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 2})
	handler := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	call := func() error {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.1.1.1:1234"
		return handler(e.NewContext(req, httptest.NewRecorder()))
	}

	if err := call(); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if err := call(); err != nil {
		t.Fatalf("second call: %v", err)
	}
	err := call()
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %v", err)
	}
}

func TestRateLimitIsolatesClients(t *testing.T) {
	e := echo.New()
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1})
	handler := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	call := func(addr string) error {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		return handler(e.NewContext(req, httptest.NewRecorder()))
	}

	if err := call("10.1.1.1:1234"); err != nil {
		t.Fatalf("first client: %v", err)
	}
	if err := call("10.2.2.2:1234"); err != nil {
		t.Fatalf("second client should not share the first's bucket: %v", err)
	}
}
