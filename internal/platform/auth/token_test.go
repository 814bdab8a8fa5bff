package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func testConfig() JWTConfig {
	return JWTConfig{SigningKey: []byte("test-secret"), TTL: time.Hour}
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	cfg := testConfig()
	userID := uuid.New()

	token, err := Issue(cfg, userID, RoleDoctor)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/citas", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got Identity
	handler := JWTMiddleware(cfg)(func(c echo.Context) error {
		got = IdentityFromContext(c.Request().Context())
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("middleware: %v", err)
	}
	if got.UserID != userID {
		t.Errorf("expected user id %s, got %s", userID, got.UserID)
	}
	if got.Role != RoleDoctor {
		t.Errorf("expected role medico, got %q", got.Role)
	}
}

func TestMiddlewareRejectsBadTokens(t *testing.T) {
	cfg := testConfig()
	e := echo.New()

	expired, err := Issue(JWTConfig{SigningKey: cfg.SigningKey, TTL: -time.Minute}, uuid.New(), RolePatient)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	wrongKey, err := Issue(JWTConfig{SigningKey: []byte("other-secret"), TTL: time.Hour}, uuid.New(), RolePatient)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-token"},
		{"expired", "Bearer " + expired},
		{"wrong signing key", "Bearer " + wrongKey},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/citas", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			c := e.NewContext(req, httptest.NewRecorder())

			handler := JWTMiddleware(cfg)(func(c echo.Context) error { return nil })
			err := handler(c)
			httpErr, ok := err.(*echo.HTTPError)
			if !ok || httpErr.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %v", err)
			}
		})
	}
}

func TestRequireRoleExactMatch(t *testing.T) {
	e := echo.New()

	call := func(role string, allowed ...string) error {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetRequest(req.WithContext(WithIdentity(req.Context(), Identity{UserID: uuid.New(), Role: role})))
		handler := RequireRole(allowed...)(func(c echo.Context) error { return nil })
		return handler(c)
	}

	if err := call(RoleDoctor, RoleAdmin, RoleDoctor); err != nil {
		t.Errorf("listed role rejected: %v", err)
	}

	// administrators get no implicit pass on routes that do not list them
	err := call(RoleAdmin, RolePatient, RoleAssistant)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusForbidden {
		t.Errorf("expected 403 for unlisted admin, got %v", err)
	}

	err = call(RolePatient, RoleAdmin)
	httpErr, ok = err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secreta123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "secreta123" {
		t.Fatal("password stored in plaintext")
	}
	if !CheckPassword(hash, "secreta123") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "incorrecta") {
		t.Error("wrong password accepted")
	}
}
