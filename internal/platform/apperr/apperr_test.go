package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestKindOf(t *testing.T) {
	if got := KindOf(Conflictf("taken")); got != Conflict {
		t.Errorf("expected Conflict, got %v", got)
	}
	if got := KindOf(fmt.Errorf("wrapped: %w", NotFoundf("gone"))); got != NotFound {
		t.Errorf("expected NotFound through wrapping, got %v", got)
	}
	if got := KindOf(errors.New("plain")); got != 0 {
		t.Errorf("expected 0 for plain error, got %v", got)
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{Validationf("bad"), http.StatusBadRequest},
		{Authorizationf("no"), http.StatusForbidden},
		{NotFoundf("gone"), http.StatusNotFound},
		{Conflictf("taken"), http.StatusConflict},
		{Storef(errors.New("db down"), "query failed"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.status {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.status)
		}
	}
}

func TestHTTPErrorHandlerEnvelope(t *testing.T) {
	e := echo.New()
	handler := HTTPErrorHandler(zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/citas", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler(Conflictf("ya existe una cita en ese horario"), c)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"success":false`) {
		t.Errorf("expected failure envelope, got %s", body)
	}
	if !strings.Contains(body, "ya existe una cita") {
		t.Errorf("expected conflict message, got %s", body)
	}
}

func TestHTTPErrorHandlerHidesStoreCause(t *testing.T) {
	e := echo.New()
	handler := HTTPErrorHandler(zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/citas", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler(Storef(errors.New("pq: connection refused on 10.0.0.5"), "error al consultar citas"), c)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "10.0.0.5") {
		t.Error("store cause leaked to the client")
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("no rows")
	err := Storef(cause, "lookup failed")
	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable via errors.Is")
	}
}
