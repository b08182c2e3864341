package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/middleware"
)

func TestExportWithoutBrokerFails(t *testing.T) {
	// A dead broker at boot leaves the handler with a nil Broker; the
	// publish then fails explicitly instead of silently losing the request.
	h := &MovieHandler{Broker: nil}
	e := echo.New()
	withEmail := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.CtxEmail, "admin@example.com")
			return next(c)
		}
	}
	e.GET("/movies/export", h.Export, withEmail)

	req := httptest.NewRequest(http.MethodGet, "/movies/export", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestExportRequiresEmailClaim(t *testing.T) {
	h := &MovieHandler{Broker: nil}
	e := echo.New()
	e.GET("/movies/export", h.Export)

	req := httptest.NewRequest(http.MethodGet, "/movies/export", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
