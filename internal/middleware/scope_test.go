package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/utils"
)

func TestAllowed(t *testing.T) {
	cases := []struct {
		name     string
		token    []string
		required []string
		want     bool
	}{
		{"exact match", []string{"admin"}, []string{"admin"}, true},
		{"intersecting sets", []string{"user"}, []string{"user", "admin"}, true},
		{"no intersection", []string{"user"}, []string{"admin"}, false},
		{"empty token scopes", nil, []string{"user"}, false},
		{"public route", nil, nil, true},
		{"public route with scopes", []string{"user"}, nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Allowed(tc.token, tc.required); got != tc.want {
				t.Fatalf("Allowed(%v, %v) = %v, want %v", tc.token, tc.required, got, tc.want)
			}
		})
	}
}

const testSecret = "test-secret"

func doRequest(t *testing.T, token string, scopes ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	ok := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	e.GET("/protected", ok, JWTAuth(testSecret), RequireScope(scopes...))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func signedToken(t *testing.T, scope []string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(testSecret, model.User{
		ID: 42, FirstName: "Jane", LastName: "Doe",
		Email: "jane@example.com", Scope: scope,
	}, 4)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	return tok.Token
}

func TestJWTAuthMissingToken(t *testing.T) {
	rec := doRequest(t, "", "user")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestJWTAuthBadSignature(t *testing.T) {
	tok, err := utils.NewAccessToken("other-secret", model.User{ID: 1, Scope: []string{"admin"}}, 4)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	rec := doRequest(t, tok.Token, "admin")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestScopeGateForbidsWithoutLeakingExistence(t *testing.T) {
	rec := doRequest(t, signedToken(t, []string{"user"}), "admin")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if body := rec.Body.String(); body != "{\"error\":\"forbidden\"}\n" {
		t.Fatalf("forbidden body should be generic, got %q", body)
	}
}

func TestScopeGateAllowsIntersection(t *testing.T) {
	rec := doRequest(t, signedToken(t, []string{"user"}), "user", "admin")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestJWTAuthInjectsIdentity(t *testing.T) {
	e := echo.New()
	var gotID uint64
	var gotEmail string
	var gotScope []string
	h := func(c echo.Context) error {
		gotID, _ = c.Get(CtxUserID).(uint64)
		gotEmail, _ = c.Get(CtxEmail).(string)
		gotScope, _ = c.Get(CtxScope).([]string)
		return c.NoContent(http.StatusOK)
	}
	e.GET("/me", h, JWTAuth(testSecret))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, []string{"user", "admin"}))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotID != 42 || gotEmail != "jane@example.com" {
		t.Fatalf("identity claims not injected: id=%d email=%q", gotID, gotEmail)
	}
	if len(gotScope) != 2 || gotScope[0] != "user" || gotScope[1] != "admin" {
		t.Fatalf("scope claim not injected: %v", gotScope)
	}
}
