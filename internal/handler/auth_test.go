package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/service"
)

// memUserStore is a minimal in-memory service.UserStore for handler tests.
type memUserStore struct {
	mu     sync.Mutex
	nextID uint64
	users  []model.User
}

func (m *memUserStore) Create(_ context.Context, u model.User) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.users {
		if e.Email == u.Email {
			return model.User{}, repository.ErrEmailExists
		}
	}
	m.nextID++
	u.ID = m.nextID
	m.users = append(m.users, u)
	return u, nil
}

func (m *memUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memUserStore) List(_ context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.User{}, m.users...), nil
}

func (m *memUserStore) Update(context.Context, uint64, model.UserPatch) error { return nil }
func (m *memUserStore) Delete(context.Context, uint64) (int64, error)         { return 1, nil }

// nopMailer satisfies mail.Mailer without touching the network.
type nopMailer struct{}

func (nopMailer) SendWelcome(model.User) error                    { return nil }
func (nopMailer) SendNewMovie([]model.User, model.Movie) error    { return nil }
func (nopMailer) SendMovieUpdate([]model.User, model.Movie) error { return nil }
func (nopMailer) SendCSVExport(string, string) error              { return nil }

func newAuthEnv() (*echo.Echo, *AuthHandler) {
	svc := service.NewUserService(&memUserStore{}, nopMailer{}, "test-secret", 4, 4)
	h := NewAuthHandler(svc)
	e := echo.New()
	e.POST("/user", h.Register)
	e.POST("/user/login", h.Login)
	return e, h
}

func post(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

const validRegistration = `{"firstName":"John","lastName":"Doe","username":"jdoe","email":"jdoe@example.com","password":"safePassword"}`

func TestRegisterValidation(t *testing.T) {
	e, _ := newAuthEnv()
	cases := []struct {
		name string
		body string
	}{
		{"short firstName", `{"firstName":"Jo","lastName":"Doe","username":"jdoe","email":"j@example.com","password":"safePassword"}`},
		{"short lastName", `{"firstName":"John","lastName":"Do","username":"jdoe","email":"j@example.com","password":"safePassword"}`},
		{"short password", `{"firstName":"John","lastName":"Doe","username":"jdoe","email":"j@example.com","password":"short"}`},
		{"bad email", `{"firstName":"John","lastName":"Doe","username":"jdoe","email":"nope","password":"safePassword"}`},
		{"missing everything", `{}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if rec := post(e, "/user", tc.body); rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body)
			}
		})
	}
}

func TestRegisterDoesNotEchoPassword(t *testing.T) {
	e, _ := newAuthEnv()
	rec := post(e, "/user", validRegistration)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}
	if strings.Contains(rec.Body.String(), "safePassword") || strings.Contains(rec.Body.String(), `"password"`) {
		t.Fatalf("response leaks password material: %s", rec.Body)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	e, _ := newAuthEnv()
	if rec := post(e, "/user", validRegistration); rec.Code != http.StatusCreated {
		t.Fatalf("first register: expected 201, got %d", rec.Code)
	}
	if rec := post(e, "/user", validRegistration); rec.Code != http.StatusConflict {
		t.Fatalf("second register: expected 409, got %d", rec.Code)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	e, _ := newAuthEnv()
	if rec := post(e, "/user", validRegistration); rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", rec.Code)
	}

	unknown := post(e, "/user/login", `{"email":"ghost@example.com","password":"safePassword"}`)
	wrongPass := post(e, "/user/login", `{"email":"jdoe@example.com","password":"wrongPassword"}`)

	if unknown.Code != http.StatusUnauthorized || wrongPass.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", unknown.Code, wrongPass.Code)
	}
	if unknown.Body.String() != wrongPass.Body.String() {
		t.Fatalf("failure responses differ: %q vs %q", unknown.Body, wrongPass.Body)
	}
}

func TestLoginReturnsToken(t *testing.T) {
	e, _ := newAuthEnv()
	if rec := post(e, "/user", validRegistration); rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", rec.Code)
	}
	rec := post(e, "/user/login", `{"email":"jdoe@example.com","password":"safePassword"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), `"token"`) {
		t.Fatalf("expected token in response, got %s", rec.Body)
	}
}
