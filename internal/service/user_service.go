// Package service implements the application's business operations on top
// of the repositories. Services receive their store and mailer handles at
// construction; nothing is looked up dynamically at call time.
package service

import (
	"context"
	"errors"
	"log"

	"github.com/iliyamo/movie-catalog/internal/mail"
	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/utils"
)

// ErrInvalidCredentials is the single failure kind returned by Login.
// Unknown email and wrong password both collapse into it so a caller
// cannot probe which addresses are registered.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserStore is the persistence contract required by UserService. The SQL
// UserRepo satisfies it.
type UserStore interface {
	Create(ctx context.Context, u model.User) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, id uint64, p model.UserPatch) error
	Delete(ctx context.Context, id uint64) (int64, error)
}

// UserService handles registration, login and admin user management.
type UserService struct {
	Store      UserStore
	Mailer     mail.Mailer
	JWTSecret  string
	TokenTTL   int // hours
	BcryptCost int

	// dispatch runs fire-and-forget notification sends. Defaults to a
	// goroutine; tests swap in a synchronous version.
	dispatch func(func())
}

func NewUserService(store UserStore, mailer mail.Mailer, secret string, ttlHours, bcryptCost int) *UserService {
	return &UserService{
		Store:      store,
		Mailer:     mailer,
		JWTSecret:  secret,
		TokenTTL:   ttlHours,
		BcryptCost: bcryptCost,
	}
}

func (s *UserService) notify(fn func()) {
	if s.dispatch != nil {
		s.dispatch(fn)
		return
	}
	go fn()
}

// Register hashes the password, persists the user with the default "user"
// scope and fires a best-effort welcome email. A failed send is logged and
// never fails or rolls back the registration.
func (s *UserService) Register(ctx context.Context, u model.User, password string) (model.User, error) {
	hash, err := utils.HashPassword(password, s.BcryptCost)
	if err != nil {
		return model.User{}, err
	}
	u.Password = hash
	if len(u.Scope) == 0 {
		u.Scope = []string{"user"}
	}
	created, err := s.Store.Create(ctx, u)
	if err != nil {
		return model.User{}, err
	}
	s.notify(func() {
		if err := s.Mailer.SendWelcome(created); err != nil {
			log.Printf("mail: welcome email to %s failed: %v", created.Email, err)
		}
	})
	return created, nil
}

// Login verifies the credentials and issues a signed, time-limited token
// embedding identity and scope. Both "no such email" and "wrong password"
// return ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (utils.AccessToken, error) {
	u, err := s.Store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.AccessToken{}, ErrInvalidCredentials
		}
		return utils.AccessToken{}, err
	}
	if !utils.VerifyPassword(u.Password, password) {
		return utils.AccessToken{}, ErrInvalidCredentials
	}
	return utils.NewAccessToken(s.JWTSecret, u, s.TokenTTL)
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.Store.List(ctx)
}

// Update patches the supplied fields, re-hashing the password when one is
// present. Scope changes arrive through this path only (admin route).
func (s *UserService) Update(ctx context.Context, id uint64, p model.UserPatch, newPassword string) error {
	if newPassword != "" {
		hash, err := utils.HashPassword(newPassword, s.BcryptCost)
		if err != nil {
			return err
		}
		p.Password = &hash
	}
	return s.Store.Update(ctx, id, p)
}

// Delete removes a user by id. Returns repository.ErrNotFound when no row
// matched.
func (s *UserService) Delete(ctx context.Context, id uint64) error {
	n, err := s.Store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
