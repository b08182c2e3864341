package service

import (
	"context"
	"log"

	"github.com/iliyamo/movie-catalog/internal/mail"
	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

// MovieStore is the persistence contract required by MovieService. The SQL
// MovieRepo satisfies it.
type MovieStore interface {
	Create(ctx context.Context, m model.Movie) (model.Movie, error)
	GetByID(ctx context.Context, id uint64) (model.Movie, error)
	List(ctx context.Context) ([]model.Movie, error)
	Update(ctx context.Context, id uint64, p model.MoviePatch) (bool, error)
	Delete(ctx context.Context, id uint64) (int64, error)
}

// UserLister yields the recipients of new-movie notifications.
type UserLister interface {
	List(ctx context.Context) ([]model.User, error)
}

// FavoriterLister yields the users who favorited a given movie.
type FavoriterLister interface {
	UsersByMovie(ctx context.Context, movieID uint64) ([]model.User, error)
}

// MovieService handles catalog CRUD and the notification fan-out attached
// to create and update.
type MovieService struct {
	Movies     MovieStore
	Users      UserLister
	Favoriters FavoriterLister
	Mailer     mail.Mailer

	dispatch func(func())
}

func NewMovieService(movies MovieStore, users UserLister, favoriters FavoriterLister, mailer mail.Mailer) *MovieService {
	return &MovieService{Movies: movies, Users: users, Favoriters: favoriters, Mailer: mailer}
}

func (s *MovieService) notify(fn func()) {
	if s.dispatch != nil {
		s.dispatch(fn)
		return
	}
	go fn()
}

// Create inserts the movie and asynchronously notifies every registered
// user of the new title. The notification's outcome is deliberately
// discarded: a failure is logged here and never reaches the caller.
func (s *MovieService) Create(ctx context.Context, m model.Movie) (model.Movie, error) {
	created, err := s.Movies.Create(ctx, m)
	if err != nil {
		return model.Movie{}, err
	}
	s.notify(func() {
		ctx := context.Background()
		users, err := s.Users.List(ctx)
		if err != nil {
			log.Printf("mail: listing users for new-movie notification failed: %v", err)
			return
		}
		if err := s.Mailer.SendNewMovie(users, created); err != nil {
			log.Printf("mail: new-movie notification failed: %v", err)
		}
	})
	return created, nil
}

// List returns all movies.
func (s *MovieService) List(ctx context.Context) ([]model.Movie, error) {
	return s.Movies.List(ctx)
}

// Update patches the supplied fields. When a row was updated and users have
// favorited it, exactly those users are notified asynchronously. The bool
// result is false when the movie does not exist (404 at the route layer).
func (s *MovieService) Update(ctx context.Context, id uint64, p model.MoviePatch) (bool, error) {
	updated, err := s.Movies.Update(ctx, id, p)
	if err != nil || !updated {
		return updated, err
	}
	movie, err := s.Movies.GetByID(ctx, id)
	if err != nil {
		// The patch itself succeeded; only the notification is lost.
		log.Printf("mail: reloading movie %d for update notification failed: %v", id, err)
		return true, nil
	}
	s.notify(func() {
		ctx := context.Background()
		users, err := s.Favoriters.UsersByMovie(ctx, id)
		if err != nil {
			log.Printf("mail: listing favoriters of movie %d failed: %v", id, err)
			return
		}
		if len(users) == 0 {
			return
		}
		if err := s.Mailer.SendMovieUpdate(users, movie); err != nil {
			log.Printf("mail: movie-update notification failed: %v", err)
		}
	})
	return true, nil
}

// Delete removes a movie. Returns repository.ErrNotFound when no row
// matched; favorites referencing it cascade at the schema level.
func (s *MovieService) Delete(ctx context.Context, id uint64) error {
	n, err := s.Movies.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
