package service

import (
	"context"
	"errors"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

// FavoriteStore is the persistence contract required by FavoriteService.
// The SQL FavoriteRepo satisfies it; its Add relies on the store-level
// uniqueness constraint so concurrent duplicate adds cannot both succeed.
type FavoriteStore interface {
	Add(ctx context.Context, userID, movieID uint64) (model.Favorite, error)
	Remove(ctx context.Context, userID, movieID uint64) (int64, error)
	MoviesByUser(ctx context.Context, userID uint64) ([]model.Movie, error)
}

// MovieGetter checks movie existence before a favorite is added.
type MovieGetter interface {
	GetByID(ctx context.Context, id uint64) (model.Movie, error)
}

// FavoriteService manages the per-user favorites relation. The userID
// arguments always come from the authenticated caller's token claims,
// never from a request body, so a user can only touch their own rows.
type FavoriteService struct {
	Favorites FavoriteStore
	Movies    MovieGetter
}

func NewFavoriteService(favorites FavoriteStore, movies MovieGetter) *FavoriteService {
	return &FavoriteService{Favorites: favorites, Movies: movies}
}

// Add marks a movie as the caller's favorite. ErrNotFound when the movie
// does not exist; ErrConflict when the pair already exists. The existence
// check and the insert are not atomic, but the insert alone is: a
// concurrent duplicate loses with a constraint violation, which the repo
// translates to ErrConflict.
func (s *FavoriteService) Add(ctx context.Context, userID, movieID uint64) (model.Favorite, error) {
	if _, err := s.Movies.GetByID(ctx, movieID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Favorite{}, repository.ErrNotFound
		}
		return model.Favorite{}, err
	}
	return s.Favorites.Add(ctx, userID, movieID)
}

// Remove deletes the caller's favorite pair. ErrNotFound when no row
// matched, including the case where the pair belongs to someone else,
// which must look identical to the caller.
func (s *FavoriteService) Remove(ctx context.Context, userID, movieID uint64) error {
	n, err := s.Favorites.Remove(ctx, userID, movieID)
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListByUser returns the caller's favorite movies, empty slice when none.
func (s *FavoriteService) ListByUser(ctx context.Context, userID uint64) ([]model.Movie, error) {
	return s.Favorites.MoviesByUser(ctx, userID)
}
