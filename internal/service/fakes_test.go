package service

// In-memory fakes for the store and mailer contracts. They implement just
// enough behavior for the service tests: sentinel errors mirror what the
// SQL repositories return, including the duplicate-key translation.

import (
	"context"
	"sync"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

type fakeUserStore struct {
	mu     sync.Mutex
	nextID uint64
	users  []model.User
}

func (f *fakeUserStore) Create(_ context.Context, u model.User) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return model.User{}, repository.ErrEmailExists
		}
	}
	f.nextID++
	u.ID = f.nextID
	f.users = append(f.users, u)
	return u, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeUserStore) List(_ context.Context) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.User, len(f.users))
	copy(out, f.users)
	return out, nil
}

func (f *fakeUserStore) Update(_ context.Context, id uint64, p model.UserPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, u := range f.users {
		if u.ID != id {
			continue
		}
		if p.FirstName != nil {
			u.FirstName = *p.FirstName
		}
		if p.LastName != nil {
			u.LastName = *p.LastName
		}
		if p.Username != nil {
			u.Username = *p.Username
		}
		if p.Email != nil {
			u.Email = *p.Email
		}
		if p.Password != nil {
			u.Password = *p.Password
		}
		if p.Scope != nil {
			u.Scope = *p.Scope
		}
		f.users[i] = u
		return nil
	}
	return repository.ErrNotFound
}

func (f *fakeUserStore) Delete(_ context.Context, id uint64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, u := range f.users {
		if u.ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

type fakeMovieStore struct {
	mu     sync.Mutex
	nextID uint64
	movies []model.Movie
}

func (f *fakeMovieStore) Create(_ context.Context, m model.Movie) (model.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	m.ID = f.nextID
	f.movies = append(f.movies, m)
	return m, nil
}

func (f *fakeMovieStore) GetByID(_ context.Context, id uint64) (model.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.movies {
		if m.ID == id {
			return m, nil
		}
	}
	return model.Movie{}, repository.ErrNotFound
}

func (f *fakeMovieStore) List(_ context.Context) ([]model.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Movie, len(f.movies))
	copy(out, f.movies)
	return out, nil
}

func (f *fakeMovieStore) Update(_ context.Context, id uint64, p model.MoviePatch) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, m := range f.movies {
		if m.ID != id {
			continue
		}
		if p.Title != nil {
			m.Title = *p.Title
		}
		if p.Description != nil {
			m.Description = *p.Description
		}
		if p.ReleaseDate != nil {
			t := *p.ReleaseDate
			m.ReleaseDate = &t
		}
		if p.Director != nil {
			m.Director = *p.Director
		}
		f.movies[i] = m
		return true, nil
	}
	return false, nil
}

func (f *fakeMovieStore) Delete(_ context.Context, id uint64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, m := range f.movies {
		if m.ID == id {
			f.movies = append(f.movies[:i], f.movies[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

type fakeFavoriteStore struct {
	mu    sync.Mutex
	pairs []model.Favorite
	// byMovie maps movieID to the favoriting users for UsersByMovie.
	byMovie map[uint64][]model.User
}

func (f *fakeFavoriteStore) Add(_ context.Context, userID, movieID uint64) (model.Favorite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.pairs {
		if p.UserID == userID && p.MovieID == movieID {
			return model.Favorite{}, repository.ErrConflict
		}
	}
	fav := model.Favorite{UserID: userID, MovieID: movieID}
	f.pairs = append(f.pairs, fav)
	return fav, nil
}

func (f *fakeFavoriteStore) Remove(_ context.Context, userID, movieID uint64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.pairs {
		if p.UserID == userID && p.MovieID == movieID {
			f.pairs = append(f.pairs[:i], f.pairs[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeFavoriteStore) MoviesByUser(_ context.Context, userID uint64) ([]model.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	movies := []model.Movie{}
	for _, p := range f.pairs {
		if p.UserID == userID {
			movies = append(movies, model.Movie{ID: p.MovieID})
		}
	}
	return movies, nil
}

func (f *fakeFavoriteStore) UsersByMovie(_ context.Context, movieID uint64) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byMovie[movieID], nil
}

// fakeMailer records every send and can simulate failures.
type fakeMailer struct {
	mu           sync.Mutex
	err          error
	welcomes     []model.User
	newMovie     [][]model.User
	movieUpdates [][]model.User
	exports      map[string]string // email -> csv
}

func (f *fakeMailer) SendWelcome(u model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.welcomes = append(f.welcomes, u)
	return f.err
}

func (f *fakeMailer) SendNewMovie(users []model.User, _ model.Movie) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.newMovie = append(f.newMovie, users)
	return f.err
}

func (f *fakeMailer) SendMovieUpdate(users []model.User, _ model.Movie) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.movieUpdates = append(f.movieUpdates, users)
	return f.err
}

func (f *fakeMailer) SendCSVExport(email, csv string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.exports == nil {
		f.exports = map[string]string{}
	}
	f.exports[email] = csv
	return f.err
}

// synchronous makes a service's fire-and-forget dispatch run inline so
// tests can assert on notification calls deterministically.
func synchronous(fn func()) { fn() }
