package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// FavoriteRepo persists rows of the 'favorite' join table. Uniqueness of
// the (user_id, movie_id) pair is enforced by the table's composite primary
// key, so two concurrent inserts for the same pair cannot both succeed: the
// loser gets a duplicate-key error which is translated to ErrConflict here.
type FavoriteRepo struct{ DB *sql.DB }

func NewFavoriteRepo(db *sql.DB) *FavoriteRepo { return &FavoriteRepo{DB: db} }

// Add inserts a favorite pair. Returns ErrConflict when the pair already
// exists.
func (r *FavoriteRepo) Add(ctx context.Context, userID, movieID uint64) (model.Favorite, error) {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO favorite (user_id, movie_id) VALUES (?,?)", userID, movieID)
	if err != nil {
		if isDuplicateKey(err) {
			return model.Favorite{}, ErrConflict
		}
		return model.Favorite{}, err
	}
	return model.Favorite{UserID: userID, MovieID: movieID}, nil
}

// Remove deletes the pair scoped to the owning user and returns the number
// of rows removed (0 when the pair did not exist or belongs to someone else).
func (r *FavoriteRepo) Remove(ctx context.Context, userID, movieID uint64) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM favorite WHERE user_id=? AND movie_id=?", userID, movieID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// MoviesByUser returns the movies a user has favorited, joined through the
// favorite table. The result is an empty slice, not nil, when the user has
// none.
func (r *FavoriteRepo) MoviesByUser(ctx context.Context, userID uint64) ([]model.Movie, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT m.id, m.title, m.description, m.release_date, m.director, m.created_at, m.updated_at
		 FROM movie m
		 JOIN favorite f ON f.movie_id = m.id
		 WHERE f.user_id = ?
		 ORDER BY m.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := []model.Movie{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

// UsersByMovie returns the users who favorited the given movie, used to
// fan out update notifications.
func (r *FavoriteRepo) UsersByMovie(ctx context.Context, movieID uint64) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT u.id, u.first_name, u.last_name, u.username, u.email, u.password, u.scope, u.created_at, u.updated_at
		 FROM user u
		 JOIN favorite f ON f.user_id = u.id
		 WHERE f.movie_id = ?
		 ORDER BY u.id`, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
