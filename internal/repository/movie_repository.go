package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// MovieRepo persists rows of the 'movie' table.
type MovieRepo struct{ DB *sql.DB }

func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{DB: db} }

const movieColumns = "id,title,description,release_date,director,created_at,updated_at"

// Create inserts a movie and returns the stored row.
func (r *MovieRepo) Create(ctx context.Context, m model.Movie) (model.Movie, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO movie (title, description, release_date, director) VALUES (?,?,?,?)",
		m.Title, m.Description, m.ReleaseDate, m.Director)
	if err != nil {
		return model.Movie{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Movie{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a movie by id.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (model.Movie, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+movieColumns+" FROM movie WHERE id=? LIMIT 1", id)
	return scanMovie(row)
}

// List returns all movies ordered by id.
func (r *MovieRepo) List(ctx context.Context) ([]model.Movie, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+movieColumns+" FROM movie ORDER BY id")
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

// Update patches only the supplied fields and bumps updated_at. The bool
// result reports whether a row matched; false signals NotFound to callers.
func (r *MovieRepo) Update(ctx context.Context, id uint64, p model.MoviePatch) (bool, error) {
	sets := make([]string, 0, 5)
	args := make([]interface{}, 0, 5)
	if p.Title != nil {
		sets = append(sets, "title=?")
		args = append(args, *p.Title)
	}
	if p.Description != nil {
		sets = append(sets, "description=?")
		args = append(args, *p.Description)
	}
	if p.ReleaseDate != nil {
		sets = append(sets, "release_date=?")
		args = append(args, *p.ReleaseDate)
	}
	if p.Director != nil {
		sets = append(sets, "director=?")
		args = append(args, *p.Director)
	}
	if len(sets) == 0 {
		return false, nil
	}
	sets = append(sets, "updated_at=NOW()")
	args = append(args, id)

	res, err := r.DB.ExecContext(ctx,
		"UPDATE movie SET "+strings.Join(sets, ", ")+" WHERE id=?", args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	// RowsAffected is 0 for a no-op patch too; check existence so a patch
	// that repeats the current values still reports the row as updated.
	if n == 0 {
		var exists int
		err := r.DB.QueryRowContext(ctx,
			"SELECT 1 FROM movie WHERE id=? LIMIT 1", id).Scan(&exists)
		if err == sql.ErrNoRows {
			return false, nil
		}
		if err != nil {
			return false, err
		}
	}
	return true, nil
}

// Delete removes a movie by id and returns the affected row count.
// Favorite rows cascade at the schema level.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) (int64, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM movie WHERE id=?", id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanMovie(s scanner) (model.Movie, error) {
	var (
		m       model.Movie
		release sql.NullTime
	)
	err := s.Scan(&m.ID, &m.Title, &m.Description, &release, &m.Director,
		&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Movie{}, ErrNotFound
		}
		return model.Movie{}, err
	}
	if release.Valid {
		t := release.Time
		m.ReleaseDate = &t
	}
	return m, nil
}
