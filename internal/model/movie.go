package model

import "time"

// Movie represents a row in the `movie` table. ReleaseDate is nullable so
// the CSV export can emit an empty column for movies without one.
type Movie struct {
	ID          uint64     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ReleaseDate *time.Time `json:"releaseDate"`
	Director    string     `json:"director"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// MoviePatch carries the optional fields of a partial movie update. A nil
// field means "leave the column untouched".
type MoviePatch struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	ReleaseDate *time.Time `json:"releaseDate"`
	Director    *string    `json:"director"`
}

// Empty reports whether the patch would change nothing.
func (p MoviePatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.ReleaseDate == nil && p.Director == nil
}
