package model

// Favorite is a join row marking that a user favorited a movie. The pair
// (UserID, MovieID) is the composite primary key; both columns cascade on
// parent deletion.
type Favorite struct {
	UserID  uint64 `json:"userId"`
	MovieID uint64 `json:"movieId"`
}
