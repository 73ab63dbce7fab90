package entity

import (
	"github.com/google/uuid"
)

type Review struct {
	BaseNoDelete
	MovieID uuid.UUID `db:"movie_id"`
	UserID  uuid.UUID `db:"user_id"`
	Rating  int       `db:"rating"` // 1-5
	Content string    `db:"content"`
}

// ReviewDetail is a review joined with the fields its representation needs.
type ReviewDetail struct {
	Review
	MovieTitle       string `db:"movie_title"`
	MovieReleaseYear *int   `db:"movie_release_year"`
	Username         string `db:"username"`
}

// MovieDisplayName mirrors Movie.DisplayName for the joined movie.
func (d *ReviewDetail) MovieDisplayName() string {
	m := Movie{Title: d.MovieTitle, ReleaseYear: d.MovieReleaseYear}
	return m.DisplayName()
}
