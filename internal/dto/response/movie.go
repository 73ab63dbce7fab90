package response

import (
	"time"

	"movie-review/internal/data/entity"
)

type MovieResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Genre       string    `json:"genre"`
	ReleaseYear *int      `json:"release_year"`
	CreatedAt   time.Time `json:"created_at"`
}

func MovieToResponse(movie *entity.Movie) MovieResponse {
	return MovieResponse{
		ID:          movie.ID.String(),
		Title:       movie.Title,
		Description: movie.Description,
		Genre:       movie.Genre,
		ReleaseYear: movie.ReleaseYear,
		CreatedAt:   movie.CreatedAt,
	}
}

func MoviesToResponse(movies []*entity.Movie) []MovieResponse {
	resp := make([]MovieResponse, 0, len(movies))
	for _, movie := range movies {
		resp = append(resp, MovieToResponse(movie))
	}
	return resp
}
