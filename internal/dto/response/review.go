package response

import (
	"time"

	"movie-review/internal/data/entity"
)

// ReviewResponse renders movie and user by their display names alongside the raw ids.
type ReviewResponse struct {
	ID         string    `json:"id"`
	Movie      string    `json:"movie"`
	MovieTitle string    `json:"movie_title"`
	User       string    `json:"user"`
	UserID     string    `json:"user_id"`
	Rating     int       `json:"rating"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func ReviewToResponse(review *entity.ReviewDetail) ReviewResponse {
	return ReviewResponse{
		ID:         review.ID.String(),
		Movie:      review.MovieDisplayName(),
		MovieTitle: review.MovieTitle,
		User:       review.Username,
		UserID:     review.UserID.String(),
		Rating:     review.Rating,
		Content:    review.Content,
		CreatedAt:  review.CreatedAt,
		UpdatedAt:  review.UpdatedAt,
	}
}

func ReviewsToResponse(reviews []*entity.ReviewDetail) []ReviewResponse {
	resp := make([]ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		resp = append(resp, ReviewToResponse(review))
	}
	return resp
}
