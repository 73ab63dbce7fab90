package response

import (
	"time"

	"movie-review/internal/data/entity"
)

type TokenPairResponse struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

type AccessTokenResponse struct {
	Access string `json:"access"`
}

type UserResponse struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	DateJoined   time.Time `json:"date_joined"`
	ReviewsCount int64     `json:"reviews_count"`
}

type RegisterResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

func UserToResponse(user *entity.User, reviewsCount int64) UserResponse {
	return UserResponse{
		ID:           user.ID.String(),
		Username:     user.Username,
		Email:        user.Email,
		DateJoined:   user.DateJoined,
		ReviewsCount: reviewsCount,
	}
}
