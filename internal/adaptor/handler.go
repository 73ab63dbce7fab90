package adaptor

import (
	"net/http"
	"strings"

	"movie-review/internal/dto/response"
	"movie-review/internal/usecase"
	"movie-review/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth   *AuthHandler
	User   *UserHandler
	Movie  *MovieHandler
	Review *ReviewHandler
}

// NewHandler wires one handler per resource. pageSize is the default page
// length of list endpoints.
func NewHandler(service *usecase.Service, pageSize int, log *zap.Logger) *Handler {
	return &Handler{
		Auth:   NewAuthHandler(service.Auth, log),
		User:   NewUserHandler(service.User, pageSize, log),
		Movie:  NewMovieHandler(service.Movie, pageSize, log),
		Review: NewReviewHandler(service.Review, pageSize, log),
	}
}

// Options answers OPTIONS on a resource with its metadata and an Allow
// header listing methods plus HEAD and OPTIONS.
func Options(name string, methods ...string) http.HandlerFunc {
	allowed := make([]string, 0, len(methods)+2)
	allowed = append(allowed, methods...)
	allowed = append(allowed, http.MethodHead, http.MethodOptions)
	allow := strings.Join(allowed, ", ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", allow)
		utils.ResponseSuccess(w, response.NewMetadataResponse(name))
	}
}
