package wire

import (
	"movie-review/internal/adaptor"
	"movie-review/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireMovie(
	r chi.Router,
	movieHandler *adaptor.MovieHandler,
	reviewHandler *adaptor.ReviewHandler,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/movies", movieHandler.ListMovies)
	r.Get("/api/movies/{id}", movieHandler.GetMovie)
	r.Get("/api/movies/{id}/reviews", reviewHandler.MovieReviews)

	r.Options("/api/movies", adaptor.Options("Movie List", "GET", "POST"))
	r.Options("/api/movies/{id}", adaptor.Options("Movie Instance", "GET", "PUT", "PATCH", "DELETE"))
	r.Options("/api/movies/{id}/reviews", adaptor.Options("Reviews", "GET"))

	// ==================== ADMIN ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Admin(log))

		r.Post("/api/movies", movieHandler.CreateMovie)
		r.Put("/api/movies/{id}", movieHandler.UpdateMovie)
		r.Patch("/api/movies/{id}", movieHandler.PatchMovie)
		r.Delete("/api/movies/{id}", movieHandler.DeleteMovie)
	})
}
