package wire

import (
	"movie-review/internal/adaptor"
	"movie-review/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReview(
	r chi.Router,
	reviewHandler *adaptor.ReviewHandler,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/reviews", reviewHandler.ListReviews)
	r.Get("/api/reviews/{id}", reviewHandler.GetReview)

	r.Options("/api/reviews", adaptor.Options("Review List", "GET", "POST"))
	r.Options("/api/reviews/{id}", adaptor.Options("Review Instance", "GET", "PUT", "PATCH", "DELETE"))

	// ==================== PROTECTED ROUTES ====================
	r.With(middleware.RequireAuth(log)).Post("/api/reviews", reviewHandler.CreateReview)

	// Ownership is checked after the review is loaded
	r.Put("/api/reviews/{id}", reviewHandler.UpdateReview)
	r.Patch("/api/reviews/{id}", reviewHandler.PatchReview)
	r.Delete("/api/reviews/{id}", reviewHandler.DeleteReview)
}
