package wire

import (
	"movie-review/internal/adaptor"
	"movie-review/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(log))

		r.Get("/api/users", userHandler.GetAllUsers)
		r.Get("/api/users/{id}", userHandler.GetProfile)

		r.Options("/api/users", adaptor.Options("User List", "GET"))
		r.Options("/api/users/{id}", adaptor.Options("User Instance", "GET", "DELETE"))
	})

	// ==================== ADMIN ROUTES ====================
	r.With(middleware.Admin(log)).Delete("/api/users/{id}", userHandler.DeleteUser)
}
