package wire

import (
	"movie-review/internal/adaptor"
	"movie-review/pkg/middleware"
	"movie-review/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// Throttled per client IP
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(config.RateLimit.Requests, config.RateLimit.Window, log))

		r.Post("/api/auth/register", authHandler.Register)
		r.Post("/api/auth/token", authHandler.Token)
		r.Post("/api/auth/token/refresh", authHandler.Refresh)

		r.Options("/api/auth/register", adaptor.Options("Register", "POST"))
		r.Options("/api/auth/token", adaptor.Options("Token Obtain Pair", "POST"))
		r.Options("/api/auth/token/refresh", adaptor.Options("Token Refresh", "POST"))
	})
}
