// internal/wire/wire.go
package wire

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"movie-review/internal/adaptor"
	"movie-review/internal/data/repository"
	"movie-review/internal/usecase"
	"movie-review/pkg/middleware"
	"movie-review/pkg/token"
	"movie-review/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Pinger reports database liveness for /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// App menyimpan semua dependencies
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring menginisialisasi semua dependencies
func Wiring(repo *repository.Repository, db Pinger, config *utils.Config, logger *zap.Logger) (*App, error) {
	tokens, err := token.NewManager(config.JWT.Secret, config.JWT.AccessLifetime, config.JWT.RefreshLifetime)
	if err != nil {
		return nil, fmt.Errorf("token manager: %w", err)
	}

	// Initialize services dan handlers
	service := usecase.NewService(repo, tokens, logger)
	handler := adaptor.NewHandler(service, config.App.PageSize, logger)

	// Setup router
	router := setupRouter(handler, service.Auth, db, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}, nil
}

// setupRouter konfigurasi Chi router
func setupRouter(
	handler *adaptor.Handler,
	auth middleware.Authenticator,
	db Pinger,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.CORS.AllowedOrigins))
	r.Use(chimw.StripSlashes)
	r.Use(chimw.GetHead)
	r.Use(middleware.Metrics)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseNotFound(w, logger)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseError(w, logger, http.StatusMethodNotAllowed,
			map[string]string{"detail": fmt.Sprintf("Method \"%s\" not allowed.", r.Method)})
	})

	// Apply routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(auth, logger))

		wireAuth(r, handler.Auth, config, logger)
		wireUser(r, handler.User, logger)
		wireMovie(r, handler.Movie, handler.Review, logger)
		wireReview(r, handler.Review, logger)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				logger.Error("Health check: database ping failed", zap.Error(err))
				utils.ResponseJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		utils.ResponseSuccess(w, map[string]string{"status": "ok"})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
