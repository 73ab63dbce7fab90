package adaptor

import (
	"net/http"

	"movie-review/internal/dto/request"
	"movie-review/internal/usecase"
	"movie-review/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type MovieHandler struct {
	service  usecase.MovieService
	pageSize int
	log      *zap.Logger
}

func NewMovieHandler(service usecase.MovieService, pageSize int, log *zap.Logger) *MovieHandler {
	return &MovieHandler{
		service:  service,
		pageSize: pageSize,
		log:      log.With(zap.String("handler", "movie")),
	}
}

// ListMovies handles GET /api/movies
func (h *MovieHandler) ListMovies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := &request.MovieListQuery{
		Search:   query.Get("search"),
		Ordering: query.Get("ordering"),
		Page:     request.ParsePageRequest(query, h.pageSize),
		BaseURL:  utils.AbsoluteURL(r),
	}

	movies, err := h.service.ListMovies(r.Context(), q)
	if err != nil {
		utils.ResponseAppError(w, h.log, err, "list movies")
		return
	}

	utils.ResponseSuccess(w, movies)
}

// GetMovie handles GET /api/movies/{id}
func (h *MovieHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	movie, err := h.service.GetMovie(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseAppError(w, h.log, err, "get movie")
		return
	}

	utils.ResponseSuccess(w, movie)
}

// CreateMovie handles POST /api/movies (staff only)
func (h *MovieHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var req request.MovieRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ResponseAppError(w, h.log, err, "create movie")
		return
	}

	movie, err := h.service.CreateMovie(r.Context(), utils.GetPrincipal(r.Context()), &req)
	if err != nil {
		utils.ResponseAppError(w, h.log, err, "create movie")
		return
	}

	utils.ResponseCreated(w, movie)
}

// UpdateMovie handles PUT /api/movies/{id} (staff only)
func (h *MovieHandler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	var req request.MovieRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ResponseAppError(w, h.log, err, "update movie")
		return
	}

	movie, err := h.service.UpdateMovie(r.Context(), utils.GetPrincipal(r.Context()), chi.URLParam(r, "id"), &req)
	if err != nil {
		utils.ResponseAppError(w, h.log, err, "update movie")
		return
	}

	utils.ResponseSuccess(w, movie)
}

// PatchMovie handles PATCH /api/movies/{id} (staff only)
func (h *MovieHandler) PatchMovie(w http.ResponseWriter, r *http.Request) {
	var req request.MovieUpdateRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ResponseAppError(w, h.log, err, "patch movie")
		return
	}

	movie, err := h.service.PatchMovie(r.Context(), utils.GetPrincipal(r.Context()), chi.URLParam(r, "id"), &req)
	if err != nil {
		utils.ResponseAppError(w, h.log, err, "patch movie")
		return
	}

	utils.ResponseSuccess(w, movie)
}

// DeleteMovie handles DELETE /api/movies/{id} (staff only)
func (h *MovieHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteMovie(r.Context(), utils.GetPrincipal(r.Context()), chi.URLParam(r, "id")); err != nil {
		utils.ResponseAppError(w, h.log, err, "delete movie")
		return
	}

	utils.ResponseNoContent(w)
}
