package adaptor

import (
	"net/http"

	"movie-review/internal/dto/request"
	"movie-review/internal/usecase"
	"movie-review/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	service  usecase.ReviewService
	pageSize int
	log      *zap.Logger
}

func NewReviewHandler(service usecase.ReviewService, pageSize int, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service:  service,
		pageSize: pageSize,
		log:      log.With(zap.String("handler", "review")),
	}
}

// ListReviews handles GET /api/reviews
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := &request.ReviewListQuery{
		MovieTitle: query.Get("movie_title"),
		Rating:     query.Get("rating"),
		Search:     query.Get("search"),
		Ordering:   query.Get("ordering"),
		Page:       request.ParsePageRequest(query, h.pageSize),
		BaseURL:    utils.AbsoluteURL(r),
	}

	reviews, err := h.service.ListReviews(r.Context(), q)
	if err != nil {
		utils.ResponseAppError(w, h.log, err, "list reviews")
		return
	}

	utils.ResponseSuccess(w, reviews)
}

// MovieReviews handles GET /api/movies/{id}/reviews
func (h *ReviewHandler) MovieReviews(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := &request.MovieReviewsQuery{
		Rating:   query.Get("rating"),
		Ordering: query.Get("ordering"),
		Page:     request.ParsePageRequest(query, h.pageSize),
		BaseURL:  utils.AbsoluteURL(r),
	}

	reviews, err := h.service.MovieReviews(r.Context(), chi.URLParam(r, "id"), q)
	if err != nil {
		utils.ResponseAppError(w, h.log, err, "list movie reviews")
		return
	}

	utils.ResponseSuccess(w, reviews)
}

// GetReview handles GET /api/reviews/{id}
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	review, err := h.service.GetReview(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseAppError(w, h.log, err, "get review")
		return
	}

	utils.ResponseSuccess(w, review)
}

// CreateReview handles POST /api/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req request.CreateReviewRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ResponseAppError(w, h.log, err, "create review")
		return
	}

	review, err := h.service.CreateReview(r.Context(), utils.GetPrincipal(r.Context()), &req)
	if err != nil {
		utils.ResponseAppError(w, h.log, err, "create review")
		return
	}

	utils.ResponseCreated(w, review)
}

// UpdateReview handles PUT /api/reviews/{id} (owner only)
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateReviewRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ResponseAppError(w, h.log, err, "update review")
		return
	}

	review, err := h.service.UpdateReview(r.Context(), utils.GetPrincipal(r.Context()), chi.URLParam(r, "id"), &req)
	if err != nil {
		utils.ResponseAppError(w, h.log, err, "update review")
		return
	}

	utils.ResponseSuccess(w, review)
}

// PatchReview handles PATCH /api/reviews/{id} (owner only)
func (h *ReviewHandler) PatchReview(w http.ResponseWriter, r *http.Request) {
	var req request.PatchReviewRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ResponseAppError(w, h.log, err, "patch review")
		return
	}

	review, err := h.service.PatchReview(r.Context(), utils.GetPrincipal(r.Context()), chi.URLParam(r, "id"), &req)
	if err != nil {
		utils.ResponseAppError(w, h.log, err, "patch review")
		return
	}

	utils.ResponseSuccess(w, review)
}

// DeleteReview handles DELETE /api/reviews/{id} (owner only)
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteReview(r.Context(), utils.GetPrincipal(r.Context()), chi.URLParam(r, "id")); err != nil {
		utils.ResponseAppError(w, h.log, err, "delete review")
		return
	}

	utils.ResponseNoContent(w)
}
