package adaptor

import (
	"net/http"

	"movie-review/internal/dto/request"
	"movie-review/internal/usecase"
	"movie-review/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type UserHandler struct {
	service  usecase.UserService
	pageSize int
	log      *zap.Logger
}

func NewUserHandler(service usecase.UserService, pageSize int, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service:  service,
		pageSize: pageSize,
		log:      log.With(zap.String("handler", "user")),
	}
}

// GetAllUsers handles GET /api/users
func (h *UserHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	q := &request.UserListQuery{
		Page:    request.ParsePageRequest(r.URL.Query(), h.pageSize),
		BaseURL: utils.AbsoluteURL(r),
	}

	users, err := h.service.GetAllUsers(r.Context(), utils.GetPrincipal(r.Context()), q)
	if err != nil {
		utils.ResponseAppError(w, h.log, err, "list users")
		return
	}

	utils.ResponseSuccess(w, users)
}

// GetProfile handles GET /api/users/{id}
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetProfile(r.Context(), utils.GetPrincipal(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseAppError(w, h.log, err, "get user")
		return
	}

	utils.ResponseSuccess(w, user)
}

// DeleteUser handles DELETE /api/users/{id} (staff only)
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteUser(r.Context(), utils.GetPrincipal(r.Context()), chi.URLParam(r, "id")); err != nil {
		utils.ResponseAppError(w, h.log, err, "delete user")
		return
	}

	utils.ResponseNoContent(w)
}
