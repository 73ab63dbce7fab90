package adaptor

import (
	"net/http"

	"movie-review/internal/dto/request"
	"movie-review/internal/usecase"
	"movie-review/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log.With(zap.String("handler", "auth")),
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ResponseAppError(w, h.log, err, "register")
		return
	}

	resp, err := h.service.Register(r.Context(), &req)
	if err != nil {
		utils.ResponseAppError(w, h.log, err, "register")
		return
	}

	utils.ResponseCreated(w, resp)
}

// Token handles POST /api/auth/token
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req request.TokenRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ResponseAppError(w, h.log, err, "obtain token")
		return
	}

	resp, err := h.service.Token(r.Context(), &req)
	if err != nil {
		utils.ResponseAppError(w, h.log, err, "obtain token")
		return
	}

	utils.ResponseSuccess(w, resp)
}

// Refresh handles POST /api/auth/token/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req request.RefreshRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ResponseAppError(w, h.log, err, "refresh token")
		return
	}

	resp, err := h.service.Refresh(r.Context(), &req)
	if err != nil {
		utils.ResponseAppError(w, h.log, err, "refresh token")
		return
	}

	utils.ResponseSuccess(w, resp)
}
