package middleware

import (
	"context"
	"net/http"
	"strings"

	"movie-review/pkg/utils"

	"go.uber.org/zap"
)

// Authenticator resolves a bearer access token to a principal.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*utils.Principal, error)
}

// Authenticate attaches the principal of a Bearer token to the request.
// Requests without one continue anonymously; a token that fails to
// resolve is rejected with 401 whatever the method.
func Authenticate(auth Authenticator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.Fields(authHeader)
			if len(parts) == 0 || !strings.EqualFold(parts[0], "Bearer") {
				// Other schemes are not ours to judge.
				next.ServeHTTP(w, r)
				return
			}
			if len(parts) != 2 {
				utils.ResponseUnauthorized(w, logger, "Authorization header must contain two space-delimited values")
				return
			}

			principal, err := auth.Authenticate(r.Context(), parts[1])
			if err != nil {
				logger.Warn("Bearer token rejected",
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				utils.ResponseAppError(w, logger, err, "authenticate")
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.SetPrincipal(r.Context(), principal)))
		})
	}
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !utils.GetPrincipal(r.Context()).IsAuthenticated() {
				utils.ResponseAppError(w, logger, utils.NotAuthenticated(), "require auth")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Admin - rejects anonymous callers with 401 and non-staff with 403.
func Admin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := utils.GetPrincipal(r.Context())
			if !principal.IsAuthenticated() {
				utils.ResponseAppError(w, logger, utils.NotAuthenticated(), "admin check")
				return
			}

			if !principal.IsStaff {
				logger.Warn("Admin check: non-staff access attempt",
					zap.String("user_id", principal.UserID.String()),
					zap.String("path", r.URL.Path),
				)
				utils.ResponseForbidden(w, logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
