package middleware

import (
	"net/http"
	"strconv"
	"time"

	"movie-review/pkg/utils"

	"github.com/go-chi/httprate"
	"go.uber.org/zap"
)

// RateLimit limits each client IP to requests per window. A non-positive
// requests disables the limit.
func RateLimit(requests int, window time.Duration, logger *zap.Logger) func(http.Handler) http.Handler {
	if requests <= 0 || window <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
			utils.ResponseError(w, logger, http.StatusTooManyRequests,
				map[string]string{"detail": "Request was throttled."})
		}),
	)
}
