package utils

import (
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// ErrorBody is the payload nested under "error" in every wrapped failure.
type ErrorBody struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Details    any    `json:"details"`
}

type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

// ResponseJSON writes data as JSON with the given status code.
func ResponseJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data == nil {
		return
	}
	json.NewEncoder(w).Encode(data)
}

// ------------- Success responses -------------

// returns 200 OK
func ResponseSuccess(w http.ResponseWriter, data any) {
	ResponseJSON(w, http.StatusOK, data)
}

// returns 201 Created
func ResponseCreated(w http.ResponseWriter, data any) {
	ResponseJSON(w, http.StatusCreated, data)
}

// returns 204 No Content
func ResponseNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// ------------- Error responses -------------

// ResponseError writes the error envelope and logs it.
func ResponseError(w http.ResponseWriter, log *zap.Logger, status int, details any) {
	log.Warn("API error",
		zap.Int("status_code", status),
		zap.Any("details", details),
	)

	ResponseJSON(w, status, ErrorEnvelope{
		Error: ErrorBody{
			StatusCode: status,
			Message:    "An error occurred",
			Details:    details,
		},
	})
}

// ResponseAppError writes err as an envelope. Errors without an *AppError
// in their chain become a 500 and are logged with their cause.
func ResponseAppError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	if appErr, ok := AsAppError(err); ok {
		if appErr.Status == http.StatusUnauthorized {
			w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
		}
		if appErr.Raw {
			log.Warn("API error",
				zap.String("operation", operation),
				zap.Int("status_code", appErr.Status),
				zap.Any("details", appErr.Details),
			)
			ResponseJSON(w, appErr.Status, appErr.Details)
			return
		}
		ResponseError(w, log.With(zap.String("operation", operation)), appErr.Status, appErr.Details)
		return
	}

	log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
	ResponseInternalError(w, log)
}

// returns 401 Unauthorized
func ResponseUnauthorized(w http.ResponseWriter, log *zap.Logger, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	ResponseError(w, log, http.StatusUnauthorized, detail(msg))
}

// returns 403 Forbidden
func ResponseForbidden(w http.ResponseWriter, log *zap.Logger) {
	ResponseError(w, log, http.StatusForbidden, Forbidden().Details)
}

// returns 404 Not Found
func ResponseNotFound(w http.ResponseWriter, log *zap.Logger) {
	ResponseError(w, log, http.StatusNotFound, NotFound().Details)
}

// returns 500 Internal Server Error
func ResponseInternalError(w http.ResponseWriter, log *zap.Logger) {
	ResponseError(w, log, http.StatusInternalServerError, detail("A server error occurred."))
}

// DecodeJSON decodes the request body into dst. An empty body leaves dst
// untouched so that field validation reports what is missing.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return BadRequest("JSON parse error - " + err.Error())
}
