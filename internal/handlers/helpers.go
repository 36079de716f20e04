package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bobmcallan/investor-portal/internal/client"
	"github.com/bobmcallan/investor-portal/internal/common"
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method || (method == http.MethodGet && r.Method == http.MethodHead) {
		return true
	}
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	return false
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// logFetchFailure records why an upstream read failed. Every kind renders
// the same error state; only the log tells them apart.
func logFetchFailure(logger *common.Logger, r *http.Request, op string, err error) {
	l := logger.ForContext(r.Context())

	var fetchErr *client.FetchError
	switch {
	case errors.As(err, &fetchErr):
		l.Warn().Str("op", op).Str("path", r.URL.Path).Int("status", fetchErr.StatusCode).Err(err).Msg("investors API returned an error")
	case errors.Is(err, client.ErrResponseTooLarge):
		l.Error().Str("op", op).Str("path", r.URL.Path).Err(err).Msg("response too large")
	case errors.Is(err, client.ErrMalformedResponse):
		l.Error().Str("op", op).Str("path", r.URL.Path).Err(err).Msg("malformed response")
	case errors.Is(err, context.Canceled):
		l.Debug().Str("op", op).Str("path", r.URL.Path).Msg("request cancelled")
	default:
		l.Error().Str("op", op).Str("path", r.URL.Path).Err(err).Msg("investors API unreachable")
	}
}

func loggerOrSilent(logger *common.Logger) *common.Logger {
	if logger == nil {
		return common.NewSilentLogger()
	}
	return logger
}
