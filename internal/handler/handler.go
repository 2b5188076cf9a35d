package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"course-booking/internal/model"

	"github.com/rs/zerolog"
)

// Messages shared by every handler.
const (
	msgMethodNotAllowed   = "Method not allowed"
	msgInvalidRequestBody = "Invalid request body"
)

// writeJSON writes a JSON response with the given status code. The status
// is already sent when encoding fails, so the failure is only logged.
func writeJSON(w http.ResponseWriter, status int, data interface{}, logger zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error().Err(err).Int("status", status).Msg("failed to encode response body")
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Warn().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: message}, logger)
}

// writeServiceError maps err to a response. Domain errors carry their own
// status and message; anything else is a 500 with the fallback message.
func writeServiceError(w http.ResponseWriter, err error, fallback string, logger zerolog.Logger) {
	var de *model.DomainError
	if !errors.As(err, &de) {
		logger.Error().Err(err).Int("status", http.StatusInternalServerError).Msg(fallback)
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{Error: fallback}, logger)
		return
	}

	status := statusFor(de.Code)
	logger.Warn().Str("error", de.Message).Int("status", status).Msg("request rejected")

	body := make(map[string]interface{}, len(de.Details)+1)
	for k, v := range de.Details {
		body[k] = v
	}
	body["error"] = de.Message

	writeJSON(w, status, body, logger)
}

// statusFor maps a domain error code to an HTTP status.
func statusFor(code string) int {
	switch code {
	case model.ErrCodeInvalidArgument:
		return http.StatusBadRequest
	case model.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// pathID returns the path segment after prefix, without a trailing slash.
func pathID(r *http.Request, prefix string) string {
	return strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, prefix), "/")
}

// baseURL returns the configured public URL, or one derived from the request.
func baseURL(r *http.Request, configured string) string {
	if configured != "" {
		return configured
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}

	host := r.Host
	if fwd := r.Header.Get("X-Forwarded-Host"); fwd != "" {
		host = strings.TrimSpace(strings.Split(fwd, ",")[0])
	}

	return scheme + "://" + host
}
