package handler

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// isoTimestamp matches the millisecond UTC timestamps clients expect.
const isoTimestamp = "2006-01-02T15:04:05.000Z"

// AvailableEndpoints is listed in the root and route-not-found responses.
var AvailableEndpoints = []string{
	"GET /api/lessons",
	"GET /api/lessons/:id",
	"POST /api/lessons",
	"PUT /api/lessons/:id",
	"GET /api/orders",
	"GET /api/orders/:id",
	"POST /api/orders",
	"DELETE /api/orders/:id",
	"GET /api/search?q=query",
	"GET /images/filename.jpg",
	"GET /health",
	"GET /metrics",
}

// InfoResponse describes the API at its root path.
type InfoResponse struct {
	Message   string   `json:"message"`
	Endpoints []string `json:"endpoints"`
	Timestamp string   `json:"timestamp"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
}

// RouteNotFoundResponse is returned for paths no route serves.
type RouteNotFoundResponse struct {
	Error              string   `json:"error"`
	Message            string   `json:"message"`
	AvailableEndpoints []string `json:"availableEndpoints"`
}

// SystemHandler serves the root, health and fallback routes.
type SystemHandler struct {
	started time.Time
	now     func() time.Time
	logger  zerolog.Logger
}

// NewSystemHandler creates a system handler; uptime is measured from started.
func NewSystemHandler(started time.Time, logger zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		started: started,
		now:     time.Now,
		logger:  logger.With().Str("handler", "system").Logger(),
	}
}

// Root handles GET / requests.
func (h *SystemHandler) Root(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, InfoResponse{
		Message:   "Course Booking API is running!",
		Endpoints: AvailableEndpoints,
		Timestamp: h.now().UTC().Format(isoTimestamp),
	}, h.logger)
}

// Health handles GET /health requests.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed, h.logger)
		return
	}

	now := h.now()
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "OK",
		Timestamp: now.UTC().Format(isoTimestamp),
		Uptime:    now.Sub(h.started).Seconds(),
	}, h.logger)
}

// NotFound handles requests that match no route.
func (h *SystemHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug().Str("method", r.Method).Str("path", r.URL.Path).Msg("route not found")

	writeJSON(w, http.StatusNotFound, RouteNotFoundResponse{
		Error:              "Route not found",
		Message:            "The route " + r.Method + " " + r.URL.RequestURI() + " does not exist",
		AvailableEndpoints: AvailableEndpoints,
	}, h.logger)
}
