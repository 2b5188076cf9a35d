package handler

import (
	"net/http"

	"course-booking/internal/model"
	"course-booking/internal/service"

	"github.com/rs/zerolog"
)

// SearchHandler handles lesson search requests.
type SearchHandler struct {
	service       service.LessonService
	publicBaseURL string
	logger        zerolog.Logger
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(service service.LessonService, publicBaseURL string, logger zerolog.Logger) *SearchHandler {
	return &SearchHandler{
		service:       service,
		publicBaseURL: publicBaseURL,
		logger:        logger.With().Str("handler", "search").Logger(),
	}
}

// Search handles GET /api/search?q= requests.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed, h.logger)
		return
	}

	lessons, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, err, "Search failed", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.NewLessonResponses(baseURL(r, h.publicBaseURL), lessons), h.logger)
}
