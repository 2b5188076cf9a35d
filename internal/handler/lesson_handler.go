package handler

import (
	"encoding/json"
	"net/http"

	"course-booking/internal/model"
	"course-booking/internal/service"

	"github.com/rs/zerolog"
)

const lessonsPath = "/api/lessons/"

// LessonHandler handles lesson-related HTTP requests.
type LessonHandler struct {
	service       service.LessonService
	publicBaseURL string
	logger        zerolog.Logger
}

// NewLessonHandler creates a new lesson handler. An empty publicBaseURL makes
// image URLs follow the request host.
func NewLessonHandler(service service.LessonService, publicBaseURL string, logger zerolog.Logger) *LessonHandler {
	return &LessonHandler{
		service:       service,
		publicBaseURL: publicBaseURL,
		logger:        logger.With().Str("handler", "lesson").Logger(),
	}
}

// List handles GET /api/lessons requests.
func (h *LessonHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed, h.logger)
		return
	}

	lessons, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err, "Failed to fetch lessons", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.NewLessonResponses(baseURL(r, h.publicBaseURL), lessons), h.logger)
}

// Create handles POST /api/lessons requests.
func (h *LessonHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed, h.logger)
		return
	}

	var req model.CreateLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidRequestBody, h.logger)
		return
	}

	lesson, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "Failed to create lesson", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, model.NewLessonResponse(baseURL(r, h.publicBaseURL), *lesson), h.logger)
}

// GetByID handles GET /api/lessons/{id} requests.
func (h *LessonHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed, h.logger)
		return
	}

	lesson, err := h.service.Get(r.Context(), pathID(r, lessonsPath))
	if err != nil {
		writeServiceError(w, err, "Failed to fetch lesson", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.NewLessonResponse(baseURL(r, h.publicBaseURL), *lesson), h.logger)
}

// Update handles PUT /api/lessons/{id} requests.
func (h *LessonHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed, h.logger)
		return
	}

	var updates map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidRequestBody, h.logger)
		return
	}

	lesson, err := h.service.Update(r.Context(), pathID(r, lessonsPath), updates)
	if err != nil {
		writeServiceError(w, err, "Failed to update lesson", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.NewLessonResponse(baseURL(r, h.publicBaseURL), *lesson), h.logger)
}
