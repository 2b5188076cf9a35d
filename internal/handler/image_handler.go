package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"course-booking/internal/asset"

	"github.com/rs/zerolog"
)

const imagesPath = "/images/"

// ImageNotFoundResponse is returned when a requested image does not exist.
type ImageNotFoundResponse struct {
	Error           string   `json:"error"`
	Message         string   `json:"message"`
	SuggestedImages []string `json:"suggestedImages"`
}

// ImageHandler serves lesson images.
type ImageHandler struct {
	store     asset.Store
	suggested []string
	logger    zerolog.Logger
}

// NewImageHandler creates a new image handler.
func NewImageHandler(store asset.Store, suggested []string, logger zerolog.Logger) *ImageHandler {
	return &ImageHandler{
		store:     store,
		suggested: suggested,
		logger:    logger.With().Str("handler", "image").Logger(),
	}
}

// Serve handles GET /images/{filename} requests.
func (h *ImageHandler) Serve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed, h.logger)
		return
	}

	name := strings.TrimPrefix(r.URL.Path, imagesPath)

	img, err := h.store.Open(r.Context(), name)
	if err != nil {
		if errors.Is(err, asset.ErrNotFound) {
			h.logger.Info().Str("image", r.URL.Path).Msg("image not found")
			writeJSON(w, http.StatusNotFound, ImageNotFoundResponse{
				Error:           "Image not found",
				Message:         "The requested image " + r.URL.Path + " does not exist",
				SuggestedImages: h.suggested,
			}, h.logger)
			return
		}
		writeServiceError(w, err, "Failed to load image", h.logger)
		return
	}
	defer img.Body.Close()

	w.Header().Set("Content-Type", img.ContentType)
	if img.Size >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(img.Size, 10))
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)

	if r.Method == http.MethodHead {
		return
	}

	if _, err := io.Copy(w, img.Body); err != nil {
		h.logger.Warn().Err(err).Str("image", name).Msg("failed to stream image")
	}
}
