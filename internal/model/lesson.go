package model

import (
	"net/url"
	"time"

	"github.com/google/uuid"
)

// Defaults applied when a lesson is created without the field.
const (
	DefaultLessonSpaces = 5
	DefaultLessonImage  = "default-lesson.jpg"
)

// AllowedLessonUpdates lists the fields a partial lesson update may touch.
var AllowedLessonUpdates = []string{"subject", "location", "price", "spaces", "image", "description"}

// Lesson represents a bookable course offering.
type Lesson struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Subject     string    `json:"subject" db:"subject"`
	Location    string    `json:"location" db:"location"`
	Price       float64   `json:"price" db:"price"`
	Spaces      int       `json:"spaces" db:"spaces"`
	Image       string    `json:"image" db:"image"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// LessonFields holds validated column values for a partial lesson update.
// Keys are members of AllowedLessonUpdates.
type LessonFields map[string]interface{}

// CreateLessonRequest represents the request payload for creating a lesson.
type CreateLessonRequest struct {
	Subject     string   `json:"subject"`
	Location    string   `json:"location"`
	Price       *float64 `json:"price"`
	Spaces      *int     `json:"spaces,omitempty"`
	Image       string   `json:"image,omitempty"`
	Description string   `json:"description,omitempty"`
}

// LessonResponse is a lesson annotated with the URL of its image.
type LessonResponse struct {
	Lesson
	ImageURL string `json:"imageUrl"`
}

// ImageURL builds the public URL of an image served under /images/.
func ImageURL(baseURL, image string) string {
	return baseURL + "/images/" + url.PathEscape(image)
}

// NewLessonResponse annotates a lesson with its image URL.
func NewLessonResponse(baseURL string, lesson Lesson) LessonResponse {
	return LessonResponse{
		Lesson:   lesson,
		ImageURL: ImageURL(baseURL, lesson.Image),
	}
}

// NewLessonResponses annotates every lesson; the result is never nil.
func NewLessonResponses(baseURL string, lessons []Lesson) []LessonResponse {
	out := make([]LessonResponse, 0, len(lessons))
	for _, l := range lessons {
		out = append(out, NewLessonResponse(baseURL, l))
	}
	return out
}
