package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"course-booking/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSearchHandler_Search(t *testing.T) {
	logger := zerolog.Nop()
	lesson := testLesson()

	tests := []struct {
		name           string
		method         string
		target         string
		query          string
		mockReturn     []model.Lesson
		mockError      error
		expectedStatus int
		expectedCount  int
		expectService  bool
	}{
		{
			name:           "Match",
			method:         http.MethodGet,
			target:         "/api/search?q=maths",
			query:          "maths",
			mockReturn:     []model.Lesson{lesson},
			expectedStatus: http.StatusOK,
			expectedCount:  1,
			expectService:  true,
		},
		{
			name:           "Escaped query",
			method:         http.MethodGet,
			target:         "/api/search?q=100%25",
			query:          "100%",
			mockReturn:     []model.Lesson{},
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Missing query",
			method:         http.MethodGet,
			target:         "/api/search",
			query:          "",
			mockReturn:     []model.Lesson{},
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Service error",
			method:         http.MethodGet,
			target:         "/api/search?q=x",
			query:          "x",
			mockError:      errors.New("database error"),
			expectedStatus: http.StatusInternalServerError,
			expectService:  true,
		},
		{
			name:           "Method not allowed",
			method:         http.MethodPost,
			target:         "/api/search?q=x",
			expectedStatus: http.StatusMethodNotAllowed,
			expectService:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockLessonService)
			handler := NewSearchHandler(mockService, testBaseURL, logger)

			if tt.expectService {
				if tt.mockError != nil {
					mockService.On("Search", mock.Anything, tt.query).Return(nil, tt.mockError)
				} else {
					mockService.On("Search", mock.Anything, tt.query).Return(tt.mockReturn, nil)
				}
			}

			req := httptest.NewRequest(tt.method, tt.target, nil)
			w := httptest.NewRecorder()

			handler.Search(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusOK {
				var lessons []model.LessonResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &lessons))
				assert.NotNil(t, lessons)
				assert.Len(t, lessons, tt.expectedCount)
			}

			if tt.expectedStatus == http.StatusInternalServerError {
				assert.Equal(t, "Search failed", decodeBody(t, w)["error"])
			}

			if tt.expectService {
				mockService.AssertExpectations(t)
			}
		})
	}
}
