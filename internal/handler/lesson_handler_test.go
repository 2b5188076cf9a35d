package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"course-booking/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "http://api.test"

func testLesson() model.Lesson {
	return model.Lesson{
		ID:        uuid.New(),
		Subject:   "Maths",
		Location:  "London",
		Price:     100,
		Spaces:    5,
		Image:     "maths.jpg",
		CreatedAt: time.Now(),
	}
}

func TestLessonHandler_List(t *testing.T) {
	logger := zerolog.Nop()
	lesson := testLesson()

	tests := []struct {
		name           string
		method         string
		mockReturn     []model.Lesson
		mockError      error
		expectedStatus int
		expectedCount  int
		expectService  bool
	}{
		{
			name:           "Success",
			method:         http.MethodGet,
			mockReturn:     []model.Lesson{lesson},
			expectedStatus: http.StatusOK,
			expectedCount:  1,
			expectService:  true,
		},
		{
			name:           "Empty list",
			method:         http.MethodGet,
			mockReturn:     []model.Lesson{},
			expectedStatus: http.StatusOK,
			expectedCount:  0,
			expectService:  true,
		},
		{
			name:           "Service error",
			method:         http.MethodGet,
			mockError:      errors.New("database error"),
			expectedStatus: http.StatusInternalServerError,
			expectService:  true,
		},
		{
			name:           "Method not allowed",
			method:         http.MethodDelete,
			expectedStatus: http.StatusMethodNotAllowed,
			expectService:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockLessonService)
			handler := NewLessonHandler(mockService, testBaseURL, logger)

			if tt.expectService {
				if tt.mockError != nil {
					mockService.On("List", mock.Anything).Return(nil, tt.mockError)
				} else {
					mockService.On("List", mock.Anything).Return(tt.mockReturn, nil)
				}
			}

			req := httptest.NewRequest(tt.method, "/api/lessons", nil)
			w := httptest.NewRecorder()

			handler.List(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusOK {
				var lessons []model.LessonResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &lessons))
				assert.Len(t, lessons, tt.expectedCount)
				assert.Equal(t, "[", string(bytes.TrimSpace(w.Body.Bytes())[:1]), "list is always an array")
				if tt.expectedCount > 0 {
					assert.Equal(t, testBaseURL+"/images/maths.jpg", lessons[0].ImageURL)
					assert.Equal(t, lesson.ID, lessons[0].ID)
				}
			}

			if tt.expectedStatus == http.StatusInternalServerError {
				assert.Equal(t, "Failed to fetch lessons", decodeBody(t, w)["error"])
			}

			if tt.expectService {
				mockService.AssertExpectations(t)
			}
		})
	}
}

func TestLessonHandler_ImageURLFollowsRequestHost(t *testing.T) {
	mockService := new(MockLessonService)
	mockService.On("List", mock.Anything).Return([]model.Lesson{testLesson()}, nil)

	handler := NewLessonHandler(mockService, "", zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "http://localhost:3000/api/lessons", nil)
	w := httptest.NewRecorder()
	handler.List(w, req)

	var lessons []model.LessonResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &lessons))
	require.Len(t, lessons, 1)
	assert.Equal(t, "http://localhost:3000/images/maths.jpg", lessons[0].ImageURL)
}

func TestLessonHandler_GetByID(t *testing.T) {
	logger := zerolog.Nop()
	lesson := testLesson()

	tests := []struct {
		name           string
		method         string
		path           string
		id             string
		mockReturn     *model.Lesson
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Success",
			method:         http.MethodGet,
			path:           "/api/lessons/" + lesson.ID.String(),
			id:             lesson.ID.String(),
			mockReturn:     &lesson,
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Malformed ID",
			method:         http.MethodGet,
			path:           "/api/lessons/123",
			id:             "123",
			mockError:      model.ErrInvalidLessonID,
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
		},
		{
			name:           "Not found",
			method:         http.MethodGet,
			path:           "/api/lessons/" + lesson.ID.String(),
			id:             lesson.ID.String(),
			mockError:      model.ErrLessonNotFound,
			expectedStatus: http.StatusNotFound,
			expectService:  true,
		},
		{
			name:           "Service error",
			method:         http.MethodGet,
			path:           "/api/lessons/" + lesson.ID.String(),
			id:             lesson.ID.String(),
			mockError:      errors.New("database error"),
			expectedStatus: http.StatusInternalServerError,
			expectService:  true,
		},
		{
			name:           "Method not allowed",
			method:         http.MethodPost,
			path:           "/api/lessons/" + lesson.ID.String(),
			expectedStatus: http.StatusMethodNotAllowed,
			expectService:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockLessonService)
			handler := NewLessonHandler(mockService, testBaseURL, logger)

			if tt.expectService {
				if tt.mockError != nil {
					mockService.On("Get", mock.Anything, tt.id).Return(nil, tt.mockError)
				} else {
					mockService.On("Get", mock.Anything, tt.id).Return(tt.mockReturn, nil)
				}
			}

			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			handler.GetByID(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusOK {
				var resp model.LessonResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, lesson.ID, resp.ID)
				assert.Equal(t, "Maths", resp.Subject)
				assert.Equal(t, testBaseURL+"/images/maths.jpg", resp.ImageURL)
			}

			if tt.expectService {
				mockService.AssertExpectations(t)
			}
		})
	}
}

func TestLessonHandler_Create(t *testing.T) {
	logger := zerolog.Nop()
	lesson := testLesson()

	tests := []struct {
		name           string
		method         string
		requestBody    interface{}
		mockReturn     *model.Lesson
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Success",
			method:         http.MethodPost,
			requestBody:    map[string]interface{}{"subject": "Maths", "location": "London", "price": 100},
			mockReturn:     &lesson,
			expectedStatus: http.StatusCreated,
			expectService:  true,
		},
		{
			name:           "Missing fields",
			method:         http.MethodPost,
			requestBody:    map[string]interface{}{"subject": "Maths"},
			mockError:      model.ErrMissingLessonData,
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
		},
		{
			name:           "Invalid JSON",
			method:         http.MethodPost,
			requestBody:    "{not json",
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
		},
		{
			name:           "Price of wrong type",
			method:         http.MethodPost,
			requestBody:    `{"subject":"Maths","location":"London","price":"free"}`,
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
		},
		{
			name:           "Service error",
			method:         http.MethodPost,
			requestBody:    map[string]interface{}{"subject": "Maths", "location": "London", "price": 100},
			mockError:      errors.New("database error"),
			expectedStatus: http.StatusInternalServerError,
			expectService:  true,
		},
		{
			name:           "Method not allowed",
			method:         http.MethodGet,
			expectedStatus: http.StatusMethodNotAllowed,
			expectService:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockLessonService)
			handler := NewLessonHandler(mockService, testBaseURL, logger)

			var body []byte
			if tt.requestBody != nil {
				if str, ok := tt.requestBody.(string); ok {
					body = []byte(str)
				} else {
					var err error
					body, err = json.Marshal(tt.requestBody)
					require.NoError(t, err)
				}
			}

			if tt.expectService {
				if tt.mockError != nil {
					mockService.On("Create", mock.Anything, mock.AnythingOfType("*model.CreateLessonRequest")).Return(nil, tt.mockError)
				} else {
					mockService.On("Create", mock.Anything, mock.AnythingOfType("*model.CreateLessonRequest")).Return(tt.mockReturn, nil)
				}
			}

			req := httptest.NewRequest(tt.method, "/api/lessons", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.Create(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusCreated {
				body := decodeBody(t, w)
				assert.Equal(t, lesson.ID.String(), body["id"])
				assert.Equal(t, testBaseURL+"/images/maths.jpg", body["imageUrl"])
			}

			if tt.expectService {
				mockService.AssertExpectations(t)
			}
		})
	}
}

func TestLessonHandler_Update(t *testing.T) {
	logger := zerolog.Nop()
	lesson := testLesson()
	id := lesson.ID.String()

	tests := []struct {
		name           string
		method         string
		requestBody    string
		expectedFields map[string]interface{}
		mockReturn     *model.Lesson
		mockError      error
		expectedStatus int
		expectService  bool
		expectedBody   map[string]interface{}
	}{
		{
			name:           "Success",
			method:         http.MethodPut,
			requestBody:    `{"spaces": 3, "price": 90.5}`,
			expectedFields: map[string]interface{}{"spaces": float64(3), "price": 90.5},
			mockReturn:     &lesson,
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Invalid updates",
			method:         http.MethodPut,
			requestBody:    `{"instructor": "Smith"}`,
			expectedFields: map[string]interface{}{"instructor": "Smith"},
			mockError:      model.ErrInvalidUpdates,
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
			expectedBody: map[string]interface{}{
				"error":          "Invalid updates",
				"allowedUpdates": []interface{}{"subject", "location", "price", "spaces", "image", "description"},
			},
		},
		{
			name:           "Not found",
			method:         http.MethodPut,
			requestBody:    `{"subject": "Art"}`,
			expectedFields: map[string]interface{}{"subject": "Art"},
			mockError:      model.ErrLessonNotFound,
			expectedStatus: http.StatusNotFound,
			expectService:  true,
		},
		{
			name:           "Array body",
			method:         http.MethodPut,
			requestBody:    `["subject"]`,
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
			expectedBody:   map[string]interface{}{"error": "Invalid request body"},
		},
		{
			name:           "Method not allowed",
			method:         http.MethodPatch,
			requestBody:    `{}`,
			expectedStatus: http.StatusMethodNotAllowed,
			expectService:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockLessonService)
			handler := NewLessonHandler(mockService, testBaseURL, logger)

			if tt.expectService {
				if tt.mockError != nil {
					mockService.On("Update", mock.Anything, id, tt.expectedFields).Return(nil, tt.mockError)
				} else {
					mockService.On("Update", mock.Anything, id, tt.expectedFields).Return(tt.mockReturn, nil)
				}
			}

			req := httptest.NewRequest(tt.method, "/api/lessons/"+id, bytes.NewBufferString(tt.requestBody))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.Update(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != nil {
				assert.Equal(t, tt.expectedBody, decodeBody(t, w))
			}

			if tt.expectService {
				mockService.AssertExpectations(t)
			}
		})
	}
}
