package service

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"course-booking/internal/cache"
	"course-booking/internal/model"
	"course-booking/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// lessonService implements LessonService.
type lessonService struct {
	lessonRepo repository.LessonRepository
	cache      cache.LessonCache
	logger     zerolog.Logger
}

// NewLessonService creates a new lesson service.
func NewLessonService(lessonRepo repository.LessonRepository, lessonCache cache.LessonCache, logger zerolog.Logger) LessonService {
	return &lessonService{
		lessonRepo: lessonRepo,
		cache:      lessonCache,
		logger:     logger.With().Str("service", "lesson").Logger(),
	}
}

// List retrieves every lesson, serving from the cache when possible.
func (s *lessonService) List(ctx context.Context) ([]model.Lesson, error) {
	lessons, generation, ok := s.cache.GetLessons(ctx)
	if ok {
		return lessons, nil
	}

	lessons, err := s.lessonRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get all lessons")
		return nil, fmt.Errorf("failed to get lessons: %w", err)
	}

	s.cache.SetLessons(ctx, generation, lessons)

	s.logger.Debug().Int("count", len(lessons)).Msg("retrieved lessons")

	return lessons, nil
}

// Get retrieves a single lesson by ID.
func (s *lessonService) Get(ctx context.Context, id string) (*model.Lesson, error) {
	lessonID, err := uuid.Parse(id)
	if err != nil {
		s.logger.Debug().Str("lesson_id", id).Msg("malformed lesson ID")
		return nil, model.ErrInvalidLessonID
	}

	lesson, err := s.lessonRepo.GetByID(ctx, lessonID)
	if err != nil {
		s.logger.Error().Err(err).Str("lesson_id", id).Msg("failed to get lesson")
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}

	if lesson == nil {
		return nil, model.ErrLessonNotFound
	}

	return lesson, nil
}

// Create validates the request, applies defaults and stores the lesson.
func (s *lessonService) Create(ctx context.Context, req *model.CreateLessonRequest) (*model.Lesson, error) {
	if req == nil {
		return nil, model.ErrMissingLessonData
	}

	subject := strings.TrimSpace(req.Subject)
	location := strings.TrimSpace(req.Location)
	if subject == "" || location == "" || req.Price == nil {
		return nil, model.ErrMissingLessonData
	}

	if !model.ValidAmount(*req.Price) {
		return nil, model.ErrInvalidPrice
	}

	spaces := model.DefaultLessonSpaces
	if req.Spaces != nil {
		if *req.Spaces < 0 || *req.Spaces > math.MaxInt32 {
			return nil, model.ErrInvalidSpaces
		}
		spaces = *req.Spaces
	}

	image := strings.TrimSpace(req.Image)
	if image == "" {
		image = model.DefaultLessonImage
	}

	lesson := &model.Lesson{
		ID:          uuid.New(),
		Subject:     subject,
		Location:    location,
		Price:       *req.Price,
		Spaces:      spaces,
		Image:       image,
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.lessonRepo.Create(ctx, lesson); err != nil {
		s.logger.Error().Err(err).Str("subject", subject).Msg("failed to create lesson")
		return nil, fmt.Errorf("failed to create lesson: %w", err)
	}

	s.cache.Invalidate(ctx)

	s.logger.Info().
		Str("lesson_id", lesson.ID.String()).
		Str("subject", lesson.Subject).
		Int("spaces", lesson.Spaces).
		Msg("lesson created successfully")

	return lesson, nil
}

// Update validates a partial update and applies it.
func (s *lessonService) Update(ctx context.Context, id string, updates map[string]interface{}) (*model.Lesson, error) {
	lessonID, err := uuid.Parse(id)
	if err != nil {
		return nil, model.ErrInvalidLessonID
	}

	fields, err := lessonFields(updates)
	if err != nil {
		s.logger.Debug().Err(err).Str("lesson_id", id).Msg("rejected lesson update")
		return nil, err
	}

	lesson, err := s.lessonRepo.Update(ctx, lessonID, fields)
	if err != nil {
		if model.ErrorCode(err) != model.ErrCodeInternalError {
			return nil, err
		}
		s.logger.Error().Err(err).Str("lesson_id", id).Msg("failed to update lesson")
		return nil, fmt.Errorf("failed to update lesson: %w", err)
	}

	if lesson == nil {
		return nil, model.ErrLessonNotFound
	}

	s.cache.Invalidate(ctx)

	s.logger.Info().
		Str("lesson_id", id).
		Int("field_count", len(fields)).
		Msg("lesson updated successfully")

	return lesson, nil
}

// lessonFields checks every key against the allow-list and converts each
// decoded JSON value into its column type.
func lessonFields(updates map[string]interface{}) (model.LessonFields, error) {
	if len(updates) == 0 {
		return nil, model.ErrNoFieldsToUpdate
	}

	for key := range updates {
		if !slices.Contains(model.AllowedLessonUpdates, key) {
			return nil, model.ErrInvalidUpdates
		}
	}

	fields := make(model.LessonFields, len(updates))
	for key, value := range updates {
		switch key {
		case "price":
			price, ok := value.(float64)
			if !ok || !model.ValidAmount(price) {
				return nil, model.ErrInvalidPrice
			}
			fields[key] = price
		case "spaces":
			spaces, ok := value.(float64)
			if !ok || spaces < 0 || spaces != math.Trunc(spaces) || spaces > math.MaxInt32 {
				return nil, model.ErrInvalidSpaces
			}
			fields[key] = int(spaces)
		default:
			text, ok := value.(string)
			if !ok {
				return nil, model.ErrInvalidFieldValue.WithDetail("field", key)
			}
			if key == "subject" || key == "location" {
				text = strings.TrimSpace(text)
				if text == "" {
					return nil, model.ErrInvalidFieldValue.WithDetail("field", key)
				}
			}
			fields[key] = text
		}
	}

	return fields, nil
}

// Search returns lessons matching the trimmed query. An empty query matches
// nothing and does not reach the repository.
func (s *lessonService) Search(ctx context.Context, query string) ([]model.Lesson, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.Lesson{}, nil
	}

	lessons, err := s.lessonRepo.Search(ctx, query)
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Msg("failed to search lessons")
		return nil, fmt.Errorf("failed to search lessons: %w", err)
	}

	s.logger.Debug().
		Str("query", query).
		Int("count", len(lessons)).
		Msg("searched lessons")

	return lessons, nil
}
