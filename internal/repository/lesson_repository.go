package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"course-booking/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const lessonColumns = `id, subject, location, price, spaces, image, description, created_at`

// lessonRepository implements the LessonRepository interface using PostgreSQL.
type lessonRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewLessonRepository creates a new PostgreSQL-backed lesson repository.
func NewLessonRepository(pool *pgxpool.Pool, logger zerolog.Logger) LessonRepository {
	return &lessonRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "lesson").Logger(),
	}
}

func scanLesson(row scanner) (model.Lesson, error) {
	var l model.Lesson
	err := row.Scan(&l.ID, &l.Subject, &l.Location, &l.Price, &l.Spaces, &l.Image, &l.Description, &l.CreatedAt)
	return l, err
}

// collectLessons drains rows into a non-nil slice.
func (r *lessonRepository) collectLessons(rows pgx.Rows) ([]model.Lesson, error) {
	defer rows.Close()

	lessons := []model.Lesson{}
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan lesson row")
			return nil, fmt.Errorf("failed to scan lesson: %w", err)
		}
		lessons = append(lessons, l)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating lesson rows")
		return nil, fmt.Errorf("error iterating lessons: %w", err)
	}

	return lessons, nil
}

// GetAll retrieves every lesson in creation order.
func (r *lessonRepository) GetAll(ctx context.Context) ([]model.Lesson, error) {
	query := `
		SELECT ` + lessonColumns + `
		FROM lessons
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query lessons")
		return nil, fmt.Errorf("failed to query lessons: %w", err)
	}

	return r.collectLessons(rows)
}

// GetByID retrieves a single lesson by its ID.
func (r *lessonRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Lesson, error) {
	query := `
		SELECT ` + lessonColumns + `
		FROM lessons
		WHERE id = $1
	`

	l, err := scanLesson(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("lesson_id", id.String()).Msg("lesson not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("lesson_id", id.String()).Msg("failed to query lesson")
		return nil, fmt.Errorf("failed to query lesson: %w", err)
	}

	return &l, nil
}

// Create inserts a new lesson.
func (r *lessonRepository) Create(ctx context.Context, lesson *model.Lesson) error {
	query := `
		INSERT INTO lessons (` + lessonColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		lesson.ID,
		lesson.Subject,
		lesson.Location,
		lesson.Price,
		lesson.Spaces,
		lesson.Image,
		lesson.Description,
		lesson.CreatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("lesson_id", lesson.ID.String()).Msg("failed to create lesson")
		return fmt.Errorf("failed to create lesson: %w", err)
	}

	r.logger.Debug().Str("lesson_id", lesson.ID.String()).Msg("lesson created successfully")

	return nil
}

// Update applies a partial update and returns the resulting lesson.
// Column names come from model.AllowedLessonUpdates only; values are bound.
func (r *lessonRepository) Update(ctx context.Context, id uuid.UUID, fields model.LessonFields) (*model.Lesson, error) {
	args := []any{id}
	assignments := make([]string, 0, len(fields))
	for _, column := range model.AllowedLessonUpdates {
		value, ok := fields[column]
		if !ok {
			continue
		}
		args = append(args, value)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if len(assignments) == 0 {
		return nil, model.ErrNoFieldsToUpdate
	}

	query := `
		UPDATE lessons
		SET ` + strings.Join(assignments, ", ") + `
		WHERE id = $1
		RETURNING ` + lessonColumns

	l, err := scanLesson(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("lesson_id", id.String()).Msg("lesson not found for update")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("lesson_id", id.String()).Msg("failed to update lesson")
		return nil, fmt.Errorf("failed to update lesson: %w", err)
	}

	r.logger.Debug().
		Str("lesson_id", id.String()).
		Int("field_count", len(assignments)).
		Msg("lesson updated successfully")

	return &l, nil
}

// escapeLike makes every character of s match literally in a LIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Search returns lessons whose subject, location, description, price or
// spaces contain query, ignoring case. Numbers are compared in their decimal
// text form without trailing zeros, so a price of 25.00 reads as "25".
func (r *lessonRepository) Search(ctx context.Context, query string) ([]model.Lesson, error) {
	sql := `
		SELECT ` + lessonColumns + `
		FROM lessons
		WHERE subject ILIKE $1
			OR location ILIKE $1
			OR description ILIKE $1
			OR trim_scale(price)::text ILIKE $1
			OR spaces::text ILIKE $1
		ORDER BY created_at, id
	`

	pattern := "%" + escapeLike(query) + "%"

	rows, err := r.pool.Query(ctx, sql, pattern)
	if err != nil {
		r.logger.Error().Err(err).Str("query", query).Msg("failed to search lessons")
		return nil, fmt.Errorf("failed to search lessons: %w", err)
	}

	lessons, err := r.collectLessons(rows)
	if err != nil {
		return nil, err
	}

	r.logger.Debug().
		Str("query", query).
		Int("count", len(lessons)).
		Msg("lesson search completed")

	return lessons, nil
}

// DecrementSpaces reserves spaces within the provided transaction. Each
// adjustment is a single conditional UPDATE so concurrent reservations of the
// same lesson never lose an update or drive spaces below zero. Lessons are
// updated in ID order.
func (r *lessonRepository) DecrementSpaces(ctx context.Context, tx pgx.Tx, adjustments []model.SpaceAdjustment) error {
	if len(adjustments) == 0 {
		return nil
	}
	adjustments = model.MergeSpaceAdjustments(adjustments)

	query := `
		UPDATE lessons
		SET spaces = spaces - $2
		WHERE id = $1 AND spaces >= $2
	`

	batch := &pgx.Batch{}
	for _, adj := range adjustments {
		batch.Queue(query, adj.LessonID, adj.Quantity)
	}

	results := tx.SendBatch(ctx, batch)

	failed := -1
	for i := range adjustments {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			r.logger.Error().
				Err(err).
				Str("lesson_id", adjustments[i].LessonID.String()).
				Msg("failed to decrement lesson spaces")
			return fmt.Errorf("failed to decrement lesson spaces: %w", err)
		}
		if tag.RowsAffected() == 0 && failed < 0 {
			failed = i
		}
	}

	if err := results.Close(); err != nil {
		r.logger.Error().Err(err).Msg("failed to close decrement batch")
		return fmt.Errorf("failed to decrement lesson spaces: %w", err)
	}

	if failed >= 0 {
		return r.explainDecrementFailure(ctx, tx, adjustments[failed])
	}

	r.logger.Debug().
		Int("count", len(adjustments)).
		Msg("lesson spaces decremented")

	return nil
}

// explainDecrementFailure tells a missing lesson apart from a full one.
func (r *lessonRepository) explainDecrementFailure(ctx context.Context, tx pgx.Tx, adj model.SpaceAdjustment) error {
	var spaces int
	err := tx.QueryRow(ctx, `SELECT spaces FROM lessons WHERE id = $1`, adj.LessonID).Scan(&spaces)
	if errors.Is(err, pgx.ErrNoRows) {
		r.logger.Warn().Str("lesson_id", adj.LessonID.String()).Msg("ordered lesson does not exist")
		return model.ErrOrderedLessonNotFound.WithDetail("lessonId", adj.LessonID.String())
	}
	if err != nil {
		r.logger.Error().Err(err).Str("lesson_id", adj.LessonID.String()).Msg("failed to query lesson spaces")
		return fmt.Errorf("failed to query lesson spaces: %w", err)
	}

	r.logger.Warn().
		Str("lesson_id", adj.LessonID.String()).
		Int("available", spaces).
		Int("requested", adj.Quantity).
		Msg("not enough spaces")

	return model.ErrInsufficientSpaces.
		WithDetail("lessonId", adj.LessonID.String()).
		WithDetail("available", spaces).
		WithDetail("requested", adj.Quantity)
}

// IncrementSpaces restores spaces within the provided transaction, updating
// lessons in ID order. The count is of distinct lessons.
func (r *lessonRepository) IncrementSpaces(ctx context.Context, tx pgx.Tx, adjustments []model.SpaceAdjustment) (int, error) {
	if len(adjustments) == 0 {
		return 0, nil
	}
	adjustments = model.MergeSpaceAdjustments(adjustments)

	query := `
		UPDATE lessons
		SET spaces = spaces + $2
		WHERE id = $1
	`

	batch := &pgx.Batch{}
	for _, adj := range adjustments {
		batch.Queue(query, adj.LessonID, adj.Quantity)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	restored := 0
	for i := range adjustments {
		tag, err := results.Exec()
		if err != nil {
			r.logger.Error().
				Err(err).
				Str("lesson_id", adjustments[i].LessonID.String()).
				Msg("failed to increment lesson spaces")
			return 0, fmt.Errorf("failed to increment lesson spaces: %w", err)
		}
		if tag.RowsAffected() == 0 {
			r.logger.Warn().
				Str("lesson_id", adjustments[i].LessonID.String()).
				Msg("lesson to restore no longer exists")
			continue
		}
		restored++
	}

	r.logger.Debug().
		Int("requested", len(adjustments)).
		Int("restored", restored).
		Msg("lesson spaces incremented")

	return restored, nil
}
