package repository

import (
	"context"

	"course-booking/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// LessonRepository defines the interface for lesson data access operations.
type LessonRepository interface {
	// GetAll retrieves every lesson in creation order.
	GetAll(ctx context.Context) ([]model.Lesson, error)

	// GetByID retrieves a single lesson by its ID.
	// Returns nil without error if the lesson does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Lesson, error)

	// Create inserts a new lesson.
	Create(ctx context.Context, lesson *model.Lesson) error

	// Update applies a partial update and returns the resulting lesson.
	// Returns nil without error if the lesson does not exist.
	Update(ctx context.Context, id uuid.UUID, fields model.LessonFields) (*model.Lesson, error)

	// Search returns lessons whose text or numeric fields contain query,
	// ignoring case.
	Search(ctx context.Context, query string) ([]model.Lesson, error)

	// DecrementSpaces reserves spaces within the provided transaction.
	// Adjustments for the same lesson are summed and lessons are locked in
	// ID order. Fails if a lesson does not exist or has fewer spaces than requested.
	DecrementSpaces(ctx context.Context, tx pgx.Tx, adjustments []model.SpaceAdjustment) error

	// IncrementSpaces restores spaces within the provided transaction and
	// returns how many distinct lessons matched an existing row.
	IncrementSpaces(ctx context.Context, tx pgx.Tx, adjustments []model.SpaceAdjustment) (int, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Create inserts a new order with its embedded lines within the provided transaction.
	Create(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// GetAll retrieves every order, most recent first.
	GetAll(ctx context.Context) ([]model.Order, error)

	// GetByID retrieves an order by its ID.
	// Returns nil without error if the order does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetByIDForUpdate retrieves and locks an order within the provided transaction.
	// Returns nil without error if the order does not exist.
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error)

	// Delete removes an order within the provided transaction.
	// Returns model.ErrOrderNotFound if nothing was deleted.
	Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}
