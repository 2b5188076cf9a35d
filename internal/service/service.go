package service

import (
	"context"

	"course-booking/internal/model"
)

// LessonService defines operations for lesson management.
type LessonService interface {
	// List retrieves every lesson in creation order.
	List(ctx context.Context) ([]model.Lesson, error)

	// Get retrieves a single lesson by ID.
	Get(ctx context.Context, id string) (*model.Lesson, error)

	// Create validates and stores a new lesson, applying defaults.
	Create(ctx context.Context, req *model.CreateLessonRequest) (*model.Lesson, error)

	// Update applies a partial update of allow-listed fields.
	// Updates holds the decoded JSON object of the request body.
	Update(ctx context.Context, id string, updates map[string]interface{}) (*model.Lesson, error)

	// Search returns lessons matching query in any text or numeric field.
	Search(ctx context.Context, query string) ([]model.Lesson, error)
}

// OrderService defines operations for order management.
type OrderService interface {
	// Create places an order and reserves the spaces it books.
	Create(ctx context.Context, req *model.OrderRequest) (*model.CreateOrderResponse, error)

	// List retrieves every order, most recent first.
	List(ctx context.Context) ([]model.Order, error)

	// Get retrieves a single order by ID.
	Get(ctx context.Context, id string) (*model.Order, error)

	// Delete cancels an order and restores the spaces it booked.
	Delete(ctx context.Context, id string) (*model.DeleteOrderResponse, error)
}
