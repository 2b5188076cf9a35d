package service

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"course-booking/internal/cache"
	"course-booking/internal/events"
	"course-booking/internal/metrics"
	"course-booking/internal/model"
	"course-booking/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Response messages for order operations.
const (
	MessageOrderCreated   = "Order created successfully"
	MessageOrderCancelled = "Order cancelled successfully"

	// DefaultPublishTimeout bounds how long a committed order waits on event delivery.
	DefaultPublishTimeout = 2 * time.Second
)

var (
	namePattern  = regexp.MustCompile(`^[A-Za-z\s]+$`)
	phonePattern = regexp.MustCompile(`^\d{10,}$`)
)

// orderService implements OrderService.
type orderService struct {
	orderRepo  repository.OrderRepository
	lessonRepo repository.LessonRepository
	cache      cache.LessonCache
	publisher  events.Publisher
	metrics    *metrics.Registry
	logger     zerolog.Logger

	publishTimeout time.Duration
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	lessonRepo repository.LessonRepository,
	lessonCache cache.LessonCache,
	publisher events.Publisher,
	registry *metrics.Registry,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:  orderRepo,
		lessonRepo: lessonRepo,
		cache:      lessonCache,
		publisher:  publisher,
		metrics:    registry,
		logger:     logger.With().Str("service", "order").Logger(),

		publishTimeout: DefaultPublishTimeout,
	}
}

// Create validates the request, then stores the order and reserves its
// spaces in one transaction.
func (s *orderService) Create(ctx context.Context, req *model.OrderRequest) (*model.CreateOrderResponse, error) {
	order, err := s.newOrder(req)
	if err != nil {
		s.reject(err)
		return nil, err
	}

	// Start transaction
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.Create(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.lessonRepo.DecrementSpaces(ctx, tx, order.SpaceAdjustments()); err != nil {
		if model.ErrorCode(err) != model.ErrCodeInternalError {
			s.logger.Warn().Err(err).Str("order_id", order.ID.String()).Msg("order rejected")
			s.reject(err)
			return nil, err
		}
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to reserve spaces")
		return nil, fmt.Errorf("failed to reserve spaces: %w", err)
	}

	// Commit transaction
	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.cache.Invalidate(ctx)

	s.metrics.OrdersCreated.Inc()
	for _, line := range order.Lessons {
		s.metrics.SpacesReserved.Add(float64(line.Quantity))
	}

	s.publish(ctx, events.OrderEvent{
		Type:       events.OrderCreated,
		OrderID:    order.ID,
		Order:      order,
		OccurredAt: order.OrderDate,
	})

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Int("line_count", len(order.Lessons)).
		Float64("total", order.Total).
		Msg("order created successfully")

	return &model.CreateOrderResponse{
		Message: MessageOrderCreated,
		OrderID: order.ID,
		Total:   order.Total,
		Order:   order,
	}, nil
}

// newOrder validates the request and builds the order it describes.
// The first violation wins.
func (s *orderService) newOrder(req *model.OrderRequest) (*model.Order, error) {
	if req == nil || req.Name == "" || req.Phone == "" || req.Lessons == nil {
		return nil, model.ErrMissingOrderFields
	}

	name := strings.TrimSpace(req.Name)
	if !namePattern.MatchString(name) {
		return nil, model.ErrInvalidName
	}

	phone := strings.TrimSpace(req.Phone)
	if !phonePattern.MatchString(phone) {
		return nil, model.ErrInvalidPhone
	}

	if len(req.Lessons) == 0 {
		return nil, model.ErrEmptyLessons
	}

	lines := make([]model.OrderLine, len(req.Lessons))
	computed := 0.0
	for i, l := range req.Lessons {
		lessonID, err := uuid.Parse(l.LessonID)
		if err != nil {
			return nil, model.ErrInvalidLessonRef.WithDetail("index", i)
		}

		quantity := l.Quantity
		if quantity == 0 {
			quantity = 1
		}
		if quantity < 0 || quantity > math.MaxInt32 {
			return nil, model.ErrInvalidQuantity.WithDetail("index", i)
		}

		if !model.ValidAmount(l.Price) {
			return nil, model.ErrInvalidPrice.WithDetail("index", i)
		}

		lines[i] = model.OrderLine{
			LessonID: lessonID,
			Subject:  l.Subject,
			Price:    l.Price,
			Image:    l.Image,
			Quantity: quantity,
		}
		computed += l.Price * float64(quantity)
	}

	total := model.RoundAmount(computed)
	if req.Total != nil {
		if !model.ValidAmount(*req.Total) {
			return nil, model.ErrInvalidTotal
		}
		if *req.Total > 0 {
			total = *req.Total
		}
	}
	if total >= model.MaxAmount {
		return nil, model.ErrInvalidTotal
	}

	return &model.Order{
		ID:        uuid.New(),
		Name:      name,
		Phone:     phone,
		Email:     strings.TrimSpace(req.Email),
		Lessons:   lines,
		Total:     total,
		OrderDate: time.Now().UTC(),
		Status:    model.OrderStatusConfirmed,
	}, nil
}

// List retrieves every order, most recent first.
func (s *orderService) List(ctx context.Context) ([]model.Order, error) {
	orders, err := s.orderRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get all orders")
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}

	s.logger.Debug().Int("count", len(orders)).Msg("retrieved orders")

	return orders, nil
}

// Get retrieves a single order by ID.
func (s *orderService) Get(ctx context.Context, id string) (*model.Order, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return nil, model.ErrInvalidOrderID
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	return order, nil
}

// Delete locks the order, restores the spaces of every line and removes the
// order, all in one transaction.
func (s *orderService) Delete(ctx context.Context, id string) (*model.DeleteOrderResponse, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return nil, model.ErrInvalidOrderID
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	order, err := s.orderRepo.GetByIDForUpdate(ctx, tx, orderID)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id).Msg("failed to lock order")
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}
	if order == nil {
		err = model.ErrOrderNotFound
		return nil, err
	}

	adjustments := order.SpaceAdjustments()
	matched, err := s.lessonRepo.IncrementSpaces(ctx, tx, adjustments)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id).Msg("failed to restore spaces")
		return nil, fmt.Errorf("failed to restore spaces: %w", err)
	}
	if matched != len(adjustments) {
		s.logger.Warn().
			Str("order_id", id).
			Int("lessons", len(adjustments)).
			Int("matched", matched).
			Msg("some ordered lessons no longer exist")
	}

	if err = s.orderRepo.Delete(ctx, tx, orderID); err != nil {
		if model.ErrorCode(err) != model.ErrCodeInternalError {
			return nil, err
		}
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", id).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	s.cache.Invalidate(ctx)

	s.metrics.OrdersCancelled.Inc()
	for _, line := range order.Lessons {
		s.metrics.SpacesRestored.Add(float64(line.Quantity))
	}

	s.publish(ctx, events.OrderEvent{
		Type:            events.OrderCancelled,
		OrderID:         order.ID,
		RestoredLessons: len(order.Lessons),
	})

	s.logger.Info().
		Str("order_id", id).
		Int("restored_lessons", len(order.Lessons)).
		Msg("order cancelled successfully")

	return &model.DeleteOrderResponse{
		Message:         MessageOrderCancelled,
		OrderID:         order.ID,
		RestoredLessons: len(order.Lessons),
	}, nil
}

// publish sends an event after commit. Failures are logged; the order change
// already stands. Delivery is bounded by publishTimeout and outlives a
// cancelled request.
func (s *orderService) publish(ctx context.Context, event events.OrderEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn().
			Err(err).
			Str("event_type", event.Type).
			Str("order_id", event.OrderID.String()).
			Msg("order event not delivered")
	}
}

func (s *orderService) reject(err error) {
	s.metrics.OrdersRejected.WithLabelValues(model.ErrorCode(err)).Inc()
}
