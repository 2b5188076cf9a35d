package model

import (
	"bytes"
	"slices"
	"time"

	"github.com/google/uuid"
)

// OrderStatusConfirmed is the only status an order ever has.
const OrderStatusConfirmed = "confirmed"

// Order represents a customer's reservation against one or more lessons.
type Order struct {
	ID        uuid.UUID   `json:"id" db:"id"`
	Name      string      `json:"name" db:"name"`
	Phone     string      `json:"phone" db:"phone"`
	Email     string      `json:"email" db:"email"`
	Lessons   []OrderLine `json:"lessons" db:"lessons"`
	Total     float64     `json:"total" db:"total"`
	OrderDate time.Time   `json:"orderDate" db:"order_date"`
	Status    string      `json:"status" db:"status"`
}

// OrderLine is one lesson-quantity pair embedded in an order. Subject, price
// and image are copies taken when the order was placed.
type OrderLine struct {
	LessonID uuid.UUID `json:"lessonId"`
	Subject  string    `json:"subject"`
	Price    float64   `json:"price"`
	Image    string    `json:"image"`
	Quantity int       `json:"quantity"`
}

// SpaceAdjustment is a change to a lesson's available spaces.
type SpaceAdjustment struct {
	LessonID uuid.UUID
	Quantity int
}

// SpaceAdjustments returns the order's lines as merged space adjustments.
func (o *Order) SpaceAdjustments() []SpaceAdjustment {
	adjustments := make([]SpaceAdjustment, len(o.Lessons))
	for i, line := range o.Lessons {
		adjustments[i] = SpaceAdjustment{LessonID: line.LessonID, Quantity: line.Quantity}
	}
	return MergeSpaceAdjustments(adjustments)
}

// MergeSpaceAdjustments sums quantities per lesson and sorts the result by
// lesson ID, so every transaction locks lesson rows in the same order.
func MergeSpaceAdjustments(adjustments []SpaceAdjustment) []SpaceAdjustment {
	merged := make([]SpaceAdjustment, 0, len(adjustments))
	index := make(map[uuid.UUID]int, len(adjustments))
	for _, adj := range adjustments {
		if i, ok := index[adj.LessonID]; ok {
			merged[i].Quantity += adj.Quantity
			continue
		}
		index[adj.LessonID] = len(merged)
		merged = append(merged, adj)
	}

	slices.SortFunc(merged, func(a, b SpaceAdjustment) int {
		return bytes.Compare(a.LessonID[:], b.LessonID[:])
	})
	return merged
}

// OrderRequest represents the request payload for creating an order.
// A nil Lessons slice means the field was absent.
type OrderRequest struct {
	Name    string             `json:"name"`
	Phone   string             `json:"phone"`
	Email   string             `json:"email,omitempty"`
	Lessons []OrderLineRequest `json:"lessons"`
	Total   *float64           `json:"total,omitempty"`
}

// OrderLineRequest represents a single lesson in an order request.
type OrderLineRequest struct {
	LessonID string  `json:"lessonId"`
	Subject  string  `json:"subject"`
	Price    float64 `json:"price"`
	Image    string  `json:"image,omitempty"`
	Quantity int     `json:"quantity,omitempty"`
}

// CreateOrderResponse represents the response payload for a placed order.
type CreateOrderResponse struct {
	Message string    `json:"message"`
	OrderID uuid.UUID `json:"orderId"`
	Total   float64   `json:"total"`
	Order   *Order    `json:"order"`
}

// DeleteOrderResponse represents the response payload for a cancelled order.
type DeleteOrderResponse struct {
	Message         string    `json:"message"`
	OrderID         uuid.UUID `json:"orderId"`
	RestoredLessons int       `json:"restoredLessons"`
}
