package model

import "errors"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Error codes used to classify domain errors.
const (
	ErrCodeInvalidArgument = "INVALID_ARGUMENT"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeInternalError   = "INTERNAL_ERROR"
)

// DomainError is a business-logic failure that handlers translate into an
// HTTP status. Details are merged into the JSON error body.
type DomainError struct {
	Code    string
	Message string
	Details map[string]interface{}
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetail returns a copy of e carrying an extra context field.
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	details := make(map[string]interface{}, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &DomainError{Code: e.Code, Message: e.Message, Details: details}
}

// Is reports whether target is a domain error with the same code and message,
// so copies made by WithDetail still match their sentinel.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// ErrorCode returns the domain error code of err, or ErrCodeInternalError.
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ErrCodeInternalError
}

func invalid(message string) *DomainError {
	return NewDomainError(ErrCodeInvalidArgument, message)
}

// Lesson errors
var (
	ErrLessonNotFound    = NewDomainError(ErrCodeNotFound, "Lesson not found")
	ErrInvalidLessonID   = invalid("Invalid lesson ID")
	ErrNoFieldsToUpdate  = invalid("No fields to update")
	ErrInvalidUpdates    = invalid("Invalid updates").WithDetail("allowedUpdates", AllowedLessonUpdates)
	ErrInvalidFieldValue = invalid("Invalid field value")
	ErrMissingLessonData = invalid("Subject, location, and price are required")
	ErrInvalidPrice      = invalid("Price must be a non-negative amount below 100000000 with at most 2 decimal places")
	ErrInvalidSpaces     = invalid("Spaces must be a non-negative integer")
)

// Order errors
var (
	ErrOrderNotFound         = NewDomainError(ErrCodeNotFound, "Order not found")
	ErrInvalidOrderID        = invalid("Invalid order ID")
	ErrMissingOrderFields    = invalid("Name, phone, and lessons array are required")
	ErrInvalidName           = invalid("Name must contain only letters and spaces")
	ErrInvalidPhone          = invalid("Phone must contain only digits and be at least 10 digits long")
	ErrEmptyLessons          = invalid("At least one lesson is required")
	ErrInvalidLessonRef      = invalid("Invalid lesson ID in lessons array")
	ErrInvalidQuantity       = invalid("Quantity must be a positive integer")
	ErrInvalidTotal          = invalid("Total must be a non-negative amount below 100000000 with at most 2 decimal places")
	ErrOrderedLessonNotFound = invalid("Lesson not found")
	ErrInsufficientSpaces    = invalid("Not enough spaces available")
)
