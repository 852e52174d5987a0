package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrUnknownStatus      = errors.New("unknown status")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError is a recoverable input problem shown back to the user.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func Invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Required returns a validation error for the first blank value among fields,
// given as alternating name/value pairs.
func Required(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return Invalid(pairs[i], "is required")
		}
	}
	return nil
}

// OutOfStockError is returned when a local product cannot cover a cart line.
type OutOfStockError struct {
	ProductID int64
	Available int
	Requested int
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("product %d out of stock: available %d, requested %d", e.ProductID, e.Available, e.Requested)
}
