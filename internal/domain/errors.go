package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidQuantity       = errors.New("quantity must be a positive integer")
	ErrInsufficientInventory = errors.New("insufficient inventory")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// MaxQuantity caps a single cart line. Line totals stay far from int64
// overflow for any realistic unit price.
const MaxQuantity = 999

// ValidateQuantity rejects zero, negative and oversized quantities.
func ValidateQuantity(quantity int) error {
	if quantity <= 0 {
		return &ValidationError{
			Field:  "quantity",
			Reason: fmt.Sprintf("%d is not a positive integer", quantity),
			Err:    ErrInvalidQuantity,
		}
	}
	if quantity > MaxQuantity {
		return &ValidationError{
			Field:  "quantity",
			Reason: fmt.Sprintf("%d exceeds the limit of %d per item", quantity, MaxQuantity),
			Err:    ErrInvalidQuantity,
		}
	}
	return nil
}
