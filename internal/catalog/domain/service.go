package domain

import (
	"context"
	"errors"
	"fmt"
)

// Catalog reads orders and product tags from the external storefront. Each
// call performs at most one network round trip; retry policy belongs to the
// caller.
type Catalog interface {
	FetchOrder(ctx context.Context, orderID string) (Order, error)
	FetchProductTags(ctx context.Context, productID int64) ([]string, error)
}

var (
	ErrOrderNotFound  = errors.New("order_not_found")
	ErrInvalidOrderID = errors.New("invalid_order_id")
)

// TransientError marks a storefront call that failed for a retryable reason:
// a network error, a timeout, or a non-2xx non-404 response.
type TransientError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is a retryable storefront failure.
func IsTransient(err error) bool {
	var transient *TransientError
	return errors.As(err, &transient)
}
