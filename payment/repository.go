package payment

import (
	"context"
	"errors"
)

// ErrNotFound is returned by readers when nothing matches
var ErrNotFound = errors.New("not found")

// Reader provides the query side of the payments table
type Reader interface {
	// FindOrderRef returns the first non-null order reference recorded for a payment
	FindOrderRef(ctx context.Context, paymentID string) (string, error)
	// Recent returns up to limit records, newest first
	Recent(ctx context.Context, limit int) ([]Record, error)
	CountByStatus(ctx context.Context) (map[Status]int64, error)
}

// Writer provides the append side of the payments table
type Writer interface {
	/* Insert stores rec unless a record for the same event id already exists.
	 * It returns how many deliveries the record has now seen: 1 for a new
	 * record, more for a duplicate. Sentinel event ids are never deduplicated.
	 * Concurrent inserts of the same event must be resolved by the store.
	 */
	Insert(ctx context.Context, rec Record) (int, error)
}

type Repository interface {
	Reader
	Writer
	Close(ctx context.Context) error
}
