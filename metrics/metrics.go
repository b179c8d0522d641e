package metrics

import "context"

// Collector defines the interface for reading payment state for metrics
type Collector interface {
	// GetStatusCounts returns the count of recorded payments by status
	GetStatusCounts(ctx context.Context) (map[string]int64, error)
}
