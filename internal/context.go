package internal

import (
	"context"
	"time"
)

// DefaultOperationTimeout applies when a caller passes no timeout.
const DefaultOperationTimeout = 5 * time.Second

// WithTimeout derives a bounded context, falling back to DefaultOperationTimeout
// for a zero or negative duration.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = DefaultOperationTimeout
	}
	return context.WithTimeout(ctx, duration)
}
