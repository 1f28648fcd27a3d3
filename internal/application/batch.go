// Package application contains use-case orchestration services.
package application

import (
	"context"
	"log/slog"
	"time"
)

// ItemFailure records one batch item that was skipped and why.
type ItemFailure struct {
	Key string
	Err error
}

// BatchResult reports the outcome of a per-item isolated batch write. A failed
// item never aborts its siblings.
type BatchResult struct {
	Saved  []string
	Failed []ItemFailure
}

// OK reports whether every item in the batch was written.
func (r BatchResult) OK() bool {
	return len(r.Failed) == 0
}

func (r *BatchResult) fail(key string, err error) {
	r.Failed = append(r.Failed, ItemFailure{Key: key, Err: err})
}

// storeCtx bounds a single store call by d. A non-positive d leaves only the
// caller's deadline in force.
func storeCtx(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
