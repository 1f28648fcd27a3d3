package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/ericfisherdev/reviewblame/internal/domain/port/driven"
)

// queryCanceled is SQLSTATE 57014, reported by the server when lib/pq
// cancels a statement whose context ended.
const queryCanceled = "57014"

// storeErr tags a driver error with the taxonomy sentinel that matches it.
func storeErr(ctx context.Context, op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", op, driven.ErrTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == queryCanceled && ctx.Err() != nil {
		return fmt.Errorf("%s: %w: %w", op, driven.ErrTimeout, err)
	}

	return fmt.Errorf("%s: %w: %w", op, driven.ErrStoreUnavailable, err)
}
