package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/ericfisherdev/reviewblame/internal/domain/port/driven"
)

// storeErr tags a driver error with the taxonomy sentinel that matches it.
// Deadline expiry becomes ErrTimeout; everything else is ErrStoreUnavailable.
// The driver error stays in the chain.
func storeErr(ctx context.Context, op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", op, driven.ErrTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, driven.ErrStoreUnavailable, err)
}
