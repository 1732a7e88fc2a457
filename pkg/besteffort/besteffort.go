// Package besteffort runs optional side channels whose failure must never fail the caller.
package besteffort

import (
	"context"
	"fmt"

	"github.com/denimhub/denimhub-backend/pkg/logger"
)

// Run executes fn and logs a warning tagged with op when it fails or panics.
// It reports whether fn succeeded.
func Run(ctx context.Context, logg *logger.Logger, op string, fn func(context.Context) error) (ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			warn(ctx, logg, op, fmt.Errorf("panic: %v", rec))
			ok = false
		}
	}()

	if err := fn(ctx); err != nil {
		warn(ctx, logg, op, err)
		return false
	}
	return true
}

func warn(ctx context.Context, logg *logger.Logger, op string, err error) {
	if logg == nil {
		return
	}
	ctx = logg.WithField(ctx, "side_channel", op)
	logg.WarnErr(ctx, "best effort operation failed", err)
}
