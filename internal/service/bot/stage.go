package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/heartmarshall/exegesis-backend/internal/domain"
)

// runStage runs fn under its own deadline and tags any failure with stage.
// Hitting the deadline is reported as domain.ErrStageTimeout.
func runStage[T any](ctx context.Context, stage domain.Stage, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	sctx := ctx
	cancel := context.CancelFunc(func() {})
	if timeout > 0 {
		sctx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	v, err := fn(sctx)
	if err == nil {
		return v, nil
	}

	var zero T
	if errors.Is(sctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return zero, &domain.StageError{
			Stage: stage,
			Err:   fmt.Errorf("%w after %s: %v", domain.ErrStageTimeout, timeout, err),
		}
	}
	return zero, &domain.StageError{Stage: stage, Err: err}
}
