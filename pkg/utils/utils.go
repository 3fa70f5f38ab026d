package utils

import (
	"context"
	"portfolio-dashboard/pkg/logger"
)

func ToPointer[T any](value T) *T {
	return &value
}

// ShouldContinue reports whether work on task may go on. Once ctx is done it
// logs the task with the context error and returns false.
func ShouldContinue(ctx context.Context, log *logger.Logger, task string) bool {
	select {
	case <-ctx.Done():
		log.WarnContext(ctx, "Context done, skipping task",
			logger.StringField("task", task),
			logger.ErrorField(ctx.Err()),
		)
		return false
	default:
		return true
	}
}
