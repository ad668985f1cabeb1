package middleware

import (
	"log/slog"
	"time"

	"github.com/broady/outcome"
)

// LoggingInterceptor creates an interceptor that logs handler calls using slog.
// It logs the start and end of each call with the outcome tag and duration.
// Contract faults are logged separately by the dispatcher, so a tag logged
// here is always one the handler chose.
func LoggingInterceptor(logger *slog.Logger) outcome.Interceptor {
	if logger == nil {
		logger = slog.Default()
	}

	return func(ctx *outcome.Context, req any, next outcome.HandlerFunc) outcome.Outcome {
		start := time.Now()

		logger.InfoContext(ctx, "request started",
			slog.String("operation", ctx.Operation()),
		)

		o := next(ctx, req)
		duration := time.Since(start)

		var tag outcome.Tag
		if o != nil {
			tag = o.Outcome().Tag
		}
		logger.InfoContext(ctx, "request completed",
			slog.String("operation", ctx.Operation()),
			slog.String("tag", string(tag)),
			slog.Duration("duration", duration),
		)

		return o
	}
}
