package zephpost

import (
	"errors"
	"log/slog"
	"time"
)

// Logger returns middleware that logs every hook invocation.
func Logger(logger *slog.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx *Context) error {
			start := time.Now()
			err := next(ctx)
			duration := time.Since(start)

			attrs := []any{
				slog.String("conn_id", ctx.Connection.Trace.ID),
				slog.String("remote", ctx.RemoteAddr()),
				slog.String("event", ctx.GetString(eventKey)),
				slog.Duration("duration", duration),
			}

			if err != nil {
				logger.Error("handler error", append(attrs, slog.Any("error", err))...)
			} else {
				logger.Debug("handler completed", attrs...)
			}

			return err
		}
	}
}

// Recovery returns middleware that recovers from panics.
func Recovery(logger *slog.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx *Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("panic recovered",
						slog.String("conn_id", ctx.Connection.Trace.ID),
						slog.String("event", ctx.GetString(eventKey)),
						slog.Any("panic", r),
					)
					err = errors.New("internal server error")
				}
			}()
			return next(ctx)
		}
	}
}

// DevelopmentDefaults returns middleware suitable for development.
// This includes verbose logging and recovery.
func DevelopmentDefaults(logger *slog.Logger) []Middleware {
	return []Middleware{
		Recovery(logger),
		Logger(logger),
	}
}
