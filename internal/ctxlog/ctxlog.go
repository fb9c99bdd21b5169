// Package ctxlog carries the build's slog.Logger through context.Context so
// that the resolver, the template scanner and the manifest emitter all log
// to the sink the CLI configured.
package ctxlog

import (
	"context"
	"log/slog"
)

// key is unexported so no other package can collide with it.
type key struct{}

var loggerKey = key{}

// discard is handed out when nothing was attached to the context, which is
// the usual case when the build packages are driven directly from tests.
var discard = slog.New(slog.DiscardHandler)

// WithLogger returns a copy of ctx that carries logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx, or a logger that drops every
// record when none is present.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return discard
}
