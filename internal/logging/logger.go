// Package logging is the structured logger every finlink component takes as
// a dependency. The only implementation wraps log/slog.
package logging

import "context"

// Logger takes a message plus alternating key/value pairs:
//
//	logger.Info(ctx, "relayed", "resource", "accounts", "bytes", 512)
//
// Access tokens and private keys must never be passed as values.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a logger that adds args to every record, typically
	// "module", "<name>".
	With(args ...any) Logger
}
