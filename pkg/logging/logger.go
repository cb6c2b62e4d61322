// Package logging is the account service's structured logger.
package logging

import "context"

// Logger writes leveled records with alternating key and value arguments:
//
//	log.Warn(ctx, "signup lost uniqueness race", "email", email)
//
// Request handlers pass the Fiber request context, so records carry the
// request id when one was assigned.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	With(args ...any) Logger
}
