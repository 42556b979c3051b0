// Package requestcontext provides transport-independent context accessors
// for request-scoped values.
//
// Services read the acting user and the request time from the context instead
// of calling time.Now directly, so callers (and tests) can pin both.
//
// Usage in services (read values):
//
//	actor := requestcontext.Actor(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in callers and tests (set values):
//
//	ctx = requestcontext.WithActor(ctx, nric)
//	ctx = requestcontext.WithTime(ctx, fixedDate)
package requestcontext

import (
	"context"
	"time"

	"btocore/pkg/domain"
)

type (
	actorKey       struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// WithActor records the NRIC of the person driving the operation.
func WithActor(ctx context.Context, nric domain.NRIC) context.Context {
	return context.WithValue(ctx, actorKey{}, nric)
}

// Actor returns the acting NRIC, or the empty NRIC when unset.
func Actor(ctx context.Context) domain.NRIC {
	if v, ok := ctx.Value(actorKey{}).(domain.NRIC); ok {
		return v
	}
	return ""
}

// WithRequestID tags the context with a correlation ID for audit logging.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the correlation ID, or "" when unset.
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// WithTime pins the request time. Application-window checks and submission
// dates read this value.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}

// Now returns the pinned request time, falling back to time.Now().
func Now(ctx context.Context) time.Time {
	if v, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return v
	}
	return time.Now()
}
