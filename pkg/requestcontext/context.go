// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Middleware sets values, services read them. Keeping this package free of
// net/http lets services and tests avoid transport imports entirely.
//
// Usage in tests:
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
//	ctx = requestcontext.WithCoupleID(ctx, "couple-a")
package requestcontext

import (
	"context"
	"time"

	id "tandem/pkg/domain"
)

type (
	coupleIDKey    struct{}
	partnerKey     struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// CoupleID retrieves the authenticated couple ID from the context.
// Returns the zero value if not set.
func CoupleID(ctx context.Context) id.CoupleID {
	if c, ok := ctx.Value(coupleIDKey{}).(id.CoupleID); ok {
		return c
	}
	return ""
}

// WithCoupleID injects a couple ID into the context.
func WithCoupleID(ctx context.Context, coupleID id.CoupleID) context.Context {
	return context.WithValue(ctx, coupleIDKey{}, coupleID)
}

// Partner retrieves the acting partner from the context.
// Returns the zero value if not set.
func Partner(ctx context.Context) id.Partner {
	if p, ok := ctx.Value(partnerKey{}).(id.Partner); ok {
		return p
	}
	return ""
}

// WithPartner injects the acting partner into the context.
func WithPartner(ctx context.Context, partner id.Partner) context.Context {
	return context.WithValue(ctx, partnerKey{}, partner)
}

// RequestID retrieves the request correlation ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Now retrieves the request-scoped time from context. Falls back to
// time.Now() for non-HTTP contexts (workers, CLI, tests that don't pin time).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. Workers use it for a
// consistent timestamp within a batch; tests use it to pin the clock.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}
