// Package requestcontext carries request-scoped values that services and the
// export worker read without importing net/http.
//
// The HTTP middleware sets the request ID, client IP and request time; the
// worker copies the request ID from the queued message so its logs correlate
// with the API call that enqueued the export. Tests pin the clock with
// WithTime.
package requestcontext

import (
	"context"
	"time"
)

type key int

const (
	requestIDKey key = iota
	clientIPKey
	timeKey
)

func value[T any](ctx context.Context, k key) (T, bool) {
	v, ok := ctx.Value(k).(T)
	return v, ok
}

// RequestID is empty outside a request or export job.
func RequestID(ctx context.Context) string {
	id, _ := value[string](ctx, requestIDKey)
	return id
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func ClientIP(ctx context.Context) string {
	ip, _ := value[string](ctx, clientIPKey)
	return ip
}

func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// Now is the request time, or the wall clock when none was set. Every
// timestamp written during one request uses the same instant.
func Now(ctx context.Context) time.Time {
	if t, ok := value[time.Time](ctx, timeKey); ok {
		return t
	}
	return time.Now()
}

func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, timeKey, t)
}
