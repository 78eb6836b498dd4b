package logger

import "context"

type ctxKey struct{}

var logCtxKey = ctxKey{}

type logCtx struct {
	RequestID string
	Action    string
	TripID    string
}

func fromContext(ctx context.Context) logCtx {
	if c, ok := ctx.Value(logCtxKey).(logCtx); ok {
		return c
	}
	return logCtx{}
}

// WithRequestID stores the request id logged with every record.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	c := fromContext(ctx)
	c.RequestID = requestID
	return context.WithValue(ctx, logCtxKey, c)
}

// WithAction stores the name of the operation being performed.
func WithAction(ctx context.Context, action string) context.Context {
	c := fromContext(ctx)
	c.Action = action
	return context.WithValue(ctx, logCtxKey, c)
}

// WithTripID stores the trip the current operation works on.
func WithTripID(ctx context.Context, tripID string) context.Context {
	c := fromContext(ctx)
	c.TripID = tripID
	return context.WithValue(ctx, logCtxKey, c)
}

// RequestID returns the request id stored in ctx, if any.
func RequestID(ctx context.Context) string {
	return fromContext(ctx).RequestID
}
