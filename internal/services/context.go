package services

import "context"

type contextKey string

const (
	requestIDKey  contextKey = "request_id"
	imageSetIDKey contextKey = "image_set_id"
)

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithImageSetID annotates context with the image set being resolved.
func WithImageSetID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, imageSetIDKey, id)
}

// ImageSetIDFromContext extracts the image set identifier if present.
func ImageSetIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(imageSetIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
