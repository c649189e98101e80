// Package ctxutil carries request-scoped identifiers through context.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	requestIDKey
	updateIDKey
)

// WithUserID stores the authenticated account ID in the context.
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserIDFromCtx extracts the account ID from the context.
// Returns uuid.Nil and false if the value is missing, nil UUID, or wrong type.
func UserIDFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithUpdateID stores the Telegram update being processed.
func WithUpdateID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, updateIDKey, id)
}

// UpdateIDFromCtx extracts the Telegram update id. Returns 0 and false if absent.
func UpdateIDFromCtx(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(updateIDKey).(int64)
	return id, ok
}

// LogAttrs returns the identifiers present in ctx as slog attributes.
func LogAttrs(ctx context.Context) []any {
	var attrs []any
	if id := RequestIDFromCtx(ctx); id != "" {
		attrs = append(attrs, slog.String("request_id", id))
	}
	if id, ok := UpdateIDFromCtx(ctx); ok {
		attrs = append(attrs, slog.Int64("update_id", id))
	}
	if id, ok := UserIDFromCtx(ctx); ok {
		attrs = append(attrs, slog.String("user_id", id.String()))
	}
	return attrs
}
