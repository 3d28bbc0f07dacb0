package reqctx

import (
	"context"
	"log/slog"
	"time"
)

type metaKey struct{}

// RequestMeta describes the inbound dashboard request that caused the
// current work.
type RequestMeta struct {
	RequestID  string
	ClientIP   string
	UserAgent  string
	ReceivedAt time.Time
}

func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, metaKey{}, meta)
}

func RequestMetaFromContext(ctx context.Context) (RequestMeta, bool) {
	meta, ok := ctx.Value(metaKey{}).(RequestMeta)
	return meta, ok
}

// RequestIDFromContext returns "" outside an HTTP request.
func RequestIDFromContext(ctx context.Context) string {
	meta, _ := RequestMetaFromContext(ctx)
	return meta.RequestID
}

// LogAttrs returns the request id and time since the request arrived, or
// nothing when ctx carries no request.
func LogAttrs(ctx context.Context) []any {
	meta, ok := RequestMetaFromContext(ctx)
	if !ok {
		return nil
	}
	attrs := []any{slog.String("request_id", meta.RequestID)}
	if !meta.ReceivedAt.IsZero() {
		attrs = append(attrs, slog.Duration("since_request", time.Since(meta.ReceivedAt)))
	}
	return attrs
}
