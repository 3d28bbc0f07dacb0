// Package reqctx holds request-scoped data shared between the HTTP layer and
// outbound clients.
//
// Middleware stores a RequestMeta on the request context; the log-service
// client reads the request id back and forwards it as X-Request-Id so a
// dashboard action can be followed into the conversation store's logs.
//
//	ctx = reqctx.WithRequestMeta(ctx, &reqctx.RequestMeta{
//	    RequestID:   "abc-123",
//	    RequestedAt: time.Now(),
//	})
//
//	rid := reqctx.RequestIDFromContext(ctx)
package reqctx
