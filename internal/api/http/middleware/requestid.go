package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/pulseai/pulsedesk/pkg/reqctx"
)

const (
	HeaderRequestID = "X-Request-Id"
	LocalRequestID  = "request_id"

	maxRequestIDLen = 128
)

// RequestID accepts a caller's X-Request-Id when it is sane, otherwise
// mints a UUID. The id is echoed back and stored on the request context so
// outbound log-service calls forward it.
func RequestID() fiber.Handler {
	return func(c fiber.Ctx) error {
		rid := c.Get(HeaderRequestID)
		if !validRequestID(rid) {
			rid = uuid.NewString()
			c.Request().Header.Set(HeaderRequestID, rid)
		}
		c.Set(HeaderRequestID, rid)
		c.Locals(LocalRequestID, rid)

		c.SetContext(reqctx.WithRequestMeta(c.Context(), reqctx.RequestMeta{
			RequestID:  rid,
			ClientIP:   c.IP(),
			UserAgent:  c.Get(fiber.HeaderUserAgent),
			ReceivedAt: time.Now(),
		}))
		return c.Next()
	}
}

func validRequestID(rid string) bool {
	if rid == "" || len(rid) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(rid); i++ {
		if rid[i] < 0x21 || rid[i] > 0x7e {
			return false
		}
	}
	return true
}

func RequestIDFromFiber(c fiber.Ctx) (string, bool) {
	s, ok := c.Locals(LocalRequestID).(string)
	return s, ok && s != ""
}
