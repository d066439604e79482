package middleware

import (
	"context"

	"github.com/labstack/echo/v4"
)

type clientMetaKey string

const (
	clientIPKey        clientMetaKey = "client_ip"
	clientUserAgentKey clientMetaKey = "client_user_agent"
)

// ClientMeta returns middleware that captures the caller's network address
// and user agent into the request context, so services deep in the call
// stack can attach them to audit entries without seeing the HTTP request.
func ClientMeta() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			ctx = context.WithValue(ctx, clientIPKey, c.RealIP())
			ctx = context.WithValue(ctx, clientUserAgentKey, c.Request().UserAgent())
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// ClientIPFromContext returns the caller's network address, or "" when the
// request did not pass through ClientMeta.
func ClientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey).(string)
	return ip
}

// ClientUserAgentFromContext returns the caller's user agent, or "".
func ClientUserAgentFromContext(ctx context.Context) string {
	ua, _ := ctx.Value(clientUserAgentKey).(string)
	return ua
}
