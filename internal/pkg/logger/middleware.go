package logger

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// EchoMiddleware returns an echo middleware that logs each request with
// latency, status and trace correlation.
func EchoMiddleware(zl *ZapLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			latency := time.Since(start)

			base := zl.Logger
			if txn := newrelic.FromContext(req.Context()); txn != nil {
				base = zl.WithNewRelicContext(txn)
			}

			fields := []Field{
				String("method", req.Method),
				String("path", req.URL.Path),
				Int("status", res.Status),
				Duration("latency", latency),
				String("client_ip", c.RealIP()),
				String("request_id", res.Header().Get(echo.HeaderXRequestID)),
			}
			if err != nil {
				fields = append(fields, Err(err))
			}

			switch {
			case res.Status >= 500:
				base.Error("Server error", fields...)
			case res.Status >= 400:
				base.Warn("Client error", fields...)
			default:
				base.Info("Request processed", fields...)
			}

			return nil
		}
	}
}
