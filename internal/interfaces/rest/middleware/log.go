package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pot-code/go-storefront/internal/infrastructure/logging"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggingConfig options for Logging
type LoggingConfig struct {
	// Skipper defines a function to skip middleware.
	Skipper middleware.Skipper

	// RedactParams route params whose values never reach the log, in the
	// param list or in the path. Defaults to DefaultRedactParams.
	RedactParams []string
}

// DefaultRedactParams route params holding secrets
var DefaultRedactParams = []string{"token"}

const redacted = "[REDACTED]"

// Logging create an access log middleware, 5xx are logged as errors and the
// rest, client errors included, at debug level
func Logging(base *zap.Logger, options ...*LoggingConfig) echo.MiddlewareFunc {
	cfg := &LoggingConfig{
		Skipper:      middleware.DefaultSkipper,
		RedactParams: DefaultRedactParams,
	}
	if len(options) > 0 {
		option := options[0]
		if option.Skipper != nil {
			cfg.Skipper = option.Skipper
		}
		if option.RedactParams != nil {
			cfg.RedactParams = option.RedactParams
		}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Skipper(c) {
				return next(c)
			}
			start := time.Now()
			err := next(c)

			req := c.Request()
			code := c.Response().Status
			path, values := redactParams(req.RequestURI, c.ParamNames(), c.ParamValues(), cfg.RedactParams)
			fields := []zap.Field{
				zap.String("trace.id", c.Response().Header().Get(echo.HeaderXRequestID)),
				zap.String("url.path", path),
				zap.String("client.address", c.RealIP()),
				zap.String("http.request.method", req.Method),
				zap.Int64("http.request.body.bytes", req.ContentLength),
				zap.Int("http.response.status_code", code),
				zap.Duration("event.duration", time.Since(start)),
			}
			if len(c.ParamNames()) > 0 {
				fields = append(fields,
					zap.Strings("route.params.name", c.ParamNames()),
					zap.Strings("route.params.value", values),
				)
			}
			if ce := base.Check(levelOf(code), http.StatusText(code)); ce != nil {
				ce.Write(fields...)
			}
			return err
		}
	}
}

// redactParams mask the values of the secret params, returning the masked
// path and a copy of values
func redactParams(path string, names, values, secret []string) (string, []string) {
	masked := make([]string, len(values))
	copy(masked, values)
	for i, name := range names {
		if i >= len(masked) || masked[i] == "" {
			continue
		}
		for _, s := range secret {
			if name == s {
				path = strings.ReplaceAll(path, masked[i], redacted)
				masked[i] = redacted
				break
			}
		}
	}
	return path, masked
}

func levelOf(code int) zapcore.Level {
	if code >= http.StatusInternalServerError {
		return zapcore.ErrorLevel
	}
	return zapcore.DebugLevel
}

// SetTraceLogger set logger binding with trace ID into context, must be
// chained after the RequestID middleware
func SetTraceLogger(base *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			r := c.Request()
			logger := base.With(zap.String("trace.id", c.Response().Header().Get(echo.HeaderXRequestID)))
			c.SetRequest(r.WithContext(logging.SetLoggerInContext(r.Context(), logger)))
			return next(c)
		}
	}
}
