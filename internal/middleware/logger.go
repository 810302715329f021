package middleware

import (
	"storefront-checkout/internal/logger"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// ContextLogger stores a request scoped logger in the request context. It must run after
// echo's RequestID middleware.
func ContextLogger(base *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Response().Header().Get(echo.HeaderXRequestID)
			l := base.With(zap.String("request_id", requestID))

			req := c.Request()
			c.SetRequest(req.WithContext(logger.WithContext(req.Context(), l)))
			return next(c)
		}
	}
}

func RequestLogger() echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		HandleError:  true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			l := logger.FromContext(c.Request().Context())
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				l.Error("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			l.Info("request", fields...)
			return nil
		},
	})
}
