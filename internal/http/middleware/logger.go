package middleware

import (
	"marketplace-web/pkg/logger"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const msgRequest = "request"

// RequestLogger writes one zap line per request. Server errors log at error,
// client errors at warn, everything else at info.
func RequestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", logger.SanitizeLogMessage(v.URI)),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
				zap.String("request_id", v.RequestID),
			}
			switch {
			case v.Status >= 500:
				if v.Error != nil {
					fields = append(fields, zap.String("error", logger.SanitizeLogMessage(v.Error.Error())))
				}
				log.Error(msgRequest, fields...)
			case v.Status >= 400:
				log.Warn(msgRequest, fields...)
			default:
				log.Info(msgRequest, fields...)
			}
			return nil
		},
	})
}
