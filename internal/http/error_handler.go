package http

import (
	"errors"
	"fmt"
	"net/http"

	apperrors "marketplace-web/pkg/errors"
	"marketplace-web/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	msgInternalServerError = "Internal server error"
	unknownRequestID       = "unknown"
)

// NewHTTPErrorHandler maps errors returned by handlers and middleware to
// JSON responses. Sentinels pick the status, 5xx details never reach the
// client, and every error is logged with the request ID.
func NewHTTPErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, message := statusFor(err)

		requestID := c.Response().Header().Get(echo.HeaderXRequestID)
		if requestID == "" {
			requestID = unknownRequestID
		}

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.Int("status", code),
			zap.String("error", logger.SanitizeLogMessage(err.Error())),
		}
		if code >= http.StatusInternalServerError {
			log.Error("internal_server_error", fields...)
			message = msgInternalServerError
		} else {
			log.Warn("client_error", fields...)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, map[string]interface{}{
				"error":      message,
				"request_id": requestID,
			})
		}
		if err != nil {
			log.Error("error_response_failed", zap.Error(err))
		}
	}
}

func statusFor(err error) (int, string) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, fmt.Sprintf("%v", httpErr.Message)
	}

	code := http.StatusInternalServerError
	message := msgInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrRateLimited):
		code, message = http.StatusTooManyRequests, "Rate limit exceeded"
	case errors.Is(err, apperrors.ErrUnavailable):
		code, message = http.StatusServiceUnavailable, "Service unavailable"
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && code < http.StatusInternalServerError {
		message = appErr.Message
	}
	return code, message
}
