package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	RequestIDHeader     = echo.HeaderXRequestID
	RequestIDContextKey = "request_id"

	maxInboundRequestID = 64
)

// RequestID tags every request with an ID that the guard, the error handler
// and the access log all report. An inbound X-Request-ID from the edge proxy
// is kept when it is short printable ASCII; anything else is replaced so it
// cannot forge log lines.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(RequestIDHeader)
			if !acceptableRequestID(id) {
				id = uuid.NewString()
				c.Request().Header.Set(RequestIDHeader, id)
			}

			c.Set(RequestIDContextKey, id)
			c.Response().Header().Set(RequestIDHeader, id)
			return next(c)
		}
	}
}

func acceptableRequestID(id string) bool {
	if id == "" || len(id) > maxInboundRequestID {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] <= ' ' || id[i] > '~' {
			return false
		}
	}
	return true
}

func GetRequestID(c echo.Context) string {
	id, _ := c.Get(RequestIDContextKey).(string)
	return id
}
