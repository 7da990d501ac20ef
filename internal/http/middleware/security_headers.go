package middleware

import (
	"github.com/labstack/echo/v4"
)

const (
	contentSecurityPolicy = "default-src 'self'; " +
		"script-src 'self'; " +
		"style-src 'self' 'unsafe-inline'; " +
		"img-src 'self' data: https:; " +
		"font-src 'self'; " +
		"connect-src 'self'; " +
		"frame-ancestors 'none'; " +
		"base-uri 'self'; " +
		"form-action 'self'"
	strictTransportSecurity = "max-age=31536000; includeSubDomains"
	permissionsPolicy       = "geolocation=(self), microphone=(), camera=(self), usb=(), magnetometer=(), gyroscope=()"
)

// SecurityHeaders sets browser hardening headers on every response. Camera
// and geolocation stay available to the site itself for technician KYC and
// job location.
func SecurityHeaders(hsts bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("Content-Security-Policy", contentSecurityPolicy)
			if hsts {
				h.Set("Strict-Transport-Security", strictTransportSecurity)
			}
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", permissionsPolicy)
			h.Del("Server")
			h.Del("X-Powered-By")

			return next(c)
		}
	}
}
