package middleware

import (
	"github.com/labstack/echo/v4"
)

// The API only ever returns JSON and uploaded images, so nothing it serves
// needs to load other resources or be framed.
var securityHeaders = map[string]string{
	"Content-Security-Policy":   "default-src 'none'; img-src 'self'; frame-ancestors 'none'",
	"Strict-Transport-Security": "max-age=31536000; includeSubDomains",
	"X-Content-Type-Options":    "nosniff",
	"X-Frame-Options":           "DENY",
	"Referrer-Policy":           "strict-origin-when-cross-origin",
	"Permissions-Policy":        "geolocation=(), microphone=(), camera=(), payment=(), usb=()",
}

// SecurityHeaders sets the fixed response headers above and removes server
// identification.
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			for name, value := range securityHeaders {
				h.Set(name, value)
			}
			h.Del("Server")
			h.Del("X-Powered-By")

			return next(c)
		}
	}
}
