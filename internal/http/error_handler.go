package http

import (
	"errors"
	"fmt"
	"net/http"

	"lawfirm-cms/internal/http/handler"
	"lawfirm-cms/internal/http/middleware"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	jsonKeyMessage   = "message"
	jsonKeyRequestID = "request_id"
	unknownRequestID = "unknown"
)

// NewHTTPErrorHandler handles errors returned by handlers and middleware
// rather than written by them. Internal errors are logged and replaced by a
// generic message; the body is the same envelope handlers write.
func NewHTTPErrorHandler(log logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			code    int
			message string
			httpErr *echo.HTTPError
		)
		if errors.As(err, &httpErr) {
			code = httpErr.Code
			message = fmt.Sprintf("%v", httpErr.Message)
		} else {
			code, message = handler.MapToPublicError(err)
		}

		requestID := middleware.GetRequestID(c)
		if requestID == "" {
			requestID = unknownRequestID
		}

		entry := log.WithFields(logrus.Fields{
			"request_id": requestID,
			"status":     code,
			"path":       c.Request().URL.Path,
		}).WithError(err)
		if code >= http.StatusInternalServerError {
			entry.Error("internal_server_error")
			message = http.StatusText(http.StatusInternalServerError)
		} else {
			entry.Debug("client_error")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, map[string]string{
				jsonKeyMessage:   message,
				jsonKeyRequestID: requestID,
			})
		}
		if err != nil {
			log.WithError(err).Error("failed to write error response")
		}
	}
}
