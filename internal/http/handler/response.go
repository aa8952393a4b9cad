package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Every response body is the envelope the resource client decodes:
// { data?, message?, errors? }.

func respondData(c echo.Context, status int, data any, message string) error {
	body := map[string]any{jsonKeyData: data}
	if message != "" {
		body[jsonKeyMessage] = message
	}
	return c.JSON(status, body)
}

func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{jsonKeyMessage: message})
}

func respondMessage(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{jsonKeyMessage: message})
}

func respondValidation(c echo.Context, fields map[string]string) error {
	return c.JSON(http.StatusBadRequest, map[string]any{
		jsonKeyMessage: msgValidationFailed,
		jsonKeyErrors:  fields,
	})
}

func handleHTTPError(c echo.Context, err error) error {
	if he, ok := err.(*echo.HTTPError); ok {
		msg, _ := he.Message.(string)
		if msg == "" {
			msg = http.StatusText(he.Code)
		}
		return respondError(c, he.Code, msg)
	}

	return respondError(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}
