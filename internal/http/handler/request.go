package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	contentTypeJSON          = "application/json"
	maxStrictBodyBytes int64 = 1 << 20
)

func bindStrictJSON(c echo.Context, dst interface{}) error {
	if !isJSON(c) {
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, msgContentTypeJSONRequired)
	}

	body := io.LimitReader(c.Request().Body, maxStrictBodyBytes)
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidRequestBody)
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidRequestBody)
	}

	return nil
}

// bindObject decodes a JSON object body without constraining its keys.
// Numbers stay json.Number so they round-trip unchanged.
func bindObject(c echo.Context) (map[string]any, error) {
	body := io.LimitReader(c.Request().Body, maxStrictBodyBytes)
	decoder := json.NewDecoder(body)
	decoder.UseNumber()

	out := map[string]any{}
	if err := decoder.Decode(&out); err != nil && err != io.EOF {
		return nil, echo.NewHTTPError(http.StatusBadRequest, msgInvalidRequestBody)
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

func isJSON(c echo.Context) bool {
	return strings.HasPrefix(strings.ToLower(c.Request().Header.Get(echo.HeaderContentType)), contentTypeJSON)
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(strings.ToLower(c.Request().Header.Get(echo.HeaderContentType)), contentTypeMultipart)
}
