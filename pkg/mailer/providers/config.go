package providers

import (
	"io"
	"net/http"

	"lawfirm-cms/pkg/mailer/registry"
)

func isHTTPSuccess(statusCode int) bool {
	return statusCode >= registry.HTTPStatusSuccessMin && statusCode < registry.HTTPStatusSuccessMax
}

func httpClientOrDefault(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return &http.Client{Timeout: registry.DefaultHTTPTimeout}
}

func readErrorBody(r io.Reader) string {
	body, _ := io.ReadAll(io.LimitReader(r, registry.MaxErrorBody))
	return string(body)
}
