package resource

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	apperrors "lawfirm-cms/pkg/errors"
)

// Envelope is the backend's response shape: { data, message, errors }.
type Envelope struct {
	Data    json.RawMessage   `json:"data,omitempty"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// HasData reports whether data is present and not JSON null.
func (e Envelope) HasData() bool {
	trimmed := bytes.TrimSpace(e.Data)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

func decodeEnvelope(body []byte) (Envelope, bool) {
	var env Envelope
	if len(bytes.TrimSpace(body)) == 0 {
		return env, true
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return env, false
	}
	return env, true
}

// classify turns a non-success response into the client error taxonomy.
// 401/403 are auth failures; other 4xx on a mutation are validation failures
// carrying the backend's message verbatim; everything else is a server error.
func classify(status int, body []byte, mutating bool) error {
	env, ok := decodeEnvelope(body)
	message := env.Message
	if !ok || message == "" {
		message = fallbackMessage(body, ok)
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return apperrors.Auth(status, message)
	case status >= 400 && status < 500 && mutating:
		if message == "" {
			message = http.StatusText(status)
		}
		verr := apperrors.Validation(message, env.Errors)
		verr.Status = status
		return verr
	default:
		return apperrors.Server(status, message)
	}
}

// fallbackMessage salvages a message from bodies that are not an envelope,
// e.g. {"error": "..."} or plain text from a proxy.
func fallbackMessage(body []byte, parsedEnvelope bool) string {
	if parsedEnvelope {
		var alt struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(body, &alt); err == nil && alt.Error != "" {
			return alt.Error
		}
		return ""
	}

	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorMessageLen {
		text = text[:maxErrorMessageLen]
	}
	return text
}
