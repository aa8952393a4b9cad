package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"lawfirm-cms/pkg/mailer/registry"
)

type ResendProvider struct {
	BaseProvider
	APIURL string
}

type ResendConfig struct {
	APIKey string
	APIURL string
	// HTTPClient defaults to a client with registry.DefaultHTTPTimeout.
	HTTPClient *http.Client
}

func NewResendProvider(config ResendConfig) *ResendProvider {
	apiURL := config.APIURL
	if apiURL == "" {
		apiURL = registry.ResendAPIURL
	}

	return &ResendProvider{
		BaseProvider: BaseProvider{
			APIKey:       config.APIKey,
			ProviderName: registry.ProviderResend,
			HTTPClient:   httpClientOrDefault(config.HTTPClient),
		},
		APIURL: strings.TrimRight(apiURL, "/"),
	}
}

func (p *ResendProvider) Send(ctx context.Context, emailData *EmailData) (*EmailResult, error) {
	if p.APIKey == "" {
		return p.failure(registry.ErrAPIKeyRequired.Error(), registry.ErrAPIKeyRequired)
	}

	payload := map[string]any{
		registry.JSONFrom:    emailData.From,
		registry.JSONTo:      emailData.To,
		registry.JSONSubject: emailData.Subject,
		registry.JSONHTML:    emailData.HTML,
	}
	if emailData.Text != "" {
		payload[registry.JSONText] = emailData.Text
	}
	if emailData.ReplyTo != "" {
		payload[registry.JSONReplyTo] = emailData.ReplyTo
	}
	if len(emailData.CC) > 0 {
		payload[registry.JSONCC] = emailData.CC
	}
	if len(emailData.BCC) > 0 {
		payload[registry.JSONBCC] = emailData.BCC
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return p.failure(fmt.Sprintf(registry.MsgFailedMarshalPayloadFmt, err), err)
	}

	resp, err := p.post(ctx, p.APIURL+registry.PathResendEmails, bytes.NewReader(jsonData))
	if err != nil {
		return p.failure(fmt.Sprintf(registry.MsgRequestFailedFmt, err), err)
	}
	defer resp.Body.Close()

	if !isHTTPSuccess(resp.StatusCode) {
		return p.failure(fmt.Sprintf(registry.MsgResendAPIErrorFmt, resp.StatusCode, readErrorBody(resp.Body)), registry.ErrAPIStatus(resp.StatusCode))
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return p.failure(fmt.Sprintf(registry.MsgFailedParseResponseFmt, err), err)
	}

	return &EmailResult{
		Success:   true,
		MessageID: result.ID,
		Provider:  p.ProviderName,
	}, nil
}

func (p *ResendProvider) Verify(ctx context.Context) (bool, error) {
	return p.verify(ctx, p.APIURL+registry.PathResendAPIKeys)
}
