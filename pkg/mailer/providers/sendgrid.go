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

type SendGridProvider struct {
	BaseProvider
	APIURL string
}

type SendGridConfig struct {
	APIKey     string
	APIURL     string
	HTTPClient *http.Client
}

func NewSendGridProvider(config SendGridConfig) *SendGridProvider {
	apiURL := config.APIURL
	if apiURL == "" {
		apiURL = registry.SendGridAPIURL
	}

	return &SendGridProvider{
		BaseProvider: BaseProvider{
			APIKey:       config.APIKey,
			ProviderName: registry.ProviderSendGrid,
			HTTPClient:   httpClientOrDefault(config.HTTPClient),
		},
		APIURL: strings.TrimRight(apiURL, "/"),
	}
}

func addressList(emails []string) []map[string]string {
	out := make([]map[string]string, len(emails))
	for i, email := range emails {
		out[i] = map[string]string{registry.JSONEmail: email}
	}
	return out
}

func (p *SendGridProvider) Send(ctx context.Context, emailData *EmailData) (*EmailResult, error) {
	if p.APIKey == "" {
		return p.failure(registry.ErrAPIKeyRequired.Error(), registry.ErrAPIKeyRequired)
	}

	personalization := map[string]any{
		registry.JSONTo: addressList(emailData.To),
	}
	if len(emailData.CC) > 0 {
		personalization[registry.JSONCC] = addressList(emailData.CC)
	}
	if len(emailData.BCC) > 0 {
		personalization[registry.JSONBCC] = addressList(emailData.BCC)
	}

	// SendGrid requires text/plain to precede text/html.
	var content []map[string]string
	if emailData.Text != "" {
		content = append(content, map[string]string{registry.JSONType: registry.MIMETextPlain, registry.JSONValue: emailData.Text})
	}
	content = append(content, map[string]string{registry.JSONType: registry.MIMETextHTML, registry.JSONValue: emailData.HTML})

	payload := map[string]any{
		registry.JSONPersonalizations: []map[string]any{personalization},
		registry.JSONFrom:             map[string]string{registry.JSONEmail: emailData.From},
		registry.JSONSubject:          emailData.Subject,
		registry.JSONContent:          content,
	}
	if emailData.ReplyTo != "" {
		payload[registry.JSONReplyTo] = map[string]string{registry.JSONEmail: emailData.ReplyTo}
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return p.failure(fmt.Sprintf(registry.MsgFailedMarshalPayloadFmt, err), err)
	}

	resp, err := p.post(ctx, p.APIURL+registry.PathSendGridMailSend, bytes.NewReader(jsonData))
	if err != nil {
		return p.failure(fmt.Sprintf(registry.MsgRequestFailedFmt, err), err)
	}
	defer resp.Body.Close()

	if !isHTTPSuccess(resp.StatusCode) {
		return p.failure(fmt.Sprintf(registry.MsgSendGridAPIErrorFmt, resp.StatusCode, readErrorBody(resp.Body)), registry.ErrAPIStatus(resp.StatusCode))
	}

	return &EmailResult{
		Success:   true,
		MessageID: resp.Header.Get(registry.HeaderMessageID),
		Provider:  p.ProviderName,
	}, nil
}

func (p *SendGridProvider) Verify(ctx context.Context) (bool, error) {
	return p.verify(ctx, p.APIURL+registry.PathSendGridScopes)
}
