package providers

import (
	"context"
	"io"
	"net/http"

	"lawfirm-cms/pkg/mailer/registry"
)

type EmailProvider interface {
	Send(ctx context.Context, emailData *EmailData) (*EmailResult, error)
	Verify(ctx context.Context) (bool, error)
	GetName() string
}

type BaseProvider struct {
	APIKey       string
	ProviderName string
	HTTPClient   *http.Client
}

func (p *BaseProvider) GetName() string {
	return p.ProviderName
}

// failure builds the unsuccessful result every provider reports alongside err.
func (p *BaseProvider) failure(msg string, err error) (*EmailResult, error) {
	return &EmailResult{Success: false, Error: msg, Provider: p.ProviderName}, err
}

// post sends body to url with the provider's bearer key.
func (p *BaseProvider) post(ctx context.Context, url string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set(registry.HeaderAuthorization, registry.AuthBearerPrefix+p.APIKey)
	req.Header.Set(registry.HeaderContentType, registry.MIMEApplicationJSON)
	return p.HTTPClient.Do(req)
}

// verify calls a cheap authenticated GET and reports whether the key works.
func (p *BaseProvider) verify(ctx context.Context, url string) (bool, error) {
	if p.APIKey == "" {
		return false, registry.ErrAPIKeyRequired
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set(registry.HeaderAuthorization, registry.AuthBearerPrefix+p.APIKey)

	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	return isHTTPSuccess(resp.StatusCode), nil
}

type EmailData struct {
	To      []string
	From    string
	Subject string
	HTML    string
	Text    string
	ReplyTo string
	CC      []string
	BCC     []string
}

type EmailResult struct {
	Success   bool
	MessageID string
	Error     string
	Provider  string
}
