// Package mailer delivers transactional email through one or more HTTP
// providers, chosen per send by a strategy.
package mailer

import (
	"context"

	"lawfirm-cms/pkg/mailer/providers"
	"lawfirm-cms/pkg/mailer/registry"
	"lawfirm-cms/pkg/mailer/strategies"
	"lawfirm-cms/pkg/mailer/templates"
)

type EmailService struct {
	providers   []providers.EmailProvider
	strategy    strategies.EmailStrategy
	defaultFrom string
}

type EmailServiceConfig struct {
	Providers   []providers.EmailProvider
	Strategy    strategies.EmailStrategy
	DefaultFrom string
}

func NewEmailService(config EmailServiceConfig) (*EmailService, error) {
	if len(config.Providers) == 0 {
		return nil, registry.ErrAtLeastOneProviderRequired
	}
	providerList := make([]providers.EmailProvider, len(config.Providers))
	copy(providerList, config.Providers)

	for _, provider := range providerList {
		if provider == nil {
			return nil, registry.ErrProviderCannotBeNil
		}
	}

	strategy := config.Strategy
	if strategy == nil {
		strategy = &strategies.SingleProviderStrategy{}
	}

	if config.DefaultFrom != "" {
		if err := ValidateEmail(config.DefaultFrom); err != nil {
			return nil, registry.ErrInvalidDefaultFromEmail
		}
	}

	return &EmailService{
		providers:   providerList,
		strategy:    strategy,
		defaultFrom: config.DefaultFrom,
	}, nil
}

func (s *EmailService) Send(ctx context.Context, emailData *providers.EmailData) (*providers.EmailResult, error) {
	if emailData == nil {
		return &providers.EmailResult{
			Success:  false,
			Error:    registry.ErrEmailDataRequired.Error(),
			Provider: registry.ProviderLabelValidation,
		}, registry.ErrEmailDataRequired
	}

	data := cloneEmailData(emailData)
	if data.From == "" && s.defaultFrom != "" {
		data.From = s.defaultFrom
	}

	if err := ValidateEmailData(data); err != nil {
		return &providers.EmailResult{
			Success:  false,
			Error:    err.Error(),
			Provider: registry.ProviderLabelValidation,
		}, err
	}

	return s.strategy.Send(ctx, data, s.providers)
}

// SendWithTypedTemplate renders template with values into emailData's body
// and sends it.
func SendWithTypedTemplate[T any](ctx context.Context, service *EmailService, template *templates.TypedTemplate[T], values T, emailData *providers.EmailData) (*providers.EmailResult, error) {
	if service == nil {
		return &providers.EmailResult{
			Success:  false,
			Error:    registry.ErrEmailServiceRequired.Error(),
			Provider: registry.ProviderLabelTemplate,
		}, registry.ErrEmailServiceRequired
	}
	if template == nil {
		return &providers.EmailResult{
			Success:  false,
			Error:    registry.ErrEmailTemplateRequired.Error(),
			Provider: registry.ProviderLabelTemplate,
		}, registry.ErrEmailTemplateRequired
	}
	if emailData == nil {
		emailData = &providers.EmailData{}
	}

	html, text, err := template.Render(values)
	if err != nil {
		return &providers.EmailResult{
			Success:  false,
			Error:    err.Error(),
			Provider: registry.ProviderLabelTemplate,
		}, err
	}

	data := cloneEmailData(emailData)
	data.HTML = html
	data.Text = text
	return service.Send(ctx, data)
}

// VerifyProviders reports, per provider name, whether its credentials work.
func (s *EmailService) VerifyProviders(ctx context.Context) map[string]bool {
	results := make(map[string]bool, len(s.providers))
	for _, provider := range s.providers {
		verified, _ := provider.Verify(ctx)
		results[provider.GetName()] = verified
	}
	return results
}

func cloneEmailData(emailData *providers.EmailData) *providers.EmailData {
	clone := *emailData

	if emailData.To != nil {
		clone.To = append([]string(nil), emailData.To...)
	}
	if emailData.CC != nil {
		clone.CC = append([]string(nil), emailData.CC...)
	}
	if emailData.BCC != nil {
		clone.BCC = append([]string(nil), emailData.BCC...)
	}

	return &clone
}
