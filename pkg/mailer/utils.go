package mailer

import (
	"strings"

	"lawfirm-cms/pkg/mailer/providers"
	"lawfirm-cms/pkg/mailer/registry"
)

// ProviderConfig selects and authenticates one delivery provider.
type ProviderConfig struct {
	Name   string
	APIKey string
	APIURL string
}

// NewProvider builds the provider named in cfg.
func NewProvider(cfg ProviderConfig) (providers.EmailProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Name)) {
	case registry.ProviderResend:
		return providers.NewResendProvider(providers.ResendConfig{APIKey: cfg.APIKey, APIURL: cfg.APIURL}), nil
	case registry.ProviderSendGrid:
		return providers.NewSendGridProvider(providers.SendGridConfig{APIKey: cfg.APIKey, APIURL: cfg.APIURL}), nil
	default:
		return nil, registry.ErrUnknownProvider(cfg.Name)
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
