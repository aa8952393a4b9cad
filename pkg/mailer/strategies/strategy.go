package strategies

import (
	"context"

	"lawfirm-cms/pkg/mailer/providers"
	"lawfirm-cms/pkg/mailer/registry"
)

type EmailStrategy interface {
	Send(ctx context.Context, emailData *providers.EmailData, providerList []providers.EmailProvider) (*providers.EmailResult, error)
}

// ByName returns the strategy configured as name. An empty name is single.
func ByName(name string) (EmailStrategy, error) {
	switch name {
	case "", registry.StrategySingle:
		return &SingleProviderStrategy{}, nil
	case registry.StrategyFailover:
		return &FailoverStrategy{}, nil
	case registry.StrategyRoundRobin:
		return &RoundRobinStrategy{}, nil
	default:
		return nil, registry.ErrUnknownStrategy(name)
	}
}

func noProviders() (*providers.EmailResult, error) {
	return &providers.EmailResult{
		Success:  false,
		Error:    registry.ErrNoProvidersConfigured.Error(),
		Provider: registry.ProviderLabelNone,
	}, registry.ErrNoProvidersConfigured
}
