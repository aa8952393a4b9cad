package strategies

import (
	"context"
	"fmt"
	"strings"

	"lawfirm-cms/pkg/mailer/providers"
	"lawfirm-cms/pkg/mailer/registry"
)

// FailoverStrategy tries providers in order until one succeeds.
type FailoverStrategy struct{}

func (s *FailoverStrategy) Send(ctx context.Context, emailData *providers.EmailData, providerList []providers.EmailProvider) (*providers.EmailResult, error) {
	if len(providerList) == 0 {
		return noProviders()
	}

	var errorMessages []string

	for _, provider := range providerList {
		if provider == nil {
			errorMessages = append(errorMessages, fmt.Sprintf(registry.MsgProviderErrorFmt, registry.UnknownProviderName, registry.ErrProviderCannotBeNil.Error()))
			continue
		}
		if ctx.Err() != nil {
			break
		}

		result, err := provider.Send(ctx, emailData)
		if result != nil && result.Success {
			return result, nil
		}

		var errorText string
		switch {
		case result != nil && result.Error != "":
			errorText = result.Error
		case err != nil:
			errorText = err.Error()
		default:
			errorText = registry.StrategySendFailedText
		}
		errorMessages = append(errorMessages, fmt.Sprintf(registry.MsgProviderErrorFmt, provider.GetName(), errorText))
	}

	return &providers.EmailResult{
		Success:  false,
		Error:    fmt.Sprintf(registry.MsgProviderErrorFmt, registry.ErrAllProvidersFailed.Error(), strings.Join(errorMessages, registry.MessageSeparator)),
		Provider: registry.ProviderLabelFailover,
	}, registry.ErrAllProvidersFailed
}
