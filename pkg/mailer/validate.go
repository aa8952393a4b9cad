package mailer

import (
	"net/mail"

	"lawfirm-cms/pkg/mailer/providers"
	"lawfirm-cms/pkg/mailer/registry"
)

// ValidateEmail accepts RFC 5322 addresses, including "Name <addr>".
func ValidateEmail(email string) error {
	_, err := mail.ParseAddress(email)
	return err
}

// ValidateEmailData checks a message is deliverable before any provider sees it.
func ValidateEmailData(data *providers.EmailData) error {
	switch {
	case data == nil:
		return registry.ErrEmailDataRequired
	case len(data.To) == 0:
		return registry.ErrAtLeastOneRecipient
	case ValidateEmail(data.From) != nil:
		return registry.ErrInvalidFromEmail
	case data.Subject == "":
		return registry.ErrSubjectRequired
	case data.HTML == "":
		return registry.ErrHTMLContentRequired
	case data.ReplyTo != "" && ValidateEmail(data.ReplyTo) != nil:
		return registry.ErrInvalidReplyToEmail
	}

	if err := checkAll(data.To, registry.ErrInvalidToEmail); err != nil {
		return err
	}
	if err := checkAll(data.CC, registry.ErrInvalidCCEmail); err != nil {
		return err
	}
	return checkAll(data.BCC, registry.ErrInvalidBCCEmail)
}

func checkAll(addrs []string, invalid func(string) error) error {
	for _, a := range addrs {
		if ValidateEmail(a) != nil {
			return invalid(a)
		}
	}
	return nil
}
