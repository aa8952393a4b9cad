package mailer

import (
	"testing"

	"lawfirm-cms/pkg/mailer/providers"
	"lawfirm-cms/pkg/mailer/registry"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmailData(t *testing.T) {
	valid := func() *providers.EmailData {
		return &providers.EmailData{From: "site@firm.test", To: []string{"desk@firm.test"}, Subject: "s", HTML: "<p>x</p>"}
	}

	tests := []struct {
		name   string
		mutate func(d *providers.EmailData)
		want   string
	}{
		{"valid", func(d *providers.EmailData) {}, ""},
		{"no recipients", func(d *providers.EmailData) { d.To = nil }, registry.ErrAtLeastOneRecipient.Error()},
		{"bad from", func(d *providers.EmailData) { d.From = "site" }, registry.ErrInvalidFromEmail.Error()},
		{"no subject", func(d *providers.EmailData) { d.Subject = "" }, registry.ErrSubjectRequired.Error()},
		{"bad reply-to", func(d *providers.EmailData) { d.ReplyTo = "nope" }, registry.ErrInvalidReplyToEmail.Error()},
		{"bad cc", func(d *providers.EmailData) { d.CC = []string{"ok@firm.test", "x@"} }, "x@"},
		{"named recipient", func(d *providers.EmailData) { d.To = []string{"Front Desk <desk@firm.test>"} }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid()
			tt.mutate(d)
			err := ValidateEmailData(d)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.want)
		})
	}

	assert.ErrorIs(t, ValidateEmailData(nil), registry.ErrEmailDataRequired)
}
