package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"lawfirm-cms/pkg/mailer/providers"
	"lawfirm-cms/pkg/mailer/registry"
	"lawfirm-cms/pkg/mailer/strategies"
	"lawfirm-cms/pkg/mailer/templates"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name string
	fail bool
	sent []*providers.EmailData
}

func (p *fakeProvider) Send(_ context.Context, data *providers.EmailData) (*providers.EmailResult, error) {
	p.sent = append(p.sent, data)
	if p.fail {
		return &providers.EmailResult{Provider: p.name, Error: p.name + " is down"}, errors.New("down")
	}
	return &providers.EmailResult{Success: true, Provider: p.name, MessageID: p.name + "-1"}, nil
}

func (p *fakeProvider) Verify(context.Context) (bool, error) { return !p.fail, nil }
func (p *fakeProvider) GetName() string                      { return p.name }

func message() *providers.EmailData {
	return &providers.EmailData{To: []string{"partners@firm.test"}, Subject: "New contact", HTML: "<p>hi</p>"}
}

func TestNewEmailService_Validates(t *testing.T) {
	_, err := NewEmailService(EmailServiceConfig{})
	assert.ErrorIs(t, err, registry.ErrAtLeastOneProviderRequired)

	_, err = NewEmailService(EmailServiceConfig{Providers: []providers.EmailProvider{nil}})
	assert.ErrorIs(t, err, registry.ErrProviderCannotBeNil)

	_, err = NewEmailService(EmailServiceConfig{Providers: []providers.EmailProvider{&fakeProvider{name: "a"}}, DefaultFrom: "nope"})
	assert.ErrorIs(t, err, registry.ErrInvalidDefaultFromEmail)
}

func TestSend_FillsDefaultFromAndValidates(t *testing.T) {
	p := &fakeProvider{name: "a"}
	svc, err := NewEmailService(EmailServiceConfig{Providers: []providers.EmailProvider{p}, DefaultFrom: "site@firm.test"})
	require.NoError(t, err)

	result, err := svc.Send(context.Background(), message())
	require.NoError(t, err)
	assert.True(t, result.Success)
	require.Len(t, p.sent, 1)
	assert.Equal(t, "site@firm.test", p.sent[0].From)

	bad := message()
	bad.To = []string{"not an address"}
	result, err = svc.Send(context.Background(), bad)
	assert.Error(t, err)
	assert.Equal(t, registry.ProviderLabelValidation, result.Provider)
	assert.Len(t, p.sent, 1)
}

func TestFailoverStrategy(t *testing.T) {
	down := &fakeProvider{name: "resend", fail: true}
	up := &fakeProvider{name: "sendgrid"}
	svc, err := NewEmailService(EmailServiceConfig{
		Providers:   []providers.EmailProvider{down, up},
		Strategy:    &strategies.FailoverStrategy{},
		DefaultFrom: "site@firm.test",
	})
	require.NoError(t, err)

	result, err := svc.Send(context.Background(), message())
	require.NoError(t, err)
	assert.Equal(t, "sendgrid", result.Provider)

	up.fail = true
	result, err = svc.Send(context.Background(), message())
	assert.ErrorIs(t, err, registry.ErrAllProvidersFailed)
	assert.Contains(t, result.Error, "resend: resend is down")
	assert.Contains(t, result.Error, "sendgrid: sendgrid is down")
}

func TestRoundRobinStrategy(t *testing.T) {
	a, b := &fakeProvider{name: "a"}, &fakeProvider{name: "b"}
	s := &strategies.RoundRobinStrategy{}
	list := []providers.EmailProvider{a, b}

	for i := 0; i < 4; i++ {
		_, err := s.Send(context.Background(), message(), list)
		require.NoError(t, err)
	}
	assert.Len(t, a.sent, 2)
	assert.Len(t, b.sent, 2)
}

func TestStrategyByName(t *testing.T) {
	for _, name := range []string{"", "single", "failover", "roundrobin"} {
		_, err := strategies.ByName(name)
		assert.NoError(t, err, name)
	}
	_, err := strategies.ByName("priority")
	assert.Error(t, err)
}

func TestSendWithTypedTemplate(t *testing.T) {
	p := &fakeProvider{name: "a"}
	svc, err := NewEmailService(EmailServiceConfig{Providers: []providers.EmailProvider{p}, DefaultFrom: "site@firm.test"})
	require.NoError(t, err)

	_, err = SendWithTypedTemplate(context.Background(), svc, templates.ContactReceived, templates.ContactReceivedContext{
		Firm:    "Doe & Partners",
		Name:    "<b>Ann</b>",
		Email:   "ann@example.test",
		Message: "Please call me back.",
	}, &providers.EmailData{To: []string{"partners@firm.test"}, Subject: "New contact"})
	require.NoError(t, err)

	require.Len(t, p.sent, 1)
	assert.Contains(t, p.sent[0].HTML, "&lt;b&gt;Ann&lt;/b&gt;")
	assert.Contains(t, p.sent[0].Text, "From:  <b>Ann</b> <ann@example.test>")
	assert.Contains(t, p.sent[0].Text, "Please call me back.")

	_, err = SendWithTypedTemplate(context.Background(), svc, templates.ContactReceived, templates.ContactReceivedContext{Name: "Ann"}, message())
	assert.ErrorIs(t, err, registry.ErrFirmRequired)
}

func TestResendProvider(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id":"msg_123"}`))
	}))
	defer srv.Close()

	p := providers.NewResendProvider(providers.ResendConfig{APIKey: "re_key", APIURL: srv.URL + "/"})
	data := message()
	data.From = "site@firm.test"
	data.ReplyTo = "ann@example.test"
	result, err := p.Send(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, "msg_123", result.MessageID)
	assert.Equal(t, "ann@example.test", got["reply_to"])
	assert.Equal(t, []any{"partners@firm.test"}, got["to"])
}

func TestSendGridProvider_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer srv.Close()

	p := providers.NewSendGridProvider(providers.SendGridConfig{APIKey: "sg_key", APIURL: srv.URL})
	result, err := p.Send(context.Background(), message())
	require.Error(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "SendGrid API error: 401")
	assert.Contains(t, result.Error, "bad key")
}

func TestProvidersRequireKey(t *testing.T) {
	for _, cfg := range []ProviderConfig{{Name: "resend"}, {Name: "SendGrid"}} {
		p, err := NewProvider(cfg)
		require.NoError(t, err)
		_, err = p.Send(context.Background(), message())
		assert.ErrorIs(t, err, registry.ErrAPIKeyRequired)
	}
	_, err := NewProvider(ProviderConfig{Name: "smtp"})
	assert.Error(t, err)
}
