package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"lawfirm-cms/pkg/logger"
	"lawfirm-cms/pkg/mailer"
	"lawfirm-cms/pkg/mailer/providers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type outbox struct {
	mu   sync.Mutex
	fail bool
	sent []*providers.EmailData
}

func (o *outbox) Send(_ context.Context, data *providers.EmailData) (*providers.EmailResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, data)
	if o.fail {
		return &providers.EmailResult{Provider: "outbox"}, errors.New("rejected")
	}
	return &providers.EmailResult{Success: true, Provider: "outbox"}, nil
}

func (o *outbox) Verify(context.Context) (bool, error) { return true, nil }
func (o *outbox) GetName() string                      { return "outbox" }

func newNotifier(t *testing.T, box *outbox) *Notifier {
	t.Helper()
	svc, err := mailer.NewEmailService(mailer.EmailServiceConfig{
		Providers:   []providers.EmailProvider{box},
		DefaultFrom: "site@firm.test",
	})
	require.NoError(t, err)
	return New(svc, Config{Firm: "Hale & Ortiz", To: []string{"desk@firm.test"}, AdminURL: "https://firm.test/admin/"}, logger.Discard())
}

func TestInquiryReceived_Contact(t *testing.T) {
	box := &outbox{}
	n := newNotifier(t, box)

	n.InquiryReceived("contact", "c1", map[string]any{
		"name":    "Dana <b>Reyes</b>",
		"email":   " Dana@Example.com ",
		"phone":   "555-0100",
		"message": "Question about a lease",
	})
	n.Wait()

	require.Len(t, box.sent, 1)
	msg := box.sent[0]
	assert.Equal(t, []string{"desk@firm.test"}, msg.To)
	assert.Equal(t, "site@firm.test", msg.From)
	assert.Equal(t, "dana@example.com", msg.ReplyTo)
	assert.Contains(t, msg.Subject, "Dana <b>Reyes</b>")
	assert.Contains(t, msg.HTML, "Dana &lt;b&gt;Reyes&lt;/b&gt;")
	assert.Contains(t, msg.HTML, "https://firm.test/admin/contact")
	assert.Contains(t, msg.Text, "Question about a lease")
}

func TestInquiryReceived_Appointment(t *testing.T) {
	box := &outbox{}
	n := newNotifier(t, box)

	n.InquiryReceived("appointment", "a1", map[string]any{
		"name":  "Sam Lee",
		"email": "not an address",
		"phone": "555-0101",
		"date":  "2026-11-02",
		"time":  "10:30",
	})
	n.Wait()

	require.Len(t, box.sent, 1)
	msg := box.sent[0]
	assert.Equal(t, "Appointment request from Sam Lee for 2026-11-02", msg.Subject)
	assert.Empty(t, msg.ReplyTo)
	assert.Contains(t, msg.Text, "Sam Lee asked for 2026-11-02 at 10:30.")
}

func TestInquiryReceived_IgnoresOtherResources(t *testing.T) {
	box := &outbox{}
	n := newNotifier(t, box)

	n.InquiryReceived("services", "s1", map[string]any{"name": "Tax"})
	n.Wait()

	assert.Empty(t, box.sent)
}

func TestInquiryReceived_FailureIsSwallowed(t *testing.T) {
	box := &outbox{fail: true}
	n := newNotifier(t, box)

	n.InquiryReceived("contact", "c1", map[string]any{"name": "Dana", "email": "dana@example.com", "message": "hi"})
	n.Wait()

	assert.Len(t, box.sent, 1)
}

func TestInquiryReceived_MissingNameIsNotSent(t *testing.T) {
	box := &outbox{}
	n := newNotifier(t, box)

	n.InquiryReceived("contact", "c1", map[string]any{"email": "dana@example.com"})
	n.Wait()

	assert.Empty(t, box.sent)
}
