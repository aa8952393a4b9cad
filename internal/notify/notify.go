// Package notify emails the firm when a visitor submits the contact or
// appointment form.
package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"lawfirm-cms/internal/domain/inquiry"
	"lawfirm-cms/pkg/mailer"
	"lawfirm-cms/pkg/mailer/providers"
	"lawfirm-cms/pkg/mailer/templates"

	"github.com/sirupsen/logrus"
)

const (
	sendTimeout = 20 * time.Second

	subjectContactFmt     = "New contact message from %s"
	subjectAppointmentFmt = "Appointment request from %s for %s"
)

type Config struct {
	Firm string
	To   []string
	// AdminURL links the notice to the admin panel; optional.
	AdminURL string
}

// Notifier sends inquiry notices in the background. A failed send is logged
// and never reaches the visitor.
type Notifier struct {
	mail *mailer.EmailService
	cfg  Config
	log  logrus.FieldLogger
	wg   sync.WaitGroup
}

func New(mail *mailer.EmailService, cfg Config, log logrus.FieldLogger) *Notifier {
	return &Notifier{mail: mail, cfg: cfg, log: log.WithField("component", "notify")}
}

// InquiryReceived queues a notice for a stored inquiry. Resources other than
// contact and appointment are ignored.
func (n *Notifier) InquiryReceived(resource, id string, fields map[string]any) {
	var send func(ctx context.Context) error
	switch resource {
	case inquiry.ContactSchema.Path():
		values := templates.ContactReceivedContext{
			Firm:     n.cfg.Firm,
			Name:     text(fields, "name"),
			Email:    text(fields, "email"),
			Phone:    text(fields, "phone"),
			Message:  text(fields, "message"),
			AdminURL: n.adminLink(resource),
		}
		data := n.envelope(fmt.Sprintf(subjectContactFmt, values.Name), values.Email)
		send = func(ctx context.Context) error {
			_, err := mailer.SendWithTypedTemplate(ctx, n.mail, templates.ContactReceived, values, data)
			return err
		}
	case inquiry.AppointmentSchema.Path():
		values := templates.AppointmentRequestedContext{
			Firm:     n.cfg.Firm,
			Name:     text(fields, "name"),
			Email:    text(fields, "email"),
			Phone:    text(fields, "phone"),
			Date:     text(fields, "date"),
			Time:     text(fields, "time"),
			AdminURL: n.adminLink(resource),
		}
		data := n.envelope(fmt.Sprintf(subjectAppointmentFmt, values.Name, values.Date), values.Email)
		send = func(ctx context.Context) error {
			_, err := mailer.SendWithTypedTemplate(ctx, n.mail, templates.AppointmentRequested, values, data)
			return err
		}
	default:
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		entry := n.log.WithFields(logrus.Fields{"resource": resource, "id": id})
		if err := send(ctx); err != nil {
			entry.WithError(err).Warn("inquiry notification failed")
			return
		}
		entry.Info("inquiry notification sent")
	}()
}

// Wait blocks until queued notices have been handed to a provider or failed.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) envelope(subject, visitor string) *providers.EmailData {
	data := &providers.EmailData{
		To:      append([]string(nil), n.cfg.To...),
		Subject: subject,
	}
	if mailer.ValidateEmail(visitor) == nil {
		data.ReplyTo = mailer.NormalizeEmail(visitor)
	}
	return data
}

func (n *Notifier) adminLink(resource string) string {
	if n.cfg.AdminURL == "" {
		return ""
	}
	return strings.TrimRight(n.cfg.AdminURL, "/") + "/" + resource
}

func text(fields map[string]any, key string) string {
	if s, ok := fields[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}
