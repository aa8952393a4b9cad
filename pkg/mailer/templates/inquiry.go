package templates

import (
	"net/url"
	"strings"

	"lawfirm-cms/pkg/mailer/registry"
)

// ContactReceivedContext fills the notice sent to the firm for a contact form.
type ContactReceivedContext struct {
	Firm     string
	Name     string
	Email    string
	Phone    string
	Message  string
	AdminURL string
}

// AppointmentRequestedContext fills the notice sent for a booking request.
type AppointmentRequestedContext struct {
	Firm     string
	Name     string
	Email    string
	Phone    string
	Date     string
	Time     string
	AdminURL string
}

const noticeStyle = `font-family: Arial, sans-serif; line-height: 1.6; color: #333;`

var ContactReceived = MustTemplate(registry.TemplateNameContactReceived, `
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<title>New contact message</title>
</head>
<body style="`+noticeStyle+`">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<h2>{{.Firm}}</h2>
		<p>{{.Name}} sent a message through the website.</p>
		<table style="border-collapse: collapse;">
			<tr><td style="padding-right: 12px;"><strong>Email</strong></td><td>{{.Email}}</td></tr>
			{{if .Phone}}<tr><td style="padding-right: 12px;"><strong>Phone</strong></td><td>{{.Phone}}</td></tr>{{end}}
		</table>
		<blockquote style="border-left: 3px solid #ccc; margin: 20px 0; padding-left: 12px; white-space: pre-wrap;">{{.Message}}</blockquote>
		{{if .AdminURL}}<p><a href="{{.AdminURL}}">Open the contact inbox</a></p>{{end}}
	</div>
</body>
</html>
`, `
New contact message for {{.Firm}}

From:  {{.Name}} <{{.Email}}>
{{if .Phone}}Phone: {{.Phone}}
{{end}}
{{.Message}}
{{if .AdminURL}}
Contact inbox: {{.AdminURL}}
{{end}}`, func(c ContactReceivedContext) (ContactReceivedContext, error) {
	c.Firm = strings.TrimSpace(c.Firm)
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Message = strings.TrimSpace(c.Message)
	return c, checkNotice(c.Firm, c.Name, &c.AdminURL)
})

var AppointmentRequested = MustTemplate(registry.TemplateNameAppointmentRequested, `
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<title>New appointment request</title>
</head>
<body style="`+noticeStyle+`">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<h2>{{.Firm}}</h2>
		<p>{{.Name}} asked for an appointment on <strong>{{.Date}}</strong> at <strong>{{.Time}}</strong>.</p>
		<table style="border-collapse: collapse;">
			<tr><td style="padding-right: 12px;"><strong>Email</strong></td><td>{{.Email}}</td></tr>
			<tr><td style="padding-right: 12px;"><strong>Phone</strong></td><td>{{.Phone}}</td></tr>
		</table>
		{{if .AdminURL}}<p><a href="{{.AdminURL}}">Open the appointment list</a></p>{{end}}
	</div>
</body>
</html>
`, `
New appointment request for {{.Firm}}

{{.Name}} asked for {{.Date}} at {{.Time}}.
Email: {{.Email}}
Phone: {{.Phone}}
{{if .AdminURL}}
Appointments: {{.AdminURL}}
{{end}}`, func(c AppointmentRequestedContext) (AppointmentRequestedContext, error) {
	c.Firm = strings.TrimSpace(c.Firm)
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Date = strings.TrimSpace(c.Date)
	c.Time = strings.TrimSpace(c.Time)
	return c, checkNotice(c.Firm, c.Name, &c.AdminURL)
})

func checkNotice(firm, name string, adminURL *string) error {
	if firm == "" {
		return registry.ErrFirmRequired
	}
	if name == "" {
		return registry.ErrSenderNameRequired
	}

	*adminURL = strings.TrimSpace(*adminURL)
	if *adminURL == "" {
		return nil
	}
	parsed, err := url.Parse(*adminURL)
	if err != nil || !parsed.IsAbs() ||
		(parsed.Scheme != registry.URLSchemeHTTP && parsed.Scheme != registry.URLSchemeHTTPS) {
		return registry.ErrAdminURLAbsolute
	}
	return nil
}
