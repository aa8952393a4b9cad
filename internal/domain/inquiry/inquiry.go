// Package inquiry binds the two visitor-submitted resources, contact messages
// and appointment requests. Visitors create them from the public site; admins
// can only list and delete them.
package inquiry

import (
	"time"

	"lawfirm-cms/internal/domain/schema"
	"lawfirm-cms/internal/resource"
)

type Contact struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

func (c Contact) EntityID() string { return c.ID }

type Appointment struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

func (a Appointment) EntityID() string { return a.ID }

// ContactForm is the public contact form.
type ContactForm struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// AppointmentForm is the public booking form. Date is YYYY-MM-DD, Time HH:MM.
type AppointmentForm struct {
	Name  string
	Email string
	Phone string
	Date  string
	Time  string
}

var ContactSchema = schema.Schema{
	Binding: resource.Binding{Path: "contact", ReadAccess: resource.AccessRequired},
	Rules: map[string]string{
		"name":    "required,max=120",
		"email":   "required,email",
		"phone":   "omitempty,max=40",
		"message": "required,max=5000",
	},
	PublicCreate: true,
	ReadOnly:     true,
}

var AppointmentSchema = schema.Schema{
	Binding: resource.Binding{Path: "appointment", ReadAccess: resource.AccessRequired},
	Rules: map[string]string{
		"name":  "required,max=120",
		"email": "required,email",
		"phone": "required,max=40",
		"date":  "required,datetime=2006-01-02",
		"time":  "required,datetime=15:04",
	},
	PublicCreate: true,
	ReadOnly:     true,
}

func NewContacts(c *resource.Client) *resource.Resource[Contact] {
	return resource.NewResource[Contact](c, ContactSchema.Binding)
}

func NewAppointments(c *resource.Client) *resource.Resource[Appointment] {
	return resource.NewResource[Appointment](c, AppointmentSchema.Binding)
}

// ContactMapper serves the read-only admin list and the public form.
type ContactMapper struct{}

func (ContactMapper) Defaults() ContactForm { return ContactForm{} }

func (ContactMapper) FromEntity(c Contact) ContactForm {
	return ContactForm{Name: c.Name, Email: c.Email, Phone: c.Phone, Message: c.Message}
}

func (ContactMapper) ToFields(f ContactForm) resource.Fields {
	return resource.Fields{
		{Name: "name", Value: f.Name},
		{Name: "email", Value: f.Email},
		{Name: "phone", Value: f.Phone},
		{Name: "message", Value: f.Message},
	}
}

func (ContactMapper) ImageURL(Contact) string { return "" }

type AppointmentMapper struct{}

func (AppointmentMapper) Defaults() AppointmentForm { return AppointmentForm{} }

func (AppointmentMapper) FromEntity(a Appointment) AppointmentForm {
	return AppointmentForm{Name: a.Name, Email: a.Email, Phone: a.Phone, Date: a.Date, Time: a.Time}
}

func (AppointmentMapper) ToFields(f AppointmentForm) resource.Fields {
	return resource.Fields{
		{Name: "name", Value: f.Name},
		{Name: "email", Value: f.Email},
		{Name: "phone", Value: f.Phone},
		{Name: "date", Value: f.Date},
		{Name: "time", Value: f.Time},
	}
}

func (AppointmentMapper) ImageURL(Appointment) string { return "" }
