// Package testimonial binds the "testimonial" resource. The client photo is
// uploaded under the shared image field and stored as clientImage.
package testimonial

import (
	"lawfirm-cms/internal/domain/schema"
	"lawfirm-cms/internal/resource"
)

const imageKey = "clientImage"

type Testimonial struct {
	ID               string             `json:"_id"`
	ClientName       string             `json:"clientName"`
	ClientProfession string             `json:"clientProfession"`
	Feedback         string             `json:"feedback"`
	ClientImage      *resource.ImageRef `json:"clientImage,omitempty"`
}

func (t Testimonial) EntityID() string { return t.ID }

type Form struct {
	ClientName       string
	ClientProfession string
	Feedback         string
}

var Schema = schema.Schema{
	Binding: resource.Binding{Path: "testimonial"},
	Rules: map[string]string{
		"clientName":       "required,max=120",
		"clientProfession": "omitempty,max=120",
		"feedback":         "required",
	},
	ImageField: imageKey,
}

func NewResource(c *resource.Client) *resource.Resource[Testimonial] {
	return resource.NewResource[Testimonial](c, Schema.Binding)
}

type Mapper struct{}

func (Mapper) Defaults() Form { return Form{} }

func (Mapper) FromEntity(t Testimonial) Form {
	return Form{ClientName: t.ClientName, ClientProfession: t.ClientProfession, Feedback: t.Feedback}
}

func (Mapper) ToFields(f Form) resource.Fields {
	return resource.Fields{
		{Name: "clientName", Value: f.ClientName},
		{Name: "clientProfession", Value: f.ClientProfession},
		{Name: "feedback", Value: f.Feedback},
	}
}

func (Mapper) ImageURL(t Testimonial) string { return t.ClientImage.URLOf() }
