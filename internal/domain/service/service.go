// Package service binds the "services" resource: practice areas shown on the
// services pages, each with card copy, a feature list and detail sections.
package service

import (
	"net/http"

	"lawfirm-cms/internal/domain/schema"
	"lawfirm-cms/internal/formfield"
	"lawfirm-cms/internal/resource"
)

// Detail is one section of a service's detail page.
type Detail struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	KeyServices []string `json:"keyServices"`
}

type Service struct {
	ID                     string             `json:"_id"`
	Category               string             `json:"category"`
	Description            string             `json:"description"`
	ServiceCardTitle       string             `json:"serviceCardTitle"`
	ServiceCardDescription string             `json:"serviceCardDescription"`
	ServiceCardFeatures    []string           `json:"serviceCardFeatures"`
	Details                []Detail           `json:"details"`
	Image                  *resource.ImageRef `json:"image,omitempty"`
}

func (s Service) EntityID() string { return s.ID }

// DetailForm holds key services as comma text.
type DetailForm struct {
	Title       string
	Description string
	KeyServices string
}

type Form struct {
	Category               string
	Description            string
	ServiceCardTitle       string
	ServiceCardDescription string
	ServiceCardFeatures    string
	Details                []DetailForm
}

var Schema = schema.Schema{
	Binding: resource.Binding{Path: "services", UpdateMethod: http.MethodPut},
	Rules: map[string]string{
		"category":               "required,max=100",
		"description":            "required",
		"serviceCardTitle":       "required,max=200",
		"serviceCardDescription": "required",
	},
	Lists:      []string{"serviceCardFeatures"},
	Objects:    []string{"details"},
	ImageField: resource.ImageField,
}

func NewResource(c *resource.Client) *resource.Resource[Service] {
	return resource.NewResource[Service](c, Schema.Binding)
}

type Mapper struct{}

func (Mapper) Defaults() Form {
	return Form{Details: []DetailForm{}}
}

func (Mapper) FromEntity(s Service) Form {
	details := make([]DetailForm, 0, len(s.Details))
	for _, d := range s.Details {
		details = append(details, DetailForm{
			Title:       d.Title,
			Description: d.Description,
			KeyServices: formfield.Join(d.KeyServices),
		})
	}
	return Form{
		Category:               s.Category,
		Description:            s.Description,
		ServiceCardTitle:       s.ServiceCardTitle,
		ServiceCardDescription: s.ServiceCardDescription,
		ServiceCardFeatures:    formfield.Join(s.ServiceCardFeatures),
		Details:                details,
	}
}

func (Mapper) ToFields(f Form) resource.Fields {
	details := make([]Detail, 0, len(f.Details))
	for _, d := range f.Details {
		details = append(details, Detail{
			Title:       d.Title,
			Description: d.Description,
			KeyServices: formfield.Split(d.KeyServices),
		})
	}
	return resource.Fields{
		{Name: "category", Value: f.Category},
		{Name: "description", Value: f.Description},
		{Name: "serviceCardTitle", Value: f.ServiceCardTitle},
		{Name: "serviceCardDescription", Value: f.ServiceCardDescription},
		{Name: "serviceCardFeatures", Value: formfield.Split(f.ServiceCardFeatures)},
		{Name: "details", Value: details},
	}
}

func (Mapper) ImageURL(s Service) string { return s.Image.URLOf() }
