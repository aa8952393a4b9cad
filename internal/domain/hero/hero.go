// Package hero binds the "info" resource: hero sections with an optional call
// to action, shown on the home and about pages.
package hero

import (
	"lawfirm-cms/internal/domain/schema"
	"lawfirm-cms/internal/resource"
)

type Section struct {
	ID          string             `json:"_id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	ButtonText  string             `json:"buttonText,omitempty"`
	ButtonLink  string             `json:"buttonLink,omitempty"`
	Image       *resource.ImageRef `json:"image,omitempty"`
}

func (s Section) EntityID() string { return s.ID }

type Form struct {
	Title       string
	Description string
	ButtonText  string
	ButtonLink  string
}

var Schema = schema.Schema{
	Binding: resource.Binding{Path: "info"},
	Rules: map[string]string{
		"title":       "required,max=200",
		"description": "required",
		"buttonText":  "omitempty,max=60",
		"buttonLink":  "omitempty,url",
	},
	ImageField: resource.ImageField,
}

func NewResource(c *resource.Client) *resource.Resource[Section] {
	return resource.NewResource[Section](c, Schema.Binding)
}

type Mapper struct{}

func (Mapper) Defaults() Form { return Form{} }

func (Mapper) FromEntity(s Section) Form {
	return Form{Title: s.Title, Description: s.Description, ButtonText: s.ButtonText, ButtonLink: s.ButtonLink}
}

func (Mapper) ToFields(f Form) resource.Fields {
	return resource.Fields{
		{Name: "title", Value: f.Title},
		{Name: "description", Value: f.Description},
		{Name: "buttonText", Value: f.ButtonText},
		{Name: "buttonLink", Value: f.ButtonLink},
	}
}

func (Mapper) ImageURL(s Section) string { return s.Image.URLOf() }
