// Package team binds the "team" resource.
package team

import (
	"lawfirm-cms/internal/domain/schema"
	"lawfirm-cms/internal/resource"
)

type Social struct {
	LinkedIn string `json:"linkedin,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
	Facebook string `json:"facebook,omitempty"`
}

type Member struct {
	ID       string             `json:"_id"`
	Name     string             `json:"name"`
	Position string             `json:"position"`
	Bio      string             `json:"bio"`
	Social   Social             `json:"social"`
	Image    *resource.ImageRef `json:"image,omitempty"`
}

func (m Member) EntityID() string { return m.ID }

type Form struct {
	Name     string
	Position string
	Bio      string
	Social   Social
}

var Schema = schema.Schema{
	Binding: resource.Binding{Path: "team"},
	Rules: map[string]string{
		"name":     "required,max=120",
		"position": "required,max=120",
		"bio":      "omitempty",
	},
	Objects:    []string{"social"},
	ImageField: resource.ImageField,
}

func NewResource(c *resource.Client) *resource.Resource[Member] {
	return resource.NewResource[Member](c, Schema.Binding)
}

type Mapper struct{}

func (Mapper) Defaults() Form { return Form{} }

func (Mapper) FromEntity(m Member) Form {
	return Form{Name: m.Name, Position: m.Position, Bio: m.Bio, Social: m.Social}
}

func (Mapper) ToFields(f Form) resource.Fields {
	return resource.Fields{
		{Name: "name", Value: f.Name},
		{Name: "position", Value: f.Position},
		{Name: "bio", Value: f.Bio},
		{Name: "social", Value: f.Social},
	}
}

func (Mapper) ImageURL(m Member) string { return m.Image.URLOf() }
