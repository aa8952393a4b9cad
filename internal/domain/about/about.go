// Package about binds the "about" resource: the about page header and its
// headline figures.
package about

import (
	"strings"

	"lawfirm-cms/internal/domain/schema"
	"lawfirm-cms/internal/resource"
)

// Stat is one headline figure, e.g. {"Cases Won", "500+"}.
type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type About struct {
	ID       string             `json:"_id"`
	Title    string             `json:"title"`
	Subtitle string             `json:"subtitle"`
	Stats    []Stat             `json:"stats"`
	Image    *resource.ImageRef `json:"image,omitempty"`
}

func (a About) EntityID() string { return a.ID }

type Form struct {
	Title    string
	Subtitle string
	Stats    []Stat
}

var Schema = schema.Schema{
	Binding: resource.Binding{Path: "about"},
	Rules: map[string]string{
		"title":    "required,max=200",
		"subtitle": "required",
	},
	Objects:    []string{"stats"},
	ImageField: resource.ImageField,
}

func NewResource(c *resource.Client) *resource.Resource[About] {
	return resource.NewResource[About](c, Schema.Binding)
}

type Mapper struct{}

// Defaults starts with one empty stat row.
func (Mapper) Defaults() Form {
	return Form{Stats: []Stat{{}}}
}

func (Mapper) FromEntity(a About) Form {
	stats := append([]Stat(nil), a.Stats...)
	if len(stats) == 0 {
		stats = []Stat{{}}
	}
	return Form{Title: a.Title, Subtitle: a.Subtitle, Stats: stats}
}

// ToFields drops stat rows left entirely blank.
func (Mapper) ToFields(f Form) resource.Fields {
	stats := make([]Stat, 0, len(f.Stats))
	for _, s := range f.Stats {
		s.Label, s.Value = strings.TrimSpace(s.Label), strings.TrimSpace(s.Value)
		if s.Label == "" && s.Value == "" {
			continue
		}
		stats = append(stats, s)
	}
	return resource.Fields{
		{Name: "title", Value: f.Title},
		{Name: "subtitle", Value: f.Subtitle},
		{Name: "stats", Value: stats},
	}
}

func (Mapper) ImageURL(a About) string { return a.Image.URLOf() }
