// Package schema describes a resource's wire shape once, so the client binding
// and the reference backend agree on it.
package schema

import "lawfirm-cms/internal/resource"

// Schema is the per-resource contract.
type Schema struct {
	Binding resource.Binding

	// Rules maps every scalar field to go-playground/validator tags, e.g.
	// "required,email". Optional fields use "omitempty".
	Rules map[string]string
	// Lists are []string fields. The backend accepts a JSON array or comma text.
	Lists []string
	// Objects are nested JSON fields that arrive stringified in multipart bodies.
	Objects []string
	// ImageField is the document key storing the uploaded image; "" means none.
	ImageField string
	// PublicCreate allows POST without a token (site forms).
	PublicCreate bool
	// ReadOnly resources are never created or edited from the admin panel.
	ReadOnly bool
}

// Path is shorthand for s.Binding.Path.
func (s Schema) Path() string {
	return s.Binding.Path
}

// Known reports whether field is part of the schema. The backend drops
// anything else.
func (s Schema) Known(field string) bool {
	if _, ok := s.Rules[field]; ok {
		return true
	}
	for _, group := range [][]string{s.Lists, s.Objects} {
		for _, name := range group {
			if name == field {
				return true
			}
		}
	}
	return false
}
