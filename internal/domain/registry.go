// Package domain lists every resource the CMS manages.
package domain

import (
	"lawfirm-cms/internal/domain/about"
	"lawfirm-cms/internal/domain/hero"
	"lawfirm-cms/internal/domain/inquiry"
	"lawfirm-cms/internal/domain/schema"
	"lawfirm-cms/internal/domain/service"
	"lawfirm-cms/internal/domain/team"
	"lawfirm-cms/internal/domain/testimonial"
)

// Schemas returns every resource schema in admin sidebar order.
func Schemas() []schema.Schema {
	return []schema.Schema{
		hero.Schema,
		about.Schema,
		service.Schema,
		team.Schema,
		testimonial.Schema,
		inquiry.ContactSchema,
		inquiry.AppointmentSchema,
	}
}

// Lookup finds the schema bound to path.
func Lookup(path string) (schema.Schema, bool) {
	for _, s := range Schemas() {
		if s.Path() == path {
			return s, true
		}
	}
	return schema.Schema{}, false
}
