// Package admin composes the admin screens: each page pairs a collection with
// an edit session, and the panel builds one page per managed resource.
package admin

import (
	"context"

	"lawfirm-cms/internal/domain/about"
	"lawfirm-cms/internal/domain/hero"
	"lawfirm-cms/internal/domain/inquiry"
	"lawfirm-cms/internal/domain/service"
	"lawfirm-cms/internal/domain/team"
	"lawfirm-cms/internal/domain/testimonial"
	"lawfirm-cms/internal/resource"
	"lawfirm-cms/pkg/logger"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Screen is the type-erased view of a Page used for dashboards and menus.
type Screen interface {
	Name() string
	ReadOnly() bool
	Mount(ctx context.Context) error
	Unmount()
	Delete(ctx context.Context, id string) error
	Err() error
	Loading() bool
	count() int
}

func (p *Page[T, F]) count() int { return len(p.collection.Items()) }

// Panel holds one page per resource, all sharing a client.
type Panel struct {
	Hero         *Page[hero.Section, hero.Form]
	About        *Page[about.About, about.Form]
	Services     *Page[service.Service, service.Form]
	Team         *Page[team.Member, team.Form]
	Testimonials *Page[testimonial.Testimonial, testimonial.Form]
	Contacts     *Page[inquiry.Contact, inquiry.ContactForm]
	Appointments *Page[inquiry.Appointment, inquiry.AppointmentForm]
}

func NewPanel(client *resource.Client, log logrus.FieldLogger) *Panel {
	if log == nil {
		log = logger.Logger
	}
	withLog := WithLogger(log)

	return &Panel{
		Hero:         NewPage[hero.Section, hero.Form]("info", hero.NewResource(client), hero.Mapper{}, withLog),
		About:        NewPage[about.About, about.Form]("about", about.NewResource(client), about.Mapper{}, withLog),
		Services:     NewPage[service.Service, service.Form]("services", service.NewResource(client), service.Mapper{}, withLog),
		Team:         NewPage[team.Member, team.Form]("team", team.NewResource(client), team.Mapper{}, withLog),
		Testimonials: NewPage[testimonial.Testimonial, testimonial.Form]("testimonial", testimonial.NewResource(client), testimonial.Mapper{}, withLog),
		Contacts:     NewPage[inquiry.Contact, inquiry.ContactForm]("contact", inquiry.NewContacts(client), inquiry.ContactMapper{}, withLog, ReadOnly()),
		Appointments: NewPage[inquiry.Appointment, inquiry.AppointmentForm]("appointment", inquiry.NewAppointments(client), inquiry.AppointmentMapper{}, withLog, ReadOnly()),
	}
}

// Screens lists the pages in sidebar order.
func (p *Panel) Screens() []Screen {
	return []Screen{p.Hero, p.About, p.Services, p.Team, p.Testimonials, p.Contacts, p.Appointments}
}

// Screen finds a page by resource name.
func (p *Panel) Screen(name string) (Screen, bool) {
	for _, s := range p.Screens() {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

// Summary is one dashboard tile.
type Summary struct {
	Name  string
	Count int
	Err   error
}

// Dashboard mounts every page and reports its size. A failing page is
// reported in its tile and does not stop the others.
func (p *Panel) Dashboard(ctx context.Context) []Summary {
	screens := p.Screens()
	out := make([]Summary, len(screens))

	var g errgroup.Group
	for i, s := range screens {
		g.Go(func() error {
			err := s.Mount(ctx)
			out[i] = Summary{Name: s.Name(), Count: s.count(), Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// Close unmounts every page.
func (p *Panel) Close() {
	for _, s := range p.Screens() {
		s.Unmount()
	}
}
