// Package site loads the data behind the public pages and submits the two
// visitor forms.
package site

import (
	"context"
	"strings"
	"time"

	"lawfirm-cms/internal/domain/about"
	"lawfirm-cms/internal/domain/hero"
	"lawfirm-cms/internal/domain/inquiry"
	"lawfirm-cms/internal/domain/service"
	"lawfirm-cms/internal/domain/team"
	"lawfirm-cms/internal/domain/testimonial"
	"lawfirm-cms/internal/resource"

	"golang.org/x/sync/errgroup"
)

type Site struct {
	hero         *resource.Resource[hero.Section]
	about        *resource.Resource[about.About]
	services     *resource.Resource[service.Service]
	team         *resource.Resource[team.Member]
	testimonials *resource.Resource[testimonial.Testimonial]
	contacts     *resource.Resource[inquiry.Contact]
	appointments *resource.Resource[inquiry.Appointment]

	cache *listCache
}

type Option func(*Site)

// WithCacheTTL keeps public lists for ttl before asking the backend again.
// Zero or negative disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Site) {
		if ttl > 0 {
			s.cache = newListCache(ttl)
		}
	}
}

func New(client *resource.Client, opts ...Option) *Site {
	s := &Site{
		hero:         hero.NewResource(client),
		about:        about.NewResource(client),
		services:     service.NewResource(client),
		team:         team.NewResource(client),
		testimonials: testimonial.NewResource(client),
		contacts:     inquiry.NewContacts(client),
		appointments: inquiry.NewAppointments(client),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Invalidate forgets every cached list, e.g. after an admin edit.
func (s *Site) Invalidate() {
	if s.cache != nil {
		s.cache.clear()
	}
}

type Home struct {
	Hero         []hero.Section
	Services     []service.Service
	Testimonials []testimonial.Testimonial
}

// Home fetches the landing page sections in parallel.
func (s *Site) Home(ctx context.Context) (Home, error) {
	var home Home
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		home.Hero, err = list(ctx, s.cache, s.hero)
		return err
	})
	g.Go(func() (err error) {
		home.Services, err = list(ctx, s.cache, s.services)
		return err
	})
	g.Go(func() (err error) {
		home.Testimonials, err = list(ctx, s.cache, s.testimonials)
		return err
	})
	if err := g.Wait(); err != nil {
		return Home{}, err
	}
	return home, nil
}

type AboutPage struct {
	// About is the first about record, nil when none has been created yet.
	About    *about.About
	Sections []hero.Section
}

func (s *Site) About(ctx context.Context) (AboutPage, error) {
	var (
		page    AboutPage
		records []about.About
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		records, err = list(ctx, s.cache, s.about)
		return err
	})
	g.Go(func() (err error) {
		page.Sections, err = list(ctx, s.cache, s.hero)
		return err
	})
	if err := g.Wait(); err != nil {
		return AboutPage{}, err
	}
	if len(records) > 0 {
		page.About = &records[0]
	}
	return page, nil
}

func (s *Site) Services(ctx context.Context) ([]service.Service, error) {
	return list(ctx, s.cache, s.services)
}

// ServicesByCategory groups services for the services index, keeping the
// order in which categories first appear.
func (s *Site) ServicesByCategory(ctx context.Context) ([]Category, error) {
	items, err := list(ctx, s.cache, s.services)
	if err != nil {
		return nil, err
	}

	var out []Category
	index := map[string]int{}
	for _, item := range items {
		key := strings.TrimSpace(item.Category)
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, Category{Name: key})
		}
		out[i].Services = append(out[i].Services, item)
	}
	return out, nil
}

type Category struct {
	Name     string
	Services []service.Service
}

// Service is the service detail page.
func (s *Site) Service(ctx context.Context, id string) (service.Service, error) {
	return s.services.Get(ctx, id)
}

func (s *Site) Team(ctx context.Context) ([]team.Member, error) {
	return list(ctx, s.cache, s.team)
}

// SubmitContact sends the contact form. No login is needed.
func (s *Site) SubmitContact(ctx context.Context, form inquiry.ContactForm) (inquiry.Contact, error) {
	return s.contacts.Submit(ctx, inquiry.ContactMapper{}.ToFields(form))
}

// BookAppointment sends the booking form. No login is needed.
func (s *Site) BookAppointment(ctx context.Context, form inquiry.AppointmentForm) (inquiry.Appointment, error) {
	return s.appointments.Submit(ctx, inquiry.AppointmentMapper{}.ToFields(form))
}
