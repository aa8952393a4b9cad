package admin

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"lawfirm-cms/internal/collection"
	"lawfirm-cms/internal/editsession"
	"lawfirm-cms/internal/resource"
	apperrors "lawfirm-cms/pkg/errors"
	"lawfirm-cms/pkg/logger"

	"github.com/sirupsen/logrus"
)

var (
	// ErrUnmounted is returned by every operation after Unmount.
	ErrUnmounted = errors.New("admin page unmounted")
	// ErrNotInCollection is returned when editing an id the page has not loaded.
	ErrNotInCollection = errors.New("entity is not in the collection")
)

const errNotInCollectionFmt = "%w: %s"

// Page is one admin screen: a collection with an edit form beside it.
type Page[T resource.Entity, F any] struct {
	name     string
	readOnly bool
	log      logrus.FieldLogger

	collection *collection.Controller[T]
	session    *editsession.Session[T, F]

	mu        sync.Mutex
	unmounted bool
	notice    string
}

type PageOption func(*pageOptions)

type pageOptions struct {
	readOnly bool
	log      logrus.FieldLogger
}

// ReadOnly makes Submit and form edits fail with ErrReadOnly.
func ReadOnly() PageOption {
	return func(o *pageOptions) { o.readOnly = true }
}

func WithLogger(l logrus.FieldLogger) PageOption {
	return func(o *pageOptions) {
		if l != nil {
			o.log = l
		}
	}
}

func NewPage[T resource.Entity, F any](name string, source collection.Source[T], mapper editsession.Mapper[T, F], opts ...PageOption) *Page[T, F] {
	o := pageOptions{log: logger.Logger}
	for _, opt := range opts {
		opt(&o)
	}

	p := &Page[T, F]{
		name:       name,
		readOnly:   o.readOnly,
		log:        o.log.WithField("page", name),
		collection: collection.New[T](source),
		session:    editsession.New[T, F](mapper),
	}
	p.collection.OnRemove(func(id string) {
		if p.session.Invalidate(id) {
			p.log.WithField("id", id).Debug("edit session invalidated by delete")
		}
	})
	return p
}

func (p *Page[T, F]) Name() string   { return p.name }
func (p *Page[T, F]) ReadOnly() bool { return p.readOnly }

// Mount loads the collection. An edit bound to an entity the backend no
// longer lists falls back to creation.
func (p *Page[T, F]) Mount(ctx context.Context) error {
	if err := p.alive(); err != nil {
		return err
	}
	if err := p.translate(p.collection.Refresh(ctx)); err != nil {
		return p.track("refresh", err)
	}
	if id := p.session.EditingID(); id != "" {
		if _, ok := p.collection.Find(id); !ok && p.session.Invalidate(id) {
			p.log.WithField("id", id).Debug("edit session invalidated by refresh")
		}
	}
	return p.track("refresh", nil)
}

// Refresh is the explicit retry offered after a failed load.
func (p *Page[T, F]) Refresh(ctx context.Context) error {
	return p.Mount(ctx)
}

// Unmount discards any response still in flight. The page cannot be reused.
func (p *Page[T, F]) Unmount() {
	p.mu.Lock()
	p.unmounted = true
	p.mu.Unlock()
	p.collection.Close()
}

// Edit binds the form to the loaded entity with id.
func (p *Page[T, F]) Edit(id string) error {
	if err := p.writable(); err != nil {
		return err
	}
	entity, ok := p.collection.Find(id)
	if !ok {
		return fmt.Errorf(errNotInCollectionFmt, ErrNotInCollection, id)
	}
	p.session.StartEdit(entity)
	return nil
}

// New switches the form to creation.
func (p *Page[T, F]) New() {
	p.session.StartCreate()
}

func (p *Page[T, F]) Cancel() {
	p.session.Cancel()
}

func (p *Page[T, F]) SelectFile(upload *resource.Upload) error {
	if err := p.writable(); err != nil {
		return err
	}
	p.session.SelectFile(upload)
	return nil
}

func (p *Page[T, F]) UpdateForm(fn func(form *F)) error {
	if err := p.writable(); err != nil {
		return err
	}
	p.session.Update(fn)
	return nil
}

// Submit sends the form. Only a successful submit resets it; on failure the
// form, file and editing id stay as they were.
func (p *Page[T, F]) Submit(ctx context.Context) (T, error) {
	var zero T
	if err := p.writable(); err != nil {
		return zero, err
	}

	payload := p.session.Payload()
	entity, err := p.collection.Submit(ctx, payload.Fields, payload.File, payload.EditingID)
	if err = p.translate(err); err != nil {
		return zero, p.track("submit", err)
	}

	p.session.CompleteIf(payload.EditingID)
	if payload.EditingID == "" {
		p.setNotice(fmt.Sprintf("%s created", p.name))
	} else {
		p.setNotice(fmt.Sprintf("%s updated", p.name))
	}
	return entity, p.track("submit", nil)
}

// Delete removes id. Read-only pages may delete.
func (p *Page[T, F]) Delete(ctx context.Context, id string) error {
	if err := p.alive(); err != nil {
		return err
	}
	if err := p.translate(p.collection.Destroy(ctx, id)); err != nil {
		return p.track("delete", err)
	}
	p.setNotice(fmt.Sprintf("%s deleted", p.name))
	return p.track("delete", nil)
}

func (p *Page[T, F]) Items() []T                   { return p.collection.Items() }
func (p *Page[T, F]) Loading() bool                { return p.collection.Loading() }
func (p *Page[T, F]) Err() error                   { return p.collection.Err() }
func (p *Page[T, F]) Form() F                      { return p.session.Form() }
func (p *Page[T, F]) Mode() editsession.Mode       { return p.session.Mode() }
func (p *Page[T, F]) EditingID() string            { return p.session.EditingID() }
func (p *Page[T, F]) Preview() editsession.Preview { return p.session.Preview() }

// Notice is the last success message, e.g. "services updated".
func (p *Page[T, F]) Notice() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.notice
}

// NeedsLogin reports whether err should send the user back to the login screen.
func NeedsLogin(err error) bool {
	switch apperrors.KindOf(err) {
	case apperrors.KindAuth, apperrors.KindPrecondition:
		return true
	default:
		return false
	}
}

func (p *Page[T, F]) alive() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.unmounted {
		return ErrUnmounted
	}
	return nil
}

func (p *Page[T, F]) writable() error {
	if err := p.alive(); err != nil {
		return err
	}
	if p.readOnly {
		return apperrors.ErrReadOnly
	}
	return nil
}

func (p *Page[T, F]) setNotice(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.unmounted {
		p.notice = msg
	}
}

func (p *Page[T, F]) translate(err error) error {
	if errors.Is(err, collection.ErrDetached) {
		return ErrUnmounted
	}
	return err
}

func (p *Page[T, F]) track(op string, err error) error {
	entry := p.log.WithField("op", op)
	switch {
	case err == nil:
		entry.Debug("ok")
	case errors.Is(err, ErrUnmounted):
	case NeedsLogin(err):
		entry.WithField("kind", apperrors.KindOf(err)).Info("login required")
	default:
		entry.WithField("kind", apperrors.KindOf(err)).WithError(err).Warn("operation failed")
	}
	return err
}
