// Package editsession tracks whether an admin form is creating a new entity or
// editing an existing one, along with the form values and any pending image.
package editsession

import (
	"sync"

	"lawfirm-cms/internal/resource"
)

// Mode is the session state.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Mapper converts between an entity and its editable form F.
type Mapper[T resource.Entity, F any] interface {
	// Defaults is the blank form used for creation.
	Defaults() F
	// FromEntity seeds a form from an entity, flattening list fields to text.
	FromEntity(entity T) F
	// ToFields turns a form into request fields, splitting text back into lists.
	ToFields(form F) resource.Fields
	// ImageURL is the entity's current image, or "".
	ImageURL(entity T) string
}

// Preview is what the image slot of the form shows.
type Preview struct {
	// URL is the stored image of the entity being edited.
	URL string
	// LocalFile is set once a replacement file is selected and wins over URL.
	LocalFile string
}

// Empty reports whether there is nothing to preview.
func (p Preview) Empty() bool {
	return p.URL == "" && p.LocalFile == ""
}

// Payload is everything a submit needs.
type Payload struct {
	Fields    resource.Fields
	File      *resource.Upload
	EditingID string
}

// Session is safe for concurrent use, although a form normally drives it from
// one goroutine.
type Session[T resource.Entity, F any] struct {
	mapper Mapper[T, F]

	mu        sync.Mutex
	editingID string
	form      F
	file      *resource.Upload
	preview   Preview
}

// New returns a session in create mode with default form values.
func New[T resource.Entity, F any](mapper Mapper[T, F]) *Session[T, F] {
	return &Session[T, F]{mapper: mapper, form: mapper.Defaults()}
}

// StartCreate clears the editing id, the form, the file and the preview.
func (s *Session[T, F]) StartCreate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// Cancel is StartCreate.
func (s *Session[T, F]) Cancel() {
	s.StartCreate()
}

// StartEdit binds the session to entity and seeds the form from it.
func (s *Session[T, F]) StartEdit(entity T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editingID = entity.EntityID()
	s.form = s.mapper.FromEntity(entity)
	s.file = nil
	s.preview = Preview{URL: s.mapper.ImageURL(entity)}
}

// SelectFile stages a replacement image. A nil upload clears the selection
// and restores the stored image preview.
func (s *Session[T, F]) SelectFile(upload *resource.Upload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.file = upload
	if upload == nil {
		s.preview.LocalFile = ""
		return
	}
	s.preview.LocalFile = upload.Filename
}

// Update applies fn to the form in place.
func (s *Session[T, F]) Update(fn func(form *F)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.form)
}

// Invalidate returns the session to create mode if it is editing id, and
// reports whether it did.
func (s *Session[T, F]) Invalidate(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" || s.editingID != id {
		return false
	}
	s.reset()
	return true
}

func (s *Session[T, F]) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editingID != "" {
		return ModeEdit
	}
	return ModeCreate
}

// EditingID returns the bound entity id, or "" in create mode.
func (s *Session[T, F]) EditingID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editingID
}

func (s *Session[T, F]) Form() F {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

func (s *Session[T, F]) File() *resource.Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file
}

func (s *Session[T, F]) Preview() Preview {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preview
}

// Payload packages the current form for submission. The session itself is
// left untouched; callers reset it only after the backend accepts.
func (s *Session[T, F]) Payload() Payload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Payload{
		Fields:    s.mapper.ToFields(s.form),
		File:      s.file,
		EditingID: s.editingID,
	}
}

// CompleteIf resets the session after a successful submit, but only if it is
// still bound to editingID. A user who moved on to another entity while the
// request was in flight keeps their new form.
func (s *Session[T, F]) CompleteIf(editingID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editingID != editingID {
		return false
	}
	s.reset()
	return true
}

func (s *Session[T, F]) reset() {
	s.editingID = ""
	s.form = s.mapper.Defaults()
	s.file = nil
	s.preview = Preview{}
}
