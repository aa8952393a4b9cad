package editsession

import (
	"testing"

	"lawfirm-cms/internal/formfield"
	"lawfirm-cms/internal/resource"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type member struct {
	ID     string
	Name   string
	Skills []string
	Image  string
}

func (m member) EntityID() string { return m.ID }

type memberForm struct {
	Name   string
	Skills string
}

type memberMapper struct{}

func (memberMapper) Defaults() memberForm { return memberForm{} }

func (memberMapper) FromEntity(m member) memberForm {
	return memberForm{Name: m.Name, Skills: formfield.Join(m.Skills)}
}

func (memberMapper) ToFields(f memberForm) resource.Fields {
	return resource.Fields{
		{Name: "name", Value: f.Name},
		{Name: "skills", Value: formfield.Split(f.Skills)},
	}
}

func (memberMapper) ImageURL(m member) string { return m.Image }

var alice = member{ID: "m1", Name: "Alice", Skills: []string{"Tax", "Estates"}, Image: "https://cdn/alice.jpg"}

func TestNewSessionIsCreateMode(t *testing.T) {
	s := New[member, memberForm](memberMapper{})

	assert.Equal(t, ModeCreate, s.Mode())
	assert.Empty(t, s.EditingID())
	assert.Equal(t, memberForm{}, s.Form())
	assert.True(t, s.Preview().Empty())
}

func TestStartEdit_SeedsFormAndPreview(t *testing.T) {
	s := New[member, memberForm](memberMapper{})
	s.SelectFile(&resource.Upload{Filename: "stale.png"})

	s.StartEdit(alice)

	assert.Equal(t, ModeEdit, s.Mode())
	assert.Equal(t, "m1", s.EditingID())
	assert.Equal(t, memberForm{Name: "Alice", Skills: "Tax, Estates"}, s.Form())
	assert.Equal(t, Preview{URL: "https://cdn/alice.jpg"}, s.Preview())
	assert.Nil(t, s.File(), "starting an edit drops any pending file")
}

func TestSelectFile_SwitchesPreview(t *testing.T) {
	s := New[member, memberForm](memberMapper{})
	s.StartEdit(alice)

	s.SelectFile(&resource.Upload{Filename: "new.png", Data: []byte("x")})
	assert.Equal(t, "new.png", s.Preview().LocalFile)
	assert.Equal(t, "new.png", s.File().Filename)

	s.SelectFile(nil)
	assert.Equal(t, Preview{URL: "https://cdn/alice.jpg"}, s.Preview())
	assert.Nil(t, s.File())
}

func TestPayload_SplitsListFields(t *testing.T) {
	s := New[member, memberForm](memberMapper{})
	s.StartEdit(alice)
	s.Update(func(f *memberForm) { f.Skills = "Tax,  Probate ,," })
	upload := &resource.Upload{Filename: "a.png"}
	s.SelectFile(upload)

	p := s.Payload()

	assert.Equal(t, "m1", p.EditingID)
	assert.Same(t, upload, p.File)
	skills, ok := p.Fields.Get("skills")
	require.True(t, ok)
	assert.Equal(t, []string{"Tax", "Probate"}, skills)
	assert.Equal(t, ModeEdit, s.Mode(), "packaging does not reset")
}

func TestCancelEqualsStartCreate(t *testing.T) {
	s := New[member, memberForm](memberMapper{})
	s.StartEdit(alice)
	s.SelectFile(&resource.Upload{Filename: "a.png"})

	s.Cancel()

	assert.Equal(t, ModeCreate, s.Mode())
	assert.Equal(t, memberForm{}, s.Form())
	assert.Nil(t, s.File())
	assert.True(t, s.Preview().Empty())
}

func TestInvalidate(t *testing.T) {
	s := New[member, memberForm](memberMapper{})
	s.StartEdit(alice)

	assert.False(t, s.Invalidate("other"))
	assert.Equal(t, "m1", s.EditingID())

	assert.True(t, s.Invalidate("m1"))
	assert.Equal(t, ModeCreate, s.Mode())
	assert.Equal(t, memberForm{}, s.Form())
}

func TestCompleteIf(t *testing.T) {
	s := New[member, memberForm](memberMapper{})
	s.StartEdit(alice)
	s.Update(func(f *memberForm) { f.Name = "Alice B." })

	assert.False(t, s.CompleteIf("someone-else"))
	assert.Equal(t, "Alice B.", s.Form().Name)

	assert.True(t, s.CompleteIf("m1"))
	assert.Equal(t, ModeCreate, s.Mode())
	assert.Equal(t, memberForm{}, s.Form())
}
