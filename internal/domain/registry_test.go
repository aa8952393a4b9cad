package domain

import (
	"testing"

	"lawfirm-cms/internal/resource"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemas_UniquePaths(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range Schemas() {
		assert.False(t, seen[s.Path()], s.Path())
		seen[s.Path()] = true
	}
	assert.Len(t, seen, 7)
}

func TestLookup(t *testing.T) {
	s, ok := Lookup("appointment")
	require.True(t, ok)
	assert.Equal(t, resource.AccessRequired, s.Binding.ReadAccess)
	assert.True(t, s.PublicCreate)
	assert.True(t, s.ReadOnly)

	s, ok = Lookup("team")
	require.True(t, ok)
	assert.Equal(t, resource.AccessPublic, s.Binding.ReadAccess)

	_, ok = Lookup("cases")
	assert.False(t, ok)
}
