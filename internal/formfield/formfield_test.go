package formfield

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Audits, Filings", []string{"Audits", "Filings"}},
		{" a ,b,,  c ", []string{"a", "b", "c"}},
		{"", []string{}},
		{" , ,", []string{}},
		{"single", []string{"single"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Split(tt.in), tt.in)
	}
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "Audits, Filings", Join([]string{"Audits", "Filings"}))
	assert.Equal(t, "", Join(nil))
}

func TestSplitJoinRoundTrip(t *testing.T) {
	items := []string{"Estate planning", "Probate", "Trusts"}
	assert.Equal(t, items, Split(Join(items)))
	assert.Equal(t, "a, b", Normalize("a,,b , "))
}
