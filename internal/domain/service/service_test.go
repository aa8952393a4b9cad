package service

import (
	"encoding/json"
	"net/http"
	"testing"

	"lawfirm-cms/internal/resource"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapper_FromEntityFlattensLists(t *testing.T) {
	s := Service{
		ID:                  "s1",
		ServiceCardTitle:    "Tax Law",
		ServiceCardFeatures: []string{"Audits", "Filings"},
		Details:             []Detail{{Title: "Audit", KeyServices: []string{"IRS", "State"}}},
		Image:               &resource.ImageRef{URL: "https://cdn/tax.png", PublicID: "p1"},
	}

	form := Mapper{}.FromEntity(s)

	assert.Equal(t, "Audits, Filings", form.ServiceCardFeatures)
	assert.Equal(t, "IRS, State", form.Details[0].KeyServices)
	assert.Equal(t, "https://cdn/tax.png", Mapper{}.ImageURL(s))
	assert.Empty(t, Mapper{}.ImageURL(Service{}))
}

func TestMapper_ToFieldsSplitsLists(t *testing.T) {
	fields := Mapper{}.ToFields(Form{
		ServiceCardTitle:    "Tax Law",
		ServiceCardFeatures: "Audits, , Filings ",
		Details:             []DetailForm{{Title: "Audit", KeyServices: "IRS,State"}},
	})

	features, ok := fields.Get("serviceCardFeatures")
	require.True(t, ok)
	assert.Equal(t, []string{"Audits", "Filings"}, features)

	data, err := json.Marshal(fields)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"details":[{"title":"Audit","description":"","keyServices":["IRS","State"]}]`)
}

func TestSchemaUsesPut(t *testing.T) {
	assert.Equal(t, http.MethodPut, Schema.Binding.UpdateMethod)
	assert.Equal(t, "services", Schema.Path())
	assert.True(t, Schema.Known("serviceCardFeatures"))
	assert.True(t, Schema.Known("details"))
	assert.False(t, Schema.Known("rating"))
}
