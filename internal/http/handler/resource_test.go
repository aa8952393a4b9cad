package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"lawfirm-cms/internal/audit"
	"lawfirm-cms/internal/domain/about"
	"lawfirm-cms/internal/domain/inquiry"
	"lawfirm-cms/internal/domain/schema"
	"lawfirm-cms/internal/domain/service"
	"lawfirm-cms/internal/domain/team"
	repomemory "lawfirm-cms/internal/repository/memory"
	storagememory "lawfirm-cms/internal/storage/memory"
	"lawfirm-cms/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct{ ops []string }

func (r *recorder) RecordMutation(resource, op string) { r.ops = append(r.ops, resource+":"+op) }

type inbox struct{ got []string }

func (i *inbox) InquiryReceived(resource, id string, fields map[string]any) {
	i.got = append(i.got, resource+":"+fields["name"].(string))
}

type fixture struct {
	e      *echo.Echo
	docs   *repomemory.Store
	images *storagememory.Store
	rec    *recorder
	audit  *audit.Logger
	inbox  *inbox
}

func newFixture(t *testing.T, schemas ...schema.Schema) *fixture {
	t.Helper()
	f := &fixture{
		e:      echo.New(),
		docs:   repomemory.New(),
		images: storagememory.New(""),
		rec:    &recorder{},
		audit:  audit.NewLogger(audit.NewMemoryStore(0), logger.Discard()),
		inbox:  &inbox{},
	}
	h := NewResourceHandler(f.docs, f.images, 1024, f.rec).WithAudit(f.audit).WithNotifier(f.inbox)
	f.e.GET("/api/v1/audit", NewAuditHandler(f.audit).List)
	for _, s := range schemas {
		g := f.e.Group("/api/v1/" + s.Path())
		g.GET("", h.List(s))
		g.GET("/:id", h.Get(s))
		g.POST("", h.Create(s))
		g.PATCH("/:id", h.Update(s))
		g.PUT("/:id", h.Update(s))
		g.DELETE("/:id", h.Delete(s))
	}
	return f
}

type envelope struct {
	Data    map[string]any    `json:"data"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

func (f *fixture) do(t *testing.T, req *http.Request) (int, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec.Code, env
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func TestCreate_JSONNormalizesListsAndStripsMarkup(t *testing.T) {
	f := newFixture(t, service.Schema)

	code, env := f.do(t, jsonRequest(http.MethodPost, "/api/v1/services", `{
		"category": "Family Law",
		"description": "<script>alert(1)</script>Divorce &amp; custody",
		"serviceCardTitle": "Family",
		"serviceCardDescription": "We help families",
		"serviceCardFeatures": "Mediation, , Custody ",
		"details": [{"title": "<b>Custody</b>", "description": "x", "keyServices": ["Visitation"]}],
		"unknown": "dropped"
	}`))

	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "services created", env.Message)
	assert.NotEmpty(t, env.Data["_id"])
	assert.Equal(t, "Divorce & custody", env.Data["description"])
	assert.Equal(t, []any{"Mediation", "Custody"}, env.Data["serviceCardFeatures"])
	details := env.Data["details"].([]any)
	assert.Equal(t, "Custody", details[0].(map[string]any)["title"])
	assert.NotContains(t, env.Data, "unknown")
	assert.Equal(t, []string{"services:create"}, f.rec.ops)
}

func TestCreate_PublicSubmissionNotifies(t *testing.T) {
	f := newFixture(t, inquiry.ContactSchema, service.Schema)

	code, _ := f.do(t, jsonRequest(http.MethodPost, "/api/v1/contact", `{
		"name": "Dana", "email": "dana@example.com", "phone": "555-0100", "message": "Hello"
	}`))
	require.Equal(t, http.StatusCreated, code)

	code, _ = f.do(t, jsonRequest(http.MethodPost, "/api/v1/contact", `{"name": "Dana"}`))
	require.Equal(t, http.StatusBadRequest, code)

	code, _ = f.do(t, jsonRequest(http.MethodPost, "/api/v1/services", `{
		"category": "Tax", "description": "d", "serviceCardTitle": "Tax", "serviceCardDescription": "d"
	}`))
	require.Equal(t, http.StatusCreated, code)

	assert.Equal(t, []string{"contact:Dana"}, f.inbox.got)
}

func TestCreate_ValidationFailureReportsFields(t *testing.T) {
	f := newFixture(t, service.Schema)

	code, env := f.do(t, jsonRequest(http.MethodPost, "/api/v1/services", `{"category": "Tax"}`))

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, msgValidationFailed, env.Message)
	assert.Equal(t, "description is required", env.Errors["description"])
	assert.Contains(t, env.Errors, "serviceCardTitle")
	assert.NotContains(t, env.Errors, "category")
	assert.Empty(t, f.rec.ops)
}

func TestCreate_InvalidObjectText(t *testing.T) {
	f := newFixture(t, team.Schema)

	req := multipartRequest(t, http.MethodPost, "/api/v1/team", map[string]string{
		"name": "Ada", "position": "Partner", "bio": "b", "social": "{not json",
	}, "", "", nil)
	code, env := f.do(t, req)

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "social must be valid JSON", env.Errors["social"])
}

func TestImageLifecycle(t *testing.T) {
	f := newFixture(t, team.Schema)
	fields := map[string]string{
		"name": "Ada", "position": "Partner", "bio": "Bio",
		"social": `{"linkedin":"https://linkedin.com/in/ada"}`,
	}

	code, env := f.do(t, multipartRequest(t, http.MethodPost, "/api/v1/team", fields, "ada.png", "image/png", []byte("PNG1")))
	require.Equal(t, http.StatusCreated, code)
	id := env.Data["_id"].(string)
	first := env.Data["image"].(map[string]any)
	assert.True(t, strings.HasPrefix(first["url"].(string), "/uploads/images/"))
	assert.Equal(t, "https://linkedin.com/in/ada", env.Data["social"].(map[string]any)["linkedin"])
	assert.Equal(t, 1, f.images.Len())

	code, env = f.do(t, multipartRequest(t, http.MethodPatch, "/api/v1/team/"+id, map[string]string{"position": "Senior Partner"}, "ada2.jpg", "image/jpeg", []byte("JPG")))
	require.Equal(t, http.StatusOK, code)
	second := env.Data["image"].(map[string]any)
	assert.NotEqual(t, first["public_id"], second["public_id"])
	assert.Equal(t, "Ada", env.Data["name"], "fields absent from a partial update are kept")
	assert.Equal(t, "Senior Partner", env.Data["position"])
	assert.Equal(t, 1, f.images.Len(), "the replaced image is deleted")

	code, env = f.do(t, httptest.NewRequest(http.MethodDelete, "/api/v1/team/"+id, nil))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "team deleted", env.Message)
	assert.Equal(t, 0, f.images.Len())
	assert.Equal(t, []string{"team:create", "team:update", "team:delete"}, f.rec.ops)
}

func TestImageRejected(t *testing.T) {
	f := newFixture(t, about.Schema, service.Schema)
	fields := map[string]string{"title": "About", "subtitle": "Us", "stats": `[{"label":"Years","value":"20"}]`}

	code, env := f.do(t, multipartRequest(t, http.MethodPost, "/api/v1/about", fields, "notes.txt", "text/plain", []byte("hi")))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Errors["image"], "unsupported image type")

	code, env = f.do(t, multipartRequest(t, http.MethodPost, "/api/v1/about", fields, "big.png", "image/png", bytes.Repeat([]byte("x"), 2048)))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, msgImageTooLarge, env.Errors["image"])
	assert.Equal(t, 0, f.images.Len())
}

func TestListGetAndMissing(t *testing.T) {
	f := newFixture(t, about.Schema)

	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/about", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data": []}`, rec.Body.String())

	code, env := f.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/about/nope", nil))
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "resource not found", env.Message)

	code, _ = f.do(t, jsonRequest(http.MethodPatch, "/api/v1/about/nope", `{"title":"x"}`))
	assert.Equal(t, http.StatusNotFound, code)
}

func TestUnsupportedContentType(t *testing.T) {
	f := newFixture(t, about.Schema)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/about", strings.NewReader("title=x"))
	req.Header.Set(echo.HeaderContentType, "text/plain")

	code, env := f.do(t, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, code)
	assert.Equal(t, msgUnsupportedContentType, env.Message)
}

func TestToList(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []string
		ok   bool
	}{
		{"comma text", " a, b ,,c", []string{"a", "b", "c"}, true},
		{"json text", `["x", " ", "y"]`, []string{"x", "y"}, true},
		{"array", []any{"p", "<i>q</i>"}, []string{"p", "q"}, true},
		{"null", nil, []string{}, true},
		{"broken json", `["x"`, nil, false},
		{"object", map[string]any{}, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := toList(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
