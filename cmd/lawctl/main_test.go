package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lawfirm-cms/internal/audit"
	"lawfirm-cms/internal/domain/about"
	"lawfirm-cms/internal/domain/service"
	"lawfirm-cms/internal/resource"
	"lawfirm-cms/internal/testbackend"
	apperrors "lawfirm-cms/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withBackend points the CLI at a fresh backend and a temp credentials file,
// and captures everything the commands print.
func withBackend(t *testing.T) (*testbackend.Backend, *bytes.Buffer) {
	t.Helper()
	b := testbackend.Start(t)
	t.Setenv("LAWCMS_API_URL", b.Server.URL)
	t.Setenv("LAWCMS_CREDENTIALS_FILE", filepath.Join(t.TempDir(), "credentials.json"))

	var out bytes.Buffer
	prev := stdout
	stdout = &out
	t.Cleanup(func() { stdout = prev })
	return b, &out
}

func login(t *testing.T, out *bytes.Buffer) {
	t.Helper()
	creds := []string{"--email", testbackend.AdminEmail, "--password", testbackend.AdminPassword}
	require.NoError(t, runSignup(creds))
	require.NoError(t, runLogin(creds))
	out.Reset()
}

func TestLoginStoresToken(t *testing.T) {
	_, out := withBackend(t)

	require.NoError(t, runWhoami(nil))
	assert.Equal(t, "Not logged in\n", out.String())
	out.Reset()

	creds := []string{"--email", testbackend.AdminEmail, "--password", testbackend.AdminPassword}
	require.NoError(t, runSignup(creds))
	assert.Contains(t, out.String(), "account created")
	require.NoError(t, runLogin(creds))
	out.Reset()

	require.NoError(t, runWhoami(nil))
	assert.True(t, strings.HasPrefix(out.String(), "Logged in as "+testbackend.AdminEmail+" until "), out.String())
	out.Reset()

	require.NoError(t, runLogout(nil))
	require.NoError(t, runWhoami(nil))
	assert.Contains(t, out.String(), "Not logged in")
}

func TestLogin_PasswordFromStdin(t *testing.T) {
	_, out := withBackend(t)
	require.NoError(t, runSignup([]string{"--email", testbackend.AdminEmail, "--password", testbackend.AdminPassword}))

	prev := stdin
	stdin = strings.NewReader(testbackend.AdminPassword + "\n")
	t.Cleanup(func() { stdin = prev })

	require.NoError(t, runLogin([]string{"--email", testbackend.AdminEmail}))
	assert.Contains(t, out.String(), "Logged in as "+testbackend.AdminEmail)
}

func TestLogin_WrongPassword(t *testing.T) {
	withBackend(t)
	require.NoError(t, runSignup([]string{"--email", testbackend.AdminEmail, "--password", testbackend.AdminPassword}))

	err := runLogin([]string{"--email", testbackend.AdminEmail, "--password", "not the password"})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindAuth, apperrors.KindOf(err))
}

func TestServiceLifecycle(t *testing.T) {
	b, out := withBackend(t)
	login(t, out)

	require.NoError(t, runCreate([]string{"services",
		"category=Family Law",
		"description=Divorce and custody",
		"serviceCardTitle=Family",
		"serviceCardDescription=We help families",
		"serviceCardFeatures=Divorce, Custody,,",
		`details=[{"title":"Mediation","description":"Out of court"}]`,
	}))
	var created service.Service
	require.NoError(t, json.Unmarshal(out.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, []string{"Divorce", "Custody"}, created.ServiceCardFeatures)
	require.Len(t, created.Details, 1)
	out.Reset()

	require.NoError(t, runUpdate([]string{"services", created.ID, "category=Family & Estates"}))
	var updated service.Service
	require.NoError(t, json.Unmarshal(out.Bytes(), &updated))
	assert.Equal(t, "Family & Estates", updated.Category)
	assert.Equal(t, "Family", updated.ServiceCardTitle)
	out.Reset()

	require.NoError(t, runList([]string{"services"}))
	var listed []resource.Document
	require.NoError(t, json.Unmarshal(out.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].EntityID())
	out.Reset()

	require.NoError(t, runDelete([]string{"services", created.ID}))
	assert.Equal(t, "services "+created.ID+" deleted\n", out.String())

	err := runGet([]string{"services", created.ID})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindServer, apperrors.KindOf(err))
	remaining, err := b.Docs.List(context.Background(), "services")
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestCreate_UploadsImage(t *testing.T) {
	b, out := withBackend(t)
	login(t, out)

	path := filepath.Join(t.TempDir(), "portrait.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG\r\n\x1a\nfake"), 0o600))

	require.NoError(t, runCreate([]string{"--image", path, "team",
		"name=Jane Doe", "position=Partner", "bio=Litigator",
	}))
	var created resource.Document
	require.NoError(t, json.Unmarshal(out.Bytes(), &created))
	assert.NotEmpty(t, created.EntityID())
	assert.Equal(t, 1, b.Images.Len())
}

func TestCreate_ValidationErrorListsFields(t *testing.T) {
	_, out := withBackend(t)
	login(t, out)

	err := runCreate([]string{"services", "category=Tax"})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Contains(t, describe(err), "serviceCardTitle:")
}

func TestCreate_RequiresLogin(t *testing.T) {
	withBackend(t)

	err := runCreate([]string{"about", "title=Who we are"})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindPrecondition, apperrors.KindOf(err))
	assert.Contains(t, describe(err), "run lawctl login")
}

func TestReadOnlyResources(t *testing.T) {
	withBackend(t)

	err := runCreate([]string{"contact", "name=x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-only")

	err = runUpdate([]string{"appointment", "a1", "name=x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-only")
}

func TestDashboard(t *testing.T) {
	b, out := withBackend(t)
	login(t, out)

	require.NoError(t, runCreate([]string{"about", "title=Firm", "subtitle=Since 1990"}))
	out.Reset()
	records, err := b.Docs.List(context.Background(), about.Schema.Path())
	require.NoError(t, err)
	require.Len(t, records, 1)

	require.NoError(t, runDashboard(nil))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 7)
	for _, line := range lines {
		assert.NotContains(t, line, "error:")
	}
	assert.Equal(t, []string{"about", "1"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"services", "0"}, strings.Fields(lines[2]))
}

func TestParseAssignments(t *testing.T) {
	fields, err := parseAssignments(service.Schema, []string{
		"category = Tax",
		"serviceCardFeatures=Audits,  Planning ,",
		`details=[{"title":"t"}]`,
		"description=a=b",
	})
	require.NoError(t, err)

	v, _ := fields.Get("category")
	assert.Equal(t, " Tax", v)
	v, _ = fields.Get("serviceCardFeatures")
	assert.Equal(t, []string{"Audits", "Planning"}, v)
	v, _ = fields.Get("details")
	assert.Equal(t, json.RawMessage(`[{"title":"t"}]`), v)
	v, _ = fields.Get("description")
	assert.Equal(t, "a=b", v)
}

func TestParseAssignments_Errors(t *testing.T) {
	_, err := parseAssignments(service.Schema, []string{"category"})
	assert.ErrorContains(t, err, "expected name=value")

	_, err = parseAssignments(service.Schema, []string{"color=blue"})
	assert.ErrorContains(t, err, `services has no field "color"`)

	_, err = parseAssignments(service.Schema, []string{"details={"})
	assert.ErrorContains(t, err, "must be valid JSON")
}

func TestLookup(t *testing.T) {
	_, err := lookup("")
	assert.ErrorIs(t, err, errResourceRequired)

	_, err = lookup("cases")
	assert.ErrorContains(t, err, "unknown resource")

	s, err := lookup("testimonial")
	require.NoError(t, err)
	assert.Equal(t, "testimonial", s.Path())
}

func TestActivity(t *testing.T) {
	b, out := withBackend(t)
	login(t, out)

	require.NoError(t, runCreate([]string{"team", "name=Jane Doe", "position=Partner"}))
	b.Audit.Wait()
	out.Reset()

	require.NoError(t, runActivity([]string{"--resource", "team"}))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "success")
	assert.Contains(t, lines[0], "create")
	out.Reset()

	require.NoError(t, runActivity([]string{"--resource", "user", "--json"}))
	var events []audit.Event
	require.NoError(t, json.Unmarshal(out.Bytes(), &events))
	require.Len(t, events, 2)
	assert.Equal(t, audit.ActionLogin, events[0].Action)
	assert.Equal(t, audit.ActionSignup, events[1].Action)
}
