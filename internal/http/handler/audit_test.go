package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"lawfirm-cms/internal/domain/team"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type auditEntry struct {
	Resource string `json:"resource"`
	EntityID string `json:"entityId"`
	Action   string `json:"action"`
	Status   string `json:"status"`
}

func (f *fixture) activity(t *testing.T, query string) (int, []auditEntry) {
	t.Helper()
	f.audit.Wait()
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/audit"+query, nil))
	var body struct {
		Data []auditEntry `json:"data"`
	}
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	}
	return rec.Code, body.Data
}

func TestAudit_RecordsWrites(t *testing.T) {
	f := newFixture(t, team.Schema)

	code, env := f.do(t, jsonRequest(http.MethodPost, "/api/v1/team", `{"name":"Jane","position":"Partner"}`))
	require.Equal(t, http.StatusCreated, code)
	id := env.Data["_id"].(string)

	code, _ = f.do(t, jsonRequest(http.MethodPatch, "/api/v1/team/"+id, `{"position":"Senior Partner"}`))
	require.Equal(t, http.StatusOK, code)
	code, _ = f.do(t, httptest.NewRequest(http.MethodDelete, "/api/v1/team/"+id, nil))
	require.Equal(t, http.StatusOK, code)

	code, events := f.activity(t, "")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, events, 3)
	assert.Equal(t, auditEntry{Resource: "team", EntityID: id, Action: "delete", Status: "success"}, events[0])
	assert.Equal(t, "update", events[1].Action)
	assert.Equal(t, "create", events[2].Action)

	_, events = f.activity(t, "?action=create&limit=5")
	require.Len(t, events, 1)
	assert.Equal(t, id, events[0].EntityID)
}

func TestAudit_FailedWritesAreNotRecorded(t *testing.T) {
	f := newFixture(t, team.Schema)

	code, _ := f.do(t, jsonRequest(http.MethodPost, "/api/v1/team", `{"name":""}`))
	require.Equal(t, http.StatusBadRequest, code)

	_, events := f.activity(t, "")
	assert.Empty(t, events)
}

func TestAudit_RejectsMalformedQuery(t *testing.T) {
	f := newFixture(t)

	for _, q := range []string{"?limit=ten", "?offset=-1", "?since=yesterday"} {
		code, _ := f.activity(t, q)
		assert.Equal(t, http.StatusBadRequest, code, q)
	}
}
