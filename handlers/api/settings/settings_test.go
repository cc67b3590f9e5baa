package settings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kbcloud/core"
	"kbcloud/stores/memory"
	"kbcloud/syncer"
)

func newRouter(o *syncer.Orchestrator) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/settings/storage", HandleGetStorage(o))
	r.Put("/settings/storage", HandlePutStorage(o))
	r.Get("/categories", HandleGetCategories(o))
	r.Put("/categories", HandlePutCategories(o))
	return r
}

func newOrchestrator() *syncer.Orchestrator {
	return syncer.New(func(core.StorageCredentials) (core.BlobStore, error) {
		return memory.NewStore(), nil
	})
}

func testCreds() core.StorageCredentials {
	return core.StorageCredentials{
		AccessKey: "ak", SecretKey: "sk", Bucket: "kb",
		Domain: "cdn.example.com", Region: "z0", Filename: "knowledge.json",
	}
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleGetStorage_Unconfigured(t *testing.T) {
	t.Setenv("SETTINGS_PATH", filepath.Join(t.TempDir(), "settings.json"))
	r := newRouter(newOrchestrator())

	w := do(r, http.MethodGet, "/settings/storage", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Configured bool `json:"configured"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Configured)
}

func TestHandlePutStorage_ConfiguresAndMasksSecret(t *testing.T) {
	t.Setenv("SETTINGS_PATH", filepath.Join(t.TempDir(), "settings.json"))
	o := newOrchestrator()
	r := newRouter(o)

	body, err := json.Marshal(testCreds())
	require.NoError(t, err)

	w := do(r, http.MethodPut, "/settings/storage", string(body))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, o.Configured())

	status, _ := o.Status()
	assert.Equal(t, syncer.StatusSynced, status, "new credentials trigger a load cycle")

	w = do(r, http.MethodGet, "/settings/storage", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Configured bool                    `json:"configured"`
		Storage    core.StorageCredentials `json:"storage"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Configured)
	assert.Equal(t, "ak", resp.Storage.AccessKey)
	assert.Equal(t, "********", resp.Storage.SecretKey, "the secret never leaves the server")
}

func TestHandlePutStorage_RejectsIncompleteCredentials(t *testing.T) {
	t.Setenv("SETTINGS_PATH", filepath.Join(t.TempDir(), "settings.json"))
	r := newRouter(newOrchestrator())

	creds := testCreds()
	creds.SecretKey = ""
	body, err := json.Marshal(creds)
	require.NoError(t, err)

	w := do(r, http.MethodPut, "/settings/storage", string(body))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "secretKey")
}

func TestHandlePutCategories_TrimsAndDeduplicates(t *testing.T) {
	o := newOrchestrator()
	require.NoError(t, o.Configure(context.Background(), testCreds()))
	r := newRouter(o)

	w := do(r, http.MethodPut, "/categories", `[" Frontend", "Backend", "Frontend", "", "  "]`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, []string{"Frontend", "Backend"}, got)
	assert.Equal(t, []string{"Frontend", "Backend"}, o.Snapshot().Categories)
}

func TestHandlePutCategories_Unconfigured(t *testing.T) {
	r := newRouter(newOrchestrator())

	w := do(r, http.MethodPut, "/categories", `["A"]`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandleGetCategories(t *testing.T) {
	o := newOrchestrator()
	require.NoError(t, o.Configure(context.Background(), testCreds()))
	r := newRouter(o)

	w := do(r, http.MethodGet, "/categories", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, core.DefaultCategories, got, "a fresh store is seeded with the defaults")
}
