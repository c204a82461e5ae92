package webui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*PreviewServer, string) {
	t.Helper()
	root := t.TempDir()
	runDir := filepath.Join(root, "run1", "css")
	require.NoError(t, os.MkdirAll(runDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "run1", "index.html"), []byte("<h1>hi</h1>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(runDir, "style.css"), []byte("body {}"), 0644))
	return NewPreviewServer(root, 0, nil), root
}

func TestHandlePreviewServesArtifact(t *testing.T) {
	server, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	server.handlePreview(rec, httptest.NewRequest(http.MethodGet, "/api/preview/run1/index.html", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<h1>hi</h1>", rec.Body.String())
}

func TestHandlePreviewServesNestedArtifact(t *testing.T) {
	server, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	server.handlePreview(rec, httptest.NewRequest(http.MethodGet, "/api/preview/run1/css/style.css", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "body {}", rec.Body.String())
}

func TestHandlePreviewRejectsTraversal(t *testing.T) {
	server, root := newTestServer(t)
	secret := filepath.Join(root, "secret.txt")
	require.NoError(t, os.WriteFile(secret, []byte("secret"), 0644))

	for _, path := range []string{
		"/api/preview/run1/../secret.txt",
		"/api/preview/../run1/index.html",
		`/api/preview/run1/..\..\secret.txt`,
		`/api/preview/run1/css\..\..\secret.txt`,
		"/api/preview/run1",
		"/api/preview/run1/",
	} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		// Bypass Go's URL normalization to exercise the handler's own check.
		req.URL.Path = path
		server.handlePreview(rec, req)

		assert.NotEqual(t, http.StatusOK, rec.Code, "path %s must not be served", path)
		assert.NotEqual(t, "secret", rec.Body.String())
	}
}

func TestHandlePreviewMissingArtifact(t *testing.T) {
	server, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	server.handlePreview(rec, httptest.NewRequest(http.MethodGet, "/api/preview/run1/missing.html", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleRunsListsRunDirectories(t *testing.T) {
	server, root := newTestServer(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "run2"), 0755))

	rec := httptest.NewRecorder()
	server.handleRuns(rec, httptest.NewRequest(http.MethodGet, "/api/runs", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		Runs []string `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.ElementsMatch(t, []string{"run1", "run2"}, payload.Runs)
}
