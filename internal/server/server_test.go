package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/config"
	"github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/service"
)

func newTestServer(t *testing.T) (*Server, *gin.Engine) {
	t.Helper()

	corpusDir := t.TempDir()
	files := map[string]string{
		"sejarah_majapahit.txt": "url: https://example.id/majapahit\nKerajaan Majapahit menguasai Nusantara dari Jawa.",
		"wisata_borobudur.txt":  "url: https://example.id/borobudur\nCandi Borobudur menjadi tujuan wisata utama di Jawa Tengah.",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(corpusDir, name), []byte(content), 0o644))
	}

	cfg := config.Default()
	cfg.Corpus.Dir = corpusDir
	cfg.Index.DataDir = ""

	svc, err := service.New(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	srv := New(cfg, svc, nil)
	return srv, srv.Router()
}

func doRequest(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// reindexAndWait kicks off a rebuild job and polls until it completes.
func reindexAndWait(t *testing.T, router *gin.Engine) {
	t.Helper()

	w := doRequest(router, http.MethodPost, "/api/reindex")
	require.Equal(t, http.StatusAccepted, w.Code)
	jobID := decodeBody(t, w)["job_id"].(string)
	require.NotEmpty(t, jobID)

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		w := doRequest(router, http.MethodGet, "/api/jobs/"+jobID)
		require.Equal(t, http.StatusOK, w.Code)
		switch decodeBody(t, w)["status"].(string) {
		case "completed":
			return
		case "failed":
			t.Fatalf("reindex job failed: %s", w.Body.String())
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("reindex did not complete in time")
}

func TestServer_Health(t *testing.T) {
	_, router := newTestServer(t)

	w := doRequest(router, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["index_ready"])

	reindexAndWait(t, router)

	body = decodeBody(t, doRequest(router, http.MethodGet, "/health"))
	assert.Equal(t, true, body["index_ready"])
}

func TestServer_SearchBeforeIndex(t *testing.T) {
	_, router := newTestServer(t)

	w := doRequest(router, http.MethodGet, "/api/search?q=jawa")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "ERR_301_INDEX_UNAVAILABLE", body["code"])
}

func TestServer_Search(t *testing.T) {
	_, router := newTestServer(t)
	reindexAndWait(t, router)

	w := doRequest(router, http.MethodGet, "/api/search?q=jawa")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(2), body["total"])
	assert.Equal(t, float64(1), body["page"])
	results := body["results"].([]any)
	require.Len(t, results, 2)

	first := results[0].(map[string]any)
	assert.NotEmpty(t, first["title"])
	assert.Contains(t, first["snippet"], "<mark>jawa</mark>")
}

func TestServer_SearchWithCategory(t *testing.T) {
	_, router := newTestServer(t)
	reindexAndWait(t, router)

	w := doRequest(router, http.MethodGet, "/api/search?q=jawa&category=Wisata")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeBody(t, w)["total"])
}

func TestServer_SearchEmptyQuery(t *testing.T) {
	_, router := newTestServer(t)
	reindexAndWait(t, router)

	w := doRequest(router, http.MethodGet, "/api/search?q=")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(0), body["total"])
	assert.Empty(t, body["results"])
}

func TestServer_Stats(t *testing.T) {
	_, router := newTestServer(t)
	reindexAndWait(t, router)

	w := doRequest(router, http.MethodGet, "/api/stats")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(2), body["total_documents"])
	assert.Len(t, body["sample_titles"], 2)
}

func TestServer_Categories(t *testing.T) {
	_, router := newTestServer(t)

	w := doRequest(router, http.MethodGet, "/api/categories")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Categories []string `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"Sejarah", "Wisata", "Budaya", "Lainnya"}, body.Categories)
}

func TestServer_Analyze(t *testing.T) {
	_, router := newTestServer(t)
	reindexAndWait(t, router)

	w := doRequest(router, http.MethodGet, "/api/analyze?top=5")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(2), body["total_documents"])
	assert.NotEmpty(t, body["top_terms"])
}

func TestServer_JobNotFound(t *testing.T) {
	_, router := newTestServer(t)

	w := doRequest(router, http.MethodGet, "/api/jobs/does-not-exist")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_CORSPreflight(t *testing.T) {
	_, router := newTestServer(t)

	w := doRequest(router, http.MethodOptions, "/api/search")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
