package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexHandler(t *testing.T) {
	h := IndexHandler()

	rr := httptest.NewRecorder()
	h(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	for _, id := range []string{"uploadForm", "pdfFile", "loading", "result", "narrationPreview",
		"audioPlayer", "copyNarration", "downloadAudio", "toastContainer"} {
		assert.Contains(t, rr.Body.String(), `id="`+id+`"`)
	}

	rr = httptest.NewRecorder()
	h(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestStaticHandler(t *testing.T) {
	h := StaticHandler("/static/")

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/static/app.js", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Header().Get("Content-Type"), "javascript"))
	assert.Equal(t, "public, max-age=3600", rr.Header().Get("Cache-Control"))
	assert.Contains(t, rr.Body.String(), "api/upload-pdf/")
	assert.Contains(t, rr.Body.String(), "audionary_podcast.mp3")

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/static/missing.js", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAppWaitsForProgressSocketBeforeUpload(t *testing.T) {
	rr := httptest.NewRecorder()
	StaticHandler("/static/").ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/static/app.js", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()

	assert.Contains(t, body, "addEventListener('open'")
	wait := strings.Index(body, "await progress.ready")
	post := strings.Index(body, "fetch('api/upload-pdf/'")
	require.NotEqual(t, -1, wait)
	require.NotEqual(t, -1, post)
	assert.Less(t, wait, post)
}
