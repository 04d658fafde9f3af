// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Recall Contributors

package server_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/recall-dev/recall/internal/agent"
	"github.com/recall-dev/recall/internal/embed"
	"github.com/recall-dev/recall/internal/memory"
	"github.com/recall-dev/recall/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *server.Server {
	t.Helper()

	embedder := embed.NewMock(32)
	mem, err := memory.NewManager(t.TempDir(), embedder)
	require.NoError(t, err)
	ag, err := agent.New(mem, embedder, agent.Options{ChunkSize: 8, ChunkOverlap: 2})
	require.NoError(t, err)

	srv, err := server.New(server.Config{ListenAddr: "127.0.0.1:0"}, ag)
	require.NoError(t, err)
	return srv
}

func doJSON(t *testing.T, srv *server.Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestServer_New_RequiresListenAddr(t *testing.T) {
	_, err := server.New(server.Config{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen address is required")
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestServer_IndexSearchStatsClearFlow(t *testing.T) {
	srv := newTestServer(t)

	// Index a page.
	w := doJSON(t, srv, http.MethodPost, "/index", `{
		"url": "https://example.com/go",
		"title": "Go at Example",
		"content": "Go makes it easy to build simple reliable and efficient software at scale"
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var indexed struct {
		Status        string `json:"status"`
		ChunksIndexed int    `json:"chunks_indexed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &indexed))
	assert.Equal(t, "success", indexed.Status)
	assert.Greater(t, indexed.ChunksIndexed, 0)

	// Search finds it.
	w = doJSON(t, srv, http.MethodPost, "/search", `{"query": "reliable software", "max_results": 3}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var searched struct {
		Query        string                `json:"query"`
		Results      []memory.SearchResult `json:"results"`
		TotalResults int                   `json:"total_results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &searched))
	assert.Equal(t, "reliable software", searched.Query)
	require.NotEmpty(t, searched.Results)
	assert.Equal(t, len(searched.Results), searched.TotalResults)
	assert.Equal(t, "https://example.com/go", searched.Results[0].URL)

	// Stats reflect the page.
	w = doJSON(t, srv, http.MethodGet, "/stats", "")
	require.Equal(t, http.StatusOK, w.Code)

	var stats memory.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.IndexedURLs)
	assert.Greater(t, stats.TotalChunks, 0)

	// Clear resets everything.
	w = doJSON(t, srv, http.MethodDelete, "/clear", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, srv, http.MethodGet, "/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 0, stats.TotalChunks)
	assert.Equal(t, 0, stats.IndexedURLs)
}

func TestServer_IndexRejectsMissingFields(t *testing.T) {
	srv := newTestServer(t)

	// url and content are required by the schema.
	w := doJSON(t, srv, http.MethodPost, "/index", `{"title": "no url"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestServer_SearchRejectsEmptyQuery(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/search", `{"query": ""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_SearchEmptyStoreReturnsEmptyList(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/search", `{"query": "anything"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"results":[]`)
}

func TestServer_OpenAPISpec(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/openapi.json", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "index-page")
	assert.Contains(t, w.Body.String(), "search")
}
