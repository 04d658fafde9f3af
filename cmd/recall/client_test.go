// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Recall Contributors

package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	recallerr "github.com/recall-dev/recall/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerClient_GetJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/stats", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"indexed_urls": 2, "total_chunks": 7, "index_size": 1024}`))
	}))
	defer ts.Close()

	client := newServerClient(ts.Listener.Addr().String())

	var stats struct {
		IndexedURLs int `json:"indexed_urls"`
		TotalChunks int `json:"total_chunks"`
	}
	require.NoError(t, client.getJSON("/stats", &stats))
	assert.Equal(t, 2, stats.IndexedURLs)
	assert.Equal(t, 7, stats.TotalChunks)
}

func TestServerClient_PostJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{"query": "q", "results": [], "total_results": 0}`))
	}))
	defer ts.Close()

	client := newServerClient(ts.Listener.Addr().String())

	var resp struct {
		TotalResults int `json:"total_results"`
	}
	require.NoError(t, client.postJSON("/search", map[string]any{"query": "q"}, &resp))
	assert.Equal(t, 0, resp.TotalResults)
}

func TestServerClient_NonOKStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := newServerClient(ts.Listener.Addr().String())

	err := client.getJSON("/stats", nil)
	require.Error(t, err)
	assert.True(t, recallerr.HasCode(err, recallerr.CodeCLIRequestFailure))
	assert.Contains(t, err.Error(), "500")
}

func TestServerClient_ServerNotRunning(t *testing.T) {
	// A listener that is immediately closed guarantees a refused connection.
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := ts.Listener.Addr().String()
	ts.Close()

	client := newServerClient(addr)

	err := client.getJSON("/stats", nil)
	require.Error(t, err)
	assert.True(t, recallerr.HasCode(err, recallerr.CodeCLIServerNotRunning))
}
