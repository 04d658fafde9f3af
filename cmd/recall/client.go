// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Recall Contributors

package main

import (
	"bytes"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	recallerr "github.com/recall-dev/recall/pkg/errors"
)

// defaultHTTPClient is the package-level HTTP client used by server
// commands. Overridden in tests via httptest.
var defaultHTTPClient = &http.Client{
	Timeout: 30 * time.Second,
}

// serverClient provides HTTP access to a running recall server.
type serverClient struct {
	baseURL string
	http    *http.Client
}

// newServerClient creates a client targeting the given host:port address.
func newServerClient(addr string) *serverClient {
	return &serverClient{
		baseURL: "http://" + addr,
		http:    defaultHTTPClient,
	}
}

// getJSON performs a GET request and decodes the JSON response into dest.
func (c *serverClient) getJSON(path string, dest any) error {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return recallerr.Wrap(err, recallerr.CodeCLIRequestFailure, "building request")
	}
	return c.do(req, dest)
}

// postJSON performs a POST with a JSON body and decodes the response into dest.
func (c *serverClient) postJSON(path string, body, dest any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return recallerr.Wrap(err, recallerr.CodeCLIRequestFailure, "encoding request body")
	}
	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return recallerr.Wrap(err, recallerr.CodeCLIRequestFailure, "building request")
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, dest)
}

// deleteJSON performs a DELETE request and decodes the response into dest.
func (c *serverClient) deleteJSON(path string, dest any) error {
	req, err := http.NewRequest(http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return recallerr.Wrap(err, recallerr.CodeCLIRequestFailure, "building request")
	}
	return c.do(req, dest)
}

func (c *serverClient) do(req *http.Request, dest any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		if isDialError(err) {
			return recallerr.New(recallerr.CodeCLIServerNotRunning,
				"recall server is not running (connection refused); start it with 'recall serve'")
		}
		return recallerr.Wrap(err, recallerr.CodeCLIRequestFailure, "request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return recallerr.Errorf(recallerr.CodeCLIRequestFailure, "server returned status %d: %s", resp.StatusCode, string(body))
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return recallerr.Wrap(err, recallerr.CodeCLIResponseInvalid, "invalid response")
	}
	return nil
}

// isDialError returns true if err is a net dial error (connection refused, etc.).
func isDialError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return opErr.Op == "dial"
	}
	return false
}
