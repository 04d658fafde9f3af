// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Recall Contributors

package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/recall-dev/recall/internal/agent"
	"github.com/recall-dev/recall/internal/memory"
	recallerr "github.com/recall-dev/recall/pkg/errors"
)

// HealthBody is the health check payload.
type HealthBody struct {
	Status string `json:"status"`
}

// HealthResponse wraps the health payload.
type HealthResponse struct {
	Body HealthBody
}

// IndexRequest submits a captured page for chunking and indexing.
type IndexRequest struct {
	Body struct {
		URL     string `json:"url" doc:"Page URL"`
		Title   string `json:"title,omitempty" doc:"Page title"`
		Content string `json:"content" doc:"Extracted page text"`
	}
}

type IndexResponse struct {
	Body struct {
		Status        string `json:"status"`
		ChunksIndexed int    `json:"chunks_indexed"`
	}
}

// SearchRequest queries the store for pages similar to the query text.
type SearchRequest struct {
	Body struct {
		Query      string `json:"query" doc:"Search query"`
		MaxResults int    `json:"max_results,omitempty" doc:"Maximum results to return"`
	}
}

type SearchResponse struct {
	Body struct {
		Query        string                `json:"query"`
		Results      []memory.SearchResult `json:"results"`
		TotalResults int                   `json:"total_results"`
	}
}

type StatsResponse struct {
	Body memory.Stats
}

type ClearResponse struct {
	Body struct {
		Status string `json:"status"`
	}
}

func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "index-page",
		Method:      http.MethodPost,
		Path:        "/index",
		Summary:     "Index a captured web page",
		Tags:        []string{"memory"},
	}, s.handleIndex)

	huma.Register(s.api, huma.Operation{
		OperationID: "search",
		Method:      http.MethodPost,
		Path:        "/search",
		Summary:     "Search indexed pages by semantic similarity",
		Tags:        []string{"memory"},
	}, s.handleSearch)

	huma.Register(s.api, huma.Operation{
		OperationID: "stats",
		Method:      http.MethodGet,
		Path:        "/stats",
		Summary:     "Store statistics",
		Tags:        []string{"memory"},
	}, s.handleStats)

	huma.Register(s.api, huma.Operation{
		OperationID: "clear",
		Method:      http.MethodDelete,
		Path:        "/clear",
		Summary:     "Delete the whole index",
		Tags:        []string{"memory"},
	}, s.handleClear)
}

func (s *Server) handleIndex(ctx context.Context, req *IndexRequest) (*IndexResponse, error) {
	n, err := s.agent.IndexPage(ctx, agent.Page{
		URL:     req.Body.URL,
		Title:   req.Body.Title,
		Content: req.Body.Content,
	})
	if err != nil {
		return nil, asStatusError(err)
	}

	resp := &IndexResponse{}
	resp.Body.Status = "success"
	resp.Body.ChunksIndexed = n
	return resp, nil
}

func (s *Server) handleSearch(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	results, err := s.agent.Search(ctx, req.Body.Query, req.Body.MaxResults)
	if err != nil {
		return nil, asStatusError(err)
	}
	if results == nil {
		results = []memory.SearchResult{}
	}

	resp := &SearchResponse{}
	resp.Body.Query = req.Body.Query
	resp.Body.Results = results
	resp.Body.TotalResults = len(results)
	return resp, nil
}

func (s *Server) handleStats(_ context.Context, _ *struct{}) (*StatsResponse, error) {
	return &StatsResponse{Body: s.agent.Stats()}, nil
}

func (s *Server) handleClear(ctx context.Context, _ *struct{}) (*ClearResponse, error) {
	if err := s.agent.ClearIndex(ctx); err != nil {
		return nil, asStatusError(err)
	}

	resp := &ClearResponse{}
	resp.Body.Status = "success"
	return resp, nil
}

// asStatusError maps subsystem error codes onto huma status errors so the
// transport reflects what went wrong without leaking stack detail.
func asStatusError(err error) error {
	return huma.NewError(recallerr.HTTPStatus(err), err.Error())
}
