// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Recall Contributors

// Package agent ties the memory store to its two callers: the web-history
// indexer, which chunks and stores page content, and the reasoning loop,
// which logs tool outputs as session-scoped memories.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/recall-dev/recall/internal/chunk"
	"github.com/recall-dev/recall/internal/embed"
	"github.com/recall-dev/recall/internal/memory"
	recallerr "github.com/recall-dev/recall/pkg/errors"
)

// Page is a captured web page submitted for indexing.
type Page struct {
	URL     string
	Title   string
	Content string
}

// Options tunes chunking and retrieval.
type Options struct {
	ChunkSize    int
	ChunkOverlap int
	MaxResults   int
}

// Agent exposes the memory store's operations to the service layer.
type Agent struct {
	mem      *memory.Manager
	embedder embed.Embedder
	opts     Options
}

// New creates an Agent over the given store and embedder.
func New(mem *memory.Manager, embedder embed.Embedder, opts Options) (*Agent, error) {
	if mem == nil {
		return nil, recallerr.New(recallerr.CodeServerConfigInvalid, "agent requires a memory manager")
	}
	if embedder == nil {
		return nil, recallerr.New(recallerr.CodeServerConfigInvalid, "agent requires an embedder")
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = chunk.DefaultSize
	}
	if opts.ChunkOverlap <= 0 {
		opts.ChunkOverlap = chunk.DefaultOverlap
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = 5
	}

	return &Agent{mem: mem, embedder: embedder, opts: opts}, nil
}

// IndexPage chunks the page content and stores each chunk with its URL and
// title. An embedding failure aborts the remainder of the page; chunks
// whose text is already indexed are skipped silently by the store. Returns
// the number of chunks submitted.
func (a *Agent) IndexPage(ctx context.Context, page Page) (int, error) {
	if page.URL == "" || page.Content == "" {
		return 0, recallerr.New(recallerr.CodeServerRequestInvalid, "page url and content are required")
	}

	chunks := chunk.Split(page.Content, a.opts.ChunkSize, a.opts.ChunkOverlap)
	slog.Info("indexing page", "url", page.URL, "chunks", len(chunks))

	now := time.Now().UTC().Format(time.RFC3339)
	for _, text := range chunks {
		vec, err := a.embedder.Embed(ctx, text)
		if err != nil {
			return 0, recallerr.Wrap(err, recallerr.CodeEmbedProviderFailure, "embedding page chunk",
				recallerr.FieldURL(page.URL))
		}

		rec := &memory.Record{
			URL:       page.URL,
			Title:     page.Title,
			Type:      memory.TypeWebpageChunk,
			Timestamp: now,
		}
		if err := a.mem.AddWithEmbedding(ctx, text, vec, rec); err != nil {
			return 0, err
		}
	}

	return len(chunks), nil
}

// Search embeds the query and returns the nearest page chunks.
func (a *Agent) Search(ctx context.Context, query string, maxResults int) ([]memory.SearchResult, error) {
	if query == "" {
		return nil, recallerr.New(recallerr.CodeServerRequestInvalid, "query is required")
	}
	if maxResults <= 0 {
		maxResults = a.opts.MaxResults
	}

	vec, err := a.embedder.Embed(ctx, query)
	if err != nil {
		return nil, recallerr.Wrap(err, recallerr.CodeEmbedProviderFailure, "embedding search query")
	}

	results, err := a.mem.SearchByEmbedding(vec, maxResults)
	if err != nil {
		return nil, err
	}
	slog.Debug("search complete", "query_chars", len(query), "results", len(results))
	return results, nil
}

// RecordToolOutput logs one tool invocation from the reasoning loop as a
// session-scoped memory. A missing sessionID gets a generated one, which is
// returned so the loop can keep subsequent steps in the same session.
func (a *Agent) RecordToolOutput(ctx context.Context, sessionID, toolName, userQuery, output string) (string, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	rec := &memory.Record{
		Text:      fmt.Sprintf("Tool call: %s for %q, got: %s", toolName, userQuery, output),
		Type:      memory.TypeToolOutput,
		ToolName:  toolName,
		UserQuery: userQuery,
		SessionID: sessionID,
		Tags:      []string{toolName},
	}
	if err := a.mem.Add(ctx, rec); err != nil {
		return "", err
	}
	return sessionID, nil
}

// Recall returns session-scoped memories relevant to the query, for prompt
// injection into the reasoning loop.
func (a *Agent) Recall(ctx context.Context, query string, k int, sessionID string) ([]*memory.Record, error) {
	return a.mem.Retrieve(ctx, query, k, sessionID)
}

// Stats reports store statistics.
func (a *Agent) Stats() memory.Stats {
	return a.mem.Stats()
}

// ClearIndex wipes the store.
func (a *Agent) ClearIndex(ctx context.Context) error {
	return a.mem.Clear(ctx)
}
