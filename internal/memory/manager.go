// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Recall Contributors

// Package memory implements the persistent semantic-memory store: an exact
// vector index kept strictly aligned with an ordered metadata sequence,
// deduplicated on exact text, and persisted to disk after every mutation.
package memory

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/recall-dev/recall/internal/embed"
	recallerr "github.com/recall-dev/recall/pkg/errors"
)

// Manager orchestrates the vector index, the metadata sequence, dedup, and
// persistence behind the add / retrieve / search / stats / clear operations.
//
// One Manager owns one store directory. Construct it once and inject it;
// mutations are serialized by the write lock while read-only queries share
// the read lock, so overlapping request handlers cannot corrupt the
// index/metadata alignment.
type Manager struct {
	mu       sync.RWMutex
	dir      string
	embedder embed.Embedder

	index    *FlatIndex
	records  []*Record
	seen     map[string]struct{} // exact-text dedup keys
	urlCache map[string]string   // url -> last-indexed timestamp (stats and page-level dedup only)
}

// NewManager opens (or creates) the store at dir. The vector dimension is
// adopted from the embedder's declared dimensionality; loading an index
// persisted with a different dimension fails rather than silently rebuilding.
func NewManager(dir string, embedder embed.Embedder) (*Manager, error) {
	if embedder == nil || embedder.Dimensions() <= 0 {
		return nil, recallerr.New(recallerr.CodeEmbedConfigInvalid, "memory manager requires an embedder with positive dimensions")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, recallerr.Wrap(err, recallerr.CodeMemoryPersistFailure, "creating store directory", recallerr.FieldPath(dir))
	}

	m := &Manager{
		dir:      dir,
		embedder: embedder,
		index:    NewFlatIndex(embedder.Dimensions()),
		seen:     map[string]struct{}{},
		urlCache: map[string]string{},
	}

	if err := m.loadLocked(); err != nil {
		return nil, err
	}

	slog.Info("memory manager initialized", "dir", dir, "records", len(m.records), "dimensions", m.index.Dimension())
	return m, nil
}

// Add embeds rec.Text and inserts it. An embedding failure aborts the whole
// operation with no mutation. A missing timestamp is filled in.
func (m *Manager) Add(ctx context.Context, rec *Record) error {
	vec, err := m.embedder.Embed(ctx, rec.Text)
	if err != nil {
		return recallerr.Wrap(err, recallerr.CodeEmbedProviderFailure, "embedding record text")
	}
	return m.AddWithEmbedding(ctx, rec.Text, vec, rec)
}

// AddWithEmbedding inserts text with a precomputed embedding. A record
// whose text exactly matches an already-stored text is silently skipped:
// no vector, no metadata, no save, nil error. Callers cannot distinguish a
// skip from an insert by the return value alone.
//
// The index append and the metadata append happen as one unit under the
// write lock; if the vector is rejected the metadata is never touched. A
// persistence failure is returned to the caller but leaves the in-memory
// store mutated, ahead of disk until the next successful save or load.
func (m *Manager) AddWithEmbedding(_ context.Context, text string, vec []float32, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, dup := m.seen[text]; dup {
		slog.Debug("text already indexed, skipping duplicate", "chars", len(text))
		return nil
	}

	pos, err := m.index.Add(vec)
	if err != nil {
		return err
	}

	rec.Text = text
	rec.Index = pos
	if rec.Timestamp == "" {
		rec.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	m.records = append(m.records, rec)
	m.seen[text] = struct{}{}

	if rec.URL != "" {
		m.urlCache[rec.URL] = time.Now().UTC().Format(time.RFC3339)
	}

	if err := m.saveLocked(); err != nil {
		return err
	}

	slog.Debug("added memory record", "position", pos, "type", rec.Type, "url", rec.URL)
	return nil
}

// Retrieve embeds query, finds the k nearest records, and filters them.
// When sessionFilter is non-empty, records from other sessions are dropped
// after the fixed-size fetch, so fewer than k results may come back even
// when more matches exist deeper in the ranking. Within one result set,
// records with identical text are deduplicated keeping the closest. An
// empty result is not an error.
func (m *Manager) Retrieve(ctx context.Context, query string, k int, sessionFilter string) ([]*Record, error) {
	vec, err := m.embedder.Embed(ctx, query)
	if err != nil {
		return nil, recallerr.Wrap(err, recallerr.CodeEmbedProviderFailure, "embedding query")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.index.Len() == 0 {
		return nil, nil
	}

	hits, err := m.index.Search(vec, k)
	if err != nil {
		return nil, err
	}

	var results []*Record
	seenTexts := map[string]struct{}{}
	for _, hit := range hits {
		rec, err := m.recordAt(hit.Position)
		if err != nil {
			slog.Warn("search hit has no metadata, skipping", "position", hit.Position)
			continue
		}
		if sessionFilter != "" && rec.SessionID != sessionFilter {
			continue
		}
		if _, dup := seenTexts[rec.Text]; dup {
			continue
		}
		seenTexts[rec.Text] = struct{}{}
		results = append(results, rec)
	}
	return results, nil
}

// SearchByEmbedding is the session-agnostic retrieval path used by the
// page-history search. Scores are 1/(1+distance).
func (m *Manager) SearchByEmbedding(vec []float32, k int) ([]SearchResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.index.Len() == 0 {
		return nil, nil
	}

	hits, err := m.index.Search(vec, k)
	if err != nil {
		return nil, err
	}

	var results []SearchResult
	seenTexts := map[string]struct{}{}
	for _, hit := range hits {
		rec, err := m.recordAt(hit.Position)
		if err != nil {
			slog.Warn("search hit has no metadata, skipping", "position", hit.Position)
			continue
		}
		if _, dup := seenTexts[rec.Text]; dup {
			continue
		}
		seenTexts[rec.Text] = struct{}{}

		results = append(results, SearchResult{
			URL:     rec.URL,
			Title:   rec.Title,
			Snippet: snippet(rec.Text),
			Score:   1.0 / (1.0 + float64(hit.Distance)),
			ChunkID: strconv.Itoa(hit.Position),
		})
	}
	return results, nil
}

// Stats reports distinct indexed URLs, total records, and the on-disk size
// of the index artifact (0 when nothing has been persisted yet).
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	urls := map[string]struct{}{}
	for _, rec := range m.records {
		if rec.URL != "" {
			urls[rec.URL] = struct{}{}
		}
	}

	var indexSize int64
	if fi, err := os.Stat(m.indexPath()); err == nil {
		indexSize = fi.Size()
	}

	return Stats{
		IndexedURLs: len(urls),
		TotalChunks: len(m.records),
		IndexSize:   indexSize,
	}
}

// LastIndexed returns when url was last inserted, for page-level dedup.
func (m *Manager) LastIndexed(url string) (time.Time, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stamp, ok := m.urlCache[url]
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Clear deletes the persisted artifacts and reinitializes an empty store.
// The dimension is retained from the embedder; no provider call is made.
func (m *Manager) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.Remove(m.indexPath()); err != nil && !os.IsNotExist(err) {
		return recallerr.Wrap(err, recallerr.CodeMemoryPersistFailure, "removing index", recallerr.FieldPath(m.indexPath()))
	}

	m.index = NewFlatIndex(m.embedder.Dimensions())
	m.records = nil
	m.seen = map[string]struct{}{}
	m.urlCache = map[string]string{}

	if err := atomicWrite(m.metadataPath(), []byte("[]")); err != nil {
		return err
	}
	if err := atomicWrite(m.cachePath(), []byte("{}")); err != nil {
		return err
	}

	slog.Info("memory store cleared", "dir", m.dir)
	return nil
}

// recordAt returns the record at pos. Callers must hold at least the read
// lock. Query paths treat an out-of-range position as skip-and-continue.
func (m *Manager) recordAt(pos int) (*Record, error) {
	if pos < 0 || pos >= len(m.records) {
		return nil, recallerr.Errorf(recallerr.CodeMemoryOutOfRange,
			"position %d out of range for %d records", pos, len(m.records))
	}
	return m.records[pos], nil
}

// snippet truncates text for presentation the way the search API returns it.
func snippet(text string) string {
	const max = 200
	if len(text) > max {
		text = text[:max]
	}
	return text + "..."
}
