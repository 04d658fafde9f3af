// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Recall Contributors

package memory

import (
	"log/slog"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	recallerr "github.com/recall-dev/recall/pkg/errors"
)

// On-disk artifacts inside the store directory. Every successful mutation
// rewrites all three in full.
const (
	indexFile    = "index.bin"
	metadataFile = "metadata.json"
	cacheFile    = "url_cache.json"
)

func (m *Manager) indexPath() string    { return filepath.Join(m.dir, indexFile) }
func (m *Manager) metadataPath() string { return filepath.Join(m.dir, metadataFile) }
func (m *Manager) cachePath() string    { return filepath.Join(m.dir, cacheFile) }

// atomicWrite replaces path with data via a write-to-temp-then-rename, so a
// crash mid-write never leaves a torn artifact behind.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".recall-*")
	if err != nil {
		return recallerr.Wrap(err, recallerr.CodeMemoryPersistFailure, "creating temp file", recallerr.FieldPath(path))
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return recallerr.Wrap(err, recallerr.CodeMemoryPersistFailure, "writing temp file", recallerr.FieldPath(path))
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return recallerr.Wrap(err, recallerr.CodeMemoryPersistFailure, "closing temp file", recallerr.FieldPath(path))
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return recallerr.Wrap(err, recallerr.CodeMemoryPersistFailure, "renaming temp file", recallerr.FieldPath(path))
	}
	return nil
}

// saveLocked rewrites all three artifacts from in-memory state.
// Callers must hold the write lock.
func (m *Manager) saveLocked() error {
	blob, err := m.index.MarshalBinary()
	if err != nil {
		return recallerr.Wrap(err, recallerr.CodeMemoryPersistFailure, "marshalling index")
	}
	if err := atomicWrite(m.indexPath(), blob); err != nil {
		return err
	}

	meta, err := json.Marshal(m.records)
	if err != nil {
		return recallerr.Wrap(err, recallerr.CodeMemoryPersistFailure, "marshalling metadata")
	}
	if err := atomicWrite(m.metadataPath(), meta); err != nil {
		return err
	}

	cache, err := json.Marshal(m.urlCache)
	if err != nil {
		return recallerr.Wrap(err, recallerr.CodeMemoryPersistFailure, "marshalling url cache")
	}
	return atomicWrite(m.cachePath(), cache)
}

// loadLocked restores in-memory state from disk. When the index and
// metadata artifacts are absent the store simply starts empty; a partially
// present or misaligned pair is a load failure, not something to repair
// silently.
func (m *Manager) loadLocked() error {
	_, indexErr := os.Stat(m.indexPath())
	_, metaErr := os.Stat(m.metadataPath())
	if os.IsNotExist(indexErr) && os.IsNotExist(metaErr) {
		slog.Info("no persisted memory store, starting empty", "dir", m.dir)
		return nil
	}
	if os.IsNotExist(indexErr) != os.IsNotExist(metaErr) {
		return recallerr.New(recallerr.CodeMemoryLoadFailure,
			"persisted store is incomplete: index and metadata must both exist", recallerr.FieldPath(m.dir))
	}

	blob, err := os.ReadFile(m.indexPath())
	if err != nil {
		return recallerr.Wrap(err, recallerr.CodeMemoryLoadFailure, "reading index", recallerr.FieldPath(m.indexPath()))
	}
	index, err := UnmarshalFlatIndex(blob)
	if err != nil {
		return err
	}
	if index.Dimension() != m.index.Dimension() {
		return recallerr.Errorf(recallerr.CodeMemoryLoadFailure,
			"persisted index has dimension %d, embedder declares %d", index.Dimension(), m.index.Dimension())
	}

	meta, err := os.ReadFile(m.metadataPath())
	if err != nil {
		return recallerr.Wrap(err, recallerr.CodeMemoryLoadFailure, "reading metadata", recallerr.FieldPath(m.metadataPath()))
	}
	var records []*Record
	if err := json.Unmarshal(meta, &records); err != nil {
		return recallerr.Wrap(err, recallerr.CodeMemoryLoadFailure, "unmarshalling metadata", recallerr.FieldPath(m.metadataPath()))
	}

	if index.Len() != len(records) {
		return recallerr.Errorf(recallerr.CodeMemoryLoadFailure,
			"persisted store is misaligned: %d vectors but %d records", index.Len(), len(records))
	}

	urlCache := map[string]string{}
	if cache, err := os.ReadFile(m.cachePath()); err == nil {
		if err := json.Unmarshal(cache, &urlCache); err != nil {
			return recallerr.Wrap(err, recallerr.CodeMemoryLoadFailure, "unmarshalling url cache", recallerr.FieldPath(m.cachePath()))
		}
	}

	m.index = index
	m.records = records
	m.urlCache = urlCache
	m.seen = make(map[string]struct{}, len(records))
	for _, rec := range records {
		m.seen[rec.Text] = struct{}{}
	}

	slog.Info("loaded persisted memory store", "dir", m.dir, "records", len(records))
	return nil
}
