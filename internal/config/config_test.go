// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Recall Contributors

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/recall-dev/recall/internal/config"
	recallerr "github.com/recall-dev/recall/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8741", cfg.Networking.Listen)
	assert.Equal(t, "recall-data", cfg.Storage.Dir)
	assert.Equal(t, "google", cfg.Embedder.Provider)
	assert.Equal(t, "gemini-embedding-001", cfg.Embedder.Model)
	assert.Equal(t, 768, cfg.Embedder.Dimensions)
	assert.Equal(t, 30*time.Second, cfg.Embedder.Timeout)
	assert.Equal(t, 5, cfg.Memory.TopK)
	assert.Equal(t, 40, cfg.Memory.ChunkSize)
	assert.Equal(t, 10, cfg.Memory.ChunkOverlap)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recall.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
networking:
  listen: "127.0.0.1:9000"
embedder:
  provider: mock
  dimensions: 64
memory:
  chunk_size: 100
  chunk_overlap: 20
`), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Networking.Listen)
	assert.Equal(t, "mock", cfg.Embedder.Provider)
	assert.Equal(t, 64, cfg.Embedder.Dimensions)
	assert.Equal(t, 100, cfg.Memory.ChunkSize)
	// Untouched keys keep their defaults.
	assert.Equal(t, 5, cfg.Memory.TopK)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, recallerr.HasCode(err, recallerr.CodeConfigLoadReadFailure))
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("RECALL_EMBEDDER_PROVIDER", "mock")
	t.Setenv("RECALL_EMBEDDER_DIMENSIONS", "32")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "mock", cfg.Embedder.Provider)
	assert.Equal(t, 32, cfg.Embedder.Dimensions)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := &config.Config{
		Networking: config.NetworkingConfig{Listen: "not-an-address"},
		Storage:    config.StorageConfig{Dir: ""},
		Embedder:   config.EmbedderConfig{Provider: "voyage", Dimensions: 0},
		Memory:     config.MemoryConfig{TopK: 0, ChunkSize: 10, ChunkOverlap: 10},
	}

	errs := cfg.Validate()
	assert.GreaterOrEqual(t, len(errs), 5)
}

func TestValidate_InvalidProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recall.yaml")
	require.NoError(t, os.WriteFile(path, []byte("embedder:\n  provider: voyage\n"), 0o600))

	_, err := config.Load(path)
	require.Error(t, err)
	assert.True(t, recallerr.HasCode(err, recallerr.CodeConfigValidateInvalidValue))
	assert.Contains(t, err.Error(), "embedder.provider")
}
