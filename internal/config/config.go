// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Recall Contributors

// Package config loads and validates recall configuration with the
// standard precedence: flags > environment (RECALL_ prefix) > config file >
// defaults.
package config

import (
	"errors"
	"net"
	"strings"
	"time"

	"github.com/spf13/viper"

	recallerr "github.com/recall-dev/recall/pkg/errors"
)

// Config is the top-level recall configuration.
type Config struct {
	Networking NetworkingConfig `mapstructure:"networking"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Embedder   EmbedderConfig   `mapstructure:"embedder"`
	Memory     MemoryConfig     `mapstructure:"memory"`
}

// NetworkingConfig controls how the server listens for connections.
type NetworkingConfig struct {
	Listen      string   `mapstructure:"listen"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// StorageConfig locates the persisted store.
type StorageConfig struct {
	Dir string `mapstructure:"dir"`
}

// EmbedderConfig selects and parameterizes the embedding provider.
type EmbedderConfig struct {
	Provider   string        `mapstructure:"provider"`
	Model      string        `mapstructure:"model"`
	APIKey     string        `mapstructure:"api_key"`
	BaseURL    string        `mapstructure:"base_url"`
	Dimensions int           `mapstructure:"dimensions"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// MemoryConfig tunes chunking and retrieval.
type MemoryConfig struct {
	TopK         int `mapstructure:"top_k"`
	ChunkSize    int `mapstructure:"chunk_size"`
	ChunkOverlap int `mapstructure:"chunk_overlap"`
}

// SetDefaults installs default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("networking.listen", "127.0.0.1:8741")
	v.SetDefault("storage.dir", "recall-data")
	v.SetDefault("embedder.provider", "google")
	v.SetDefault("embedder.model", "gemini-embedding-001")
	v.SetDefault("embedder.dimensions", 768)
	v.SetDefault("embedder.timeout", 30*time.Second)
	v.SetDefault("memory.top_k", 5)
	v.SetDefault("memory.chunk_size", 40)
	v.SetDefault("memory.chunk_overlap", 10)
}

// SetupEnv binds environment variables with the RECALL_ prefix, so
// RECALL_EMBEDDER_API_KEY overrides embedder.api_key.
func SetupEnv(v *viper.Viper) {
	v.SetEnvPrefix("RECALL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads configuration from the given path (or defaults when empty)
// with environment overrides, then validates it.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	SetupEnv(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, recallerr.Errorf(recallerr.CodeConfigLoadReadFailure, "reading config %s: %w", path, err)
		}
	}

	return FromViper(v)
}

// FromViper unmarshals and validates a fully-populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, recallerr.Errorf(recallerr.CodeConfigValidateInvalidValue, "unmarshalling config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, recallerr.Errorf(recallerr.CodeConfigValidateInvalidValue, "validating config: %w", errors.Join(errs...))
	}
	return &cfg, nil
}

// Validate checks the configuration for logical errors, collecting all
// issues rather than stopping at the first one.
func (c *Config) Validate() []error {
	var errs []error

	if _, _, err := net.SplitHostPort(c.Networking.Listen); err != nil {
		errs = append(errs, recallerr.Errorf(recallerr.CodeConfigValidateInvalidValue,
			"config: networking.listen must be host:port, got %q", c.Networking.Listen))
	}

	if c.Storage.Dir == "" {
		errs = append(errs, recallerr.New(recallerr.CodeConfigValidateInvalidValue,
			"config: storage.dir must not be empty"))
	}

	validProviders := map[string]bool{"google": true, "openai": true, "mock": true}
	if !validProviders[c.Embedder.Provider] {
		errs = append(errs, recallerr.Errorf(recallerr.CodeConfigValidateInvalidValue,
			"config: embedder.provider must be one of [google, openai, mock], got %q", c.Embedder.Provider))
	}
	if c.Embedder.Dimensions <= 0 {
		errs = append(errs, recallerr.Errorf(recallerr.CodeConfigValidateInvalidValue,
			"config: embedder.dimensions must be positive, got %d", c.Embedder.Dimensions))
	}
	if c.Embedder.Timeout < 0 {
		errs = append(errs, recallerr.Errorf(recallerr.CodeConfigValidateInvalidValue,
			"config: embedder.timeout must not be negative, got %s", c.Embedder.Timeout))
	}

	if c.Memory.TopK <= 0 {
		errs = append(errs, recallerr.Errorf(recallerr.CodeConfigValidateInvalidValue,
			"config: memory.top_k must be positive, got %d", c.Memory.TopK))
	}
	if c.Memory.ChunkSize <= 0 {
		errs = append(errs, recallerr.Errorf(recallerr.CodeConfigValidateInvalidValue,
			"config: memory.chunk_size must be positive, got %d", c.Memory.ChunkSize))
	}
	if c.Memory.ChunkOverlap < 0 || c.Memory.ChunkOverlap >= c.Memory.ChunkSize {
		errs = append(errs, recallerr.Errorf(recallerr.CodeConfigValidateInvalidValue,
			"config: memory.chunk_overlap must be in [0, chunk_size), got %d", c.Memory.ChunkOverlap))
	}

	return errs
}
