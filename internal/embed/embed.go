// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Recall Contributors

// Package embed abstracts the embedding provider behind a small interface
// so the memory store never talks to a remote API directly. Providers are
// selected by configuration; the mock provider keeps tests and offline
// runs hermetic.
package embed

import (
	"context"
	"time"

	recallerr "github.com/recall-dev/recall/pkg/errors"
)

// Embedder converts text into a fixed-dimension vector. Dimensions is the
// declared output dimensionality and is fixed for the embedder's lifetime;
// the store adopts it at construction instead of probing the provider.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// Config selects and parameterizes an embedding provider.
type Config struct {
	Provider   string // "google", "openai", or "mock"
	Model      string
	APIKey     string
	BaseURL    string // optional, openai only; useful against mock servers
	Dimensions int
	Timeout    time.Duration
}

// New creates the configured Embedder.
func New(cfg Config) (Embedder, error) {
	if cfg.Dimensions <= 0 {
		return nil, recallerr.New(recallerr.CodeEmbedConfigInvalid, "embedder dimensions must be positive",
			recallerr.FieldProvider(cfg.Provider))
	}

	switch cfg.Provider {
	case "google":
		return newGoogle(cfg)
	case "openai":
		return newOpenAI(cfg)
	case "mock":
		return NewMock(cfg.Dimensions), nil
	default:
		return nil, recallerr.Errorf(recallerr.CodeEmbedConfigInvalid,
			"unknown embedding provider %q (expected google, openai, or mock)", cfg.Provider)
	}
}

// withTimeout derives a bounded context for one provider call. A zero
// timeout means the caller's context governs cancellation alone.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
