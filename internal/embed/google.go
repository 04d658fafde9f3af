// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Recall Contributors

package embed

import (
	"context"

	"google.golang.org/genai"

	recallerr "github.com/recall-dev/recall/pkg/errors"
)

// Google embeds text with the Gemini embedding API.
type Google struct {
	client *genai.Client
	cfg    Config
}

var _ Embedder = (*Google)(nil)

func newGoogle(cfg Config) (*Google, error) {
	if cfg.APIKey == "" {
		return nil, recallerr.New(recallerr.CodeEmbedConfigInvalid, "google: missing api_key in config",
			recallerr.FieldProvider("google"))
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, recallerr.Wrapf(err, recallerr.CodeEmbedProviderFailure, "google: creating client")
	}

	return &Google{client: client, cfg: cfg}, nil
}

// Embed returns the embedding for text, truncated by the provider to the
// configured output dimensionality.
func (g *Google) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := withTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	dims := int32(g.cfg.Dimensions)
	resp, err := g.client.Models.EmbedContent(ctx, g.cfg.Model, genai.Text(text), &genai.EmbedContentConfig{
		TaskType:             "RETRIEVAL_DOCUMENT",
		OutputDimensionality: &dims,
	})
	if err != nil {
		return nil, recallerr.Wrap(err, recallerr.CodeEmbedProviderFailure, "google: embedding content",
			recallerr.FieldProvider("google"))
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, recallerr.New(recallerr.CodeEmbedProviderFailure, "google: empty embedding response",
			recallerr.FieldProvider("google"))
	}

	return resp.Embeddings[0].Values, nil
}

func (g *Google) Dimensions() int { return g.cfg.Dimensions }
