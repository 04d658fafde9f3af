// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Recall Contributors

package embed

import (
	"context"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	recallerr "github.com/recall-dev/recall/pkg/errors"
)

// OpenAI embeds text with the OpenAI embeddings API (or any compatible
// endpoint via BaseURL).
type OpenAI struct {
	client openaisdk.Client
	cfg    Config
}

var _ Embedder = (*OpenAI)(nil)

func newOpenAI(cfg Config) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, recallerr.New(recallerr.CodeEmbedConfigInvalid, "openai: missing api_key in config",
			recallerr.FieldProvider("openai"))
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAI{client: openaisdk.NewClient(opts...), cfg: cfg}, nil
}

func (o *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := withTimeout(ctx, o.cfg.Timeout)
	defer cancel()

	resp, err := o.client.Embeddings.New(ctx, openaisdk.EmbeddingNewParams{
		Input:      openaisdk.EmbeddingNewParamsInputUnion{OfString: openaisdk.String(text)},
		Model:      openaisdk.EmbeddingModel(o.cfg.Model),
		Dimensions: openaisdk.Int(int64(o.cfg.Dimensions)),
	})
	if err != nil {
		return nil, recallerr.Wrap(err, recallerr.CodeEmbedProviderFailure, "openai: embedding content",
			recallerr.FieldProvider("openai"))
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, recallerr.New(recallerr.CodeEmbedProviderFailure, "openai: empty embedding response",
			recallerr.FieldProvider("openai"))
	}

	vec := make([]float32, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		vec[i] = float32(v)
	}
	return vec, nil
}

func (o *OpenAI) Dimensions() int { return o.cfg.Dimensions }
