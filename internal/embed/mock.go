// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Recall Contributors

package embed

import (
	"context"
	"hash/fnv"
	"math"
)

// Mock is a deterministic hash-based embedder for tests and offline runs.
// Identical text always yields an identical unit vector, so self-retrieval
// ranks an inserted text first for its own embedding.
type Mock struct {
	dimensions int
}

var _ Embedder = (*Mock)(nil)

// NewMock creates a mock embedder with the given output dimensionality.
func NewMock(dimensions int) *Mock {
	return &Mock{dimensions: dimensions}
}

func (m *Mock) Embed(_ context.Context, text string) ([]float32, error) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()

	vec := make([]float32, m.dimensions)
	for i := range vec {
		// LCG keeps the expansion deterministic per text.
		seed = seed*6364136223846793005 + 1442695040888963407
		vec[i] = float32(int64(seed)) / float32(math.MaxInt64)
	}

	return normalize(vec), nil
}

func (m *Mock) Dimensions() int { return m.dimensions }

func normalize(vec []float32) []float32 {
	var norm float32
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}

	norm = float32(math.Sqrt(float64(norm)))
	for i, v := range vec {
		vec[i] = v / norm
	}
	return vec
}
