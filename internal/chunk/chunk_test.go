// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Recall Contributors

package chunk_test

import (
	"strings"
	"testing"

	"github.com/recall-dev/recall/internal/chunk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_Empty(t *testing.T) {
	assert.Nil(t, chunk.Split("", 40, 10))
	assert.Nil(t, chunk.Split("   \n\t  ", 40, 10))
}

func TestSplit_ShorterThanWindow(t *testing.T) {
	chunks := chunk.Split("just a few words here", 40, 10)
	require.Len(t, chunks, 1)
	assert.Equal(t, "just a few words here", chunks[0])
}

func TestSplit_OverlapsWindows(t *testing.T) {
	words := make([]string, 10)
	for i := range words {
		words[i] = string(rune('a' + i))
	}
	text := strings.Join(words, " ")

	chunks := chunk.Split(text, 4, 2)
	require.Equal(t, []string{"a b c d", "c d e f", "e f g h", "g h i j"}, chunks)
}

func TestSplit_EveryWordCovered(t *testing.T) {
	text := strings.Repeat("word ", 137)
	chunks := chunk.Split(text, 40, 10)

	total := 0
	for _, c := range chunks {
		total += len(strings.Fields(c))
	}
	// Overlap duplicates words, but the final window must reach the end.
	assert.True(t, strings.HasSuffix(chunks[len(chunks)-1], "word"))
	assert.GreaterOrEqual(t, total, 137)
}

func TestSplit_InvalidWindowFallsBack(t *testing.T) {
	text := strings.Repeat("w ", 50)

	assert.Equal(t, chunk.Split(text, chunk.DefaultSize, chunk.DefaultOverlap), chunk.Split(text, 0, 0))
	assert.Equal(t, chunk.Split(text, chunk.DefaultSize, chunk.DefaultOverlap), chunk.Split(text, 5, 9))
}
