// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Recall Contributors

// Package chunk splits page text into bounded word windows for indexing.
package chunk

import "strings"

// Defaults for the sliding window, in words.
const (
	DefaultSize    = 40
	DefaultOverlap = 10
)

// Split cuts text into windows of size words, each overlapping the previous
// by overlap words. Whitespace runs collapse; empty input yields nil.
// A non-positive size or an overlap >= size falls back to the defaults.
func Split(text string, size, overlap int) []string {
	if size <= 0 || overlap < 0 || overlap >= size {
		size, overlap = DefaultSize, DefaultOverlap
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	step := size - overlap
	var chunks []string
	for i := 0; i < len(words); i += step {
		end := i + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}
