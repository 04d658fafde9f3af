// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Recall Contributors

package memory

// Record types stored by the agent and the page indexer.
const (
	TypeToolOutput    = "tool_output"
	TypeUserQuery     = "user_query"
	TypeSystemMessage = "system_message"
	TypeWebpageChunk  = "webpage_chunk"
)

// Record is one stored chunk of text with its metadata. Index always equals
// the record's position in the metadata sequence, which equals the position
// of its vector in the index: the two structures are index-aligned and the
// same length at all times.
type Record struct {
	Text      string   `json:"text"`
	URL       string   `json:"url,omitempty"`
	Title     string   `json:"title,omitempty"`
	SessionID string   `json:"session_id,omitempty"`
	Type      string   `json:"type,omitempty"`
	ToolName  string   `json:"tool_name,omitempty"`
	UserQuery string   `json:"user_query,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Timestamp string   `json:"timestamp"`
	Index     int      `json:"index"`
}

// SearchResult is one ranked hit from a similarity search, shaped for the
// service layer. Score is 1/(1+distance): bounded to (0,1], monotonic with
// but inverse to squared Euclidean distance.
type SearchResult struct {
	URL     string  `json:"url"`
	Title   string  `json:"title"`
	Snippet string  `json:"content_snippet"`
	Score   float64 `json:"score"`
	ChunkID string  `json:"chunk_id"`
}

// Stats summarizes the store for the stats endpoint.
type Stats struct {
	IndexedURLs int   `json:"indexed_urls"`
	TotalChunks int   `json:"total_chunks"`
	IndexSize   int64 `json:"index_size"`
}
