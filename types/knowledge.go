package types

import "time"

// KnowledgePage is one fetched knowledge-base page. Content is already
// flattened to plain text so pages can be concatenated safely.
type KnowledgePage struct {
	PageID    string    `json:"page_id"`
	Title     string    `json:"title,omitempty"`
	Content   string    `json:"content"`
	FetchedAt time.Time `json:"fetched_at"`
}

// KnowledgeSnapshot is the materialized cache value. CombinedContext is a
// deterministic function of Pages in configured page-ID order; a snapshot is
// built atomically by one fill and never mutated afterwards.
type KnowledgeSnapshot struct {
	CombinedContext string           `json:"combined_context"`
	Pages           []*KnowledgePage `json:"pages"`
	FetchedAt       time.Time        `json:"fetched_at"`
}
