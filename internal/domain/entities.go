package domain

import "time"

// Document is one corpus entry: a stable identifier and its raw text.
type Document struct {
	ID      string
	Text    string
	Source  string
	AddedAt time.Time
}

type ScoredDocument struct {
	DocID string  `json:"doc_id"`
	Score float64 `json:"score"`
}

type Stats struct {
	Documents int `json:"documents"`
	Terms     int `json:"terms"`
}

// RankOptions narrows a ranking. The zero value returns every document.
type RankOptions struct {
	// DropZero removes documents whose similarity is exactly 0.
	DropZero bool
	// RequireAll keeps only documents containing every query term.
	RequireAll bool
	// Limit truncates the ordered result; 0 means no limit.
	Limit int
}

// CacheStats describes the query cache in front of an index.
type CacheStats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}
