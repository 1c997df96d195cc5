package port

import "vsm/internal/domain"

// Ranker ranks the current corpus against a free-text query.
type Ranker interface {
	Rank(query string, opts domain.RankOptions) ([]domain.ScoredDocument, error)
}
