package vectorspace

import (
	"sort"

	"vsm/internal/domain"
)

// Rank scores every indexed document against query. Results are ordered by
// descending cosine similarity, ties by ascending document id. Documents
// sharing no weighted term with the query are included with score 0.
func (ix *Index) Rank(query string) []domain.ScoredDocument {
	return ix.RankWithOptions(query, domain.RankOptions{})
}

// RankWithOptions is Rank with optional filtering and truncation applied
// after ordering.
func (ix *Index) RankWithOptions(query string, opts domain.RankOptions) []domain.ScoredDocument {
	terms := ix.tokenizer.Tokenize(query)
	queryVec := Normalize(Weigh(CountTerms(terms), ix.vocab))

	var required []string
	if opts.RequireAll {
		required = distinct(terms)
	}

	results := make([]domain.ScoredDocument, 0, len(ix.ids))
	for _, id := range ix.ids {
		if opts.RequireAll && !ix.containsAll(id, required) {
			continue
		}
		score := similarity(ix.vectors[id], queryVec)
		if opts.DropZero && score == 0 {
			continue
		}
		results = append(results, domain.ScoredDocument{DocID: id, Score: score})
	}

	SortScored(results)

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results
}

// SortScored orders results by descending score, then ascending id.
func SortScored(results []domain.ScoredDocument) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].DocID < results[j].DocID
	})
}

// containsAll reports whether the document has every term at least once.
// It checks raw counts so terms with zero IDF still count as present.
func (ix *Index) containsAll(docID string, terms []string) bool {
	counts := ix.tf[docID]
	for _, term := range terms {
		if counts[term] == 0 {
			return false
		}
	}
	return true
}

func distinct(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
	}
	return out
}
