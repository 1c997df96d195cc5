// Package eval scores a ranking against a set of known-relevant document ids.
package eval

import "vsm/internal/domain"

// Report summarizes one ranking cut off at K results.
type Report struct {
	K              int     `json:"k"`
	Precision      float64 `json:"precision"`
	Recall         float64 `json:"recall"`
	ReciprocalRank float64 `json:"reciprocal_rank"`
}

// Evaluate judges the first k results (all of them when k <= 0).
func Evaluate(results []domain.ScoredDocument, relevant []string, k int) Report {
	if k <= 0 || k > len(results) {
		k = len(results)
	}
	top := results[:k]

	set := make(map[string]bool, len(relevant))
	for _, id := range relevant {
		set[id] = true
	}

	report := Report{K: k}
	hits := 0
	for i, r := range top {
		if !set[r.DocID] {
			continue
		}
		hits++
		if report.ReciprocalRank == 0 {
			report.ReciprocalRank = 1 / float64(i+1)
		}
	}

	if k > 0 {
		report.Precision = float64(hits) / float64(k)
	}
	if len(set) > 0 {
		report.Recall = float64(hits) / float64(len(set))
	}
	return report
}
