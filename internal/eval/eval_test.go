package eval

import (
	"testing"

	"vsm/internal/domain"
)

func ranked(ids ...string) []domain.ScoredDocument {
	out := make([]domain.ScoredDocument, len(ids))
	for i, id := range ids {
		out[i] = domain.ScoredDocument{DocID: id, Score: 1 / float64(i+1)}
	}
	return out
}

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name     string
		results  []domain.ScoredDocument
		relevant []string
		k        int
		want     Report
	}{
		{"perfect", ranked("a", "b", "c"), []string{"a", "b", "c"}, 0, Report{K: 3, Precision: 1, Recall: 1, ReciprocalRank: 1}},
		{"partial", ranked("a", "b", "x"), []string{"a", "b", "c"}, 0, Report{K: 3, Precision: 0.666, Recall: 0.666, ReciprocalRank: 1}},
		{"second", ranked("x", "a", "y"), []string{"a"}, 0, Report{K: 3, Precision: 0.333, Recall: 1, ReciprocalRank: 0.5}},
		{"cutoff", ranked("x", "y", "a"), []string{"a"}, 2, Report{K: 2}},
		{"none", ranked("x", "y", "z"), []string{"a"}, 0, Report{K: 3}},
		{"empty results", nil, []string{"a"}, 5, Report{}},
		{"empty relevant", ranked("a", "b"), nil, 0, Report{K: 2}},
		{"duplicate relevant ids", ranked("a", "b"), []string{"a", "a"}, 0, Report{K: 2, Precision: 0.5, Recall: 1, ReciprocalRank: 1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(tc.results, tc.relevant, tc.k)
			if got.K != tc.want.K {
				t.Errorf("K = %d, want %d", got.K, tc.want.K)
			}
			check(t, "precision", got.Precision, tc.want.Precision)
			check(t, "recall", got.Recall, tc.want.Recall)
			check(t, "reciprocal rank", got.ReciprocalRank, tc.want.ReciprocalRank)
		})
	}
}

func check(t *testing.T, name string, got, want float64) {
	t.Helper()
	if diff := got - want; diff > 0.01 || diff < -0.01 {
		t.Errorf("%s = %.3f, want %.3f", name, got, want)
	}
}
