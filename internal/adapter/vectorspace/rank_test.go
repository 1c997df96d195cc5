package vectorspace

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vsm/internal/domain"
)

func buildTestIndex(t *testing.T, docs ...domain.Document) *Index {
	t.Helper()
	ix, err := BuildIndex(docs)
	require.NoError(t, err)
	return ix
}

func ids(results []domain.ScoredDocument) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.DocID
	}
	return out
}

func catDogIndex(t *testing.T) *Index {
	return buildTestIndex(t,
		domain.Document{ID: "d3", Text: "cats and dogs"},
		domain.Document{ID: "d1", Text: "the cat sat"},
		domain.Document{ID: "d2", Text: "the dog sat"},
	)
}

func TestRank_CatDogScenario(t *testing.T) {
	ix := catDogIndex(t)

	results := ix.Rank("cat dog")

	require.Len(t, results, 3)
	assert.Equal(t, []string{"d1", "d2", "d3"}, ids(results))
	assert.Greater(t, results[0].Score, 0.0)
	assert.Equal(t, results[0].Score, results[1].Score, "d1 and d2 tie")
	assert.Equal(t, 0.0, results[2].Score, "cats/dogs must not match cat/dog")
}

func TestRank_RareTermScenario(t *testing.T) {
	ix := buildTestIndex(t,
		domain.Document{ID: "breeze", Text: "a gentle wind and a light breeze"},
		domain.Document{ID: "gale", Text: "the wind rose to a gale"},
		domain.Document{ID: "zephyr", Text: "zephyr zephyr zephyr zephyr zephyr, said the wind"},
		domain.Document{ID: "calm", Text: "no wind at all today"},
	)

	results := ix.Rank("zephyr")

	require.Len(t, results, 4)
	assert.Equal(t, "zephyr", results[0].DocID)
	for _, r := range results[1:] {
		assert.Greater(t, results[0].Score, r.Score, r.DocID)
	}
}

func TestRank_EmptyCorpus(t *testing.T) {
	ix := buildTestIndex(t)

	assert.Empty(t, ix.Rank("anything at all"))
	assert.Empty(t, ix.Rank(""))
	assert.Equal(t, domain.Stats{}, ix.Stats())
}

func TestRank_QueryWithoutRecognizedTerms(t *testing.T) {
	ix := catDogIndex(t)

	for _, query := range []string{"", "   ", "?!", "unicorn zebra"} {
		results := ix.Rank(query)
		require.Len(t, results, 3, "query %q", query)
		assert.Equal(t, []string{"d1", "d2", "d3"}, ids(results), "query %q", query)
		for _, r := range results {
			assert.Equal(t, 0.0, r.Score, "query %q", query)
		}
	}
}

func TestRank_Deterministic(t *testing.T) {
	var corpus []domain.Document
	for i := 0; i < 20; i++ {
		corpus = append(corpus, domain.Document{
			ID:   fmt.Sprintf("doc-%02d", i),
			Text: fmt.Sprintf("shared words appear here term%d term%d alpha beta", i%3, i%5),
		})
	}
	ix := buildTestIndex(t, corpus...)

	first := ix.Rank("alpha term1 term2 shared")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ix.Rank("alpha term1 term2 shared"))
	}

	rebuilt := buildTestIndex(t, corpus...)
	assert.Equal(t, first, rebuilt.Rank("alpha term1 term2 shared"))
}

func TestRank_ScoresWithinRange(t *testing.T) {
	ix := buildTestIndex(t,
		domain.Document{ID: "1", Text: "red green blue"},
		domain.Document{ID: "2", Text: "red red red"},
		domain.Document{ID: "3", Text: "blue yellow"},
		domain.Document{ID: "4", Text: "green"},
	)

	for _, query := range []string{"red", "green blue", "red red green yellow", "blue"} {
		for _, r := range ix.Rank(query) {
			assert.GreaterOrEqual(t, r.Score, 0.0)
			assert.LessOrEqual(t, r.Score, 1.0)
		}
	}
}

func TestRank_ExactDocumentScoresOne(t *testing.T) {
	ix := buildTestIndex(t,
		domain.Document{ID: "a", Text: "quick brown fox"},
		domain.Document{ID: "b", Text: "lazy dog"},
	)

	results := ix.Rank("quick brown fox")
	assert.Equal(t, "a", results[0].DocID)
	assert.InDelta(t, 1.0, results[0].Score, tolerance)
}

func TestRank_SelfSimilarityOfDocumentVectors(t *testing.T) {
	ix := catDogIndex(t)

	for _, id := range ix.DocumentIDs() {
		v, ok := ix.Vector(id)
		require.True(t, ok)
		if v.IsZero() {
			continue
		}
		assert.InDelta(t, 1.0, Cosine(v, v), tolerance, id)
		assert.InDelta(t, 1.0, v.Norm(), tolerance, id)
	}
}

func TestRankWithOptions(t *testing.T) {
	ix := catDogIndex(t)

	t.Run("drop zero", func(t *testing.T) {
		results := ix.RankWithOptions("cat dog", domain.RankOptions{DropZero: true})
		assert.Equal(t, []string{"d1", "d2"}, ids(results))
	})

	t.Run("limit", func(t *testing.T) {
		results := ix.RankWithOptions("cat dog", domain.RankOptions{Limit: 1})
		assert.Equal(t, []string{"d1"}, ids(results))
	})

	t.Run("require all", func(t *testing.T) {
		results := ix.RankWithOptions("cat sat", domain.RankOptions{RequireAll: true})
		assert.Equal(t, []string{"d1"}, ids(results))
	})

	t.Run("require all with unknown term", func(t *testing.T) {
		results := ix.RankWithOptions("cat unicorn", domain.RankOptions{RequireAll: true})
		assert.Empty(t, results)
	})

	t.Run("require all counts zero idf terms", func(t *testing.T) {
		withCommon := buildTestIndex(t,
			domain.Document{ID: "x", Text: "common rare"},
			domain.Document{ID: "y", Text: "common"},
		)
		results := withCommon.RankWithOptions("common", domain.RankOptions{RequireAll: true})
		assert.Equal(t, []string{"x", "y"}, ids(results))
	})
}

func TestBuildIndex_DuplicateDocumentID(t *testing.T) {
	_, err := BuildIndex([]domain.Document{
		{ID: "a", Text: "one"},
		{ID: "b", Text: "two"},
		{ID: "a", Text: "three"},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateDocumentID))

	var dupErr *DuplicateDocumentIDError
	require.True(t, errors.As(err, &dupErr))
	assert.Equal(t, "a", dupErr.ID)
	assert.Equal(t, 0, dupErr.FirstPosition)
	assert.Equal(t, 2, dupErr.Position)
}

func TestIndex_Accessors(t *testing.T) {
	ix := catDogIndex(t)

	assert.Equal(t, []string{"d1", "d2", "d3"}, ix.DocumentIDs())
	assert.Equal(t, domain.Stats{Documents: 3, Terms: 7}, ix.Stats())
	assert.Equal(t, 1, ix.TermFrequencies().Count("d1", "cat"))
	assert.Equal(t, 2, ix.Vocabulary().DocumentFrequency("sat"))
	assert.Greater(t, ix.Length("d1"), 0.0)
	assert.Equal(t, 0.0, ix.Length("missing"))

	_, ok := ix.Vector("missing")
	assert.False(t, ok)

	q := ix.QueryVector("cat cat unicorn")
	require.Len(t, q, 1)
	assert.InDelta(t, 1.0, q.Get("cat"), tolerance)
}

func TestIndex_DroppedTerms(t *testing.T) {
	ix := buildTestIndex(t,
		domain.Document{ID: "d1", Text: "the cat sat"},
		domain.Document{ID: "d2", Text: "the dog sat"},
	)

	unknown, ubiquitous := ix.DroppedTerms("Zebra the cat THE unicorn sat")
	assert.Equal(t, []string{"unicorn", "zebra"}, unknown)
	assert.Equal(t, []string{"sat", "the"}, ubiquitous)

	unknown, ubiquitous = ix.DroppedTerms("cat dog")
	assert.Empty(t, unknown)
	assert.Empty(t, ubiquitous)
}

func TestSortScored(t *testing.T) {
	results := []domain.ScoredDocument{
		{DocID: "c", Score: 0.5},
		{DocID: "b", Score: 0.9},
		{DocID: "a", Score: 0.5},
		{DocID: "d", Score: 0},
	}

	SortScored(results)
	assert.Equal(t, []string{"b", "a", "c", "d"}, ids(results))
}
