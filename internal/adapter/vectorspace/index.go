package vectorspace

import (
	"sort"

	"vsm/internal/adapter/analyzer"
	"vsm/internal/domain"
	"vsm/internal/port"
)

// Index is the read-only ranking state for one corpus: vocabulary, term
// counts and the cached unit-length document vectors.
type Index struct {
	tokenizer port.Tokenizer
	vocab     *Vocabulary
	tf        TermFrequencies
	ids       []string
	vectors   map[string]Vector
	lengths   map[string]float64
}

// BuildIndex tokenizes, weighs and normalizes every document of corpus. An
// empty corpus yields a valid empty index. The only failure is a repeated
// document id, reported as *DuplicateDocumentIDError.
func BuildIndex(corpus []domain.Document) (*Index, error) {
	tokenizer := analyzer.NewTokenizer()

	seen := make(map[string]int, len(corpus))
	docs := make([]TokenizedDocument, 0, len(corpus))
	for pos, doc := range corpus {
		if first, dup := seen[doc.ID]; dup {
			return nil, &DuplicateDocumentIDError{ID: doc.ID, FirstPosition: first, Position: pos}
		}
		seen[doc.ID] = pos
		docs = append(docs, TokenizedDocument{
			ID:    doc.ID,
			Terms: tokenizer.Tokenize(doc.Text),
		})
	}

	vocab, tf := BuildVocabulary(docs)

	ix := &Index{
		tokenizer: tokenizer,
		vocab:     vocab,
		tf:        tf,
		ids:       make([]string, 0, len(docs)),
		vectors:   make(map[string]Vector, len(docs)),
		lengths:   make(map[string]float64, len(docs)),
	}
	for _, doc := range docs {
		raw := Weigh(tf[doc.ID], vocab)
		ix.ids = append(ix.ids, doc.ID)
		ix.lengths[doc.ID] = raw.Norm()
		ix.vectors[doc.ID] = Normalize(raw)
	}
	sort.Strings(ix.ids)

	return ix, nil
}

// Vocabulary returns the corpus vocabulary. Callers must not modify it.
func (ix *Index) Vocabulary() *Vocabulary {
	return ix.vocab
}

// TermFrequencies returns the corpus term counts. Callers must not modify
// it.
func (ix *Index) TermFrequencies() TermFrequencies {
	return ix.tf
}

// DocumentIDs returns the indexed ids in ascending order.
func (ix *Index) DocumentIDs() []string {
	ids := make([]string, len(ix.ids))
	copy(ids, ix.ids)
	return ids
}

// Vector returns the unit-length vector of a document.
func (ix *Index) Vector(docID string) (Vector, bool) {
	v, ok := ix.vectors[docID]
	return v, ok
}

// Length returns the L2 norm of a document's raw TF-IDF vector.
func (ix *Index) Length(docID string) float64 {
	return ix.lengths[docID]
}

// QueryVector tokenizes query and returns its unit-length weight vector.
func (ix *Index) QueryVector(query string) Vector {
	counts := CountTerms(ix.tokenizer.Tokenize(query))
	return Normalize(Weigh(counts, ix.vocab))
}

// DroppedTerms returns the distinct query terms that get no weight, split
// into terms outside the vocabulary and terms found in every document.
// Both lists are sorted.
func (ix *Index) DroppedTerms(query string) (unknown, ubiquitous []string) {
	for _, term := range distinct(ix.tokenizer.Tokenize(query)) {
		switch {
		case !ix.vocab.Contains(term):
			unknown = append(unknown, term)
		case ix.vocab.IDF(term) == 0:
			ubiquitous = append(ubiquitous, term)
		}
	}
	sort.Strings(unknown)
	sort.Strings(ubiquitous)
	return unknown, ubiquitous
}

func (ix *Index) Stats() domain.Stats {
	return domain.Stats{
		Documents: len(ix.ids),
		Terms:     ix.vocab.Size(),
	}
}
