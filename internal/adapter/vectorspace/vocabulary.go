package vectorspace

// TokenizedDocument is a document reduced to its ordered terms.
type TokenizedDocument struct {
	ID    string
	Terms []string
}

// TermFrequencies maps document id to the occurrence count of each term in
// that document.
type TermFrequencies map[string]map[string]int

// Count returns how often term occurs in the document, 0 when either is
// unknown.
func (tf TermFrequencies) Count(docID, term string) int {
	return tf[docID][term]
}

// Vocabulary is the set of distinct corpus terms with their document
// frequencies. Every stored frequency lies in [1, Documents()].
type Vocabulary struct {
	df   map[string]int
	docs int
}

// DocumentFrequency returns the number of documents containing term.
func (v *Vocabulary) DocumentFrequency(term string) int {
	return v.df[term]
}

// Contains reports whether any document contains term.
func (v *Vocabulary) Contains(term string) bool {
	_, ok := v.df[term]
	return ok
}

// Size returns the number of distinct terms.
func (v *Vocabulary) Size() int {
	return len(v.df)
}

// Documents returns N, the number of documents the vocabulary was built from.
func (v *Vocabulary) Documents() int {
	return v.docs
}

// CountTerms counts the occurrences of each distinct term.
func CountTerms(terms []string) map[string]int {
	counts := make(map[string]int, len(terms))
	for _, term := range terms {
		counts[term]++
	}
	return counts
}

// BuildVocabulary derives the vocabulary and per-document term counts from a
// tokenized corpus. A term's document frequency grows by one per document it
// appears in, however often it repeats there. Document ids are assumed
// unique; BuildIndex enforces that before calling here.
func BuildVocabulary(docs []TokenizedDocument) (*Vocabulary, TermFrequencies) {
	vocab := &Vocabulary{
		df:   make(map[string]int),
		docs: len(docs),
	}
	tf := make(TermFrequencies, len(docs))

	for _, doc := range docs {
		counts := CountTerms(doc.Terms)
		tf[doc.ID] = counts
		for term := range counts {
			vocab.df[term]++
		}
	}

	return vocab, tf
}
