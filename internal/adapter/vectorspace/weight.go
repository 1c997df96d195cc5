package vectorspace

import "math"

// IDF returns ln(N / df(term)). Terms outside the vocabulary, and every term
// of an empty corpus, get 0.
func (v *Vocabulary) IDF(term string) float64 {
	df := v.df[term]
	if df == 0 || v.docs == 0 {
		return 0
	}
	return math.Log(float64(v.docs) / float64(df))
}

// Weigh turns a term-count map into a TF-IDF weight vector against vocab.
// Out-of-vocabulary terms and terms present in every document carry no
// weight and are left out of the result.
func Weigh(counts map[string]int, vocab *Vocabulary) Vector {
	if vocab == nil || vocab.docs == 0 {
		return Vector{}
	}

	weights := make(map[string]float64, len(counts))
	for term, count := range counts {
		if count <= 0 {
			continue
		}
		idf := vocab.IDF(term)
		if idf == 0 {
			continue
		}
		weights[term] = float64(count) * idf
	}
	return NewVector(weights)
}
