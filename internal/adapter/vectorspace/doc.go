// Package vectorspace implements the vector space retrieval model.
//
// Documents and queries are represented as TF-IDF weighted term vectors,
// normalized to unit length, and ranked by cosine similarity. An Index is
// built once from a fixed corpus and is immutable afterwards, so a single
// Index may be ranked against from many goroutines without locking.
//
// Weights follow
//
//	weight(d, t) = tf(d, t) * ln(N / df(t))
//
// where N is the number of documents in the corpus and df(t) the number of
// documents containing t. Terms unknown to the corpus weigh nothing.
package vectorspace
