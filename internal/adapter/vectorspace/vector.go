package vectorspace

import (
	"math"
	"sort"
)

// Weight is one non-zero component of a Vector.
type Weight struct {
	Term  string
	Value float64
}

// Vector is a sparse term vector sorted by Term. Terms not present weigh 0.
// Keeping the components ordered makes every sum over a vector run in the
// same order, so scores are bit-for-bit reproducible.
type Vector []Weight

// NewVector builds a sorted Vector from a term-weight map, dropping zero
// weights.
func NewVector(weights map[string]float64) Vector {
	v := make(Vector, 0, len(weights))
	for term, w := range weights {
		if w == 0 {
			continue
		}
		v = append(v, Weight{Term: term, Value: w})
	}
	sort.Slice(v, func(i, j int) bool {
		return v[i].Term < v[j].Term
	})
	return v
}

// Get returns the weight of term, 0 when absent.
func (v Vector) Get(term string) float64 {
	i := sort.Search(len(v), func(i int) bool { return v[i].Term >= term })
	if i < len(v) && v[i].Term == term {
		return v[i].Value
	}
	return 0
}

// Norm returns the Euclidean (L2) length of v.
func (v Vector) Norm() float64 {
	var sum float64
	for _, w := range v {
		sum += w.Value * w.Value
	}
	return math.Sqrt(sum)
}

func (v Vector) IsZero() bool {
	return v.Norm() == 0
}

// Normalize returns v scaled to unit length. The zero vector normalizes to
// the empty vector.
func Normalize(v Vector) Vector {
	norm := v.Norm()
	if norm == 0 {
		return Vector{}
	}

	out := make(Vector, 0, len(v))
	for _, w := range v {
		if w.Value == 0 {
			continue
		}
		out = append(out, Weight{Term: w.Term, Value: w.Value / norm})
	}
	return out
}

// Dot returns the inner product of a and b by merging their sorted terms.
func Dot(a, b Vector) float64 {
	var dot float64
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Term == b[j].Term:
			dot += a[i].Value * b[j].Value
			i++
			j++
		case a[i].Term < b[j].Term:
			i++
		default:
			j++
		}
	}
	return dot
}

// Cosine returns the cosine similarity of a and b. It is 0 when either is
// the zero vector. Weights are non-negative, so the result is clamped to
// [0, 1] to absorb rounding.
func Cosine(a, b Vector) float64 {
	return similarity(Normalize(a), Normalize(b))
}

// similarity is the cosine of two vectors already of unit length.
func similarity(unitA, unitB Vector) float64 {
	if len(unitA) == 0 || len(unitB) == 0 {
		return 0
	}
	return clamp(Dot(unitA, unitB))
}

func clamp(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
