package vecindex

import (
	"errors"
	"fmt"
	"sort"
)

// Errors returned by Flat
var (
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	ErrEmptyVector       = errors.New("empty vector")
	ErrInvalidK          = errors.New("k must be positive")
)

// Match is one scored row
type Match struct {
	Row   int     // Insertion index of the row
	Score float64 // Inner product with the query
}

// Flat is an exact brute-force index. The first added vector fixes the
// dimension. It is not safe for concurrent Add and Search.
type Flat struct {
	dim  int
	rows [][]float32
}

// NewFlat creates an empty index. A dim of 0 lets the first Add decide.
func NewFlat(dim int) *Flat {
	return &Flat{dim: dim}
}

// Add appends one vector. The slice is retained, not copied.
func (f *Flat) Add(vec []float32) error {
	if len(vec) == 0 {
		return ErrEmptyVector
	}
	if f.dim == 0 {
		f.dim = len(vec)
	}
	if len(vec) != f.dim {
		return fmt.Errorf("%w: row %d has %d, index has %d", ErrDimensionMismatch, len(f.rows), len(vec), f.dim)
	}
	f.rows = append(f.rows, vec)
	return nil
}

// AddAll appends vectors in order, stopping at the first invalid one
func (f *Flat) AddAll(vectors [][]float32) error {
	for _, vec := range vectors {
		if err := f.Add(vec); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of rows
func (f *Flat) Len() int {
	return len(f.rows)
}

// Dim returns the vector dimension, 0 while the index is empty and unsized
func (f *Flat) Dim() int {
	return f.dim
}

// Search returns the min(k, Len) rows with the highest inner product,
// sorted by descending score. Ties go to the lower row index.
func (f *Flat) Search(query []float32, k int) ([]Match, error) {
	if k < 1 {
		return nil, ErrInvalidK
	}
	if len(f.rows) == 0 {
		return nil, nil
	}
	if len(query) != f.dim {
		return nil, fmt.Errorf("%w: query has %d, index has %d", ErrDimensionMismatch, len(query), f.dim)
	}

	matches := make([]Match, len(f.rows))
	for i, row := range f.rows {
		matches[i] = Match{Row: i, Score: dot(query, row)}
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Score > matches[b].Score
	})

	if k > len(matches) {
		k = len(matches)
	}
	return matches[:k:k], nil
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
