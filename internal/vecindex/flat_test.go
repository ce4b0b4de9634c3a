package vecindex

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatAdd(t *testing.T) {
	f := NewFlat(0)
	assert.Equal(t, 0, f.Dim())

	require.NoError(t, f.Add([]float32{1, 0, 0}))
	assert.Equal(t, 3, f.Dim())
	assert.Equal(t, 1, f.Len())

	err := f.Add([]float32{1, 0})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
	assert.Equal(t, 1, f.Len())

	assert.ErrorIs(t, f.Add(nil), ErrEmptyVector)
}

func TestFlatFixedDim(t *testing.T) {
	f := NewFlat(2)
	assert.ErrorIs(t, f.Add([]float32{1, 2, 3}), ErrDimensionMismatch)
	require.NoError(t, f.Add([]float32{1, 2}))
}

func TestFlatSearch(t *testing.T) {
	f := NewFlat(0)
	require.NoError(t, f.AddAll([][]float32{
		{1, 0},
		{0, 1},
		{0.6, 0.8},
		{-1, 0},
	}))

	tests := []struct {
		name     string
		query    []float32
		k        int
		wantRows []int
	}{
		{"best first", []float32{1, 0}, 4, []int{0, 2, 1, 3}},
		{"k limits", []float32{0, 1}, 2, []int{1, 2}},
		{"k larger than rows", []float32{0, 1}, 10, []int{1, 2, 0, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.Search(tt.query, tt.k)
			require.NoError(t, err)
			rows := make([]int, len(got))
			for i, m := range got {
				rows[i] = m.Row
			}
			assert.Equal(t, tt.wantRows, rows)
		})
	}
}

func TestFlatSearchScores(t *testing.T) {
	f := NewFlat(0)
	require.NoError(t, f.AddAll([][]float32{{0.6, 0.8}, {1, 0}}))

	got, err := f.Search([]float32{1, 0}, 2)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got[0].Score, 1e-6)
	assert.InDelta(t, 0.6, got[1].Score, 1e-6)
}

func TestFlatSearchTiesKeepRowOrder(t *testing.T) {
	f := NewFlat(0)
	for i := 0; i < 5; i++ {
		require.NoError(t, f.Add([]float32{0, 1}))
	}

	got, err := f.Search([]float32{0, 1}, 5)
	require.NoError(t, err)
	for i, m := range got {
		assert.Equal(t, i, m.Row)
	}
}

func TestFlatSearchErrors(t *testing.T) {
	f := NewFlat(0)

	got, err := f.Search([]float32{1}, 3)
	require.NoError(t, err)
	assert.Empty(t, got, "empty index returns no matches")

	require.NoError(t, f.Add([]float32{1, 0}))
	_, err = f.Search([]float32{1, 0, 0}, 1)
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = f.Search([]float32{1, 0}, 0)
	assert.ErrorIs(t, err, ErrInvalidK)
}

func TestFlatSearchSortedDescending(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	f := NewFlat(16)
	for i := 0; i < 200; i++ {
		vec := make([]float32, 16)
		for j := range vec {
			vec[j] = rng.Float32()*2 - 1
		}
		require.NoError(t, f.Add(vec))
	}
	query := make([]float32, 16)
	query[3] = 1

	got, err := f.Search(query, 50)
	require.NoError(t, err)
	require.Len(t, got, 50)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
}

func BenchmarkFlatSearch(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	f := NewFlat(384)
	for i := 0; i < 10000; i++ {
		vec := make([]float32, 384)
		for j := range vec {
			vec[j] = rng.Float32()
		}
		_ = f.Add(vec)
	}
	query := make([]float32, 384)
	query[0] = 1

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := f.Search(query, 10); err != nil {
			b.Fatal(err)
		}
	}
}
