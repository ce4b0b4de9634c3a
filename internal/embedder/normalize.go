package embedder

import "math"

// Normalize scales v to unit L2 norm in place. A zero vector is left as is.
func Normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := 1 / math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) * inv)
	}
}

// NormalizeRows normalizes every row of m in place
func NormalizeRows(m [][]float32) {
	for _, row := range m {
		Normalize(row)
	}
}
