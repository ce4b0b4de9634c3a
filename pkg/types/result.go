package types

// scoreTolerance absorbs float32 rounding on unit vectors whose inner
// product lands a hair outside [-1, 1].
const scoreTolerance = 1e-4

// Result represents a single ranked match
type Result struct {
	File    string  `json:"file"`
	LineNum int     `json:"line_num"`
	Text    string  `json:"text"`
	Score   float64 `json:"score"` // Inner product of unit vectors, higher is more similar
}

// Validate checks if the result is well formed
func (r *Result) Validate() error {
	if r.File == "" {
		return ErrMissingFile
	}

	if r.LineNum < 1 {
		return ErrInvalidLineNum
	}

	if r.Score < -1-scoreTolerance || r.Score > 1+scoreTolerance {
		return ErrInvalidScore
	}

	return nil
}
