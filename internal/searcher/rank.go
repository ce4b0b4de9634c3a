package searcher

import (
	"github.com/dshills/semfind/internal/vecindex"
	"github.com/dshills/semfind/pkg/types"
)

// Rank turns index matches into results. It keeps at most topK matches in
// the order given, then drops any scoring strictly below minScore. Matches
// must already be sorted best first.
func Rank(matches []vecindex.Match, corpus []types.Entry, topK int, minScore *float64) []types.Result {
	if topK < len(matches) {
		matches = matches[:topK]
	}

	results := make([]types.Result, 0, len(matches))
	for _, m := range matches {
		if minScore != nil && m.Score < *minScore {
			continue
		}
		if m.Row < 0 || m.Row >= len(corpus) {
			continue
		}
		rec := corpus[m.Row].Record
		results = append(results, types.Result{
			File:    rec.File,
			LineNum: rec.LineNum,
			Text:    rec.Text,
			Score:   m.Score,
		})
	}
	return results
}
