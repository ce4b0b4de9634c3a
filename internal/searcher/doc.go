// Package searcher answers semantic queries over a set of text files.
//
// A search builds (or loads from cache) the per-line index of every file,
// concatenates them in file order and scores every line against the query
// with an exact inner-product index. Vectors are unit length, so scores
// are cosine similarities in [-1, 1].
//
// # Ranking
//
// The top min(TopK, lines) matches are taken first, best first with ties
// in corpus order. MinScore is applied afterwards and removes any match
// scoring strictly below it, so a threshold can only shrink the result.
//
// # Usage
//
//	s := searcher.NewSearcher(builder, registry, nil)
//	resp, err := s.Search(ctx, searcher.Request{
//	    Query: "database connection",
//	    Files: []string{"app.log"},
//	    TopK:  5,
//	})
//	if err != nil {
//	    return err
//	}
//	for _, r := range resp.Results {
//	    fmt.Printf("%s:%d: %s (%.3f)\n", r.File, r.LineNum, r.Text, r.Score)
//	}
//
// An empty corpus returns no results without embedding the query.
package searcher
