// Package indexer builds per-line embedding indexes for text files.
//
// # Pipeline
//
// For each file the Builder:
//  1. Hashes the content and derives the cache key from the absolute path,
//     the digest and the model name (skipped with Reindex or NoCache).
//  2. Returns the cached entries on a hit.
//  3. Otherwise reads the file once, splits it into lines and drops lines
//     that are empty after trimming whitespace. Line numbers count the
//     dropped lines, so they always match the file.
//  4. Embeds the remaining lines, normalizes every vector to unit length
//     and pairs it with its line record.
//  5. Saves the entries under the key of the bytes that were read, unless
//     NoCache is set or the file had no lines.
//
// # Concurrency
//
// IndexFiles runs BuildIndex for many files on a bounded errgroup. Results
// keep the input order regardless of the worker count, and the first error
// cancels the rest.
//
// # Usage
//
//	b := indexer.New(store, registry, &indexer.Config{Workers: 4})
//	fi, err := b.BuildIndex(ctx, "notes.txt", indexer.Options{Model: embedder.DefaultModel})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(fi.Len(), "lines", fi.FromCache)
package indexer
