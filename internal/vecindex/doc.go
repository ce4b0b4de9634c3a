// Package vecindex provides an exact in-memory inner-product index.
//
// Flat scores the query against every stored row. With unit-length rows the
// inner product equals cosine similarity. Results come back best first; equal
// scores keep insertion order.
package vecindex
