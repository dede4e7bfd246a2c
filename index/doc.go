// Package index defines a minimal abstraction for in-memory vector indexes
// that can be built from embeddings, queried for kNN, and serialized.
// The brute-force implementation serves as exact ground truth when checking
// search results from a store.
package index
